// Package telemetry bridges target spans to the renderer through OpenTelemetry.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultSizeLimit is the number of buffered bytes that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the longest time output stays buffered.
	DefaultTimeLimit = 50 * time.Millisecond
)

// ErrBatcherClosed is returned when writing to a closed BatchProcessor.
var ErrBatcherClosed = zerr.New("batch processor is closed")

// BatchProcessor collects span output and hands it to onFlush in chunks, either once
// sizeLimit bytes are buffered or every timeLimit. It is safe for concurrent use.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	ticker *time.Ticker
	done   chan struct{}
	closed bool
}

// NewBatchProcessor starts a BatchProcessor. Non-positive limits use the defaults.
// Close must be called to stop the flush goroutine.
func NewBatchProcessor(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *BatchProcessor {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	bp := &BatchProcessor{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		ticker:    time.NewTicker(timeLimit),
		done:      make(chan struct{}),
	}
	go bp.loop()
	return bp
}

// Write buffers p, flushing when the size limit is reached.
func (bp *BatchProcessor) Write(p []byte) (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, ErrBatcherClosed
	}

	n, _ := bp.buf.Write(p)
	if bp.buf.Len() >= bp.sizeLimit {
		bp.flushLocked()
		bp.ticker.Reset(bp.timeLimit)
	}
	return n, nil
}

// Flush hands any buffered output to the callback.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if !bp.closed {
		bp.flushLocked()
	}
}

// Close stops the flush goroutine after a final flush. Calling it twice is harmless.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true
	close(bp.done)
	bp.flushLocked()
	return nil
}

func (bp *BatchProcessor) loop() {
	defer bp.ticker.Stop()
	for {
		select {
		case <-bp.ticker.C:
			bp.Flush()
		case <-bp.done:
			return
		}
	}
}

// flushLocked requires bp.mu. The callback runs under the lock so chunks keep their order.
func (bp *BatchProcessor) flushLocked() {
	if bp.buf.Len() == 0 {
		return
	}
	data := bytes.Clone(bp.buf.Bytes())
	bp.buf.Reset()
	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}
