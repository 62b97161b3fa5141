package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/adapters/telemetry"
)

type collector struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (c *collector) add(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, data)
}

func (c *collector) joined() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s string
	for _, ch := range c.chunks {
		s += string(ch)
	}
	return s
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chunks)
}

func TestBatchProcessor_FlushOnSize(t *testing.T) {
	t.Parallel()

	var c collector
	bp := telemetry.NewBatchProcessor(5, time.Hour, c.add)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.count())

	_, err = bp.Write([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.count())
	assert.Equal(t, "abcdef", c.joined())
}

func TestBatchProcessor_FlushOnTime(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var c collector
		bp := telemetry.NewBatchProcessor(1<<20, 50*time.Millisecond, c.add)

		_, err := bp.Write([]byte("tick"))
		require.NoError(t, err)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, "tick", c.joined())

		require.NoError(t, bp.Close())
	})
}

func TestBatchProcessor_CloseFlushes(t *testing.T) {
	t.Parallel()

	var c collector
	bp := telemetry.NewBatchProcessor(0, time.Hour, c.add)

	_, err := bp.Write([]byte("pending"))
	require.NoError(t, err)
	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())

	assert.Equal(t, "pending", c.joined())
}

func TestBatchProcessor_WriteAfterClose(t *testing.T) {
	t.Parallel()

	bp := telemetry.NewBatchProcessor(0, 0, nil)
	require.NoError(t, bp.Close())

	_, err := bp.Write([]byte("late"))
	require.ErrorIs(t, err, telemetry.ErrBatcherClosed)
}

func TestBatchProcessor_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	var c collector
	bp := telemetry.NewBatchProcessor(16, time.Millisecond, c.add)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				_, _ = bp.Write([]byte("x"))
			}
		})
	}
	wg.Wait()
	require.NoError(t, bp.Close())

	assert.Len(t, c.joined(), 400)
}
