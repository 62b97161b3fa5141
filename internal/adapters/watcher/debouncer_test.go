package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/adapters/watcher"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) add(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) snapshot() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.got...)
}

func TestDebouncer_CoalescesAndSorts(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("src/c.txt")
		d.Add("src/a.txt")
		d.Add("src/b.txt")
		d.Add("src/a.txt")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"src/a.txt", "src/b.txt", "src/c.txt"}}, b.snapshot())
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("a.txt")
		time.Sleep(60 * time.Millisecond)
		d.Add("b.txt")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.snapshot())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, [][]string{{"a.txt", "b.txt"}}, b.snapshot())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("a.txt")
		d.Flush()
		require.Equal(t, [][]string{{"a.txt"}}, b.snapshot())

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, b.snapshot(), 1)

		d.Add("b.txt")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, [][]string{{"a.txt"}, {"b.txt"}}, b.snapshot())
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	t.Parallel()

	var b batches
	d := watcher.NewDebouncer(time.Second, b.add)
	d.Flush()
	assert.Empty(t, b.snapshot())
}

func TestDebouncer_FlushAfterFire(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(50*time.Millisecond, b.add)

		d.Add("a.txt")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Flush()

		assert.Len(t, b.snapshot(), 1)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)
		d.Add("a.txt")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
