package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecutor(t *testing.T) {
	t.Run("runs every submitted task", func(t *testing.T) {
		executor := NewExecutor(3)
		executor.Start()

		var completed int64
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			executor.Submit(func() {
				defer wg.Done()
				atomic.AddInt64(&completed, 1)
			})
		}
		wg.Wait()
		executor.Stop()

		require.Equal(t, int64(20), atomic.LoadInt64(&completed))
	})

	t.Run("never exceeds the worker count", func(t *testing.T) {
		executor := NewExecutor(2)
		executor.Start()

		var inFlight, peak int64
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			executor.Submit(func() {
				defer wg.Done()
				current := atomic.AddInt64(&inFlight, 1)
				for {
					observed := atomic.LoadInt64(&peak)
					if current <= observed || atomic.CompareAndSwapInt64(&peak, observed, current) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&inFlight, -1)
			})
		}
		wg.Wait()
		executor.Stop()

		require.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
	})

	t.Run("stop waits for in-flight tasks", func(t *testing.T) {
		executor := NewExecutor(1)
		executor.Start()

		var done int64
		executor.Submit(func() {
			time.Sleep(20 * time.Millisecond)
			atomic.StoreInt64(&done, 1)
		})
		executor.Stop()

		require.Equal(t, int64(1), atomic.LoadInt64(&done))
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		executor := NewExecutor(2)
		executor.Start()
		executor.Start()
		executor.Stop()
		executor.Stop()
	})

	t.Run("zero worker count falls back to the default", func(t *testing.T) {
		executor := NewExecutor(0)
		executor.Start()
		defer executor.Stop()

		done := make(chan struct{})
		executor.Submit(func() { close(done) })
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task never ran")
		}
	})
}
