package service

import (
	"sync"
)

const defaultExecutorWorkers = 4

// Executor is a bounded worker pool shared by every forecast call. It is
// owned by whoever starts the service: create it at startup, Stop it at
// shutdown. When more forecast calls run than the pool can serve, tasks
// queue rather than fail.
type Executor struct {
	tasks   chan func()
	workers int
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = defaultExecutorWorkers
	}
	return &Executor{
		tasks:   make(chan func(), workers*4),
		workers: workers,
	}
}

func (e *Executor) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for task := range e.tasks {
				task()
			}
		}()
	}
}

// Submit queues a task. Blocks when the queue is full, which is how
// back-pressure works here.
func (e *Executor) Submit(task func()) {
	e.tasks <- task
}

// Stop drains the queue and waits for in-flight tasks. Submitting after
// Stop panics, so shutdown ordering matters.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.stopped || !e.started {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()

	close(e.tasks)
	e.wg.Wait()
}
