package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Source: http://marcio.io/2015/07/handling-1-million-requests-per-minute-with-golang/

// ErrClosed is returned by Submit after the dispatcher was closed
var ErrClosed = errors.New("worker dispatcher is closed")

// A Dispatcher of the workers list
type Dispatcher struct {
	// unbuffered: a task is accepted only when a worker received it
	jobQueue    chan ITask
	workersList []*worker

	quit      chan struct{}
	runOnce   sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewDispatcher create new workers dispatcher
func NewDispatcher(countWorkers int) *Dispatcher {

	if countWorkers <= 0 {
		countWorkers = runtime.NumCPU()
	}

	quit := make(chan struct{})
	jobQueue := make(chan ITask)
	workersList := make([]*worker, countWorkers)
	for i := 0; i < countWorkers; i++ {
		workersList[i] = newWorker(i, jobQueue, quit)
	}

	return &Dispatcher{
		jobQueue:    jobQueue,
		workersList: workersList,
		quit:        quit,
	}
}

// Size returns count of the workers
func (d *Dispatcher) Size() int {
	return len(d.workersList)
}

// Run a tasks processor
func (d *Dispatcher) Run() {
	d.runOnce.Do(func() {

		for i := 0; i < len(d.workersList); i++ {
			d.wg.Add(1)
			go func(w *worker) {
				defer d.wg.Done()
				w.run()
			}(d.workersList[i])
		}
	})
}

// Submit passes the task to the processor. It blocks until a worker
// accepted the task, the context is done or the dispatcher is closed.
// An accepted task is always invoked.
func (d *Dispatcher) Submit(ctx context.Context, task ITask) error {

	select {
	case <-d.quit:
		return ErrClosed
	default:
	}

	select {
	case d.jobQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.quit:
		return ErrClosed
	}
}

// Close stops a tasks processor. Running tasks are finished.
func (d *Dispatcher) Close() error {
	d.closeOnce.Do(func() {
		close(d.quit)
	})
	d.wg.Wait()
	return nil
}
