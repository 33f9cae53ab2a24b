package service

import (
	"context"
	"sync"
)

type GroupTask func(ctx context.Context) error

// RunGroup starts the tasks with a common context derived from parent.
// The channel returns the result of every task and is closed after the last one.
func RunGroup(parent context.Context, tasks ...GroupTask) (_ <-chan error, cancel func()) {

	var (
		wg    sync.WaitGroup
		ctx   context.Context
		chErr = make(chan error, len(tasks))
	)

	ctx, cancel = context.WithCancel(parent)

	for _, task := range tasks {
		wg.Add(1)
		go func(fn GroupTask) {
			defer wg.Done()
			chErr <- fn(ctx)
		}(task)
	}

	go func() {
		wg.Wait()
		close(chErr)
	}()

	return chErr, cancel
}

// Task returns the group task serving the service until the group context is done
func Task(serve func() error, closer interface{ Close() error }) GroupTask {
	return func(ctx context.Context) error {

		done := make(chan struct{})
		defer close(done)

		go func() {
			select {
			case <-ctx.Done():
				closer.Close()
			case <-done:
			}
		}()

		return serve()
	}
}
