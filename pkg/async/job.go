package async

import (
	"context"
)

// JobHandle is a running background task. Wait blocks until the job
// finishes and yields its outcome, Stop cancels the job's context.
type JobHandle[T any] struct {
	cancel func()
	done   chan Result[T]
}

// Job runs fn in its own goroutine. The logical flow that started it
// suspends in Wait, other work is not blocked.
func Job[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *JobHandle[T] {
	ctx, cancel := context.WithCancel(ctx)
	handle := &JobHandle[T]{
		cancel: cancel,
		done:   make(chan Result[T], 1),
	}

	go func() {
		defer cancel()

		value, err := fn(ctx)
		handle.done <- NewResult(value, err)
	}()

	return handle
}

func (j *JobHandle[T]) Stop() {
	j.cancel()
}

func (j *JobHandle[T]) Wait() (T, error) {
	return (<-j.done).Unpack()
}
