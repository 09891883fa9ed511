package usecase

import (
	"context"
	"sync"
)

// Background runs work detached from the request that started it. Shutdown
// waits on it before the database pool is closed.
type Background struct {
	wg sync.WaitGroup
}

func (b *Background) Go(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait blocks until every started task has returned or ctx is done.
func (b *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
