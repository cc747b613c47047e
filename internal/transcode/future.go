package transcode

import (
	"context"
	"sync"
)

// Future is the pending result of one transcode job: the path of an
// in-profile audio file.
type Future struct {
	done chan struct{}
	once sync.Once
	path string
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future already completed with path.
func Resolved(path string) *Future {
	f := newFuture()
	f.resolve(path, nil)
	return f
}

func (f *Future) resolve(path string, err error) {
	f.once.Do(func() {
		f.path, f.err = path, err
		close(f.done)
	})
}

// Done is closed when the job has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the job finishes or ctx is cancelled.
func (f *Future) Wait(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.path, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
