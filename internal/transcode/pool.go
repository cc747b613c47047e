package transcode

import (
	"context"
	"runtime"
	"sync"
)

// Job is one unit of pool work producing a file path.
type Job func(ctx context.Context) (string, error)

// Pool bounds the number of jobs running at once.
type Pool struct {
	mu   sync.Mutex
	sem  chan struct{}
	size int
	wg   sync.WaitGroup
}

// NewPool returns a pool running at most size jobs at once. A size of zero
// or less uses the host's logical CPU count.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, size), size: size}
}

// Size returns the current worker limit.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// Resize changes the worker limit for jobs submitted from now on. Jobs
// already queued keep the limit they were submitted under.
func (p *Pool) Resize(size int) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if size == p.size {
		return
	}
	p.sem = make(chan struct{}, size)
	p.size = size
}

// Submit queues job and returns its future. The job does not start if ctx
// is cancelled while it waits for a worker slot.
func (p *Pool) Submit(ctx context.Context, job Job) *Future {
	f := newFuture()
	p.mu.Lock()
	sem := p.sem
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			f.resolve("", ctx.Err())
			return
		}
		defer func() { <-sem }()
		if err := ctx.Err(); err != nil {
			f.resolve("", err)
			return
		}
		path, err := job(ctx)
		f.resolve(path, err)
	}()
	return f
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

var (
	sharedMu sync.Mutex
	shared   *Pool
)

// Shared returns the process-wide pool, creating it at the host CPU count
// on first use.
func Shared() *Pool {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = NewPool(0)
	}
	return shared
}

// ConfigureShared sets the shared pool's worker limit, creating the pool if
// needed. The pool is never shrunk implicitly and never torn down.
func ConfigureShared(size int) *Pool {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = NewPool(size)
		return shared
	}
	shared.Resize(size)
	return shared
}
