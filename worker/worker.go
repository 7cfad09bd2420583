package worker

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/climber/oerror"
)

// Pool runs CPU bound tasks on a fixed number of goroutines. Panics inside tasks are reported to sentry
// and do not take the worker down.
type Pool struct {
	queue chan func()
	log   *slog.Logger

	workers   sync.WaitGroup
	closeOnce sync.Once
}

// NewPool starts a pool with n workers. A non-positive n uses one worker per CPU.
func NewPool(n int, log *slog.Logger) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &Pool{queue: make(chan func(), n), log: log}
	p.workers.Add(n)
	for range n {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for f := range p.queue {
		p.exec(f)
	}
}

// exec runs f, reporting a panic instead of propagating it. It returns false if f panicked.
func (p *Pool) exec(f func()) (ok bool) {
	defer func() {
		if err := recover(); err != nil {
			sentry.CurrentHub().Recover(err)
			p.log.Error("worker task panicked", "err", err)
			ok = false
		}
	}()
	f()
	return true
}

// Submit queues f to be run by a worker. It blocks while every worker is busy and the queue is full.
func (p *Pool) Submit(f func()) {
	p.queue <- f
}

// Run runs every task on the pool and waits for all of them to return. An error is returned if any of
// the tasks panicked.
func (p *Pool) Run(tasks ...func()) error {
	var (
		wg       sync.WaitGroup
		panicked atomic.Int32
	)
	wg.Add(len(tasks))
	for _, task := range tasks {
		p.Submit(func() {
			defer wg.Done()
			if !p.exec(task) {
				panicked.Add(1)
			}
		})
	}
	wg.Wait()

	if n := panicked.Load(); n > 0 {
		return oerror.New("%d of %d tasks panicked", n, len(tasks))
	}
	return nil
}

// Close stops the workers once the queued tasks have run. Submitting after Close panics.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
		p.workers.Wait()
	})
}
