package services

import (
	"context"
	"errors"
	"route-cost-service/internal/platform/obs"
	"route-cost-service/internal/routing"
	"runtime"
	"sync"
)

var ErrPoolShutdown = errors.New("solver pool has been shut down")

type solveReply struct {
	res *OptimizeResult
	err error
}

type solveJob struct {
	ctx   context.Context
	in    OptimizeInput
	reply chan solveReply
}

// SolverPool runs optimizations on a fixed set of workers so concurrent
// requests cannot start more searches than there are workers. Each job is a
// request/response message; workers share nothing but the options.
type SolverPool struct {
	opts routing.SolverOptions

	jobs chan solveJob
	quit chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

var _ RouteSolver = (*SolverPool)(nil)

// NewSolverPool starts workers (NumCPU when <= 0) with a queue of twice
// that size.
func NewSolverPool(workers int, opts routing.SolverOptions) *SolverPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &SolverPool{
		opts: opts,
		jobs: make(chan solveJob, workers*2),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	return p
}

func (p *SolverPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobs:
			p.run(job)
		case <-p.quit:
			// Fail whatever is still queued.
			for {
				select {
				case job := <-p.jobs:
					obs.SolverQueueDepth.Dec()
					job.reply <- solveReply{err: ErrPoolShutdown}
				default:
					return
				}
			}
		}
	}
}

func (p *SolverPool) run(job solveJob) {
	obs.SolverQueueDepth.Dec()

	if err := job.ctx.Err(); err != nil {
		job.reply <- solveReply{err: err}
		return
	}
	res, err := OptimizeRoute(job.ctx, job.in, p.opts)
	job.reply <- solveReply{res: res, err: err}
}

// Solve queues the job and waits for its result. Canceling ctx abandons the
// wait and stops the search at its next budget check.
func (p *SolverPool) Solve(ctx context.Context, in OptimizeInput) (*OptimizeResult, error) {
	select {
	case <-p.quit:
		return nil, ErrPoolShutdown
	default:
	}

	job := solveJob{ctx: ctx, in: in, reply: make(chan solveReply, 1)}

	obs.SolverQueueDepth.Inc()
	select {
	case p.jobs <- job:
	case <-ctx.Done():
		obs.SolverQueueDepth.Dec()
		return nil, ctx.Err()
	case <-p.quit:
		obs.SolverQueueDepth.Dec()
		return nil, ErrPoolShutdown
	}

	select {
	case r := <-job.reply:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		// Workers are gone; a reply may still have been posted.
		select {
		case r := <-job.reply:
			return r.res, r.err
		default:
			return nil, ErrPoolShutdown
		}
	}
}

// Shutdown stops accepting jobs, lets running searches finish and fails
// queued ones. It returns early with ctx's error if ctx ends first.
func (p *SolverPool) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.quit) })

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
