package workpool

import (
	"runtime"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pool is a fixed-size set of lifecycle-driven workers sharing one job queue.
//
// A successfully constructed pool has exactly as many live workers as were
// requested, each past its setup stage and blocked awaiting a job. Submit
// work with Execute or ExecuteIter, then call Close to broadcast termination,
// run every worker's teardown and join every worker goroutine.
//
// A Pool owns its workers and the send side of its queue outright; cloning
// one (ClonePool) runs the full construction protocol rather than sharing
// any part of the original.
//
// Type parameters:
//   - S: The worker-private state type produced by setup
//   - P: The job payload type consumed by process
type Pool[S any, P any] struct {
	workers []*worker[S, P]
	queue   jobQueue[P]
	lc      lifecycle[S, P]
	conf    poolConfig
	limiter *rate.Limiter
	count   int
	closed  atomic.Bool
}

// New creates a pool of count workers and blocks until every one of them has
// finished its setup stage.
//
// count must be at least 1; violating that is a contract error and panics.
// The three lifecycle closures are described on their named types. Options
// configure queue bounding, bulk submission, pacing and CPU pinning.
//
// Each worker sends exactly one startup report, ready or failed-before-ready,
// and New waits for exactly count reports. If any worker panicked during
// setup, New shuts the surviving workers down (teardown included), and
// returns a *StartError carrying the expected and actual counts.
//
// Example:
//
//	pool, err := workpool.New(4,
//	    func() int { return 0 },                   // setup
//	    func(acc *int, delta int) { *acc += delta }, // process
//	    func(acc *int) {},                         // teardown
//	    workpool.WithQueueCapacity(256),
//	)
func New[S any, P any](
	count int,
	setup SetupFunc[S],
	process ProcessFunc[S, P],
	teardown TeardownFunc[S],
	opts ...Option,
) (*Pool[S, P], error) {
	var cfg poolConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	lc := lifecycle[S, P]{setup: setup, process: process, teardown: teardown}
	return newPool(count, lc, cfg)
}

// NewDefaultThreads creates a pool sized for the host: twice the number of
// logical processors, minimum 1.
func NewDefaultThreads[S any, P any](
	setup SetupFunc[S],
	process ProcessFunc[S, P],
	teardown TeardownFunc[S],
	opts ...Option,
) (*Pool[S, P], error) {
	return New(defaultWorkerCount(), setup, process, teardown, opts...)
}

func defaultWorkerCount() int {
	return max(runtime.GOMAXPROCS(0)*2, 1)
}

// newPool runs the construction protocol shared by New, ClonePool and
// Blueprint stamping.
func newPool[S any, P any](count int, lc lifecycle[S, P], cfg poolConfig) (*Pool[S, P], error) {
	if count < 1 {
		panic("workpool: worker count must be at least 1")
	}

	p := &Pool[S, P]{
		workers: make([]*worker[S, P], 0, count),
		queue:   newJobQueue[P](cfg.queueCapacity),
		lc:      lc,
		conf:    cfg,
		count:   count,
	}
	// Each pool owns its token bucket; a limiter built at option time would be
	// shared by every pool stamped from the same blueprint.
	if cfg.jobsPerSecond > 0 && cfg.rateLimitBurst > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.jobsPerSecond), cfg.rateLimitBurst)
	}

	env := workerEnv[S, P]{
		queue:   p.queue,
		lc:      lc,
		limiter: p.limiter,
		pin:     cfg.pinWorkers,
	}

	ready := make(chan startReport, count)
	for i := range count {
		w := newWorker[S, P](i)
		p.workers = append(p.workers, w)
		go w.run(env, ready)
	}

	started := 0
	for range count {
		if r := <-ready; r.err == nil {
			started++
		}
	}

	if started != count {
		// The workers that did start are alive and blocked on the queue;
		// stop them before reporting failure so nothing leaks.
		p.stopWorkers()
		return nil, &StartError{Expected: count, Started: started}
	}

	debugLog("pool started with %d workers (queue capacity %d)", count, cfg.queueCapacity)
	return p, nil
}

// Execute enqueues one job. It blocks while a bounded queue is full, applying
// backpressure to the submitter. Calling Execute on a closed pool is a usage
// error and panics.
func (p *Pool[S, P]) Execute(job P) {
	if p.closed.Load() {
		panic("workpool: Execute called on closed pool")
	}
	if !p.queue.push(jobUnit[P]{task: job}) {
		// The queue only closes after shutdown has joined every worker.
		panic("workpool: job queue closed")
	}
}

// ExecuteIter enqueues every item of a collection. With the iterator pool
// provisioned (WithIterPool), items are fanned in by up to as many submitter
// goroutines as the pool has workers; otherwise they are enqueued one by one.
//
// There is no guarantee which worker processes which item, or in what order
// items from different submitters interleave, only that every item is
// eventually enqueued.
func (p *Pool[S, P]) ExecuteIter(items []P) {
	if !p.conf.iterPool || len(items) <= 1 {
		for _, item := range items {
			p.Execute(item)
		}
		return
	}

	chunk := (len(items) + p.count - 1) / p.count

	var g errgroup.Group
	g.SetLimit(p.count)
	for part := range slices.Chunk(items, chunk) {
		g.Go(func() error {
			for _, item := range part {
				p.Execute(item)
			}
			return nil
		})
	}
	// Submitters only push; they cannot fail with an error.
	_ = g.Wait()
}

// ExecuteAndFinishIter enqueues every item and then closes the pool, so it
// returns only once every item has been processed and every worker has run
// teardown and exited.
func (p *Pool[S, P]) ExecuteAndFinishIter(items []P) {
	p.ExecuteIter(items)
	p.Close()
}

// ClonePool builds a brand-new pool from this pool's lifecycle closures and
// configuration by running the full construction protocol, including the
// startup rendezvous and its failure mode. The clone shares no queue, worker
// or state with the original.
func (p *Pool[S, P]) ClonePool() (*Pool[S, P], error) {
	return newPool(p.count, p.lc, p.conf)
}

// WorkerCount returns the number of workers fixed at construction.
func (p *Pool[S, P]) WorkerCount() int {
	return p.count
}

// Close shuts the pool down: it enqueues exactly as many termination
// sentinels as workers were constructed (regardless of how many are still
// alive), joins every worker goroutine, then discards the queue along with
// any surplus sentinels left by workers that had already faulted.
//
// Pending jobs already in the queue are processed before the sentinels behind
// them, so Close returns only after all submitted work is done.
//
// If any worker recorded a fault, Close re-raises it as a panic once every
// worker has been joined, the same way joining a crashed thread would.
// Close is idempotent: calls after the first return immediately.
func (p *Pool[S, P]) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.stopWorkers()

	for _, w := range p.workers {
		if w.fault != nil {
			panic(w.fault)
		}
	}
}

// stopWorkers broadcasts termination and joins every worker.
//
// Sentinels are pushed from a helper goroutine: with a bounded queue and dead
// workers, the surplus sentinels may never fit, and the discard after the
// joins is what releases the helper in that case.
func (p *Pool[S, P]) stopWorkers() {
	pushed := make(chan struct{})
	go func() {
		defer close(pushed)
		for range p.count {
			if !p.queue.push(jobUnit[P]{terminate: true}) {
				return
			}
		}
	}()

	for _, w := range p.workers {
		w.join()
	}
	p.queue.discard()
	<-pushed
	debugLog("pool stopped: %d workers joined", p.count)
}
