package workpool

// Blueprint is an immutable template bundling the three lifecycle closures,
// a worker count and the pool options, so that callers can stamp out any
// number of independent pools without restating the closures each time.
//
// Every stamped pool gets its own queue and its own worker goroutines;
// pools produced by one blueprint share no mutable state with each other
// or with the blueprint.
//
// Type parameters:
//   - S: The worker-private state type produced by setup
//   - P: The job payload type consumed by process
type Blueprint[S any, P any] struct {
	count int
	lc    lifecycle[S, P]
	conf  poolConfig
}

// NewBlueprint creates a pool template. count must be at least 1; violating
// that is a contract error and panics, the same check pool construction
// enforces.
func NewBlueprint[S any, P any](
	count int,
	setup SetupFunc[S],
	process ProcessFunc[S, P],
	teardown TeardownFunc[S],
	opts ...Option,
) Blueprint[S, P] {
	if count < 1 {
		panic("workpool: worker count must be at least 1")
	}
	var cfg poolConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return Blueprint[S, P]{
		count: count,
		lc:    lifecycle[S, P]{setup: setup, process: process, teardown: teardown},
		conf:  cfg,
	}
}

// NewPool stamps a pool at the blueprint's worker count. It runs the full
// construction protocol and is subject to the same startup failure mode as
// New.
func (b Blueprint[S, P]) NewPool() (*Pool[S, P], error) {
	return b.NewPoolWithWorkers(b.count)
}

// NewPoolWithWorkers stamps a pool with the blueprint's closures and options
// but a different worker count.
func (b Blueprint[S, P]) NewPoolWithWorkers(count int) (*Pool[S, P], error) {
	return newPool(count, b.lc, b.conf)
}

// WithProcess stamps a pool that substitutes the in-loop stage while keeping
// the blueprint's setup, teardown, count and options. Useful when several
// load patterns share one connection lifecycle.
func (b Blueprint[S, P]) WithProcess(process ProcessFunc[S, P]) (*Pool[S, P], error) {
	lc := b.lc
	lc.process = process
	return newPool(b.count, lc, b.conf)
}

// WorkerCount returns the worker count pools stamped by NewPool will have.
func (b Blueprint[S, P]) WorkerCount() int {
	return b.count
}
