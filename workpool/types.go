package workpool

// SetupFunc produces one worker's private state. It runs exactly once per
// worker, on that worker's own goroutine, before the worker accepts any job.
//
// Type parameters:
//   - S: The worker-private state type
type SetupFunc[S any] func() S

// ProcessFunc performs one unit of work. It receives exclusive access to the
// worker's private state along with one job payload; no other goroutine ever
// touches the same state value.
//
// Type parameters:
//   - S: The worker-private state type
//   - P: The job payload type
type ProcessFunc[S any, P any] func(state *S, job P)

// TeardownFunc releases one worker's private state when the worker exits,
// for example by closing a connection opened during setup.
//
// Type parameters:
//   - S: The worker-private state type
type TeardownFunc[S any] func(state *S)

// lifecycle bundles the three caller-supplied stages so they travel together
// through construction, cloning and blueprint stamping.
type lifecycle[S any, P any] struct {
	setup    SetupFunc[S]
	process  ProcessFunc[S, P]
	teardown TeardownFunc[S]
}

// jobUnit is the discriminated payload carried on the job queue: either one
// task or the termination sentinel that makes a worker run teardown and exit.
// Each unit is consumed by exactly one worker.
type jobUnit[P any] struct {
	task      P
	terminate bool
}
