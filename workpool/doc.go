// Package workpool provides a small, generic pool of lifecycle-driven workers
// for driving synthetic load against a backend under test.
//
// Unlike a conventional task pool, every worker here runs a three-stage
// lifecycle supplied by the caller:
//
//   - setup: runs once per worker and produces that worker's private state
//     (for example, a fresh connection to the server under test)
//   - process: runs once per job with exclusive access to the private state
//   - teardown: runs once when the worker is told to exit
//
// The private state is owned by exactly one worker goroutine for its whole
// lifetime, so lifecycle closures never need locks around it. Each worker
// goroutine is locked to its own OS thread for the lifetime of the pool.
//
// # Basic Usage
//
//	type session struct{ conn *Conn }
//
//	pool, err := workpool.New(4,
//	    func() session { return session{conn: dial()} },       // setup
//	    func(s *session, req []byte) { s.conn.Send(req) },     // process
//	    func(s *session) { s.conn.Close() },                   // teardown
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pool.Execute(req)
//	pool.Close()
//
// Lifecycle closures receive the state by pointer, so prefer a value struct
// for the state type (holding pointer fields as needed); a pointer state type
// works but leaves the closures handling a double pointer.
//
// # Bulk Submission
//
// ExecuteIter fans a whole collection into the pool. With WithIterPool the
// submission itself is parallelized across a submitter group sized to the
// worker count, owned by the pool:
//
//	pool, _ := workpool.New(8, setup, process, teardown, workpool.WithIterPool())
//	pool.ExecuteAndFinishIter(payloads) // submit everything, then shut down
//
// # Backpressure
//
// By default the job queue is unbounded. WithQueueCapacity bounds it, making
// Execute block whenever the queue is full:
//
//	pool, _ := workpool.New(2, setup, process, teardown, workpool.WithQueueCapacity(64))
//
// # Blueprints
//
// A Blueprint bundles the lifecycle closures and configuration once and stamps
// out any number of fully independent pools:
//
//	bp := workpool.NewBlueprint(8, setup, process, teardown, workpool.WithIterPool())
//	p1, _ := bp.NewPool()
//	p2, _ := bp.NewPoolWithWorkers(16)
//
// # Failure Model
//
// Construction is the only operation that returns an error: if any worker
// panics before finishing setup, New cleans up the workers that did start and
// returns a *StartError reporting the expected and actual counts.
//
// A panic in process or teardown terminates only the offending worker; the
// rest of the pool keeps going and the job that panicked is not redelivered.
// The recorded fault re-surfaces as a panic from Close when the worker is
// joined, so a caller that never closes the pool never observes it.
package workpool
