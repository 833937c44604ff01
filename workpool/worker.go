package workpool

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/skystress/workpool/internal/cpu"
)

// Worker lifecycle states. Exited is terminal: a faulted worker is never
// respawned and its job is never redelivered.
const (
	stateInitializing int32 = iota
	stateReady
	stateLooping
	stateProcessing
	stateExited
)

// startReport is one worker's contribution to the startup rendezvous: every
// worker sends exactly one report, carrying the setup fault if it never
// became ready. The constructor receives exactly count reports, so a worker
// that dies before setup completes is observed rather than waited on forever.
type startReport struct {
	worker int
	err    error
}

// worker owns one pool goroutine, locked to its own OS thread.
//
// done doubles as the thread handle: it is closed when the goroutine exits,
// and join consumes it at most once. fault is written only by the worker's
// own goroutine before done closes, so reading it after join is race-free.
type worker[S any, P any] struct {
	id     int
	done   chan struct{}
	joined bool
	fault  error
	state  atomic.Int32
}

func newWorker[S any, P any](id int) *worker[S, P] {
	return &worker[S, P]{
		id:   id,
		done: make(chan struct{}),
	}
}

// workerEnv is everything a worker needs beyond its own identity: the shared
// queue, the lifecycle closures and the pool-wide pacing/pinning settings.
type workerEnv[S any, P any] struct {
	queue   jobQueue[P]
	lc      lifecycle[S, P]
	limiter *rate.Limiter
	pin     bool
}

// run is the worker goroutine body: setup, one startup report, then the job
// loop until a termination sentinel or a fault.
func (w *worker[S, P]) run(env workerEnv[S, P], ready chan<- startReport) {
	defer close(w.done)

	unlock := cpu.LockWorkerThread(w.id, env.pin)
	defer unlock()

	var state S
	if err := w.runStage("setup", func() { state = env.lc.setup() }); err != nil {
		w.fault = err
		w.state.Store(stateExited)
		ready <- startReport{worker: w.id, err: err}
		return
	}

	w.state.Store(stateReady)
	ready <- startReport{worker: w.id}

	for {
		w.state.Store(stateLooping)
		u := env.queue.pop()

		if u.terminate {
			if err := w.runStage("teardown", func() { env.lc.teardown(&state) }); err != nil {
				w.fault = err
			}
			w.state.Store(stateExited)
			return
		}

		if env.limiter != nil {
			_ = env.limiter.Wait(context.Background())
		}

		w.state.Store(stateProcessing)
		if err := w.runStage("process", func() { env.lc.process(&state, u.task) }); err != nil {
			w.fault = err
			w.state.Store(stateExited)
			return
		}
	}
}

// runStage executes one lifecycle stage with panic recovery, converting a
// panic into an error with a stack trace instead of crashing the process.
func (w *worker[S, P]) runStage(stage string, fn func()) (err error) {
	debugLog("worker %d: entering %s stage", w.id, stage)
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker %d: %s stage panic: %v\nstack trace:\n%s", w.id, stage, r, buf[:n])
		}
	}()

	fn()
	return nil
}

// join waits for the worker goroutine to exit. The first call consumes the
// handle; later calls return immediately. Only the constructor and Close call
// join, never concurrently.
func (w *worker[S, P]) join() {
	if w.joined {
		return
	}
	<-w.done
	w.joined = true
}
