package workpool

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_SetupFaultReportsStartError(t *testing.T) {
	t.Run("one worker fails", func(t *testing.T) {
		var setups atomic.Int32
		var teardowns atomic.Int32

		pool, err := New(3,
			func() int {
				if setups.Add(1) == 1 {
					panic("setup exploded")
				}
				return 0
			},
			func(_ *int, _ int) {},
			func(_ *int) { teardowns.Add(1) },
		)
		if pool != nil {
			t.Fatal("expected nil pool on startup failure")
		}

		var se *StartError
		if !errors.As(err, &se) {
			t.Fatalf("expected *StartError, got %T: %v", err, err)
		}
		if se.Expected != 3 || se.Started != 2 {
			t.Errorf("expected StartError{3, 2}, got {%d, %d}", se.Expected, se.Started)
		}

		// The two workers that did start must have been shut down cleanly.
		if got := teardowns.Load(); got != 2 {
			t.Errorf("expected 2 teardown calls on cleanup, got %d", got)
		}
	})

	t.Run("all workers fail", func(t *testing.T) {
		_, err := New(2,
			func() int { panic("nothing starts") },
			func(_ *int, _ int) {},
			func(_ *int) {},
		)
		var se *StartError
		if !errors.As(err, &se) {
			t.Fatalf("expected *StartError, got %T: %v", err, err)
		}
		if se.Expected != 2 || se.Started != 0 {
			t.Errorf("expected StartError{2, 0}, got {%d, %d}", se.Expected, se.Started)
		}
	})

	t.Run("error message reports both counts", func(t *testing.T) {
		err := &StartError{Expected: 4, Started: 1}
		msg := err.Error()
		if !strings.Contains(msg, "4") || !strings.Contains(msg, "1") {
			t.Errorf("error message missing counts: %q", msg)
		}
	})
}

func TestProcessFault_TerminatesOnlyThatWorker(t *testing.T) {
	const poison = -1

	var processed atomic.Int32
	setup, process, teardown := noState(func(job int) {
		if job == poison {
			panic("poisoned job")
		}
		processed.Add(1)
	})

	pool, err := New(2, setup, process, teardown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Execute(poison)

	// Give the poisoned job time to kill its worker, then keep the survivor busy.
	time.Sleep(50 * time.Millisecond)
	for i := range 20 {
		pool.Execute(i)
	}

	fault := closePool(pool)
	if fault == nil {
		t.Fatal("expected Close to re-raise the worker fault")
	}
	if !strings.Contains(fmt.Sprint(fault), "process stage panic") {
		t.Errorf("fault should identify the process stage, got: %v", fault)
	}
	if got := processed.Load(); got != 20 {
		t.Errorf("surviving worker should have processed 20 jobs, got %d", got)
	}
}

func TestClose_FaultSurfacesOnlyAtClose(t *testing.T) {
	setup, process, teardown := noState(func(job int) {
		if job == 0 {
			panic("boom")
		}
	})

	pool, err := New(2, setup, process, teardown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Execute(0)
	time.Sleep(50 * time.Millisecond)

	// Submission keeps working after the fault; nothing surfaces yet.
	pool.Execute(1)
	pool.Execute(2)

	if fault := closePool(pool); fault == nil {
		t.Fatal("expected Close to re-raise the worker fault")
	}
}

func TestClose_AllWorkersDeadDoesNotHang(t *testing.T) {
	setup, process, teardown := noState(func(int) { panic("every job kills its worker") })

	pool, err := New(2, setup, process, teardown, WithQueueCapacity(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Execute(1)
	pool.Execute(2)
	time.Sleep(50 * time.Millisecond)

	// Both workers are gone and the bounded queue cannot hold both
	// sentinels; Close must still terminate and surface a fault.
	done := make(chan any, 1)
	go func() { done <- closePool(pool) }()

	select {
	case fault := <-done:
		if fault == nil {
			t.Error("expected Close to re-raise a worker fault")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close hung with dead workers and a full bounded queue")
	}
}

func TestTeardownFault_SurfacesAtClose(t *testing.T) {
	pool, err := New(1,
		func() int { return 0 },
		func(_ *int, _ int) {},
		func(_ *int) { panic("teardown exploded") },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fault := closePool(pool)
	if fault == nil {
		t.Fatal("expected Close to re-raise the teardown fault")
	}
	if !strings.Contains(fmt.Sprint(fault), "teardown stage panic") {
		t.Errorf("fault should identify the teardown stage, got: %v", fault)
	}
}

func TestPoisonedJob_NotRedelivered(t *testing.T) {
	const poison = 99

	var poisonRuns atomic.Int32
	setup, process, teardown := noState(func(job int) {
		if job == poison {
			poisonRuns.Add(1)
			panic("poisoned job")
		}
	})

	pool, err := New(4, setup, process, teardown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Execute(poison)
	for i := range 50 {
		pool.Execute(i)
	}
	_ = closePool(pool)

	if got := poisonRuns.Load(); got != 1 {
		t.Errorf("poisoned job delivered %d times, expected exactly 1", got)
	}
}

func TestWorkerStates_ReflectLifecycle(t *testing.T) {
	gate := make(chan struct{})
	setup, process, teardown := noState(func(int) { <-gate })

	pool, err := New(1, setup, process, teardown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := pool.workers[0]

	waitForState := func(want int32) bool {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if w.state.Load() == want {
				return true
			}
			time.Sleep(time.Millisecond)
		}
		return false
	}

	if !waitForState(stateLooping) {
		t.Fatalf("worker never reached the looping state, got %d", w.state.Load())
	}

	pool.Execute(1)
	if !waitForState(stateProcessing) {
		t.Fatalf("worker never reached the processing state, got %d", w.state.Load())
	}

	close(gate)
	pool.Close()
	if got := w.state.Load(); got != stateExited {
		t.Errorf("worker state after close = %d, expected exited", got)
	}
}
