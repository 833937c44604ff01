package workpool

import "fmt"

// StartError is the only error returned to callers, and only from pool
// construction. It reports how many workers were expected to pass setup
// against how many actually did.
//
// Receiving a StartError means the pool was not built: the workers that did
// start have already been shut down cleanly, so there is nothing to close.
type StartError struct {
	// Expected is the worker count requested at construction.
	Expected int
	// Started is the number of workers that completed setup.
	Started int
}

func (e *StartError) Error() string {
	return fmt.Sprintf("couldn't start all workers: expected %d but started %d", e.Expected, e.Started)
}
