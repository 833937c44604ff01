// Package cpu binds worker goroutines to OS threads and, where the platform
// allows it, to individual CPU cores.
package cpu

import "runtime"

// LockWorkerThread dedicates an OS thread to the calling goroutine for a
// worker's lifetime. With pin set, the thread is additionally pinned to core
// workerID modulo the core count on platforms that support thread affinity.
// The returned func releases the thread and should be deferred.
func LockWorkerThread(workerID int, pin bool) func() {
	runtime.LockOSThread()
	if pin {
		_ = pinToCore(workerID)
	}
	return runtime.UnlockOSThread
}
