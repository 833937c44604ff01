package workpool

// Option is a functional option for configuring a Pool or Blueprint.
type Option func(*poolConfig)

type poolConfig struct {
	queueCapacity  int
	iterPool       bool
	jobsPerSecond  float64
	rateLimitBurst int
	pinWorkers     bool
}

// WithQueueCapacity bounds the job queue to the given capacity. Execute then
// blocks the submitter whenever the queue is full (backpressure), which keeps
// a fast submitter from outrunning the workers without bound.
// If not specified, the queue is unbounded and Execute never blocks.
func WithQueueCapacity(capacity int) Option {
	return func(cfg *poolConfig) {
		if capacity > 0 {
			cfg.queueCapacity = capacity
		}
	}
}

// WithIterPool provisions a submission group for bulk delivery, sized to the
// pool's worker count and owned by the pool. ExecuteIter then enqueues items
// from that many concurrent submitter goroutines instead of one loop.
// The group is used only for submission, never for job processing.
func WithIterPool() Option {
	return func(cfg *poolConfig) {
		cfg.iterPool = true
	}
}

// WithRateLimit paces job processing across the whole pool.
// jobsPerSecond is the sustained rate, burst the number of jobs that may run
// back to back. Useful when the server under test should see a controlled
// load rather than the maximum the workers can generate.
// Each constructed pool gets its own token bucket, so pools stamped from one
// blueprint (or cloned) pace independently at the configured rate.
// If not specified, workers process jobs as fast as they arrive.
func WithRateLimit(jobsPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if jobsPerSecond > 0 && burst > 0 {
			cfg.jobsPerSecond = jobsPerSecond
			cfg.rateLimitBurst = burst
		}
	}
}

// WithCPUPinning pins each worker's OS thread to a CPU core (worker i to core
// i modulo the core count). Workers are always locked to their own OS thread;
// this additionally fixes which core that thread runs on, on platforms that
// support it. If not specified, thread placement is left to the kernel.
func WithCPUPinning() Option {
	return func(cfg *poolConfig) {
		cfg.pinWorkers = true
	}
}
