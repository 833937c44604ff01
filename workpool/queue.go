package workpool

import "sync"

// jobQueue is the multi-producer multi-consumer FIFO shared by every worker
// of one pool. push reports false once the queue has been discarded, which a
// submitter treats as a usage error; pop blocks until a unit is available.
//
// discard may only be called after every worker has been joined. It releases
// any submitter still blocked on a full bounded queue, dropping whatever
// units were left unconsumed.
type jobQueue[P any] interface {
	push(u jobUnit[P]) bool
	pop() jobUnit[P]
	discard()
}

func newJobQueue[P any](capacity int) jobQueue[P] {
	if capacity > 0 {
		return newBoundedQueue[P](capacity)
	}
	return newUnboundedQueue[P]()
}

// boundedQueue delivers jobs over a buffered channel, so a push into a full
// queue blocks until a worker frees a slot.
type boundedQueue[P any] struct {
	ch   chan jobUnit[P]
	done chan struct{}
}

func newBoundedQueue[P any](capacity int) *boundedQueue[P] {
	return &boundedQueue[P]{
		ch:   make(chan jobUnit[P], capacity),
		done: make(chan struct{}),
	}
}

func (q *boundedQueue[P]) push(u jobUnit[P]) bool {
	select {
	case q.ch <- u:
		return true
	case <-q.done:
		return false
	}
}

func (q *boundedQueue[P]) pop() jobUnit[P] {
	select {
	case u := <-q.ch:
		return u
	case <-q.done:
		// Unreachable while any worker lives; see discard contract.
		return jobUnit[P]{terminate: true}
	}
}

func (q *boundedQueue[P]) discard() {
	close(q.done)
}

// unboundedQueue grows without limit, so push never blocks. Jobs are kept in
// a slice drained from head; the slice is reset to reuse its backing array
// whenever the queue drains, and the array is released only at discard.
type unboundedQueue[P any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    []jobUnit[P]
	head     int
	done     bool
}

func newUnboundedQueue[P any]() *unboundedQueue[P] {
	q := &unboundedQueue[P]{}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

func (q *unboundedQueue[P]) push(u jobUnit[P]) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done {
		return false
	}
	q.items = append(q.items, u)
	q.nonEmpty.Signal()
	return true
}

func (q *unboundedQueue[P]) pop() jobUnit[P] {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) && !q.done {
		q.nonEmpty.Wait()
	}

	if q.head == len(q.items) {
		return jobUnit[P]{terminate: true}
	}

	u := q.items[q.head]
	q.items[q.head] = jobUnit[P]{} // release the payload for GC
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return u
}

func (q *unboundedQueue[P]) discard() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.done = true
	q.items = nil
	q.head = 0
	q.nonEmpty.Broadcast()
}
