// Package transport provides the two interchangeable market-data queues:
// a bounded lock-free SPSC ring (optimized mode) and an unbounded
// mutex-guarded FIFO (naive mode).
package transport

import (
	"sync/atomic"

	"github.com/nanohft/hftsim/internal/mdfeed"
)

// defaultCapacity is used whenever the requested capacity isn't a power of two.
const defaultCapacity = 1024

// cacheLinePad is sized so head and tail land on distinct cache lines,
// preventing false sharing between the producer and consumer.
type cacheLinePad [64 - 8]byte

// Ring is a single-producer/single-consumer bounded circular buffer.
// Push is called only by the producer goroutine, Pop only by the consumer.
type Ring struct {
	capacity uint64
	mask     uint64
	buf      []mdfeed.Event

	head uint64
	_    cacheLinePad
	tail uint64
	_    cacheLinePad

	drops    atomic.Uint64
	maxDepth atomic.Uint64
}

// NewRing creates a ring of the given capacity. A non-power-of-two capacity
// silently falls back to 1024.
func NewRing(capacity int) *Ring {
	c := uint64(capacity)
	if c == 0 || c&(c-1) != 0 {
		c = defaultCapacity
	}
	return &Ring{
		capacity: c,
		mask:     c - 1,
		buf:      make([]mdfeed.Event, c),
	}
}

// Push attempts to enqueue ev. Returns false and increments Drops if the
// ring is full; the new event is dropped, not the oldest.
func (r *Ring) Push(ev mdfeed.Event) bool {
	head := atomic.LoadUint64(&r.head)
	next := head + 1
	tail := atomic.LoadUint64(&r.tail) // acquire

	if next-tail > r.capacity {
		r.drops.Add(1)
		return false
	}

	r.buf[head&r.mask] = ev
	atomic.StoreUint64(&r.head, next) // release

	depth := next - tail
	if depth > r.maxDepth.Load() {
		r.maxDepth.Store(depth)
	}
	return true
}

// Pop dequeues the oldest event. Returns false if the ring is empty.
func (r *Ring) Pop() (mdfeed.Event, bool) {
	tail := atomic.LoadUint64(&r.tail)
	head := atomic.LoadUint64(&r.head) // acquire
	if tail == head {
		return mdfeed.Event{}, false
	}

	ev := r.buf[tail&r.mask]
	atomic.StoreUint64(&r.tail, tail+1) // release
	return ev, true
}

// Depth returns the current number of queued events.
func (r *Ring) Depth() uint64 {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	return head - tail
}

// Capacity returns the ring's effective capacity.
func (r *Ring) Capacity() uint64 { return r.capacity }

// Drops returns the number of pushes rejected because the ring was full.
func (r *Ring) Drops() uint64 { return r.drops.Load() }

// MaxDepth returns the high-water mark of observed depth.
func (r *Ring) MaxDepth() uint64 { return r.maxDepth.Load() }
