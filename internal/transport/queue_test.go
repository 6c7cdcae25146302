package transport

import (
	"testing"

	"github.com/nanohft/hftsim/internal/mdfeed"
)

func TestLockedQueueNeverDrops(t *testing.T) {
	q := NewLockedQueue()
	for i := 0; i < 10000; i++ {
		if !q.Push(mdfeed.Event{Symbol: i}) {
			t.Fatalf("push %d should always succeed", i)
		}
	}
	if q.Drops() != 0 {
		t.Fatalf("drops = %d, want 0", q.Drops())
	}
	if q.Depth() != 10000 {
		t.Fatalf("depth = %d, want 10000", q.Depth())
	}
}

func TestLockedQueueFIFOOrder(t *testing.T) {
	q := NewLockedQueue()
	for i := 0; i < 100; i++ {
		q.Push(mdfeed.Event{Symbol: i})
	}
	for i := 0; i < 100; i++ {
		ev, ok := q.Pop()
		if !ok || ev.Symbol != i {
			t.Fatalf("pop %d: got %+v, ok=%v", i, ev, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatalf("pop on empty queue should fail")
	}
}

func TestLockedQueueMaxDepth(t *testing.T) {
	q := NewLockedQueue()
	for i := 0; i < 50; i++ {
		q.Push(mdfeed.Event{Symbol: i})
	}
	for i := 0; i < 40; i++ {
		q.Pop()
	}
	if q.MaxDepth() != 50 {
		t.Fatalf("max depth = %d, want 50", q.MaxDepth())
	}
	if q.Depth() != 10 {
		t.Fatalf("depth = %d, want 10", q.Depth())
	}
}

func TestLockedQueueUnboundedCapacity(t *testing.T) {
	q := NewLockedQueue()
	if q.Capacity() != 0 {
		t.Fatalf("capacity = %d, want 0 (unbounded)", q.Capacity())
	}
}
