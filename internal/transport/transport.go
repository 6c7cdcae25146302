package transport

import "github.com/nanohft/hftsim/internal/mdfeed"

// Queue is implemented by both Ring and LockedQueue so the engine can swap
// transports by mode without branching on the concrete type.
type Queue interface {
	Push(ev mdfeed.Event) bool
	Pop() (mdfeed.Event, bool)
	Depth() uint64
	Capacity() uint64
	Drops() uint64
	MaxDepth() uint64
}

var (
	_ Queue = (*Ring)(nil)
	_ Queue = (*LockedQueue)(nil)
)
