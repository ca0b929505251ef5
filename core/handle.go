package core

import "fmt"

// Handle identifies a body slot in the store
// Low 32 bits: slot index; high 32 bits: generation
// Generation starts at 1 so the zero Handle is never issued
type Handle uint64

// NoHandle is the zero Handle, never assigned to a live body
const NoHandle Handle = 0

// NewHandle packs slot index and generation
func NewHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index
func (h Handle) Index() uint32 {
	return uint32(h)
}

// Generation returns the slot generation the handle was issued for
func (h Handle) Generation() uint32 {
	return uint32(h >> 32)
}

func (h Handle) String() string {
	if h == NoHandle {
		return "body(none)"
	}
	return fmt.Sprintf("body(%d:%d)", h.Index(), h.Generation())
}
