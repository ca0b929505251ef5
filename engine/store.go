package engine

import (
	"github.com/lixenwraith/nbody/core"
)

// slot maps a handle index to its dense position
// dense is -1 while the slot is free
type slot struct {
	dense      int
	generation uint32
}

// Store owns every body of the simulation
// Sparse set: bodies are packed densely for the O(N²) kernels, handles resolve through slots.
// Freed slots are reused LIFO with a bumped generation so stale handles fail lookup.
// Dense order is insertion order; removals compact in place without reordering.
// Store is not safe for concurrent use; Simulation serializes access.
type Store struct {
	bodies  []core.Body
	handles []core.Handle
	slots   []slot
	free    []uint32
}

// NewStore creates a store with preallocated capacity
func NewStore(capacity int) *Store {
	return &Store{
		bodies:  make([]core.Body, 0, capacity),
		handles: make([]core.Handle, 0, capacity),
		slots:   make([]slot, 0, capacity),
	}
}

// Insert adds a body and returns its fresh handle
func (s *Store) Insert(b core.Body) core.Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx].generation++
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{generation: 1})
	}

	h := core.NewHandle(idx, s.slots[idx].generation)
	s.slots[idx].dense = len(s.bodies)
	s.bodies = append(s.bodies, b)
	s.handles = append(s.handles, h)
	return h
}

// lookup returns the dense index for a live handle
func (s *Store) lookup(h core.Handle) (int, bool) {
	idx := h.Index()
	if h == core.NoHandle || int(idx) >= len(s.slots) {
		return 0, false
	}
	sl := s.slots[idx]
	if sl.dense < 0 || sl.generation != h.Generation() {
		return 0, false
	}
	return sl.dense, true
}

// Valid reports whether h refers to a live body
func (s *Store) Valid(h core.Handle) bool {
	_, ok := s.lookup(h)
	return ok
}

// Get returns a copy of the body for h
func (s *Store) Get(h core.Handle) (core.Body, bool) {
	i, ok := s.lookup(h)
	if !ok {
		return core.Body{}, false
	}
	return s.bodies[i], true
}

// Set replaces the body for h
func (s *Store) Set(h core.Handle, b core.Body) bool {
	i, ok := s.lookup(h)
	if !ok {
		return false
	}
	s.bodies[i] = b
	return true
}

// Remove destroys the body for h
func (s *Store) Remove(h core.Handle) bool {
	i, ok := s.lookup(h)
	if !ok {
		return false
	}
	s.release(h)
	copy(s.bodies[i:], s.bodies[i+1:])
	copy(s.handles[i:], s.handles[i+1:])
	s.bodies = s.bodies[:len(s.bodies)-1]
	s.handles = s.handles[:len(s.handles)-1]
	s.reindex(i)
	return true
}

// RemoveBatch destroys multiple bodies in a single compaction pass - O(n+m) vs O(n*m) for individual removes
// Unknown or stale handles are ignored; returns number removed
func (s *Store) RemoveBatch(handles []core.Handle) int {
	removed := 0
	for _, h := range handles {
		if _, ok := s.lookup(h); ok {
			s.release(h)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}

	// Released slots have dense = -1; compact survivors in order
	w := 0
	for r, h := range s.handles {
		if s.slots[h.Index()].dense < 0 {
			continue
		}
		s.bodies[w] = s.bodies[r]
		s.handles[w] = h
		w++
	}
	s.bodies = s.bodies[:w]
	s.handles = s.handles[:w]
	s.reindex(0)
	return removed
}

// release frees the slot of a live handle
func (s *Store) release(h core.Handle) {
	s.slots[h.Index()].dense = -1
	s.free = append(s.free, h.Index())
}

// reindex refreshes slot → dense mapping from position from onward
func (s *Store) reindex(from int) {
	for i := from; i < len(s.handles); i++ {
		s.slots[s.handles[i].Index()].dense = i
	}
}

// Clear destroys every body; all outstanding handles become stale
func (s *Store) Clear() {
	for _, h := range s.handles {
		s.release(h)
	}
	s.bodies = s.bodies[:0]
	s.handles = s.handles[:0]
}

// Len returns the number of live bodies
func (s *Store) Len() int {
	return len(s.bodies)
}

// Bodies returns the dense body slice
// Borrowed view: valid until the next Insert/Remove/Clear
func (s *Store) Bodies() []core.Body {
	return s.bodies
}

// Handles returns handles parallel to Bodies, same lifetime rules
func (s *Store) Handles() []core.Handle {
	return s.handles
}

// HandleAt returns the handle of the body at dense index i
func (s *Store) HandleAt(i int) core.Handle {
	return s.handles[i]
}

// Each calls fn for every live body in dense order
// fn must not mutate the store
func (s *Store) Each(fn func(h core.Handle, b *core.Body)) {
	for i := range s.bodies {
		fn(s.handles[i], &s.bodies[i])
	}
}
