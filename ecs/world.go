package ecs

import "github.com/milk9111/thirdperson/ecs/component"

// World owns entities, their component stores, the game clock and event
// listeners.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet

	listeners    map[EventType][]listener
	nextListener int

	elapsed float64
	delta   float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		listeners: make(map[EventType][]listener),
	}
}

func (w *World) store(id component.ComponentID) *SparseSet {
	if w == nil {
		return nil
	}
	return w.stores[id]
}

func (w *World) ensureStore(id component.ComponentID) *SparseSet {
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Advance moves the game clock forward by dt seconds. It is called once per
// fixed step before the fixed systems run.
func (w *World) Advance(dt float64) {
	if w == nil || dt < 0 {
		return
	}
	w.delta = dt
	w.elapsed += dt
}

// Time returns the elapsed game time in seconds.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// DeltaTime returns the length of the current step in seconds.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}
