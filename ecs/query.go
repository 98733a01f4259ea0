package ecs

import "github.com/milk9111/thirdperson/ecs/component"

// Kind is satisfied by every component.ComponentKind.
type Kind interface {
	ID() component.ComponentID
}

// Query returns the live entities that carry every kind. Iteration is
// driven by the smallest store.
func Query(w *World, kinds ...Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID())
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}

	var out []Entity
	for _, id := range smallest.snapshot() {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		all := true
		for _, s := range sets {
			if s != smallest && !s.Has(id) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	return out
}
