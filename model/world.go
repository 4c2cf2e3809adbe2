package model

import (
	"iter"
	"slices"
)

// World is the entity arena. Destroying an entity removes its record; every
// lookup tolerates ids that have vanished.
type World struct {
	entities map[EntityID]*Entity
	order    []EntityID // ascending, so iteration is deterministic
	nextID   EntityID
}

func NewWorld() *World {
	return &World{
		entities: make(map[EntityID]*Entity),
		nextID:   1,
	}
}

// Add assigns the next id to e and stores it.
func (w *World) Add(e *Entity) EntityID {
	e.ID = w.nextID
	w.nextID++
	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)
	return e.ID
}

func (w *World) Get(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Remove deletes the record. Returns false if it was already gone.
func (w *World) Remove(id EntityID) bool {
	if _, ok := w.entities[id]; !ok {
		return false
	}
	delete(w.entities, id)
	if i, found := slices.BinarySearch(w.order, id); found {
		w.order = slices.Delete(w.order, i, i+1)
	}
	return true
}

// All yields entities in ascending id order. Entities removed during the
// iteration are skipped.
func (w *World) All() iter.Seq[*Entity] {
	ids := slices.Clone(w.order)
	return func(yield func(*Entity) bool) {
		for _, id := range ids {
			e, ok := w.entities[id]
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Count returns how many entities satisfy match.
func (w *World) Count(match func(*Entity) bool) int {
	n := 0
	for _, e := range w.entities {
		if match(e) {
			n++
		}
	}
	return n
}

func (w *World) Len() int { return len(w.entities) }

// Clear removes every entity. The id counter keeps running so stale ids held
// by collaborators never resolve to a new entity.
func (w *World) Clear() {
	clear(w.entities)
	w.order = w.order[:0]
}
