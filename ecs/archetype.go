package ecs

import (
	"sort"

	"github.com/TheBitDrifter/mask"
)

// ArchetypeID canonically identifies a set of component types, independent
// of the order they were declared in.
type ArchetypeID uint64

// Archetype is the set of ComponentTypeIDs present on an entity, held in
// canonical (sorted) order so two archetypes with the same set compare
// equal regardless of insertion order.
type Archetype struct {
	types []ComponentTypeID
	sig   mask.Mask
}

// newArchetype builds a canonical Archetype from a component bundle. It
// returns an InvalidArchetype error if two components share a type id.
func newArchetype(schema *schema, components []Component) (Archetype, error) {
	ids := make([]ComponentTypeID, 0, len(components))
	seen := make(map[ComponentTypeID]bool, len(components))
	var sig mask.Mask
	for _, c := range components {
		tid := c.ComponentTypeID()
		if seen[tid] {
			return Archetype{}, duplicateComponentError(tid)
		}
		seen[tid] = true
		ids = append(ids, tid)
		sig.Mark(schema.bitFor(tid))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return Archetype{types: ids, sig: sig}, nil
}

// ID derives this archetype's identity from its sorted type-id set.
func (a Archetype) ID() ArchetypeID {
	var h uint64 = 1469598103934665603 // fnv offset basis
	for _, t := range a.types {
		h ^= uint64(t)
		h *= 1099511628211 // fnv prime
	}
	return ArchetypeID(h)
}

// NComponents returns the number of component types in the archetype.
func (a Archetype) NComponents() int { return len(a.types) }

// Types returns the archetype's component type ids in canonical order.
func (a Archetype) Types() []ComponentTypeID {
	out := make([]ComponentTypeID, len(a.types))
	copy(out, a.types)
	return out
}

// Contains reports whether a is a superset of other (every type in other is
// present in a).
func (a Archetype) Contains(other Archetype) bool {
	return a.sig.ContainsAll(other.sig)
}

// ContainsType reports whether a includes the given component type.
func (a Archetype) ContainsType(id ComponentTypeID) bool {
	for _, t := range a.types {
		if t == id {
			return true
		}
	}
	return false
}

// ContainsNoneOf reports whether a shares no type with the given list.
func (a Archetype) ContainsNoneOf(disallowed []ComponentTypeID, sc *schema) bool {
	var dmask mask.Mask
	for _, id := range disallowed {
		dmask.Mark(sc.bitFor(id))
	}
	return a.sig.ContainsNone(dmask)
}

func duplicateComponentError(tid ComponentTypeID) error {
	return newInvalidArchetypeError(tid)
}

// newArchetypeFromTypes builds a canonical Archetype directly from a
// deduplicated type-id set, used by World's archetype-transition algorithm
// which already knows the destination type set without re-deriving it from
// Component values.
func newArchetypeFromTypes(sc *schema, ids []ComponentTypeID) Archetype {
	out := append([]ComponentTypeID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	var sig mask.Mask
	for _, id := range out {
		sig.Mark(sc.bitFor(id))
	}
	return Archetype{types: out, sig: sig}
}
