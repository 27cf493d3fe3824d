package ecs

import "github.com/ionforge/simcore/simerr"

func newDuplicateEntityError(id EntityID) error {
	return simerr.New(simerr.DuplicateID, "entity %d already exists", id)
}

func newMissingEntityError(id EntityID) error {
	return simerr.New(simerr.MissingID, "entity %d does not exist", id)
}

func newInvalidArchetypeError(tid ComponentTypeID) error {
	return simerr.New(simerr.InvalidArchetype, "duplicate component type %d in bundle", tid)
}

func newLengthMismatchError(want, got int) error {
	return simerr.New(simerr.InvalidArchetype, "component bundle length %d does not match expected %d", got, want)
}

func newMissingComponentError(id EntityID, tid ComponentTypeID) error {
	return simerr.New(simerr.MissingID, "entity %d has no component of type %d", id, tid)
}

func newComponentExistsError(id EntityID, tid ComponentTypeID) error {
	return simerr.New(simerr.DuplicateID, "entity %d already has component of type %d", id, tid)
}

func newMissingArchetypeError(id ArchetypeID) error {
	return simerr.New(simerr.MissingID, "archetype %d does not exist", id)
}
