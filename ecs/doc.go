/*
Package ecs provides an archetypal Entity-Component-System store: a
columnar component table per archetype (the set of component types on an
entity), a World that maps entities to their owning archetype table and
handles archetype transitions on add/remove of component types, and a
Stager that buffers deferred create/remove requests so systems can register
structural changes mid-iteration without invalidating live tables.

Basic usage:

	world := ecs.NewWorld(1, 2)

	position := ecs.NewComponentType[Position](1)
	velocity := ecs.NewComponentType[Velocity](2)

	id, err := world.CreateEntity(
		ecs.Value[Position]{Type: position, Value: Position{X: 1}},
		ecs.Value[Velocity]{Type: velocity, Value: Velocity{X: 1}},
	)

	for tbl := range world.FindTablesContainingArchetype(position.ComponentTypeID(), velocity.ComponentTypeID()) {
		for _, e := range tbl.Entities() {
			pos, release, ok := ecs.GetComponentForEntityMut(world, e, position)
			if !ok {
				continue
			}
			vel, _ := ecs.GetComponentForEntity(world, e, velocity)
			pos.X += vel.X
			release()
		}
	}

ecs keeps the familiar archetype/table/query shape of a reflection-based
store but stores components as raw, descriptor-tagged byte columns instead
of relying on reflection.
*/
package ecs
