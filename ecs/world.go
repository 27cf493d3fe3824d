package ecs

import (
	"iter"
	"sync"

	"github.com/kamstrup/intmap"
)

// World owns the EntityID→ArchetypeID map, the ArchetypeID→ArchetypeTable
// registry, and the seeded PRNG stream used for random EntityID generation.
// Structural mutation (create/remove entity, add/remove component) is
// single-threaded by contract: callers must hold exclusive access to the
// World for the duration of such a call.
type World struct {
	mu       sync.RWMutex
	schema   *schema
	ids      *idStream
	entities *intmap.Map[uint64, ArchetypeID]
	tables   map[ArchetypeID]*ArchetypeTable
}

// NewWorld creates an empty World with a seeded random-id stream. The same
// seed pair always produces the same EntityID sequence for a given
// insertion/removal history.
func NewWorld(seed1, seed2 uint64) *World {
	return &World{
		schema:   newSchema(),
		ids:      newIDStream(seed1, seed2),
		entities: intmap.New[uint64, ArchetypeID](256),
		tables:   make(map[ArchetypeID]*ArchetypeTable),
	}
}

func (w *World) liveIDs() func(EntityID) bool {
	return func(id EntityID) bool {
		_, ok := w.entities.Get(uint64(id))
		return ok
	}
}

// CreateEntityWithID installs a single entity under a caller-chosen id.
// Fails with DuplicateID if id is already live, or InvalidArchetype if the
// bundle names a type twice.
func (w *World) CreateEntityWithID(id EntityID, components ...Component) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.entities.Get(uint64(id)); exists {
		return newDuplicateEntityError(id)
	}
	return w.install(id, components)
}

// CreateEntity installs a single entity under a fresh, rejection-sampled
// random id.
func (w *World) CreateEntity(components ...Component) (EntityID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.ids.draw(w.liveIDs())
	if err := w.install(id, components); err != nil {
		return 0, err
	}
	return id, nil
}

func (w *World) install(id EntityID, components []Component) error {
	arch, byType, n, err := buildBundle(w.schema, components)
	if err != nil {
		return err
	}
	if n != 1 {
		return newLengthMismatchError(1, n)
	}
	tbl, ok := w.tables[arch.ID()]
	if !ok {
		raw := make(map[ComponentTypeID]rawComponent, len(byType))
		for tid, col := range byType {
			b, _ := col.RowBytes(0)
			raw[tid] = rawComponent{Descriptor: col.Descriptor, Bytes: b}
		}
		tbl = newArchetypeTableFromRaw(w.schema, arch, id, raw)
		w.tables[arch.ID()] = tbl
	} else {
		if err := tbl.AddEntities(w.schema, []EntityID{id}, components); err != nil {
			return err
		}
	}
	w.entities.Put(uint64(id), arch.ID())
	return nil
}

// CreateEntities creates N entities sharing one archetype in a single
// batch, where N is the per-type element count shared by every item in
// bundle. Fails with InvalidArchetype if the counts disagree.
func (w *World) CreateEntities(bundle ...Component) ([]EntityID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	arch, byType, n, err := buildBundle(w.schema, bundle)
	if err != nil {
		return nil, err
	}
	ids := make([]EntityID, n)
	taken := w.liveIDs()
	for i := range ids {
		ids[i] = w.ids.draw(taken)
		w.entities.Put(uint64(ids[i]), arch.ID())
	}

	tbl, ok := w.tables[arch.ID()]
	if !ok {
		t := &ArchetypeTable{
			arch:        arch,
			byType:      byType,
			entityToRow: intmap.New[uint64, int](n),
			rows:        append([]EntityID(nil), ids...),
		}
		for i, id := range ids {
			t.entityToRow.Put(uint64(id), i)
		}
		w.tables[arch.ID()] = t
		return ids, nil
	}
	if err := tbl.AddEntities(w.schema, ids, bundle); err != nil {
		for _, id := range ids {
			w.entities.Del(uint64(id))
		}
		return nil, err
	}
	return ids, nil
}

// RemoveEntity removes id, dropping its owning table if that table becomes
// empty.
func (w *World) RemoveEntity(id EntityID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	archID, ok := w.entities.Get(uint64(id))
	if !ok {
		return newMissingEntityError(id)
	}
	tbl := w.tables[archID]
	if _, err := tbl.RemoveEntity(id); err != nil {
		return err
	}
	w.entities.Del(uint64(id))
	if tbl.IsEmpty() {
		delete(w.tables, archID)
	}
	return nil
}

// RemoveAllEntities clears every table and mapping.
func (w *World) RemoveAllEntities() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities = intmap.New[uint64, ArchetypeID](256)
	w.tables = make(map[ArchetypeID]*ArchetypeTable)
}

// EntityCount returns the number of live entities across all tables.
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities.Len()
}

// ArchetypeOf returns the Archetype currently owning id.
func (w *World) ArchetypeOf(id EntityID) (Archetype, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	archID, ok := w.entities.Get(uint64(id))
	if !ok {
		return Archetype{}, false
	}
	return w.tables[archID].Archetype(), true
}

// tableFor returns id's owning table under the World's read lock.
func (w *World) tableFor(id EntityID) (*ArchetypeTable, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	archID, ok := w.entities.Get(uint64(id))
	if !ok {
		return nil, false
	}
	return w.tables[archID], true
}

// AddComponentForEntity moves id to the archetype that adds c's type,
// following an always-remove-then-insert algorithm: extract the
// entity's current component bundle, add c to it, locate or create the
// destination table, insert. Fails if id is absent or already has c's type.
func (w *World) AddComponentForEntity(id EntityID, c Component) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	srcArchID, ok := w.entities.Get(uint64(id))
	if !ok {
		return newMissingEntityError(id)
	}
	srcTbl := w.tables[srcArchID]
	if srcTbl.Archetype().ContainsType(c.ComponentTypeID()) {
		return newComponentExistsError(id, c.ComponentTypeID())
	}

	raw, err := srcTbl.RemoveEntity(id)
	if err != nil {
		return err
	}
	if srcTbl.IsEmpty() {
		delete(w.tables, srcArchID)
	}

	newCol := c.buildColumn()
	newBytes, _ := newCol.RowBytes(0)
	raw[c.ComponentTypeID()] = rawComponent{Descriptor: newCol.Descriptor, Bytes: newBytes}

	ids := make([]ComponentTypeID, 0, len(raw))
	for tid := range raw {
		ids = append(ids, tid)
	}
	dstArch := newArchetypeFromTypes(w.schema, ids)

	dstTbl, ok := w.tables[dstArch.ID()]
	if !ok {
		dstTbl = newArchetypeTableFromRaw(w.schema, dstArch, id, raw)
		w.tables[dstArch.ID()] = dstTbl
	} else {
		dstTbl.insertBundle(id, raw)
	}
	w.entities.Put(uint64(id), dstArch.ID())
	return nil
}

// RemoveComponentForEntity is the dual of AddComponentForEntity: it drops
// the component of type T from id, moving id to the resulting (smaller)
// archetype. Fails if id is absent or lacks T.
func RemoveComponentForEntity[T any](w *World, id EntityID, ct ComponentType[T]) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	srcArchID, ok := w.entities.Get(uint64(id))
	if !ok {
		return newMissingEntityError(id)
	}
	srcTbl := w.tables[srcArchID]
	if !srcTbl.Archetype().ContainsType(ct.ComponentTypeID()) {
		return newMissingComponentError(id, ct.ComponentTypeID())
	}

	raw, err := srcTbl.RemoveEntity(id)
	if err != nil {
		return err
	}
	if srcTbl.IsEmpty() {
		delete(w.tables, srcArchID)
	}
	delete(raw, ct.ComponentTypeID())

	if len(raw) == 0 {
		w.entities.Del(uint64(id))
		return nil
	}

	ids := make([]ComponentTypeID, 0, len(raw))
	for tid := range raw {
		ids = append(ids, tid)
	}
	dstArch := newArchetypeFromTypes(w.schema, ids)

	dstTbl, ok := w.tables[dstArch.ID()]
	if !ok {
		dstTbl = newArchetypeTableFromRaw(w.schema, dstArch, id, raw)
		w.tables[dstArch.ID()] = dstTbl
	} else {
		dstTbl.insertBundle(id, raw)
	}
	w.entities.Put(uint64(id), dstArch.ID())
	return nil
}

// FindTablesContainingArchetype lazily yields read guards (the tables
// themselves; callers use the table's own locking) whose archetype is a
// superset of the given type set.
func (w *World) FindTablesContainingArchetype(required ...ComponentTypeID) iter.Seq[*ArchetypeTable] {
	return w.FindTablesContainingArchetypeExceptDisallowed(required, nil)
}

// FindTablesContainingArchetypeExceptDisallowed additionally requires that
// matched tables share none of the disallowed component types.
func (w *World) FindTablesContainingArchetypeExceptDisallowed(required, disallowed []ComponentTypeID) iter.Seq[*ArchetypeTable] {
	reqArch := newArchetypeFromTypes(w.schema, required)
	return func(yield func(*ArchetypeTable) bool) {
		w.mu.RLock()
		tables := make([]*ArchetypeTable, 0, len(w.tables))
		for _, t := range w.tables {
			tables = append(tables, t)
		}
		w.mu.RUnlock()

		for _, t := range tables {
			if !t.Archetype().Contains(reqArch) {
				continue
			}
			if len(disallowed) > 0 && !t.Archetype().ContainsNoneOf(disallowed, w.schema) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}
