package ecs

import (
	"sort"
	"sync"

	"github.com/ionforge/simcore/ecs/internal/column"
	"github.com/ionforge/simcore/simerr"
	"github.com/kamstrup/intmap"
)

// ArchetypeTable is dense, columnar storage for all entities sharing one
// Archetype. Readers obtain a shared guard to the whole table via RLock;
// structural changes (add/remove rows) take the exclusive Lock. Individual
// columns carry their own lock so distinct component columns of the same
// table can be written concurrently.
type ArchetypeTable struct {
	mu          sync.RWMutex
	arch        Archetype
	byType      map[ComponentTypeID]*column.Storage
	entityToRow *intmap.Map[uint64, int]
	rows        []EntityID
}

func buildBundle(sc *schema, components []Component) (Archetype, map[ComponentTypeID]*column.Storage, int, error) {
	if len(components) == 0 {
		return Archetype{}, nil, 0, newLengthMismatchError(1, 0)
	}
	arch, err := newArchetype(sc, components)
	if err != nil {
		return Archetype{}, nil, 0, err
	}
	n := components[0].elementCount()
	byType := make(map[ComponentTypeID]*column.Storage, len(components))
	for _, c := range components {
		if c.elementCount() != n {
			return Archetype{}, nil, 0, newLengthMismatchError(n, c.elementCount())
		}
		byType[c.ComponentTypeID()] = c.buildColumn()
	}
	return arch, byType, n, nil
}

// newArchetypeTable atomically installs a non-empty initial batch.
func newArchetypeTable(sc *schema, entityIDs []EntityID, components []Component) (*ArchetypeTable, error) {
	arch, byType, n, err := buildBundle(sc, components)
	if err != nil {
		return nil, err
	}
	if len(entityIDs) != n {
		return nil, newLengthMismatchError(len(entityIDs), n)
	}
	t := &ArchetypeTable{
		arch:        arch,
		byType:      byType,
		entityToRow: intmap.New[uint64, int](n),
		rows:        append([]EntityID(nil), entityIDs...),
	}
	for i, id := range entityIDs {
		t.entityToRow.Put(uint64(id), i)
	}
	return t, nil
}

// AddEntities appends rows to an existing table; the incoming bundle's
// archetype must equal this table's archetype.
func (t *ArchetypeTable) AddEntities(sc *schema, entityIDs []EntityID, components []Component) error {
	arch, byType, n, err := buildBundle(sc, components)
	if err != nil {
		return err
	}
	if arch.ID() != t.arch.ID() {
		return simerrInvalidArchetype()
	}
	if len(entityIDs) != n {
		return newLengthMismatchError(len(entityIDs), n)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	base := len(t.rows)
	for tid, col := range byType {
		existing := t.byType[tid]
		for i := 0; i < col.Len(); i++ {
			row, _ := col.RowBytes(i)
			_ = existing.Append(row)
		}
	}
	for i, id := range entityIDs {
		t.entityToRow.Put(uint64(id), base+i)
	}
	t.rows = append(t.rows, entityIDs...)
	return nil
}

// RemoveEntity swap-removes id's row, returning that row's components as
// raw bytes plus descriptor per type, keyed by ComponentTypeID, for callers
// (e.g. World's archetype-transition algorithm) that reinsert them as-is.
// No typed view of the removed values is returned; callers that need one
// read it before removal.
func (t *ArchetypeTable) RemoveEntity(id EntityID) (map[ComponentTypeID]rawComponent, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.entityToRow.Get(uint64(id))
	if !ok {
		return nil, newMissingEntityError(id)
	}

	removed := make(map[ComponentTypeID]rawComponent, len(t.byType))
	lastRow := len(t.rows) - 1
	movedEntity := t.rows[lastRow]

	for tid, col := range t.byType {
		b, err := col.SwapRemove(row)
		if err != nil {
			return nil, err
		}
		removed[tid] = rawComponent{Descriptor: col.Descriptor, Bytes: b}
	}

	if row != lastRow {
		t.rows[row] = movedEntity
		t.entityToRow.Put(uint64(movedEntity), row)
	}
	t.rows = t.rows[:lastRow]
	t.entityToRow.Del(uint64(id))

	return removed, nil
}

// IsEmpty reports whether the table currently holds zero entities.
func (t *ArchetypeTable) IsEmpty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows) == 0
}

func (t *ArchetypeTable) Archetype() Archetype { return t.arch }
func (t *ArchetypeTable) NComponents() int     { return t.arch.NComponents() }

// Len returns the number of entities currently held.
func (t *ArchetypeTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Entities returns a snapshot of the entity ids held, in row order.
func (t *ArchetypeTable) Entities() []EntityID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]EntityID, len(t.rows))
	copy(out, t.rows)
	return out
}

// locateColumn finds id's row and the column for typeID, taking the table's
// read lock only long enough to resolve the row index.
func (t *ArchetypeTable) locateColumn(id EntityID, typeID ComponentTypeID) (int, *column.Storage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.entityToRow.Get(uint64(id))
	if !ok {
		return 0, nil, false
	}
	col, ok := t.byType[typeID]
	if !ok {
		return 0, nil, false
	}
	return row, col, true
}

// rawComponent is a single component instance's raw bytes plus the
// descriptor needed to reconstruct a column for it, used when World moves
// an entity's components between tables during an archetype transition.
type rawComponent struct {
	Descriptor column.Descriptor
	Bytes      []byte
}

func (t *ArchetypeTable) insertBundle(entityID EntityID, bundle map[ComponentTypeID]rawComponent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row := len(t.rows)
	ids := make([]ComponentTypeID, 0, len(bundle))
	for tid := range bundle {
		ids = append(ids, tid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, tid := range ids {
		_ = t.byType[tid].Append(bundle[tid].Bytes)
	}
	t.rows = append(t.rows, entityID)
	t.entityToRow.Put(uint64(entityID), row)
}

// newArchetypeTableFromRaw builds a fresh single-entity table directly from
// already-extracted raw component bytes, used by World's archetype
// transition when the destination table does not yet exist.
func newArchetypeTableFromRaw(sc *schema, arch Archetype, entityID EntityID, bundle map[ComponentTypeID]rawComponent) *ArchetypeTable {
	byType := make(map[ComponentTypeID]*column.Storage, len(bundle))
	for tid, rc := range bundle {
		col := column.New(rc.Descriptor)
		_ = col.Append(rc.Bytes)
		byType[tid] = col
	}
	t := &ArchetypeTable{
		arch:        arch,
		byType:      byType,
		entityToRow: intmap.New[uint64, int](1),
		rows:        []EntityID{entityID},
	}
	t.entityToRow.Put(uint64(entityID), 0)
	return t
}

func simerrInvalidArchetype() error {
	return simerr.New(simerr.InvalidArchetype, "component bundle archetype does not match the table's archetype")
}
