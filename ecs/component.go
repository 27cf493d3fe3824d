package ecs

import (
	"github.com/ionforge/simcore/ecs/internal/column"
)

// ComponentTypeID stably identifies a component type. External code declares
// component types and supplies a stable 64-bit id for each.
type ComponentTypeID uint64

// Component is a bundle item passed to World/ArchetypeTable operations: a
// single typed value (Value[T]) or a column of N typed values (Values[T]).
// The unexported methods seal the interface to this package's two
// constructors; external code declares component types through
// NewComponentType and supplies values through Value/Values, never by
// implementing Component directly.
type Component interface {
	ComponentTypeID() ComponentTypeID
	elementCount() int
	buildColumn() *column.Storage
}

// ComponentType is the external registration handle for a component type T:
// it carries the (type_id, size, alignment) descriptor and provides typed
// read/write accessors over a table's raw column bytes, asserting the
// requested type id matches the column's before casting.
type ComponentType[T any] struct {
	typeID ComponentTypeID
}

// NewComponentType registers a component type with a caller-chosen stable
// id. Callers typically derive the id the same way EntityIDFromString does
// (a stable hash of the type's name) but any stable uint64 is valid.
func NewComponentType[T any](id ComponentTypeID) ComponentType[T] {
	return ComponentType[T]{typeID: id}
}

func (c ComponentType[T]) ComponentTypeID() ComponentTypeID { return c.typeID }

func (c ComponentType[T]) descriptor() column.Descriptor {
	return column.DescriptorOf[T](uint64(c.typeID))
}

// Value wraps a component type with a concrete value, the unit World's
// entity-creation operations take as a "component".
type Value[T any] struct {
	Type  ComponentType[T]
	Value T
}

func (v Value[T]) ComponentTypeID() ComponentTypeID { return v.Type.typeID }
func (v Value[T]) elementCount() int                { return 1 }

func (v Value[T]) buildColumn() *column.Storage {
	s := column.New(v.Type.descriptor())
	s.AppendN(1)
	row, _ := s.RowBytes(0)
	copy(row, column.BytesOf(v.Value))
	return s
}

// Values wraps a component type with N concrete values, one per entity in a
// multi-entity creation batch.
type Values[T any] struct {
	Type  ComponentType[T]
	Items []T
}

func (v Values[T]) ComponentTypeID() ComponentTypeID { return v.Type.typeID }
func (v Values[T]) elementCount() int                { return len(v.Items) }

func (v Values[T]) buildColumn() *column.Storage {
	s := column.New(v.Type.descriptor())
	s.AppendN(len(v.Items))
	for i, item := range v.Items {
		row, _ := s.RowBytes(i)
		copy(row, column.BytesOf(item))
	}
	return s
}

// Get retrieves an immutable view of the T component for entity id in tbl.
// Returns ok=false if the entity is absent or tbl lacks T.
func (c ComponentType[T]) Get(tbl *ArchetypeTable, id EntityID) (*T, bool) {
	row, col, ok := tbl.locateColumn(id, c.typeID)
	if !ok {
		return nil, false
	}
	col.RLock()
	defer col.RUnlock()
	v, err := column.TypedSlot[T](col, row)
	if err != nil {
		return nil, false
	}
	cp := *v
	return &cp, true
}

// GetMut retrieves a mutable pointer to the T component for entity id in
// tbl and holds the column's write lock until the caller invokes the
// returned release func. Returns ok=false if absent.
func (c ComponentType[T]) GetMut(tbl *ArchetypeTable, id EntityID) (ptr *T, release func(), ok bool) {
	row, col, found := tbl.locateColumn(id, c.typeID)
	if !found {
		return nil, nil, false
	}
	col.Lock()
	v, err := column.TypedSlot[T](col, row)
	if err != nil {
		col.Unlock()
		return nil, nil, false
	}
	return v, col.Unlock, true
}

// GetComponentForEntity borrows an immutable view of the T component for
// entity id in w, resolving id's owning table first. Returns ok=false if
// the entity is absent or its table lacks T.
func GetComponentForEntity[T any](w *World, id EntityID, ct ComponentType[T]) (T, bool) {
	tbl, ok := w.tableFor(id)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := ct.Get(tbl, id)
	if !ok {
		var zero T
		return zero, false
	}
	return *v, true
}

// GetComponentForEntityMut acquires write access to the T component column
// for entity id. The caller must invoke the returned release func once done
// mutating.
func GetComponentForEntityMut[T any](w *World, id EntityID, ct ComponentType[T]) (ptr *T, release func(), ok bool) {
	tbl, found := w.tableFor(id)
	if !found {
		return nil, nil, false
	}
	return ct.GetMut(tbl, id)
}
