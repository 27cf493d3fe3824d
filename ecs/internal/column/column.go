// Package column is the raw-byte columnar storage backing ArchetypeTable: an
// explicit (type_id, size, alignment) descriptor with raw-byte per-type
// columns rather than a reflection-based store. Typed accessors in the ecs
// package assert requested_type_id == column.TypeID before casting.
package column

import (
	"fmt"
	"sync"
	"unsafe"
)

// Descriptor is a component type's stable identity plus its fixed layout.
type Descriptor struct {
	TypeID uint64
	Size   uintptr
	Align  uintptr
}

// Storage is a contiguous byte buffer holding zero or more instances of one
// component type, in declaration order. Writes to existing rows take the
// embedded mutex so independent columns of the same ArchetypeTable can be
// mutated by different goroutines concurrently.
type Storage struct {
	sync.RWMutex
	Descriptor Descriptor
	buf        []byte
}

// New creates an empty column for the given descriptor.
func New(d Descriptor) *Storage {
	return &Storage{Descriptor: d}
}

// Len returns the number of stored elements.
func (s *Storage) Len() int {
	if s.Descriptor.Size == 0 {
		return 0
	}
	return len(s.buf) / int(s.Descriptor.Size)
}

// Append grows the column by one element, copying raw bytes from src which
// must be exactly Descriptor.Size bytes.
func (s *Storage) Append(src []byte) error {
	if uintptr(len(src)) != s.Descriptor.Size {
		return fmt.Errorf("column: element size mismatch: got %d want %d", len(src), s.Descriptor.Size)
	}
	s.buf = append(s.buf, src...)
	return nil
}

// AppendN appends count zero-valued elements, used when creating components
// that are populated immediately afterward by bulk copy.
func (s *Storage) AppendN(count int) {
	s.buf = append(s.buf, make([]byte, count*int(s.Descriptor.Size))...)
}

// RowBytes returns a mutable view of row i's raw bytes. The caller must hold
// whatever lock governs concurrent access; Storage itself does not lock
// single-row access since ArchetypeTable coordinates column-level locking.
func (s *Storage) RowBytes(row int) ([]byte, error) {
	if row < 0 || row >= s.Len() {
		return nil, fmt.Errorf("column: row %d out of range [0,%d)", row, s.Len())
	}
	sz := int(s.Descriptor.Size)
	off := row * sz
	return s.buf[off : off+sz : off+sz], nil
}

// SwapRemove removes row i by swapping the last row into its place and
// truncating, returning the removed row's bytes. This is the swap-remove
// discipline ArchetypeTable.RemoveEntity relies on to keep all columns'
// entity orderings in lockstep.
func (s *Storage) SwapRemove(row int) ([]byte, error) {
	removed, err := s.RowBytes(row)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(removed))
	copy(out, removed)

	sz := int(s.Descriptor.Size)
	lastOff := (s.Len() - 1) * sz
	if row*sz != lastOff {
		copy(s.buf[row*sz:row*sz+sz], s.buf[lastOff:lastOff+sz])
	}
	s.buf = s.buf[:lastOff]
	return out, nil
}

// TypedSlot reinterprets row i's bytes as *T. The caller must verify
// s.Descriptor.TypeID against the expected ComponentTypeID first; this
// function only asserts the size matches to catch registration bugs.
func TypedSlot[T any](s *Storage, row int) (*T, error) {
	b, err := s.RowBytes(row)
	if err != nil {
		return nil, err
	}
	var zero T
	if uintptr(unsafe.Sizeof(zero)) != s.Descriptor.Size {
		return nil, fmt.Errorf("column: size mismatch for typed access: %d != %d", unsafe.Sizeof(zero), s.Descriptor.Size)
	}
	return (*T)(unsafe.Pointer(&b[0])), nil
}

// BytesOf copies a value of type T into its raw-byte representation, used
// when appending a new component instance into a column.
func BytesOf[T any](v T) []byte {
	sz := unsafe.Sizeof(v)
	b := make([]byte, sz)
	copy(b, unsafe.Slice((*byte)(unsafe.Pointer(&v)), sz))
	return b
}

// DescriptorOf derives a Descriptor for T given a stable type id.
func DescriptorOf[T any](typeID uint64) Descriptor {
	var zero T
	return Descriptor{
		TypeID: typeID,
		Size:   unsafe.Sizeof(zero),
		Align:  unsafe.Alignof(zero),
	}
}
