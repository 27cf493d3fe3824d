package voxel

import "github.com/kamstrup/intmap"

// chunkSet is an insertion-ordered set of ChunkIndex values, backed by an
// intmap for O(1) membership, used to track invalidated mesh chunk indices.
// Draining empties the set and returns its contents in insertion order,
// mirroring ecs.Stager's drain-queues idiom.
type chunkSet struct {
	present *intmap.Map[uint64, struct{}]
	order   []ChunkIndex
}

func newChunkSet() *chunkSet {
	return &chunkSet{present: intmap.New[uint64, struct{}](64)}
}

func (s *chunkSet) Add(idx ChunkIndex) {
	key := uint64(idx)
	if _, ok := s.present.Get(key); ok {
		return
	}
	s.present.Put(key, struct{}{})
	s.order = append(s.order, idx)
}

func (s *chunkSet) Contains(idx ChunkIndex) bool {
	_, ok := s.present.Get(uint64(idx))
	return ok
}

func (s *chunkSet) Len() int { return s.present.Len() }

// Drain returns the set's contents in insertion order and empties it.
func (s *chunkSet) Drain() []ChunkIndex {
	out := s.order
	s.order = nil
	s.present = intmap.New[uint64, struct{}](64)
	return out
}
