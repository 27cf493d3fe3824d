package ecs

import (
	"hash/fnv"
	"math/rand/v2"
)

// EntityID is an opaque 64-bit identifier. Equality and hashing use the raw
// bits directly; callers that construct an EntityID from a string get a
// stable hash, so two EntityIDFromString calls with the same string always
// collide (by design, for stable cross-session references to named
// entities).
type EntityID uint64

// EntityIDFromString derives a stable EntityID from a string via FNV-1a,
// grounded on Gekko3D/gekko's ecs.go, which hashes component type names the
// same way.
func EntityIDFromString(s string) EntityID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return EntityID(h.Sum64())
}

// idStream draws random EntityIDs from a seeded source, rejection-sampling
// against a predicate (normally "is this id already live") so the sequence
// is deterministic for a given seed and insertion/removal history.
type idStream struct {
	rng *rand.Rand
}

func newIDStream(seed1, seed2 uint64) *idStream {
	return &idStream{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// draw returns the first nonzero id produced by the stream for which taken
// reports false. It does not record the id; the caller makes it live.
func (s *idStream) draw(taken func(EntityID) bool) EntityID {
	for {
		id := EntityID(s.rng.Uint64())
		if id != 0 && !taken(id) {
			return id
		}
	}
}
