// Package shuffle provides deterministic, seeded permutations for exam
// question and option ordering. The same seed always yields the same
// sequence of permutations, which keeps rebuilds byte-identical.
package shuffle

import (
	"hash/fnv"
	"math/rand"
)

// Shuffler draws permutations from a single seeded stream. Draws are
// consumed in order, so shuffling questions first and then each question's
// options gives every question an independent option order.
type Shuffler struct {
	rng *rand.Rand
}

// New returns a Shuffler seeded with the given value.
func New(seed int64) *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewSource(seed))}
}

// Perm returns a pseudo-random permutation of [0, n).
func (s *Shuffler) Perm(n int) []int {
	return s.rng.Perm(n)
}

// SeedFromBytes derives a stable seed from file content using FNV-1a.
// Editing the exam file changes the seed; rebuilding an unchanged file
// does not.
func SeedFromBytes(data []byte) int64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return int64(h.Sum64()) // #nosec G115 -- bit reinterpretation is intentional
}
