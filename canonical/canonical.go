// Package canonical computes symmetry-independent position hashes: the
// minimum hash over every board rotation, reflection and player
// permutation a validator allows. It is expensive and meant to be called
// on demand, never while applying actions.
package canonical

import (
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/containerstate"
)

// SymmetryKind is a family of symmetries.
type SymmetryKind uint8

const (
	Rotation SymmetryKind = iota
	Reflection
	PlayerPermutation
)

// maxPermutedPlayers bounds the player permutations tried; games with more
// players only use the identity.
const maxPermutedPlayers = 4

// A SymmetryValidator decides which symmetries apply. index is the
// symmetry's position in its family and count the family's size. Index 0
// of rotations and player permutations is the identity, which always
// applies and is never asked about.
type SymmetryValidator interface {
	IsValid(kind SymmetryKind, index, count int) bool
}

// ValidatorFunc adapts a function to a SymmetryValidator.
type ValidatorFunc func(kind SymmetryKind, index, count int) bool

func (f ValidatorFunc) IsValid(kind SymmetryKind, index, count int) bool {
	return f(kind, index, count)
}

var (
	AllSymmetries = ValidatorFunc(func(SymmetryKind, int, int) bool { return true })
	RotationsOnly = ValidatorFunc(func(k SymmetryKind, _, _ int) bool { return k == Rotation })
	NoSymmetries  = ValidatorFunc(func(SymmetryKind, int, int) bool { return false })
)

// Hasher computes canonical hashes of containers in games with numPlayers
// players.
type Hasher struct {
	// id keeps this hasher's entries apart from those of other hashers
	// sharing the cache, whose validators may differ
	id        uint32
	validator SymmetryValidator
	cache     *Cache
	// perms[i][v] renames owner v; index 0 is the identity
	perms [][]int
}

var hasherIDs atomic.Uint32

// NewHasher creates a hasher. A nil cache means the global one.
func NewHasher(numPlayers int, v SymmetryValidator, c *Cache) *Hasher {
	if c == nil {
		c = globalCache()
	}
	if v == nil {
		v = NoSymmetries
	}
	h := &Hasher{id: hasherIDs.Add(1), validator: v, cache: c}
	perms := [][]int{lo.RangeFrom(1, numPlayers)}
	if numPlayers <= maxPermutedPlayers {
		perms = permutations(numPlayers)
	}
	h.perms = make([][]int, 0, len(perms))
	for i, p := range perms {
		if i != 0 && !v.IsValid(PlayerPermutation, i, len(perms)) {
			continue
		}
		// owner 0 and the shared owner numPlayers+1 are fixed
		remap := append(append([]int{0}, p...), numPlayers+1)
		h.perms = append(h.perms, remap)
	}
	return h
}

// permutations lists every ordering of 1..n in lexicographic order, so the
// identity comes first.
func permutations(n int) [][]int {
	var out [][]int
	cur := lo.RangeFrom(1, n)
	for {
		out = append(out, append([]int(nil), cur...))
		i := n - 2
		for i >= 0 && cur[i] >= cur[i+1] {
			i--
		}
		if i < 0 {
			return out
		}
		j := n - 1
		for cur[j] <= cur[i] {
			j--
		}
		cur[i], cur[j] = cur[j], cur[i]
		for a, b := i+1, n-1; a < b; a, b = a+1, b-1 {
			cur[a], cur[b] = cur[b], cur[a]
		}
	}
}

// Hash returns the minimum hash of cs over all valid symmetries. With
// whoOnly set, only owners are considered.
func (h *Hasher) Hash(cs containerstate.ContainerState, whoOnly bool) uint64 {
	start := cs.Hash()
	if whoOnly {
		start = cs.WhoHash()
	}
	if v, ok := h.cache.get(cacheKey{start, h.id, whoOnly}); ok {
		return v
	}

	top := cs.Container().Topology
	nrot, nref := top.NumRotations(), top.NumReflections()
	var remap [board.NumSiteTypes][]int
	seen := []uint64{start}
	best := start
	try := func(perm []int) {
		v := cs.RemappedHash(remap, perm, whoOnly)
		seen = append(seen, v)
		best = min(best, v)
	}
	for _, perm := range h.perms {
		for r := 0; r < nrot; r++ {
			if r != 0 && !h.validator.IsValid(Rotation, r, nrot) {
				continue
			}
			for _, st := range board.SiteTypes {
				remap[st] = top.Rotations(st)[r]
			}
			try(perm)
			for f := 0; f < nref; f++ {
				if !h.validator.IsValid(Reflection, f, nref) {
					continue
				}
				for _, st := range board.SiteTypes {
					remap[st] = compose(top.Rotations(st)[r], top.Reflections(st)[f])
				}
				try(perm)
			}
		}
	}
	h.cache.store(lo.Uniq(seen), h.id, whoOnly, best)
	return best
}

// compose returns the permutation applying ref then rot.
func compose(rot, ref []int) []int {
	out := make([]int, len(ref))
	for s, t := range ref {
		out[s] = rot[t]
	}
	return out
}
