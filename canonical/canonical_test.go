package canonical

import (
	"math/rand/v2"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/containerstate"
)

func newState(top *board.Topology) containerstate.ContainerState {
	return containerstate.New(containerstate.Config{
		Container:     &board.Container{Name: "Board", Topology: top},
		Kinds:         []board.SiteType{board.Cell},
		NumPlayers:    2,
		NumComponents: 3,
		MaxState:      2,
		Seed:          7,
	})
}

func place(cs containerstate.ContainerState, site, who, what, state int) {
	cs.AddItem(nil, site, board.Cell, containerstate.Item{
		Record: containerstate.Record{Who: who, What: what, State: state}})
}

// transformed copies cs with every site s moved to perm[s] and owners
// renamed by players.
func transformed(cs containerstate.ContainerState, perm []int, players []int) containerstate.ContainerState {
	out := newState(cs.Container().Topology)
	for s := 0; s < cs.Container().NumSites(board.Cell); s++ {
		r := cs.Record(s, 0, board.Cell)
		if r.What == 0 {
			continue
		}
		place(out, perm[s], players[r.Who], r.What, r.State)
	}
	return out
}

func TestPermutations(t *testing.T) {
	is := is.New(t)
	p := permutations(3)
	is.Equal(len(p), 6)
	is.Equal(p[0], []int{1, 2, 3})
	is.Equal(p[5], []int{3, 2, 1})
	is.Equal(permutations(1), [][]int{{1}})
}

func TestSymmetryInvariance(t *testing.T) {
	is := is.New(t)
	top := board.NewSquareGrid(4, 4)
	rng := rand.New(rand.NewPCG(5, 6))
	for trial := 0; trial < 20; trial++ {
		cs := newState(top)
		for i := 0; i < 5; i++ {
			s := rng.IntN(16)
			if cs.IsEmpty(s, board.Cell) {
				place(cs, s, 1+rng.IntN(2), 1+rng.IntN(3), rng.IntN(3))
			}
		}
		h := NewHasher(2, AllSymmetries, NewCache(0))
		want := h.Hash(cs, false)
		wantWho := h.Hash(cs, true)
		ident := []int{0, 1, 2, 3}
		swap := []int{0, 2, 1, 3}
		for _, perm := range append(top.Rotations(board.Cell), top.Reflections(board.Cell)...) {
			for _, players := range [][]int{ident, swap} {
				// a fresh hasher so the cache cannot answer
				fresh := NewHasher(2, AllSymmetries, NewCache(0))
				other := transformed(cs, perm, players)
				is.Equal(fresh.Hash(other, false), want)
				is.Equal(fresh.Hash(other, true), wantWho)
			}
		}
	}
}

func TestValidatorsRestrictTheGroup(t *testing.T) {
	is := is.New(t)
	top := board.NewSquareGrid(3, 3)
	a := newState(top)
	place(a, 0, 1, 1, 0)
	b := newState(top)
	place(b, 2, 1, 1, 0)
	c := newState(top)
	place(c, 0, 2, 1, 0)

	all := NewHasher(2, AllSymmetries, NewCache(0))
	is.Equal(all.Hash(a, false), all.Hash(b, false))
	is.Equal(all.Hash(a, false), all.Hash(c, false))

	rot := NewHasher(2, RotationsOnly, NewCache(0))
	is.Equal(rot.Hash(a, false), rot.Hash(b, false))
	is.True(rot.Hash(a, false) != rot.Hash(c, false))

	none := NewHasher(2, NoSymmetries, NewCache(0))
	is.Equal(none.Hash(a, false), a.Hash())
	is.True(none.Hash(a, false) != none.Hash(b, false))
}

func TestCacheHits(t *testing.T) {
	is := is.New(t)
	top := board.NewSquareGrid(3, 3)
	a := newState(top)
	place(a, 1, 1, 2, 1)
	cache := NewCacheFromConfig(config.DefaultConfig())
	h := NewHasher(2, AllSymmetries, cache)
	first := h.Hash(a, false)
	_, hits := cache.Stats()
	is.Equal(hits, uint64(0))
	is.True(cache.Len() > 1)

	// a rotated copy starts from a hash produced by the first pass
	b := transformed(a, top.Rotations(board.Cell)[1], []int{0, 1, 2, 3})
	is.Equal(h.Hash(b, false), first)
	lookups, hits := cache.Stats()
	is.Equal(lookups, uint64(2))
	is.Equal(hits, uint64(1))

	cache.Clear()
	is.Equal(cache.Len(), 0)
}

func TestSharedCacheKeepsValidatorsApart(t *testing.T) {
	is := is.New(t)
	top := board.NewSquareGrid(3, 3)
	a := newState(top)
	place(a, 0, 1, 1, 0)
	b := newState(top)
	place(b, 2, 1, 1, 0)
	shared := NewCache(0)

	all := NewHasher(2, AllSymmetries, shared)
	is.Equal(all.Hash(a, false), all.Hash(b, false))

	none := NewHasher(2, NoSymmetries, shared)
	is.Equal(none.Hash(a, false), a.Hash())
	is.Equal(none.Hash(b, false), b.Hash())
}

func TestCacheClearsWhenFull(t *testing.T) {
	is := is.New(t)
	c := NewCache(0)
	hashes := make([]uint64, minCacheEntries)
	for i := range hashes {
		hashes[i] = uint64(i + 1)
	}
	c.store(hashes, 1, false, 1)
	is.Equal(c.Len(), minCacheEntries)
	c.store([]uint64{1 << 40}, 1, false, 1)
	is.Equal(c.Len(), 1)
}
