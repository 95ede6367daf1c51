package chunks

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/boardstate/zobrist"
)

func TestChunkWidths(t *testing.T) {
	is := is.New(t)
	for _, tc := range []struct{ max, bits int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 4}, {15, 4}, {16, 8}, {255, 8}, {256, 16}, {70000, 32},
	} {
		c := NewChunkSet(10, tc.max)
		is.Equal(c.ChunkBits(), tc.bits)
	}
}

func TestGetSet(t *testing.T) {
	is := is.New(t)
	c := NewChunkSet(100, 5)
	for i := 0; i < 100; i++ {
		c.Set(i, i%6)
	}
	for i := 0; i < 100; i++ {
		is.Equal(c.Get(i), i%6)
	}
	old := c.Set(7, 0)
	is.Equal(old, 1)
	is.Equal(c.Get(7), 0)
	is.Equal(c.Get(6), 0)
	is.Equal(c.Get(8), 2)
	is.Equal(c.NumNonZero(), 100-17-1)
}

func TestOutOfRange(t *testing.T) {
	c := NewChunkSet(4, 3)
	assert.Panics(t, func() { c.Set(0, 4) })
	assert.Panics(t, func() { c.Set(0, -1) })
	defer func() {
		r := recover()
		err, ok := r.(error)
		assert.True(t, ok)
		assert.True(t, errors.Is(err, ErrValueOutOfRange))
	}()
	c.Set(1, 9)
}

func TestCloneIndependent(t *testing.T) {
	is := is.New(t)
	c := NewChunkSet(10, 7)
	c.Set(3, 7)
	d := c.Clone()
	d.Set(3, 1)
	is.Equal(c.Get(3), 7)
	is.Equal(d.Get(3), 1)
	is.True(!c.Equals(d))
	d.CopyFrom(c)
	is.True(c.Equals(d))
	c.Reset()
	is.Equal(c.NumNonZero(), 0)
}

func newHashed(sites, stride, max int) *HashedChunkSet {
	keys := zobrist.NewGenerator(11, 0).Table(sites*stride, max)
	return NewHashedChunkSet(keys, sites, stride, max)
}

func TestHashIncremental(t *testing.T) {
	is := is.New(t)
	h := newHashed(40, 1, 9)
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		h.Set(r.IntN(40), r.IntN(10))
		is.Equal(h.Hash(), h.CalcHash())
	}
	h.Reset()
	is.Equal(h.Hash(), uint64(0))
	is.Equal(h.CalcHash(), uint64(0))
}

func TestHashReturnsToStart(t *testing.T) {
	is := is.New(t)
	h := newHashed(10, 1, 3)
	h.Set(2, 1)
	start := h.Hash()
	old := h.Set(2, 3)
	is.True(h.Hash() != start)
	h.Set(2, old)
	is.Equal(h.Hash(), start)
}

func TestRemappedHash(t *testing.T) {
	is := is.New(t)
	h := newHashed(4, 1, 3)
	h.Set(0, 1)
	h.Set(1, 2)
	is.Equal(h.RemappedHash(nil, nil), h.Hash())

	// reverse the sites
	rev := []int{3, 2, 1, 0}
	moved := h.RemappedHash(rev, nil)
	other := newHashed(4, 1, 3)
	other.Set(3, 1)
	other.Set(2, 2)
	is.Equal(moved, other.Hash())

	// swap values 1 and 2
	swapped := h.RemappedHash(nil, []int{0, 2, 1, 3})
	third := newHashed(4, 1, 3)
	third.Set(0, 2)
	third.Set(1, 1)
	is.Equal(swapped, third.Hash())
}

func TestStrideRemap(t *testing.T) {
	is := is.New(t)
	h := newHashed(3, 4, 5)
	h.SetAt(0, 2, 5)
	h.SetAt(1, 0, 1)
	is.Equal(h.GetAt(0, 2), 5)
	is.Equal(h.Get(2), 5)

	other := newHashed(3, 4, 5)
	other.SetAt(2, 2, 5)
	other.SetAt(0, 0, 1)
	is.Equal(h.RemappedHash([]int{2, 0, 1}, nil), other.Hash())
}

func TestHashedClone(t *testing.T) {
	is := is.New(t)
	h := newHashed(8, 1, 3)
	h.Set(5, 3)
	c := h.Clone()
	is.Equal(c.Hash(), h.Hash())
	c.Set(5, 0)
	is.Equal(h.Get(5), 3)
	is.True(c.Hash() != h.Hash())
	c.CopyFrom(h)
	is.Equal(c.Hash(), h.Hash())
	is.Equal(c.Get(5), 3)
}

func BenchmarkHashedSet(b *testing.B) {
	h := newHashed(361, 1, 3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Set(i%361, i&3)
	}
}
