// Package chunks implements fixed-width packed integer arrays, one per
// semantic field of a container (owner, piece, count, ...). A HashedChunkSet
// additionally maintains a running zobrist hash of its contents.
package chunks

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrValueOutOfRange is the panic value (wrapped) when a value does not fit
// the range a chunk set was sized for. It indicates a bug in the caller.
var ErrValueOutOfRange = errors.New("value out of range for chunk set")

// A ChunkSet stores n unsigned values, each packed into a chunk of a
// power-of-two number of bits so that no chunk straddles a word.
type ChunkSet struct {
	n        int
	maxValue int
	// log2 of the chunk width, in bits
	shift uint
	mask  uint64
	words []uint64
}

// chunkShift returns log2 of the smallest power-of-two bit width that can
// hold maxValue.
func chunkShift(maxValue int) uint {
	need := bits.Len(uint(maxValue))
	if need == 0 {
		need = 1
	}
	shift := uint(0)
	for (1 << shift) < need {
		shift++
	}
	return shift
}

// NewChunkSet creates a chunk set of n values in [0, maxValue].
func NewChunkSet(n int, maxValue int) *ChunkSet {
	if maxValue < 0 || maxValue > 1<<32-1 {
		panic(fmt.Errorf("max value %d: %w", maxValue, ErrValueOutOfRange))
	}
	shift := chunkShift(maxValue)
	width := uint(1) << shift
	perWord := 64 / int(width)
	return &ChunkSet{
		n:        n,
		maxValue: maxValue,
		shift:    shift,
		mask:     (uint64(1) << width) - 1,
		words:    make([]uint64, (n+perWord-1)/perWord),
	}
}

// Len is the number of values.
func (c *ChunkSet) Len() int { return c.n }

// MaxValue is the largest storable value.
func (c *ChunkSet) MaxValue() int { return c.maxValue }

// ChunkBits is the width of a chunk in bits.
func (c *ChunkSet) ChunkBits() int { return 1 << c.shift }

func (c *ChunkSet) locate(i int) (word int, offset uint) {
	bit := uint(i) << c.shift
	return int(bit >> 6), bit & 63
}

// Get returns the value at index i.
func (c *ChunkSet) Get(i int) int {
	w, off := c.locate(i)
	return int((c.words[w] >> off) & c.mask)
}

// Set stores v at index i and returns the previous value.
func (c *ChunkSet) Set(i int, v int) int {
	if v < 0 || v > c.maxValue {
		panic(fmt.Errorf("value %d at %d (max %d): %w", v, i, c.maxValue, ErrValueOutOfRange))
	}
	w, off := c.locate(i)
	old := int((c.words[w] >> off) & c.mask)
	c.words[w] = (c.words[w] &^ (c.mask << off)) | (uint64(v) << off)
	return old
}

// NumNonZero counts the indices holding a non-zero value.
func (c *ChunkSet) NumNonZero() int {
	ct := 0
	for i := 0; i < c.n; i++ {
		if c.Get(i) != 0 {
			ct++
		}
	}
	return ct
}

// CopyFrom overwrites c with the contents of o, which must have the same
// shape.
func (c *ChunkSet) CopyFrom(o *ChunkSet) {
	copy(c.words, o.words)
}

// Clone returns a deep copy.
func (c *ChunkSet) Clone() *ChunkSet {
	cp := *c
	cp.words = make([]uint64, len(c.words))
	copy(cp.words, c.words)
	return &cp
}

// Reset sets every value to 0.
func (c *ChunkSet) Reset() {
	clear(c.words)
}

// Equals reports whether both sets hold the same values.
func (c *ChunkSet) Equals(o *ChunkSet) bool {
	if c.n != o.n || c.shift != o.shift {
		return false
	}
	for i := range c.words {
		if c.words[i] != o.words[i] {
			return false
		}
	}
	return true
}
