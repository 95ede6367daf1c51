package chunks

import (
	"fmt"

	"github.com/domino14/boardstate/zobrist"
)

// A HashedChunkSet is a ChunkSet whose running hash always equals the XOR of
// the keys of its current (index, value) pairs. Every Set XORs the old key out
// and the new key in, so the hash never has to be recomputed from scratch.
//
// Indices may be grouped: with a stride of s, index i is level i%s of site
// i/s. Stacked containers use this to keep all levels of all sites in one
// flat array.
type HashedChunkSet struct {
	ChunkSet
	stride int
	keys   zobrist.Table
	hash   uint64
}

// NewHashedChunkSet creates a hashed chunk set for sites*stride values in
// [0, maxValue]. The key table must have at least sites*stride rows and
// maxValue+1 columns; it is shared, read-only, with every clone.
func NewHashedChunkSet(keys zobrist.Table, sites, stride, maxValue int) *HashedChunkSet {
	if stride < 1 {
		stride = 1
	}
	if sites*stride > 0 && (keys.Slots() < sites*stride || keys.Values() < maxValue+1) {
		panic(fmt.Sprintf("key table %dx%d too small for %d slots of max %d",
			keys.Slots(), keys.Values(), sites*stride, maxValue))
	}
	return &HashedChunkSet{
		ChunkSet: *NewChunkSet(sites*stride, maxValue),
		stride:   stride,
		keys:     keys,
	}
}

// Stride is the number of levels per site.
func (h *HashedChunkSet) Stride() int { return h.stride }

// Set stores v at index i, updates the running hash, and returns the old
// value.
func (h *HashedChunkSet) Set(i int, v int) int {
	old := h.ChunkSet.Set(i, v)
	if old != v {
		h.hash ^= h.keys[i][old] ^ h.keys[i][v]
	}
	return old
}

// SetAt is Set for level of site.
func (h *HashedChunkSet) SetAt(site, level, v int) int {
	return h.Set(site*h.stride+level, v)
}

// GetAt is Get for level of site.
func (h *HashedChunkSet) GetAt(site, level int) int {
	return h.Get(site*h.stride + level)
}

// Hash is the running hash.
func (h *HashedChunkSet) Hash() uint64 { return h.hash }

// CalcHash recomputes the hash from scratch. It must always equal Hash.
func (h *HashedChunkSet) CalcHash() uint64 {
	var k uint64
	for i := 0; i < h.n; i++ {
		k ^= h.keys[i][h.Get(i)]
	}
	return k
}

// RemappedHash computes the hash the set would have if the value at site s
// were stored at siteRemap[s], and every value v were valueRemap[v]. Either
// remap may be nil to mean the identity.
func (h *HashedChunkSet) RemappedHash(siteRemap []int, valueRemap []int) uint64 {
	var k uint64
	for i := 0; i < h.n; i++ {
		v := h.Get(i)
		if v == 0 {
			continue
		}
		if valueRemap != nil && v < len(valueRemap) {
			v = valueRemap[v]
		}
		j := i
		if siteRemap != nil {
			j = siteRemap[i/h.stride]*h.stride + i%h.stride
		}
		k ^= h.keys[j][v]
	}
	return k
}

// Clone returns a deep copy of the values. The hash is carried over as-is
// and the key table is shared.
func (h *HashedChunkSet) Clone() *HashedChunkSet {
	return &HashedChunkSet{
		ChunkSet: *h.ChunkSet.Clone(),
		stride:   h.stride,
		keys:     h.keys,
		hash:     h.hash,
	}
}

// CopyFrom overwrites h with o's values and hash.
func (h *HashedChunkSet) CopyFrom(o *HashedChunkSet) {
	h.ChunkSet.CopyFrom(&o.ChunkSet)
	h.hash = o.hash
}

// Reset sets every value to 0.
func (h *HashedChunkSet) Reset() {
	h.ChunkSet.Reset()
	h.hash = 0
}
