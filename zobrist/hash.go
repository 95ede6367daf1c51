package zobrist

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// Table holds one random key per (slot, value) pair. The key for value 0 is
// always 0, so an empty slot contributes nothing to a hash.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Table [][]uint64

// Key returns the key for the value v stored in the given slot.
func (t Table) Key(slot, v int) uint64 {
	return t[slot][v]
}

// Slots is the number of rows in the table.
func (t Table) Slots() int {
	return len(t)
}

// Values is the number of distinct values (including 0) the table covers.
func (t Table) Values() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Generator produces key tables from a deterministic stream, so that two
// processes configured with the same seed derive identical hashes.
type Generator struct {
	rng *frand.RNG
}

// NewGenerator creates a key generator. The stream parameter lets several
// independent containers share one seed without sharing keys.
func NewGenerator(seed uint64, stream uint64) *Generator {
	s := make([]byte, 32)
	binary.LittleEndian.PutUint64(s[0:], seed)
	binary.LittleEndian.PutUint64(s[8:], stream)
	binary.LittleEndian.PutUint64(s[16:], hashUint64(seed^stream))
	binary.LittleEndian.PutUint64(s[24:], hashUint64(seed+stream+1))
	return &Generator{rng: frand.NewCustom(s, 1024, 12)}
}

// Next returns a single non-zero key.
func (g *Generator) Next() uint64 {
	return g.rng.Uint64n(bignum) + 1
}

// Table creates a key table with the given number of slots, covering values
// in [0, maxValue].
func (g *Generator) Table(slots, maxValue int) Table {
	t := make(Table, slots)
	for i := range t {
		t[i] = make([]uint64, maxValue+1)
		for j := 1; j <= maxValue; j++ {
			t[i][j] = g.Next()
		}
	}
	return t
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

// Mix scrambles a 64-bit integer. It is used to fold small scalar values
// (such as the player to move) into a hash.
func Mix(x uint64) uint64 {
	return hashUint64(x)
}
