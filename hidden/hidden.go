// Package hidden stores, per player, which parts of which sites are
// concealed from that player. It is only allocated for games that declare
// hidden information.
package hidden

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/domino14/boardstate/zobrist"
)

var (
	// ErrNoHiddenInfo is raised when hidden information is queried on a
	// game that does not declare any.
	ErrNoHiddenInfo = errors.New("game has no hidden information")
	// ErrPlayerOutOfRange is raised for a player index outside
	// [1, numPlayers].
	ErrPlayerOutOfRange = errors.New("player index out of range")
)

// Kind is the part of a site a flag conceals.
type Kind uint8

const (
	// Site hides the whole site.
	Site Kind = iota
	What
	Who
	State
	Count
	Rotation
	Value
)

// NumKinds is the number of distinct flag kinds.
const NumKinds = 7

// MaxPlayers is the number of players a Flags value can describe.
const MaxPlayers = 31

var kindNames = [NumKinds]string{"Site", "What", "Who", "State", "Count", "Rotation", "Value"}

func (k Kind) String() string {
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, s) {
			return Kind(i), nil
		}
	}
	return Site, fmt.Errorf("unknown hidden kind %q", s)
}

// Flags is a value snapshot of every player's flags at one (site, level):
// bit p of Flags[k] is set when kind k is hidden from player p.
type Flags [NumKinds]uint32

// IsZero reports whether nothing is hidden from anyone.
func (f Flags) IsZero() bool {
	return f == Flags{}
}

// Info holds the hidden flags of every (player, site, level, kind).
type Info struct {
	numPlayers int
	sites      int
	levels     int
	// bits[player-1][kind] has one bit per site*levels+level
	bits [][NumKinds]*bitset.BitSet
	// keys[player-1][kind] has one key per slot
	keys [][NumKinds][]uint64
	hash uint64
}

// New allocates flags for numPlayers players over sites sites of levels
// levels each. Hash keys are drawn from gen.
func New(numPlayers, sites, levels int, gen *zobrist.Generator) *Info {
	if numPlayers < 1 || numPlayers > MaxPlayers {
		panic(fmt.Errorf("%d players: %w", numPlayers, ErrPlayerOutOfRange))
	}
	if levels < 1 {
		levels = 1
	}
	h := &Info{
		numPlayers: numPlayers,
		sites:      sites,
		levels:     levels,
		bits:       make([][NumKinds]*bitset.BitSet, numPlayers),
		keys:       make([][NumKinds][]uint64, numPlayers),
	}
	slots := sites * levels
	for p := 0; p < numPlayers; p++ {
		for k := 0; k < NumKinds; k++ {
			h.bits[p][k] = bitset.New(uint(slots))
			ks := make([]uint64, slots)
			for i := range ks {
				ks[i] = gen.Next()
			}
			h.keys[p][k] = ks
		}
	}
	return h
}

func (h *Info) check(player int) {
	if h == nil {
		panic(ErrNoHiddenInfo)
	}
	if player < 1 || player > h.numPlayers {
		panic(fmt.Errorf("player %d of %d: %w", player, h.numPlayers, ErrPlayerOutOfRange))
	}
}

func (h *Info) slot(site, level int) uint {
	return uint(site*h.levels + level)
}

// NumPlayers is the number of players flags are kept for.
func (h *Info) NumPlayers() int { return h.numPlayers }

// Levels is the number of levels kept per site.
func (h *Info) Levels() int { return h.levels }

// IsHidden reports whether kind k of (site, level) is hidden from player.
func (h *Info) IsHidden(player, site, level int, k Kind) bool {
	h.check(player)
	return h.bits[player-1][k].Test(h.slot(site, level))
}

// Set sets or clears one flag.
func (h *Info) Set(player, site, level int, k Kind, on bool) {
	h.check(player)
	s := h.slot(site, level)
	b := h.bits[player-1][k]
	if b.Test(s) == on {
		return
	}
	b.SetTo(s, on)
	h.hash ^= h.keys[player-1][k][s]
}

// Flags returns all players' flags at (site, level).
func (h *Info) Flags(site, level int) Flags {
	if h == nil {
		panic(ErrNoHiddenInfo)
	}
	var f Flags
	s := h.slot(site, level)
	for p := 0; p < h.numPlayers; p++ {
		for k := 0; k < NumKinds; k++ {
			if h.bits[p][k].Test(s) {
				f[k] |= 1 << uint(p+1)
			}
		}
	}
	return f
}

// SetFlags overwrites all players' flags at (site, level).
func (h *Info) SetFlags(site, level int, f Flags) {
	if h == nil {
		panic(ErrNoHiddenInfo)
	}
	for p := 1; p <= h.numPlayers; p++ {
		for k := 0; k < NumKinds; k++ {
			h.Set(p, site, level, Kind(k), f[k]&(1<<uint(p)) != 0)
		}
	}
}

// Clear removes every flag at (site, level).
func (h *Info) Clear(site, level int) {
	h.SetFlags(site, level, Flags{})
}

// Hash is the running hash of all set flags.
func (h *Info) Hash() uint64 {
	if h == nil {
		return 0
	}
	return h.hash
}

// CalcHash recomputes the hash from scratch.
func (h *Info) CalcHash() uint64 {
	if h == nil {
		return 0
	}
	var k uint64
	for p := range h.bits {
		for kind := range h.bits[p] {
			b := h.bits[p][kind]
			for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
				k ^= h.keys[p][kind][i]
			}
		}
	}
	return k
}

// RemappedHash is the hash the flags would have with every site s moved to
// siteRemap[s] and every player p renamed playerRemap[p]. Nil remaps are the
// identity.
func (h *Info) RemappedHash(siteRemap []int, playerRemap []int) uint64 {
	if h == nil {
		return 0
	}
	var k uint64
	for p := range h.bits {
		np := p
		if playerRemap != nil {
			np = playerRemap[p+1] - 1
		}
		for kind := range h.bits[p] {
			b := h.bits[p][kind]
			for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
				j := int(i)
				if siteRemap != nil {
					j = siteRemap[j/h.levels]*h.levels + j%h.levels
				}
				k ^= h.keys[np][kind][j]
			}
		}
	}
	return k
}

// Clone deep-copies the flags; keys are shared.
func (h *Info) Clone() *Info {
	if h == nil {
		return nil
	}
	c := &Info{
		numPlayers: h.numPlayers,
		sites:      h.sites,
		levels:     h.levels,
		bits:       make([][NumKinds]*bitset.BitSet, len(h.bits)),
		keys:       h.keys,
		hash:       h.hash,
	}
	for p := range h.bits {
		for k := range h.bits[p] {
			c.bits[p][k] = h.bits[p][k].Clone()
		}
	}
	return c
}

// Reset clears every flag.
func (h *Info) Reset() {
	if h == nil {
		return
	}
	for p := range h.bits {
		for k := range h.bits[p] {
			h.bits[p][k].ClearAll()
		}
	}
	h.hash = 0
}
