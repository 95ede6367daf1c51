// Package owned keeps an index from (player, piece) to the locations of
// those pieces. It is a cache over the container states: it is never a
// source of truth, and can always be rebuilt from them.
package owned

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/domino14/boardstate/board"
)

// Location is where one piece sits. Site is a global site index.
type Location struct {
	Site  int
	Level int
	Type  board.SiteType
}

func (l Location) String() string {
	return fmt.Sprintf("%v %d/%d", l.Type, l.Site, l.Level)
}

// Index maps (who, what) to locations. Player 0 holds unowned pieces and
// player numPlayers+1 holds shared ones.
type Index struct {
	// locs[who][what]
	locs [][][]Location
}

// New creates an empty index for numPlayers players and numComponents
// piece types (numbered from 1).
func New(numPlayers, numComponents int) *Index {
	o := &Index{locs: make([][][]Location, numPlayers+2)}
	for i := range o.locs {
		o.locs[i] = make([][]Location, numComponents+1)
	}
	return o
}

func (o *Index) valid(who, what int) bool {
	return who >= 0 && who < len(o.locs) && what > 0 && what < len(o.locs[who])
}

// Add records a piece at loc. A nil index ignores the call.
func (o *Index) Add(who, what int, loc Location) {
	if o == nil || what == 0 {
		return
	}
	if !o.valid(who, what) {
		panic(fmt.Sprintf("owned: no slot for player %d piece %d", who, what))
	}
	o.locs[who][what] = append(o.locs[who][what], loc)
}

// Remove deletes one record of a piece at loc, reporting whether one was
// found.
func (o *Index) Remove(who, what int, loc Location) bool {
	if o == nil || what == 0 || !o.valid(who, what) {
		return false
	}
	l := o.locs[who][what]
	i := slices.Index(l, loc)
	if i < 0 {
		return false
	}
	l[i] = l[len(l)-1]
	o.locs[who][what] = l[:len(l)-1]
	return true
}

// Shift moves every record at (site, t) with level >= fromLevel by delta
// levels. Stacked containers call it when a level is inserted or removed
// below other pieces.
func (o *Index) Shift(site int, t board.SiteType, fromLevel, delta int) {
	if o == nil || delta == 0 {
		return
	}
	for who := range o.locs {
		for what := range o.locs[who] {
			l := o.locs[who][what]
			for i := range l {
				if l[i].Site == site && l[i].Type == t && l[i].Level >= fromLevel {
					l[i].Level += delta
				}
			}
		}
	}
}

// Locations returns the locations of who's pieces of type what. The slice
// must not be modified.
func (o *Index) Locations(who, what int) []Location {
	if o == nil || !o.valid(who, what) {
		return nil
	}
	return o.locs[who][what]
}

// All returns the locations of every piece owned by who.
func (o *Index) All(who int) []Location {
	if o == nil || who < 0 || who >= len(o.locs) {
		return nil
	}
	return lo.Flatten(o.locs[who])
}

// Count is the number of pieces owned by who.
func (o *Index) Count(who int) int {
	if o == nil || who < 0 || who >= len(o.locs) {
		return 0
	}
	return lo.SumBy(o.locs[who], func(l []Location) int { return len(l) })
}

// Reset forgets every location.
func (o *Index) Reset() {
	if o == nil {
		return
	}
	for who := range o.locs {
		for what := range o.locs[who] {
			o.locs[who][what] = o.locs[who][what][:0]
		}
	}
}

// Clone returns an independent copy.
func (o *Index) Clone() *Index {
	if o == nil {
		return nil
	}
	c := &Index{locs: make([][][]Location, len(o.locs))}
	for who := range o.locs {
		c.locs[who] = make([][]Location, len(o.locs[who]))
		for what, l := range o.locs[who] {
			c.locs[who][what] = slices.Clone(l)
		}
	}
	return c
}

func cmpLoc(a, b Location) int {
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	if a.Site != b.Site {
		return a.Site - b.Site
	}
	return a.Level - b.Level
}

// Equals compares two indices, ignoring the order of records.
func (o *Index) Equals(p *Index) bool {
	if o == nil || p == nil {
		return o == p
	}
	if len(o.locs) != len(p.locs) {
		return false
	}
	for who := range o.locs {
		if len(o.locs[who]) != len(p.locs[who]) {
			return false
		}
		for what := range o.locs[who] {
			a := slices.SortedFunc(slices.Values(o.locs[who][what]), cmpLoc)
			b := slices.SortedFunc(slices.Values(p.locs[who][what]), cmpLoc)
			if !slices.Equal(a, b) {
				return false
			}
		}
	}
	return true
}
