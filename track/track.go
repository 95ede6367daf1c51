// Package track maintains, for race games, the position along each track of
// every piece on it. It is a cache: container states stay authoritative and
// Rebuild can always recreate the index from them. Games without tracks use
// a nil *Index, and every method is safe to call on nil.
package track

import (
	"maps"
	"slices"

	"github.com/domino14/boardstate/board"
)

// Op is one change made to the index, recorded so it can be reverted.
type Op struct {
	Track int
	What  int
	Count int
	Pos   int
	Add   bool
}

// Index maps (track, piece) to the positions along the track that piece
// occupies, with a count per position.
type Index struct {
	tracks []board.Track
	// sitePos[track][site] lists every position of site on that track
	sitePos []map[int][]int
	// counts[track][what][pos]
	counts [][]map[int]int
}

// New builds an empty index. It returns nil when there are no tracks.
func New(tracks []board.Track, numComponents int) *Index {
	if len(tracks) == 0 {
		return nil
	}
	ix := &Index{
		tracks:  tracks,
		sitePos: make([]map[int][]int, len(tracks)),
		counts:  make([][]map[int]int, len(tracks)),
	}
	for t, tr := range tracks {
		ix.sitePos[t] = map[int][]int{}
		for pos, s := range tr.Sites {
			ix.sitePos[t][s] = append(ix.sitePos[t][s], pos)
		}
		ix.counts[t] = make([]map[int]int, numComponents+1)
		for w := range ix.counts[t] {
			ix.counts[t][w] = map[int]int{}
		}
	}
	return ix
}

// NumTracks is the number of tracks indexed.
func (ix *Index) NumTracks() int {
	if ix == nil {
		return 0
	}
	return len(ix.tracks)
}

// TrackID looks a track up by name.
func (ix *Index) TrackID(name string) (int, bool) {
	if ix == nil {
		return -1, false
	}
	for i, tr := range ix.tracks {
		if tr.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Add records count pieces of type what at position pos of a track.
func (ix *Index) Add(track, what, count, pos int) {
	if ix == nil || count <= 0 {
		return
	}
	ix.counts[track][what][pos] += count
}

// Remove forgets up to count pieces of type what at pos, and returns how
// many were actually removed.
func (ix *Index) Remove(track, what, count, pos int) int {
	if ix == nil || count <= 0 {
		return 0
	}
	m := ix.counts[track][what]
	have := m[pos]
	if count > have {
		count = have
	}
	if have-count == 0 {
		delete(m, pos)
	} else {
		m[pos] = have - count
	}
	return count
}

// CountAt is the number of pieces of type what at pos.
func (ix *Index) CountAt(track, what, pos int) int {
	if ix == nil {
		return 0
	}
	return ix.counts[track][what][pos]
}

// Positions returns the occupied positions of what along a track, in
// ascending order.
func (ix *Index) Positions(track, what int) []int {
	if ix == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(ix.counts[track][what]))
}

// SitePositions lists every position at which site appears on a track.
func (ix *Index) SitePositions(track, site int) []int {
	if ix == nil {
		return nil
	}
	return ix.sitePos[track][site]
}

// Furthest is the largest position of what along a track, or -1.
func (ix *Index) Furthest(track, what int) int {
	p := ix.Positions(track, what)
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Ahead reports whether piece a is further along the track than piece b.
func (ix *Index) Ahead(track, a, b int) bool {
	return ix.Furthest(track, a) > ix.Furthest(track, b)
}

func (ix *Index) applies(track, who int) bool {
	owner := ix.tracks[track].Owner
	return owner == 0 || who == 0 || owner == who
}

// Move updates the index for count pieces of type what, owned by who, going
// from one cell to another. from or to may be -1 for a piece entering or
// leaving the board. The performed changes are returned so the caller can
// Revert them.
func (ix *Index) Move(from, to, who, what, count int) []Op {
	if ix == nil || what <= 0 || count <= 0 {
		return nil
	}
	var ops []Op
	for t := range ix.tracks {
		if !ix.applies(t, who) {
			continue
		}
		departed := -1
		if from >= 0 {
			for _, p := range ix.sitePos[t][from] {
				if ix.CountAt(t, what, p) > 0 {
					departed = p
					break
				}
			}
		}
		if departed >= 0 {
			n := ix.Remove(t, what, count, departed)
			ops = append(ops, Op{Track: t, What: what, Count: n, Pos: departed})
		}
		if to < 0 {
			continue
		}
		arrivals := ix.sitePos[t][to]
		if len(arrivals) == 0 {
			continue
		}
		arrival := arrivals[0]
		if departed >= 0 {
			for _, p := range arrivals {
				if p >= departed {
					arrival = p
					break
				}
			}
		}
		ix.Add(t, what, count, arrival)
		ops = append(ops, Op{Track: t, What: what, Count: count, Pos: arrival, Add: true})
	}
	return ops
}

// Adjust changes by delta the number of pieces of type what recorded at
// the position they hold on site, for pieces added to or taken from a pile
// without moving. A site a piece does not hold yet uses its first position.
func (ix *Index) Adjust(site, who, what, delta int) []Op {
	if ix == nil || what <= 0 || delta == 0 || site < 0 {
		return nil
	}
	var ops []Op
	for t := range ix.tracks {
		if !ix.applies(t, who) {
			continue
		}
		positions := ix.sitePos[t][site]
		if len(positions) == 0 {
			continue
		}
		pos := -1
		for _, p := range positions {
			if ix.CountAt(t, what, p) > 0 {
				pos = p
				break
			}
		}
		switch {
		case delta > 0:
			if pos < 0 {
				pos = positions[0]
			}
			ix.Add(t, what, delta, pos)
			ops = append(ops, Op{Track: t, What: what, Count: delta, Pos: pos, Add: true})
		case pos >= 0:
			n := ix.Remove(t, what, -delta, pos)
			ops = append(ops, Op{Track: t, What: what, Count: n, Pos: pos})
		}
	}
	return ops
}

// Revert undoes ops returned by Move or Adjust, newest first.
func (ix *Index) Revert(ops []Op) {
	if ix == nil {
		return
	}
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if op.Add {
			ix.Remove(op.Track, op.What, op.Count, op.Pos)
		} else {
			ix.Add(op.Track, op.What, op.Count, op.Pos)
		}
	}
}

// Reset empties the index.
func (ix *Index) Reset() {
	if ix == nil {
		return
	}
	for t := range ix.counts {
		for w := range ix.counts[t] {
			clear(ix.counts[t][w])
		}
	}
}

// Clone returns an independent copy. Track definitions are shared.
func (ix *Index) Clone() *Index {
	if ix == nil {
		return nil
	}
	c := &Index{
		tracks:  ix.tracks,
		sitePos: ix.sitePos,
		counts:  make([][]map[int]int, len(ix.counts)),
	}
	for t := range ix.counts {
		c.counts[t] = make([]map[int]int, len(ix.counts[t]))
		for w, m := range ix.counts[t] {
			c.counts[t][w] = maps.Clone(m)
		}
	}
	return c
}

// Equals compares the recorded positions of two indices.
func (ix *Index) Equals(o *Index) bool {
	if ix == nil || o == nil {
		return ix == o
	}
	if len(ix.counts) != len(o.counts) {
		return false
	}
	for t := range ix.counts {
		for w := range ix.counts[t] {
			if !maps.Equal(ix.counts[t][w], o.counts[t][w]) {
				return false
			}
		}
	}
	return true
}
