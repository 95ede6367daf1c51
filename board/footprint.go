package board

// A Footprint describes the sites covered by a large piece, relative to the
// site it is anchored at. The walk is a sequence of steps; each step adds the
// cell it arrives at. The whole walk is turned by the piece's rotation
// (in quarter turns) before it is taken.
type Footprint struct {
	Walk []Direction
}

// Size is the number of sites the piece covers, anchor included.
func (f *Footprint) Size() int {
	if f == nil {
		return 1
	}
	return len(f.Walk) + 1
}

// Sites returns the anchor followed by the secondary sites a piece anchored
// at site with the given rotation covers. It returns false if the walk leaves
// the board.
func (f *Footprint) Sites(t *Topology, site int, rotation int) ([]int, bool) {
	out := make([]int, 1, f.Size())
	out[0] = site
	if f == nil || len(f.Walk) == 0 {
		return out, true
	}
	if !t.HasDirections() {
		return out, false
	}
	cur := site
	for _, d := range f.Walk {
		next, ok := t.Step(cur, d.Rotate(rotation))
		if !ok {
			return out, false
		}
		out = append(out, next)
		cur = next
	}
	return out, true
}

// Secondary is Sites without the anchor.
func (f *Footprint) Secondary(t *Topology, site int, rotation int) ([]int, bool) {
	s, ok := f.Sites(t, site, rotation)
	return s[1:], ok
}
