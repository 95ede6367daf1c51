package board

import (
	"slices"
	"testing"

	"github.com/matryer/is"
)

func isPermutation(p []int) bool {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func compose(a, b []int) []int {
	// a after b
	out := make([]int, len(b))
	for i := range b {
		out[i] = a[b[i]]
	}
	return out
}

func TestSquareGridCounts(t *testing.T) {
	is := is.New(t)
	g := NewSquareGrid(3, 4)
	is.Equal(g.NumSites(Cell), 12)
	is.Equal(g.NumSites(Vertex), 20)
	is.Equal(g.NumSites(Edge), 4*4+3*5)
	is.Equal(g.Rows(), 3)
	is.Equal(g.Cols(), 4)
	is.Equal(g.NumRotations(), 2)
	is.Equal(g.NumReflections(), 1)
}

func TestSquareGridAdjacency(t *testing.T) {
	is := is.New(t)
	g := NewSquareGrid(3, 3)
	// centre cell touches its four orthogonal neighbours
	is.Equal(g.Neighbours(Cell, 4), []int{1, 3, 5, 7})
	// corner cell
	is.Equal(g.Neighbours(Cell, 0), []int{1, 3})
	// a corner vertex has two edges
	is.Equal(len(g.Neighbours(Vertex, 0)), 2)

	n, ok := g.Step(4, NE)
	is.True(ok)
	is.Equal(n, 8)
	_, ok = g.Step(0, S)
	is.True(!ok)
}

func TestSquareSymmetriesArePermutations(t *testing.T) {
	is := is.New(t)
	g := NewSquareGrid(4, 4)
	is.Equal(g.NumRotations(), 4)
	for _, st := range SiteTypes {
		for _, r := range g.Rotations(st) {
			is.True(isPermutation(r))
			is.Equal(len(r), g.NumSites(st))
		}
		for _, r := range g.Reflections(st) {
			is.True(isPermutation(r))
		}
		is.True(isIdentity(g.Rotations(st)[0]))
	}
}

func TestRotationGroup(t *testing.T) {
	is := is.New(t)
	g := NewSquareGrid(5, 5)
	for _, st := range SiteTypes {
		r90 := g.Rotations(st)[1]
		r180 := g.Rotations(st)[2]
		is.Equal(compose(r90, r90), r180)
		four := compose(r180, r180)
		is.True(isIdentity(four))
		m := g.Reflections(st)[0]
		is.True(isIdentity(compose(m, m)))
	}
	// A1 (cell 0) goes to the top-left corner under a quarter turn
	// clockwise when row 0 is at the bottom.
	r90 := g.Rotations(Cell)[1]
	is.Equal(g.Label(Cell, r90[0]), "A5")
}

func TestLabels(t *testing.T) {
	is := is.New(t)
	g := NewSquareGrid(8, 8)
	is.Equal(g.Label(Cell, 0), "A1")
	is.Equal(g.Label(Cell, 63), "H8")
	s, ok := g.SiteFromLabel(Cell, "e4")
	is.True(ok)
	is.Equal(s, 3*8+4)
	is.Equal(g.Label(Vertex, 80), "I9")
	_, ok = g.SiteFromLabel(Cell, "Z99")
	is.True(!ok)
}

func TestGridCoords(t *testing.T) {
	is := is.New(t)
	tests := []struct {
		row, col int
		out      string
	}{
		{0, 0, "A1"}, {14, 14, "O15"}, {9, 8, "I10"}, {0, 26, "AA1"}, {2, 27, "AB3"},
	}
	for _, tc := range tests {
		is.Equal(GridCoords(tc.row, tc.col), tc.out)
		r, c, ok := FromGridCoords(tc.out)
		is.True(ok)
		is.Equal(r, tc.row)
		is.Equal(c, tc.col)
	}
	_, _, ok := FromGridCoords("12")
	is.True(!ok)
}

func TestGraphErrors(t *testing.T) {
	is := is.New(t)
	_, err := NewGraph("bad", 2, [][2]int{{0, 2}}, nil)
	is.True(err != nil)
	_, err = NewGraph("loop", 2, [][2]int{{1, 1}}, nil)
	is.True(err != nil)
	_, err = NewGraph("dupe", 2, [][2]int{{0, 1}, {1, 0}}, nil)
	is.True(err != nil)
	_, err = NewGraph("cell", 3, [][2]int{{0, 1}}, [][]int{{0, 5}})
	is.True(err != nil)
}

func TestGraphSymmetry(t *testing.T) {
	is := is.New(t)
	// a triangle
	g, err := NewGraph("tri", 3, [][2]int{{0, 1}, {1, 2}, {2, 0}}, [][]int{{0, 1, 2}})
	is.NoErr(err)
	is.NoErr(g.WithVertexSymmetries([][]int{{1, 2, 0}, {2, 0, 1}}, [][]int{{0, 2, 1}}))
	is.Equal(g.NumRotations(), 3)
	is.Equal(g.Rotations(Edge)[1], []int{1, 2, 0})
	is.Equal(g.Rotations(Cell)[1], []int{0})

	// path graph 0-1-2 has no rotation mapping 0->1
	p, err := NewGraph("path", 3, [][2]int{{0, 1}, {1, 2}}, nil)
	is.NoErr(err)
	is.True(p.WithVertexSymmetries([][]int{{1, 2, 0}}, nil) != nil)
}

func TestFootprint(t *testing.T) {
	is := is.New(t)
	g := NewSquareGrid(4, 4)
	domino := &Footprint{Walk: []Direction{E}}
	s, ok := domino.Sites(g, 5, 0)
	is.True(ok)
	is.Equal(s, []int{5, 6})
	// a quarter turn points the walk south
	s, ok = domino.Sites(g, 5, 1)
	is.True(ok)
	is.Equal(s, []int{5, 1})
	_, ok = domino.Sites(g, 3, 0)
	is.True(!ok)

	var single *Footprint
	is.Equal(single.Size(), 1)
	s, ok = single.Sites(g, 7, 3)
	is.True(ok)
	is.Equal(s, []int{7})

	sec, ok := (&Footprint{Walk: []Direction{N, N}}).Secondary(g, 0, 0)
	is.True(ok)
	is.Equal(sec, []int{4, 8})
}

func TestTracks(t *testing.T) {
	is := is.New(t)
	g := NewSquareGrid(2, 2)
	is.NoErr(g.AddTrack(Track{Name: "T1", Owner: 1, Sites: []int{0, 1, 3, 2, 0}}))
	is.True(g.AddTrack(Track{Name: "T1", Sites: []int{0}}) != nil)
	is.True(g.AddTrack(Track{Name: "T2", Sites: []int{9}}) != nil)
	is.True(g.AddTrack(Track{Name: "T3"}) != nil)
	tr := g.Tracks()[0]
	is.Equal(tr.PositionsOf(0), []int{0, 4})
	is.True(slices.Equal(tr.PositionsOf(3), []int{2}))
}

func TestContainerOffsets(t *testing.T) {
	is := is.New(t)
	hand := &Container{Index: 1, Name: "Hand1", Topology: NewHand("Hand1", 3), Offset: 16, Owner: 1}
	is.True(hand.IsHand())
	is.Equal(hand.Local(Cell, 17), 1)
	is.Equal(hand.Global(Cell, 2), 18)
	is.True(hand.Contains(Cell, 18))
	is.True(!hand.Contains(Cell, 19))
	is.Equal(hand.Local(Vertex, 3), 3)
}

func TestSiteTypeParse(t *testing.T) {
	is := is.New(t)
	for _, st := range SiteTypes {
		p, err := ParseSiteType(st.String())
		is.NoErr(err)
		is.Equal(p, st)
	}
	_, err := ParseSiteType("face")
	is.True(err != nil)
	d, err := ParseDirection("sw")
	is.NoErr(err)
	is.Equal(d, SW)
	is.Equal(N.Rotate(1), E)
	is.Equal(W.Rotate(1), N)
	is.Equal(N.Rotate(-1), W)
}
