package board

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// A Topology is the static shape of a container: how many cells, vertices
// and edges it has, which of them are adjacent, and which index
// permutations are symmetries of the shape. It is built once at game setup
// and shared, read-only, by every state that refers to it.
type Topology struct {
	name   string
	counts [NumSiteTypes]int

	adjacency [NumSiteTypes][][]int
	// steps[cell][dir] is the neighbouring cell in that direction, or -1.
	// Only grids have steps.
	steps [][NumDirections]int

	edgeEnds     [][2]int
	cellVertices [][]int

	// rotations[t][0] and reflections are index permutations over
	// elements of kind t. rotations[t][0] is always the identity.
	rotations   [NumSiteTypes][][]int
	reflections [NumSiteTypes][][]int

	labels  [NumSiteTypes][]string
	byLabel [NumSiteTypes]map[string]int

	tracks []Track
	rows   int
	cols   int
}

// NewGraph builds a topology from an explicit vertex/edge/cell description.
// Cells are polygons given as a cycle of vertex indices. Only the identity
// symmetry is known; use WithVertexSymmetries to declare more.
func NewGraph(name string, numVertices int, edges [][2]int, cells [][]int) (*Topology, error) {
	t := &Topology{name: name}
	t.counts[Vertex] = numVertices
	t.counts[Edge] = len(edges)
	t.counts[Cell] = len(cells)

	edgeLookup := map[[2]int]int{}
	for i, e := range edges {
		if e[0] < 0 || e[0] >= numVertices || e[1] < 0 || e[1] >= numVertices {
			return nil, fmt.Errorf("edge %d has an endpoint outside [0, %d)", i, numVertices)
		}
		if e[0] == e[1] {
			return nil, fmt.Errorf("edge %d is a loop", i)
		}
		k := edgeKey(e[0], e[1])
		if _, ok := edgeLookup[k]; ok {
			return nil, fmt.Errorf("edge %d duplicates edge %d", i, edgeLookup[k])
		}
		edgeLookup[k] = i
	}
	for i, c := range cells {
		if len(c) == 0 {
			return nil, fmt.Errorf("cell %d has no vertices", i)
		}
		for _, v := range c {
			if v < 0 || v >= numVertices {
				return nil, fmt.Errorf("cell %d has a vertex outside [0, %d)", i, numVertices)
			}
		}
	}
	t.edgeEnds = slices.Clone(edges)
	t.cellVertices = make([][]int, len(cells))
	for i, c := range cells {
		t.cellVertices[i] = slices.Clone(c)
	}

	// vertex adjacency: joined by an edge
	vadj := make([][]int, numVertices)
	for _, e := range edges {
		vadj[e[0]] = append(vadj[e[0]], e[1])
		vadj[e[1]] = append(vadj[e[1]], e[0])
	}
	// edge adjacency: sharing an endpoint
	byVertex := make([][]int, numVertices)
	for i, e := range edges {
		byVertex[e[0]] = append(byVertex[e[0]], i)
		byVertex[e[1]] = append(byVertex[e[1]], i)
	}
	eadj := make([][]int, len(edges))
	for i, e := range edges {
		for _, v := range e {
			for _, o := range byVertex[v] {
				if o != i && !slices.Contains(eadj[i], o) {
					eadj[i] = append(eadj[i], o)
				}
			}
		}
	}
	// cell adjacency: sharing a side
	sideCells := map[[2]int][]int{}
	for i, c := range cells {
		if len(c) < 2 {
			continue
		}
		for j := range c {
			k := edgeKey(c[j], c[(j+1)%len(c)])
			sideCells[k] = append(sideCells[k], i)
		}
	}
	cadj := make([][]int, len(cells))
	for _, owners := range sideCells {
		for _, a := range owners {
			for _, b := range owners {
				if a != b && !slices.Contains(cadj[a], b) {
					cadj[a] = append(cadj[a], b)
				}
			}
		}
	}
	for _, l := range [][][]int{vadj, eadj, cadj} {
		for _, n := range l {
			slices.Sort(n)
		}
	}
	t.adjacency[Vertex] = vadj
	t.adjacency[Edge] = eadj
	t.adjacency[Cell] = cadj

	for _, st := range SiteTypes {
		t.rotations[st] = [][]int{identity(t.counts[st])}
	}
	t.setDefaultLabels()
	return t, nil
}

// NewHand builds the topology of a player's hand: n unconnected cells with
// no symmetries.
func NewHand(name string, n int) *Topology {
	t := &Topology{name: name}
	t.counts[Cell] = n
	t.adjacency[Cell] = make([][]int, n)
	t.adjacency[Vertex] = [][]int{}
	t.adjacency[Edge] = [][]int{}
	for _, st := range SiteTypes {
		t.rotations[st] = [][]int{identity(t.counts[st])}
	}
	t.setDefaultLabels()
	return t
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func (t *Topology) setDefaultLabels() {
	for _, st := range SiteTypes {
		l := make([]string, t.counts[st])
		for i := range l {
			l[i] = strconv.Itoa(i)
		}
		t.setLabels(st, l)
	}
}

func (t *Topology) setLabels(st SiteType, labels []string) {
	t.labels[st] = labels
	t.byLabel[st] = make(map[string]int, len(labels))
	for i, l := range labels {
		t.byLabel[st][strings.ToUpper(l)] = i
	}
}

// WithVertexSymmetries declares symmetries of the graph as permutations of
// its vertices. The corresponding edge and cell permutations are derived
// from them. Each permutation must map edges onto edges and cells onto
// cells.
func (t *Topology) WithVertexSymmetries(rotations, reflections [][]int) error {
	rots := [NumSiteTypes][][]int{}
	refs := [NumSiteTypes][][]int{}
	for _, st := range SiteTypes {
		rots[st] = [][]int{identity(t.counts[st])}
	}
	for _, r := range rotations {
		if isIdentity(r) {
			continue
		}
		perms, err := t.derivePermutations(r)
		if err != nil {
			return err
		}
		for _, st := range SiteTypes {
			rots[st] = append(rots[st], perms[st])
		}
	}
	for _, r := range reflections {
		perms, err := t.derivePermutations(r)
		if err != nil {
			return err
		}
		for _, st := range SiteTypes {
			refs[st] = append(refs[st], perms[st])
		}
	}
	t.rotations = rots
	t.reflections = refs
	return nil
}

var errNotASymmetry = errors.New("permutation is not a symmetry of the graph")

func isIdentity(p []int) bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}

func (t *Topology) derivePermutations(vperm []int) ([NumSiteTypes][]int, error) {
	var out [NumSiteTypes][]int
	if len(vperm) != t.counts[Vertex] {
		return out, fmt.Errorf("vertex permutation has %d entries, want %d: %w",
			len(vperm), t.counts[Vertex], errNotASymmetry)
	}
	out[Vertex] = slices.Clone(vperm)

	edgeLookup := make(map[[2]int]int, len(t.edgeEnds))
	for i, e := range t.edgeEnds {
		edgeLookup[edgeKey(e[0], e[1])] = i
	}
	out[Edge] = make([]int, len(t.edgeEnds))
	for i, e := range t.edgeEnds {
		j, ok := edgeLookup[edgeKey(vperm[e[0]], vperm[e[1]])]
		if !ok {
			return out, fmt.Errorf("edge %d has no image: %w", i, errNotASymmetry)
		}
		out[Edge][i] = j
	}

	cellLookup := make(map[string]int, len(t.cellVertices))
	for i, c := range t.cellVertices {
		cellLookup[vertexSetKey(c, nil)] = i
	}
	out[Cell] = make([]int, len(t.cellVertices))
	for i, c := range t.cellVertices {
		j, ok := cellLookup[vertexSetKey(c, vperm)]
		if !ok {
			return out, fmt.Errorf("cell %d has no image: %w", i, errNotASymmetry)
		}
		out[Cell][i] = j
	}
	return out, nil
}

func vertexSetKey(vs []int, perm []int) string {
	s := make([]int, len(vs))
	for i, v := range vs {
		if perm != nil {
			v = perm[v]
		}
		s[i] = v
	}
	slices.Sort(s)
	var sb strings.Builder
	for _, v := range s {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte(',')
	}
	return sb.String()
}

// Name is the name of the topology, for display.
func (t *Topology) Name() string { return t.name }

// NumSites is the number of elements of the given kind.
func (t *Topology) NumSites(st SiteType) int { return t.counts[st] }

// Neighbours returns the elements adjacent to site. The returned slice must
// not be modified.
func (t *Topology) Neighbours(st SiteType, site int) []int {
	return t.adjacency[st][site]
}

// Adjacency returns the adjacency lists for all elements of a kind.
func (t *Topology) Adjacency(st SiteType) [][]int {
	return t.adjacency[st]
}

// Step returns the cell reached by moving one step from cell in direction
// d. It returns false when the step leaves the board or the topology has no
// notion of direction.
func (t *Topology) Step(cell int, d Direction) (int, bool) {
	if t.steps == nil || cell < 0 || cell >= len(t.steps) {
		return -1, false
	}
	n := t.steps[cell][d]
	return n, n >= 0
}

// HasDirections reports whether Step is meaningful on this topology.
func (t *Topology) HasDirections() bool { return t.steps != nil }

// EdgeEnds returns the two vertices joined by an edge.
func (t *Topology) EdgeEnds(edge int) [2]int { return t.edgeEnds[edge] }

// CellVertices returns the corner vertices of a cell.
func (t *Topology) CellVertices(cell int) []int { return t.cellVertices[cell] }

// Rotations returns the rotation permutations for a kind of element; the
// first entry is the identity.
func (t *Topology) Rotations(st SiteType) [][]int { return t.rotations[st] }

// Reflections returns the reflection permutations for a kind of element.
func (t *Topology) Reflections(st SiteType) [][]int { return t.reflections[st] }

// NumRotations is the number of rotations, including the identity.
func (t *Topology) NumRotations() int { return len(t.rotations[Cell]) }

// NumReflections is the number of reflection axes.
func (t *Topology) NumReflections() int { return len(t.reflections[Cell]) }

// Label returns the coordinate label of a site.
func (t *Topology) Label(st SiteType, site int) string {
	if site < 0 || site >= len(t.labels[st]) {
		return strconv.Itoa(site)
	}
	return t.labels[st][site]
}

// SiteFromLabel is the inverse of Label.
func (t *Topology) SiteFromLabel(st SiteType, label string) (int, bool) {
	i, ok := t.byLabel[st][strings.ToUpper(label)]
	return i, ok
}

// Rows is the number of cell rows on a grid, 0 otherwise.
func (t *Topology) Rows() int { return t.rows }

// Cols is the number of cell columns on a grid, 0 otherwise.
func (t *Topology) Cols() int { return t.cols }

// Tracks returns the tracks declared on this topology.
func (t *Topology) Tracks() []Track { return t.tracks }

// AddTrack declares a track. Track sites must be cells of this topology.
func (t *Topology) AddTrack(tr Track) error {
	if len(tr.Sites) == 0 {
		return fmt.Errorf("track %q has no sites", tr.Name)
	}
	for _, s := range tr.Sites {
		if s < 0 || s >= t.counts[Cell] {
			return fmt.Errorf("track %q: site %d is not a cell", tr.Name, s)
		}
	}
	for _, o := range t.tracks {
		if o.Name == tr.Name {
			return fmt.Errorf("duplicate track %q", tr.Name)
		}
	}
	tr.Sites = slices.Clone(tr.Sites)
	t.tracks = append(t.tracks, tr)
	return nil
}
