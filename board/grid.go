package board

import "fmt"

// NewSquareGrid builds a rows x cols grid of square cells, together with the
// (rows+1) x (cols+1) vertices at the cell corners and the edges between
// them. Row 0 is at the bottom. A square board gets the full dihedral group
// of 8 symmetries; a rectangular one gets the 4 that preserve its shape.
func NewSquareGrid(rows, cols int) *Topology {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("bad grid dimensions %dx%d", rows, cols))
	}
	vcols := cols + 1
	vidx := func(r, c int) int { return r*vcols + c }
	numVertices := (rows + 1) * vcols

	edges := make([][2]int, 0, (rows+1)*cols+rows*(cols+1))
	for r := 0; r <= rows; r++ {
		for c := 0; c < cols; c++ {
			edges = append(edges, [2]int{vidx(r, c), vidx(r, c+1)})
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c <= cols; c++ {
			edges = append(edges, [2]int{vidx(r, c), vidx(r+1, c)})
		}
	}
	cells := make([][]int, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, []int{vidx(r, c), vidx(r, c+1), vidx(r+1, c+1), vidx(r+1, c)})
		}
	}
	t, err := NewGraph(fmt.Sprintf("Square%dx%d", rows, cols), numVertices, edges, cells)
	if err != nil {
		// The description above is well-formed by construction.
		panic(err)
	}
	t.rows, t.cols = rows, cols

	// Orthogonal cell adjacency comes out of NewGraph; the step table
	// also covers diagonals.
	t.steps = make([][NumDirections]int, rows*cols)
	deltas := [NumDirections][2]int{
		N: {1, 0}, NE: {1, 1}, E: {0, 1}, SE: {-1, 1},
		S: {-1, 0}, SW: {-1, -1}, W: {0, -1}, NW: {1, -1},
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for d, dl := range deltas {
				nr, nc := r+dl[0], c+dl[1]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					t.steps[r*cols+c][d] = -1
				} else {
					t.steps[r*cols+c][d] = nr*cols + nc
				}
			}
		}
	}

	vertexPerm := func(f func(r, c int) (int, int)) []int {
		p := make([]int, numVertices)
		for r := 0; r <= rows; r++ {
			for c := 0; c <= cols; c++ {
				nr, nc := f(r, c)
				p[vidx(r, c)] = vidx(nr, nc)
			}
		}
		return p
	}
	rot180 := vertexPerm(func(r, c int) (int, int) { return rows - r, cols - c })
	mirror := vertexPerm(func(r, c int) (int, int) { return r, cols - c })
	var rotations [][]int
	if rows == cols {
		n := rows
		rot90 := vertexPerm(func(r, c int) (int, int) { return n - c, r })
		rot270 := vertexPerm(func(r, c int) (int, int) { return c, n - r })
		rotations = [][]int{rot90, rot180, rot270}
	} else {
		rotations = [][]int{rot180}
	}
	if err := t.WithVertexSymmetries(rotations, [][]int{mirror}); err != nil {
		panic(err)
	}

	cellLabels := make([]string, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cellLabels[r*cols+c] = GridCoords(r, c)
		}
	}
	vertexLabels := make([]string, numVertices)
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			vertexLabels[vidx(r, c)] = GridCoords(r, c)
		}
	}
	edgeLabels := make([]string, len(edges))
	for i, e := range edges {
		edgeLabels[i] = vertexLabels[e[0]] + "_" + vertexLabels[e[1]]
	}
	t.setLabels(Cell, cellLabels)
	t.setLabels(Vertex, vertexLabels)
	t.setLabels(Edge, edgeLabels)
	return t
}
