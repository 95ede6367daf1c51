package board

import (
	"fmt"
	"strings"
)

// SiteType is one of the three kinds of topological element a piece can
// sit on.
type SiteType uint8

const (
	Cell SiteType = iota
	Vertex
	Edge
)

// NumSiteTypes is the number of distinct element kinds.
const NumSiteTypes = 3

// SiteTypes lists every element kind, in index order.
var SiteTypes = [NumSiteTypes]SiteType{Cell, Vertex, Edge}

func (t SiteType) String() string {
	switch t {
	case Cell:
		return "Cell"
	case Vertex:
		return "Vertex"
	case Edge:
		return "Edge"
	}
	return fmt.Sprintf("SiteType(%d)", uint8(t))
}

// ParseSiteType is the inverse of String. It is case-insensitive.
func ParseSiteType(s string) (SiteType, error) {
	switch strings.ToLower(s) {
	case "cell":
		return Cell, nil
	case "vertex":
		return Vertex, nil
	case "edge":
		return Edge, nil
	}
	return Cell, fmt.Errorf("unknown site type %q", s)
}

// Direction is a compass direction on a grid. Directions are ordered
// clockwise so that rotating by a quarter turn adds 2.
type Direction uint8

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

// NumDirections is the number of compass directions.
const NumDirections = 8

var directionNames = [NumDirections]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if int(d) < NumDirections {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection parses a compass abbreviation such as "NE".
func ParseDirection(s string) (Direction, error) {
	for i, n := range directionNames {
		if strings.EqualFold(n, s) {
			return Direction(i), nil
		}
	}
	return N, fmt.Errorf("unknown direction %q", s)
}

// Rotate turns the direction clockwise by the given number of quarter turns.
func (d Direction) Rotate(quarterTurns int) Direction {
	r := (int(d) + 2*quarterTurns) % NumDirections
	if r < 0 {
		r += NumDirections
	}
	return Direction(r)
}
