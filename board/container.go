package board

// A Container is one addressable collection of sites: the shared board or a
// player's hand. Cell indices of all containers share one global index space;
// Offset is where this container's cells start in it. Vertices and edges only
// exist on the board and are never offset.
type Container struct {
	Index    int
	Name     string
	Topology *Topology
	Offset   int
	// Owner is the player a hand belongs to; 0 for the board.
	Owner int
	// Boardless containers grow around the pieces played so far; they keep
	// track of playable sites.
	Boardless bool
}

// IsHand reports whether this container is a player's hand.
func (c *Container) IsHand() bool { return c.Index > 0 }

// NumSites is the number of sites of a kind in this container.
func (c *Container) NumSites(st SiteType) int { return c.Topology.NumSites(st) }

// Global converts a container-local site index to a global one.
func (c *Container) Global(st SiteType, local int) int {
	if st != Cell {
		return local
	}
	return local + c.Offset
}

// Local converts a global site index to a container-local one.
func (c *Container) Local(st SiteType, global int) int {
	if st != Cell {
		return global
	}
	return global - c.Offset
}

// Contains reports whether the global site belongs to this container.
func (c *Container) Contains(st SiteType, global int) bool {
	l := c.Local(st, global)
	return l >= 0 && l < c.Topology.NumSites(st)
}

// Label returns the display label of a global site.
func (c *Container) Label(st SiteType, global int) string {
	return c.Topology.Label(st, c.Local(st, global))
}
