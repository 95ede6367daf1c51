// Package game holds the static description of a game (its containers,
// components and the shape of the data they need) and the mutable state
// actions are applied to.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/hidden"
)

var ErrInvalidGame = errors.New("invalid game description")

// A Component is a piece type. Component indices start at 1; 0 means "no
// piece".
type Component struct {
	Index int
	Name  string
	// Owner is the player the piece belongs to, 0 when unowned.
	Owner int
	// Footprint is set for large pieces covering several cells.
	Footprint *board.Footprint
}

// IsLarge reports whether the piece covers more than one site.
func (c *Component) IsLarge() bool {
	return c != nil && c.Footprint.Size() > 1
}

// Game is the static metadata of a game. It is built once and shared,
// read-only, by every state and clone.
type Game struct {
	Name       string
	NumPlayers int
	// Containers[0] is the board; the others are hands.
	Containers []*board.Container
	// Components[0] is always nil.
	Components []*Component
	// Kinds are the site kinds the board stores.
	Kinds      []board.SiteType
	Stacking   bool
	HiddenInfo bool
	// MaxCount above 1 makes containers counted.
	MaxCount       int
	MaxState       int
	MaxRotation    int
	MaxValue       int
	MaxStackHeight int
	Seed           uint64
}

// Init numbers the containers, lays out their cells in the global index
// space and checks the description is consistent.
func (g *Game) Init() error {
	if g.NumPlayers < 1 || g.NumPlayers > hidden.MaxPlayers {
		return fmt.Errorf("%w: %d players", ErrInvalidGame, g.NumPlayers)
	}
	if len(g.Containers) == 0 || g.Containers[0].Topology == nil {
		return fmt.Errorf("%w: no board", ErrInvalidGame)
	}
	if g.Stacking && g.MaxCount > 1 {
		return fmt.Errorf("%w: a container cannot be both stacked and counted", ErrInvalidGame)
	}
	if len(g.Components) == 0 {
		g.Components = []*Component{nil}
	}
	if g.Components[0] != nil {
		return fmt.Errorf("%w: component 0 is reserved", ErrInvalidGame)
	}
	for i, c := range g.Components[1:] {
		c.Index = i + 1
		if c.Owner < 0 || c.Owner > g.NumPlayers+1 {
			return fmt.Errorf("%w: component %s has owner %d", ErrInvalidGame, c.Name, c.Owner)
		}
	}
	if len(g.Kinds) == 0 {
		g.Kinds = []board.SiteType{board.Cell}
	}
	if g.Stacking && g.MaxStackHeight < 1 {
		g.MaxStackHeight = config.DefaultMaxStackHeight
	}
	offset := 0
	for i, c := range g.Containers {
		if c.Topology == nil {
			return fmt.Errorf("%w: container %d has no topology", ErrInvalidGame, i)
		}
		c.Index = i
		c.Offset = offset
		offset += c.NumSites(board.Cell)
		if i > 0 && c.Boardless {
			return fmt.Errorf("%w: hand %s cannot be boardless", ErrInvalidGame, c.Name)
		}
	}
	log.Debug().Str("game", g.Name).Int("containers", len(g.Containers)).
		Int("components", g.NumComponents()).Int("cells", offset).Msg("game-initialized")
	return nil
}

// Board is the shared board container.
func (g *Game) Board() *board.Container { return g.Containers[0] }

// NumComponents is the number of piece types.
func (g *Game) NumComponents() int { return len(g.Components) - 1 }

// Component returns a piece type, or nil for 0 and unknown indices.
func (g *Game) Component(what int) *Component {
	if what <= 0 || what >= len(g.Components) {
		return nil
	}
	return g.Components[what]
}

// ComponentByName looks up a piece type.
func (g *Game) ComponentByName(name string) *Component {
	for _, c := range g.Components[1:] {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Counted reports whether containers keep a count per site.
func (g *Game) Counted() bool { return !g.Stacking && g.MaxCount > 1 }

// Tracks are the tracks declared on the board.
func (g *Game) Tracks() []board.Track { return g.Board().Topology.Tracks() }

// HasTracks reports whether the game keeps a track index.
func (g *Game) HasTracks() bool { return len(g.Tracks()) > 0 }

// TotalCells is the size of the global cell index space.
func (g *Game) TotalCells() int {
	last := g.Containers[len(g.Containers)-1]
	return last.Offset + last.NumSites(board.Cell)
}

// Locate finds the container holding a global site. Vertices and edges only
// live on the board.
func (g *Game) Locate(t board.SiteType, global int) (container, local int, ok bool) {
	if t != board.Cell {
		b := g.Board()
		return 0, global, global >= 0 && global < b.NumSites(t)
	}
	for _, c := range g.Containers {
		if c.Contains(t, global) {
			return c.Index, c.Local(t, global), true
		}
	}
	return -1, -1, false
}

// Label is the display label of a global site, prefixed with the hand name
// for sites outside the board.
func (g *Game) Label(t board.SiteType, global int) string {
	ci, local, ok := g.Locate(t, global)
	if !ok {
		return fmt.Sprint(global)
	}
	c := g.Containers[ci]
	if ci == 0 {
		return c.Topology.Label(t, local)
	}
	return c.Name + ":" + c.Topology.Label(t, local)
}

// SiteFromLabel is the inverse of Label.
func (g *Game) SiteFromLabel(t board.SiteType, label string) (int, bool) {
	for _, c := range g.Containers[1:] {
		prefix := c.Name + ":"
		if len(label) > len(prefix) && label[:len(prefix)] == prefix {
			l, ok := c.Topology.SiteFromLabel(t, label[len(prefix):])
			return c.Global(t, l), ok
		}
	}
	return g.Board().Topology.SiteFromLabel(t, label)
}
