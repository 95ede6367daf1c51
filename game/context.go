package game

import (
	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/containerstate"
)

// Context pairs a game with one state of it. Actions are applied to a
// Context.
type Context struct {
	game  *Game
	state *State
}

// NewContext creates a context holding a fresh, empty state.
func NewContext(g *Game) *Context {
	return &Context{game: g, state: NewState(g)}
}

// WithState pairs g with an existing state.
func WithState(g *Game, s *State) *Context {
	return &Context{game: g, state: s}
}

func (c *Context) Game() *Game   { return c.game }
func (c *Context) State() *State { return c.state }

// Clone copies the state; the game is shared.
func (c *Context) Clone() *Context {
	return &Context{game: c.game, state: c.state.Clone()}
}

// Reset empties the state.
func (c *Context) Reset() { c.state.Reset() }

// ContainerFor returns the container state holding a global site, along
// with the site's local index.
func (c *Context) ContainerFor(t board.SiteType, global int) (containerstate.ContainerState, int, bool) {
	ci, local, ok := c.game.Locate(t, global)
	if !ok {
		return nil, -1, false
	}
	return c.state.containers[ci], local, true
}
