package trial

import (
	"errors"
	"fmt"

	"github.com/domino14/boardstate/action"
	"github.com/domino14/boardstate/game"
)

var ErrOutOfRange = errors.New("position out of range")

// A Cursor steps a state back and forth through a trial. Position n means
// the first n actions have been applied.
type Cursor struct {
	trial *Trial
	ctx   *game.Context
	pos   int
}

// NewCursor starts at position 0. The trial's actions must not have been
// applied to another state.
func NewCursor(t *Trial, ctx *game.Context) *Cursor {
	return &Cursor{trial: t, ctx: ctx}
}

// Pos is the number of applied actions.
func (c *Cursor) Pos() int { return c.pos }

// Len is the length of the trial.
func (c *Cursor) Len() int { return c.trial.Len() }

// Context is the state being stepped.
func (c *Cursor) Context() *game.Context { return c.ctx }

// Last is the most recently applied action, or nil at the start.
func (c *Cursor) Last() action.Action {
	if c.pos == 0 {
		return nil
	}
	return c.trial.Actions[c.pos-1]
}

// Forward applies the next action.
func (c *Cursor) Forward() error {
	if c.pos >= c.trial.Len() {
		return ErrOutOfRange
	}
	a := c.trial.Actions[c.pos]
	if err := a.Apply(c.ctx); err != nil {
		return fmt.Errorf("action %d %s: %w", c.pos, a, err)
	}
	c.pos++
	return nil
}

// Back undoes the last applied action.
func (c *Cursor) Back() error {
	if c.pos == 0 {
		return ErrOutOfRange
	}
	if err := c.trial.Actions[c.pos-1].Undo(c.ctx); err != nil {
		return err
	}
	c.pos--
	return nil
}

// Seek moves to position n.
func (c *Cursor) Seek(n int) error {
	if n < 0 || n > c.trial.Len() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, n, c.trial.Len())
	}
	for c.pos < n {
		if err := c.Forward(); err != nil {
			return err
		}
	}
	for c.pos > n {
		if err := c.Back(); err != nil {
			return err
		}
	}
	return nil
}
