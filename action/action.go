// Package action implements the reversible mutations applied to a game
// state. Every action remembers, on its first Apply, everything it is about
// to overwrite, so that Undo restores the state exactly.
package action

import (
	"errors"
	"fmt"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/concept"
	"github.com/domino14/boardstate/containerstate"
	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/hidden"
	"github.com/domino14/boardstate/track"
)

// Undefined marks a parameter that was not given.
const Undefined = containerstate.Undefined

var (
	// ErrCorruptState is returned when a state invariant is found broken,
	// such as a destination left empty by a move that should have filled
	// it.
	ErrCorruptState = errors.New("corrupt state")
	// ErrMalformed wraps every trial-format parse error.
	ErrMalformed = errors.New("malformed action")
	// ErrNoSuchSite is returned for a site outside every container.
	ErrNoSuchSite = errors.New("no such site")
	// ErrUnknownComponent is returned when a piece type does not exist.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrDoesNotFit is returned when a large piece would leave the board.
	ErrDoesNotFit = errors.New("piece does not fit")
)

// Kind is the type of an action.
type Kind uint8

const (
	KindAdd Kind = iota
	KindRemove
	KindMove
	KindMoveN
	KindCopy
	KindInsert
	KindPromote
	KindSelect
	KindStackMove
	KindSubStackMove
	KindSetState
	KindSetRotation
	KindSetValue
	KindSetCount
	KindSetHidden
	numKinds
)

// NumKinds is the number of action kinds. Kinds run from 0 to NumKinds-1.
const NumKinds = int(numKinds)

var kindNames = [numKinds]string{
	"Add", "Remove", "Move", "MoveN", "Copy", "Insert", "Promote", "Select",
	"StackMove", "SubStackMove", "SetState", "SetRotation", "SetValue",
	"SetCount", "SetHidden",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Action is one reversible state change.
type Action interface {
	Kind() Kind
	// Apply performs the action. Applying a move from an empty site does
	// nothing.
	Apply(ctx *game.Context) error
	// Undo reverts the last Apply. It is a no-op if Apply never ran.
	Undo(ctx *game.Context) error

	ToTrialFormat(ctx *game.Context) string
	ToMoveFormat(ctx *game.Context, useCoords bool) string
	ToTurnFormat(ctx *game.Context, useCoords bool) string
	Concepts(ctx *game.Context) concept.Set
	String() string

	IsDecision() bool
	SetDecision(bool)
	From() int
	To() int
	LevelFrom() int
	LevelTo() int
	FromType() board.SiteType
	ToType() board.SiteType
	Who() int
	What() int
	Count() int
	Equals(o Action) bool

	base() *common
}

// params are everything that identifies an action. Two actions with equal
// params are the same action.
type params struct {
	kind      Kind
	typeFrom  board.SiteType
	typeTo    board.SiteType
	from      int
	to        int
	levelFrom int
	levelTo   int
	who       int
	what      int
	count     int
	state     int
	rotation  int
	value     int
	num       int
	stack     bool
	player    int
	field     hidden.Kind
	on        bool
	decision  bool
}

func defaultParams(k Kind) params {
	return params{
		kind:      k,
		from:      Undefined,
		to:        Undefined,
		levelFrom: Undefined,
		levelTo:   Undefined,
		who:       Undefined,
		what:      Undefined,
		count:     Undefined,
		state:     Undefined,
		rotation:  Undefined,
		value:     Undefined,
		num:       Undefined,
		player:    Undefined,
	}
}

// siteUndo is the saved contents of one site.
type siteUndo struct {
	container int
	containerstate.SiteSnapshot
}

// snapshot is what an applied action needs to revert itself. The site
// contents are captured on the first Apply only; track ops are those of the
// latest Apply.
type snapshot struct {
	sites    []siteUndo
	trackOps []track.Op
	// captured is set when a piece at the destination was displaced
	captured bool
	// piece is the type of the piece the action placed or moved
	piece int
}

// common carries the parameters and undo data shared by every kind.
type common struct {
	params
	undo *snapshot
}

func (c *common) base() *common { return c }

func (c *common) Kind() Kind               { return c.kind }
func (c *common) IsDecision() bool         { return c.decision }
func (c *common) SetDecision(d bool)       { c.decision = d }
func (c *common) From() int                { return c.from }
func (c *common) To() int                  { return c.to }
func (c *common) LevelFrom() int           { return c.levelFrom }
func (c *common) LevelTo() int             { return c.levelTo }
func (c *common) FromType() board.SiteType { return c.typeFrom }
func (c *common) ToType() board.SiteType   { return c.typeTo }
func (c *common) Who() int                 { return c.who }
func (c *common) What() int                { return c.what }
func (c *common) Count() int               { return c.count }
func (c *common) Equals(o Action) bool     { return o != nil && c.params == o.base().params }
func (c *common) String() string           { return c.ToTrialFormat(nil) }

// Undo restores every captured site, newest first, and reverts the track
// index.
func (c *common) Undo(ctx *game.Context) error {
	if c.undo == nil {
		return nil
	}
	st := ctx.State()
	st.Tracks().Revert(c.undo.trackOps)
	c.undo.trackOps = nil
	for i := len(c.undo.sites) - 1; i >= 0; i-- {
		s := c.undo.sites[i]
		st.Container(s.container).Restore(st.Owned(), s.SiteSnapshot)
	}
	return nil
}

// Option sets an optional parameter of an action.
type Option func(*params)

// WithWho sets the owner of the piece.
func WithWho(who int) Option { return func(p *params) { p.who = who } }

// WithWhat sets the piece type.
func WithWhat(what int) Option { return func(p *params) { p.what = what } }

// WithCount sets how many pieces are affected.
func WithCount(n int) Option { return func(p *params) { p.count = n } }

// WithState sets the local state the piece ends up with.
func WithState(s int) Option { return func(p *params) { p.state = s } }

// WithRotation sets the rotation the piece ends up with.
func WithRotation(r int) Option { return func(p *params) { p.rotation = r } }

// WithValue sets the value the piece ends up with.
func WithValue(v int) Option { return func(p *params) { p.value = v } }

// WithLevel sets the destination stack level.
func WithLevel(l int) Option { return func(p *params) { p.levelTo = l } }

// WithLevelFrom sets the origin stack level.
func WithLevelFrom(l int) Option { return func(p *params) { p.levelFrom = l } }

// WithStack makes a move carry the whole stack.
func WithStack() Option { return func(p *params) { p.stack = true } }

// AsDecision marks the action as the decision of a move rather than one of
// its consequences.
func AsDecision() Option { return func(p *params) { p.decision = true } }

func build(k Kind, tFrom board.SiteType, from int, tTo board.SiteType, to int, opts []Option) params {
	p := defaultParams(k)
	p.typeFrom, p.from = tFrom, from
	p.typeTo, p.to = tTo, to
	for _, o := range opts {
		o(&p)
	}
	return p
}

type (
	// Add puts a piece on a site: on top of the stack, at a level, or onto
	// a pile in counted games.
	Add struct{ common }
	// Remove takes a piece off a site. In counted games a count takes only
	// that many.
	Remove struct{ common }
	// Move carries a piece (or with stack set, a whole stack) between two
	// sites.
	Move struct{ common }
	// MoveN carries count identical pieces between two piles.
	MoveN struct{ common }
	// Copy puts a copy of a piece on another site.
	Copy struct{ common }
	// Insert puts a piece at a given stack level, lifting what is above.
	Insert struct{ common }
	// Promote changes the type of a piece in place.
	Promote struct{ common }
	// Select marks sites for notation without changing anything.
	Select struct{ common }
	// StackMove carries the top num pieces of a stack.
	StackMove struct{ common }
	// SubStackMove carries num pieces starting at levelFrom.
	SubStackMove struct{ common }
	// SetState sets the local state of a site.
	SetState struct{ common }
	// SetRotation sets the rotation of a piece.
	SetRotation struct{ common }
	// SetValue sets the value of a piece.
	SetValue struct{ common }
	// SetCount sets the size of a pile.
	SetCount struct{ common }
	// SetHidden hides or reveals part of a site from a player.
	SetHidden struct{ common }
)

// NewAdd places a piece of type what at to.
func NewAdd(t board.SiteType, to, what int, opts ...Option) *Add {
	a := &Add{common{params: build(KindAdd, t, Undefined, t, to, opts)}}
	a.what = what
	return a
}

// NewRemove takes the piece at to.
func NewRemove(t board.SiteType, to int, opts ...Option) *Remove {
	return &Remove{common{params: build(KindRemove, t, Undefined, t, to, opts)}}
}

// NewMove moves the piece at from to to.
func NewMove(tFrom board.SiteType, from int, tTo board.SiteType, to int, opts ...Option) *Move {
	return &Move{common{params: build(KindMove, tFrom, from, tTo, to, opts)}}
}

// NewMoveN moves count pieces from one pile to another.
func NewMoveN(t board.SiteType, from, to, count int, opts ...Option) *MoveN {
	m := &MoveN{common{params: build(KindMoveN, t, from, t, to, opts)}}
	m.count = count
	return m
}

// NewCopy copies the piece at from onto to.
func NewCopy(tFrom board.SiteType, from int, tTo board.SiteType, to int, opts ...Option) *Copy {
	return &Copy{common{params: build(KindCopy, tFrom, from, tTo, to, opts)}}
}

// NewInsert puts a piece of type what at level of to.
func NewInsert(t board.SiteType, to, level, what int, opts ...Option) *Insert {
	a := &Insert{common{params: build(KindInsert, t, Undefined, t, to, opts)}}
	a.levelTo, a.what = level, what
	return a
}

// NewPromote turns the piece at to into a what.
func NewPromote(t board.SiteType, to, what int, opts ...Option) *Promote {
	a := &Promote{common{params: build(KindPromote, t, Undefined, t, to, opts)}}
	a.what = what
	return a
}

// NewSelect records from (and optionally to, or Undefined) as chosen.
func NewSelect(tFrom board.SiteType, from int, tTo board.SiteType, to int, opts ...Option) *Select {
	return &Select{common{params: build(KindSelect, tFrom, from, tTo, to, opts)}}
}

// NewStackMove moves the top num pieces of from onto to.
func NewStackMove(tFrom board.SiteType, from int, tTo board.SiteType, to, num int, opts ...Option) *StackMove {
	a := &StackMove{common{params: build(KindStackMove, tFrom, from, tTo, to, opts)}}
	a.num = num
	return a
}

// NewSubStackMove moves num pieces starting at levelFrom of from onto to.
func NewSubStackMove(tFrom board.SiteType, from int, tTo board.SiteType, to, levelFrom, num int, opts ...Option) *SubStackMove {
	a := &SubStackMove{common{params: build(KindSubStackMove, tFrom, from, tTo, to, opts)}}
	a.levelFrom, a.num = levelFrom, num
	return a
}

// NewSetState sets the local state at to.
func NewSetState(t board.SiteType, to, state int, opts ...Option) *SetState {
	a := &SetState{common{params: build(KindSetState, t, Undefined, t, to, opts)}}
	a.state = state
	return a
}

// NewSetRotation sets the rotation of the piece at to.
func NewSetRotation(t board.SiteType, to, rotation int, opts ...Option) *SetRotation {
	a := &SetRotation{common{params: build(KindSetRotation, t, Undefined, t, to, opts)}}
	a.rotation = rotation
	return a
}

// NewSetValue sets the value of the piece at to.
func NewSetValue(t board.SiteType, to, value int, opts ...Option) *SetValue {
	a := &SetValue{common{params: build(KindSetValue, t, Undefined, t, to, opts)}}
	a.value = value
	return a
}

// NewSetCount sets the size of the pile at to. A count of 0 empties it.
func NewSetCount(t board.SiteType, to, count int, opts ...Option) *SetCount {
	a := &SetCount{common{params: build(KindSetCount, t, Undefined, t, to, opts)}}
	a.count = count
	return a
}

// NewSetHidden hides (on) or reveals field k of to from player.
func NewSetHidden(t board.SiteType, to, player int, k hidden.Kind, on bool, opts ...Option) *SetHidden {
	a := &SetHidden{common{params: build(KindSetHidden, t, Undefined, t, to, opts)}}
	a.player, a.field, a.on = player, k, on
	return a
}

var (
	_ Action = (*Add)(nil)
	_ Action = (*Remove)(nil)
	_ Action = (*Move)(nil)
	_ Action = (*MoveN)(nil)
	_ Action = (*Copy)(nil)
	_ Action = (*Insert)(nil)
	_ Action = (*Promote)(nil)
	_ Action = (*Select)(nil)
	_ Action = (*StackMove)(nil)
	_ Action = (*SubStackMove)(nil)
	_ Action = (*SetState)(nil)
	_ Action = (*SetRotation)(nil)
	_ Action = (*SetValue)(nil)
	_ Action = (*SetCount)(nil)
	_ Action = (*SetHidden)(nil)
)

// newOfKind returns an empty action of kind k, for the parser.
func newOfKind(k Kind) Action {
	c := common{params: defaultParams(k)}
	switch k {
	case KindAdd:
		return &Add{c}
	case KindRemove:
		return &Remove{c}
	case KindMove:
		return &Move{c}
	case KindMoveN:
		return &MoveN{c}
	case KindCopy:
		return &Copy{c}
	case KindInsert:
		return &Insert{c}
	case KindPromote:
		return &Promote{c}
	case KindSelect:
		return &Select{c}
	case KindStackMove:
		return &StackMove{c}
	case KindSubStackMove:
		return &SubStackMove{c}
	case KindSetState:
		return &SetState{c}
	case KindSetRotation:
		return &SetRotation{c}
	case KindSetValue:
		return &SetValue{c}
	case KindSetCount:
		return &SetCount{c}
	case KindSetHidden:
		return &SetHidden{c}
	}
	return nil
}

// Duplicate returns an action with the same parameters as a that has not
// been applied yet. Undo information is tied to the state an action was
// first applied to, so each state replaying a sequence needs its own copies.
func Duplicate(a Action) Action {
	n := newOfKind(a.Kind())
	n.base().params = a.base().params
	return n
}
