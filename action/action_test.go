package action

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/concept"
	"github.com/domino14/boardstate/containerstate"
	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/hidden"
	"github.com/domino14/boardstate/owned"
)

const (
	pawn  = 1
	queen = 2
	enemy = 3
)

// newContext builds a two-player game on a 4x4 board with a three-cell hand
// for each player. mod adjusts the game before it is initialized.
func newContext(t *testing.T, mod func(g *game.Game)) *game.Context {
	t.Helper()
	g := &game.Game{
		Name:       "test",
		NumPlayers: 2,
		Containers: []*board.Container{
			{Name: "Board", Topology: board.NewSquareGrid(4, 4)},
			{Name: "Hand1", Topology: board.NewHand("Hand1", 3), Owner: 1},
			{Name: "Hand2", Topology: board.NewHand("Hand2", 3), Owner: 2},
		},
		Components: []*game.Component{
			nil,
			{Name: "Pawn", Owner: 1},
			{Name: "Queen", Owner: 1},
			{Name: "Enemy", Owner: 2},
		},
		Seed: 7,
	}
	if mod != nil {
		mod(g)
	}
	require.NoError(t, g.Init())
	return game.NewContext(g)
}

func board0(ctx *game.Context) containerstate.ContainerState {
	return ctx.State().Container(0)
}

func mustApply(t *testing.T, ctx *game.Context, as ...Action) {
	t.Helper()
	for _, a := range as {
		require.NoError(t, a.Apply(ctx), a.String())
	}
}

// checkRoundTrip applies a twice, undoing each time, and checks the state
// is back where it started after each undo.
func checkRoundTrip(t *testing.T, ctx *game.Context, a Action) {
	t.Helper()
	before := ctx.State().Clone()
	for range 2 {
		require.NoError(t, a.Apply(ctx), a.String())
		require.NoError(t, a.Undo(ctx), a.String())
		assert.True(t, ctx.State().Equals(before), "%s did not undo", a)
		for _, cs := range ctx.State().Containers() {
			assert.Equal(t, cs.CalcHash(), cs.Hash(), a.String())
		}
	}
}

func TestSimpleMove(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, nil)
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 5, pawn))

	m := NewMove(board.Cell, 5, board.Cell, 9)
	is.NoErr(m.Apply(ctx))
	is.True(cs.IsEmpty(5, board.Cell))
	is.Equal(cs.Who(9, board.Cell), 1)
	is.Equal(cs.What(9, board.Cell), pawn)
	is.True(cs.EmptyRegion(board.Cell).Contains(5))
	is.True(!cs.EmptyRegion(board.Cell).Contains(9))
	is.Equal(ctx.State().Owned().Locations(1, pawn), []owned.Location{{Site: 9, Type: board.Cell}})

	is.NoErr(m.Undo(ctx))
	is.True(cs.IsOccupied(5, board.Cell))
	is.True(cs.IsEmpty(9, board.Cell))
	is.True(cs.EmptyRegion(board.Cell).Contains(9))
	is.Equal(ctx.State().Owned().Locations(1, pawn), []owned.Location{{Site: 5, Type: board.Cell}})
}

func TestStackingInsert(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.Stacking = true })
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 3, pawn), NewAdd(board.Cell, 3, enemy))
	is.Equal(cs.SizeStack(3, board.Cell), 2)

	ins := NewInsert(board.Cell, 3, 1, queen)
	is.NoErr(ins.Apply(ctx))
	is.Equal(cs.SizeStack(3, board.Cell), 3)
	is.Equal(cs.WhatAt(3, 0, board.Cell), pawn)
	is.Equal(cs.WhatAt(3, 1, board.Cell), queen)
	is.Equal(cs.WhatAt(3, 2, board.Cell), enemy)
	is.Equal(ctx.State().Owned().Locations(2, enemy), []owned.Location{{Site: 3, Level: 2, Type: board.Cell}})

	is.NoErr(ins.Undo(ctx))
	is.Equal(cs.SizeStack(3, board.Cell), 2)
	is.Equal(cs.WhatAt(3, 1, board.Cell), enemy)
	is.Equal(ctx.State().Owned().Locations(2, enemy), []owned.Location{{Site: 3, Level: 1, Type: board.Cell}})
	checkRoundTrip(t, ctx, ins)
}

func TestHiddenMove(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.HiddenInfo = true })
	cs := board0(ctx)
	mustApply(t, ctx,
		NewAdd(board.Cell, 5, pawn),
		NewSetHidden(board.Cell, 5, 2, hidden.What, true),
		NewSetHidden(board.Cell, 5, 2, hidden.State, true),
		NewSetHidden(board.Cell, 9, 1, hidden.Who, true),
	)
	origin := cs.HiddenFlags(5, 0, board.Cell)
	dest := cs.HiddenFlags(9, 0, board.Cell)
	snap5, snap9 := cs.Snapshot(5, board.Cell), cs.Snapshot(9, board.Cell)

	m := NewMove(board.Cell, 5, board.Cell, 9)
	is.NoErr(m.Apply(ctx))
	is.Equal(cs.HiddenFlags(9, 0, board.Cell), origin)
	is.True(cs.IsHidden(2, 9, 0, board.Cell, hidden.What))
	is.True(!cs.IsHidden(1, 9, 0, board.Cell, hidden.Who))
	is.True(cs.HiddenFlags(5, 0, board.Cell).IsZero())

	is.NoErr(m.Undo(ctx))
	is.Equal(cs.HiddenFlags(5, 0, board.Cell), origin)
	is.Equal(cs.HiddenFlags(9, 0, board.Cell), dest)
	if d := cmp.Diff(snap5, cs.Snapshot(5, board.Cell)); d != "" {
		t.Errorf("origin differs after undo (-want +got):\n%s", d)
	}
	if d := cmp.Diff(snap9, cs.Snapshot(9, board.Cell)); d != "" {
		t.Errorf("destination differs after undo (-want +got):\n%s", d)
	}
}

func TestCountedRemove(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.MaxCount = 10 })
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 7, pawn, WithCount(3)))
	is.Equal(cs.Count(7, board.Cell), 3)

	one := NewRemove(board.Cell, 7, WithCount(1))
	is.NoErr(one.Apply(ctx))
	is.Equal(cs.Count(7, board.Cell), 2)
	is.True(cs.IsOccupied(7, board.Cell))

	rest := NewRemove(board.Cell, 7, WithCount(5))
	is.NoErr(rest.Apply(ctx))
	is.Equal(cs.Count(7, board.Cell), 0)
	is.True(cs.EmptyRegion(board.Cell).Contains(7))
	is.Equal(ctx.State().Owned().Count(1), 0)

	is.NoErr(rest.Undo(ctx))
	is.Equal(cs.Count(7, board.Cell), 2)
	is.NoErr(one.Undo(ctx))
	is.Equal(cs.Count(7, board.Cell), 3)
}

func TestMoveFromEmptySite(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, nil)
	before := ctx.State().Clone()
	m := NewMove(board.Cell, 0, board.Cell, 1)
	is.NoErr(m.Apply(ctx))
	is.NoErr(m.Undo(ctx))
	is.True(ctx.State().Equals(before))
	is.True(m.undo == nil)
}

func TestUndoBeforeApply(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, nil)
	mustApply(t, ctx, NewAdd(board.Cell, 2, pawn))
	before := ctx.State().Clone()
	is.NoErr(NewRemove(board.Cell, 2).Undo(ctx))
	is.True(ctx.State().Equals(before))
}

func TestCapture(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, nil)
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 5, pawn), NewAdd(board.Cell, 9, enemy))

	m := NewMove(board.Cell, 5, board.Cell, 9, AsDecision())
	is.NoErr(m.Apply(ctx))
	is.Equal(cs.What(9, board.Cell), pawn)
	is.Equal(ctx.State().Owned().Count(2), 0)
	c := m.Concepts(ctx)
	is.True(c.Has(concept.Capture))
	is.True(c.Has(concept.Decision))
	is.True(c.Has(concept.FromTo))

	is.NoErr(m.Undo(ctx))
	is.Equal(cs.What(9, board.Cell), enemy)
	is.Equal(cs.Who(9, board.Cell), 2)
	is.Equal(ctx.State().Owned().Count(2), 1)
	checkRoundTrip(t, ctx, m)
}

func TestUnknownComponent(t *testing.T) {
	ctx := newContext(t, nil)
	err := NewAdd(board.Cell, 0, 9).Apply(ctx)
	assert.ErrorIs(t, err, ErrUnknownComponent)
	err = NewAdd(board.Cell, 99, pawn).Apply(ctx)
	assert.ErrorIs(t, err, ErrNoSuchSite)
}

func TestHands(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, nil)
	hand := ctx.State().Container(1)
	// the board has 16 cells, so Hand1 starts at 16
	mustApply(t, ctx, NewAdd(board.Cell, 17, pawn))
	is.Equal(hand.What(1, board.Cell), pawn)

	m := NewMove(board.Cell, 17, board.Cell, 0)
	is.NoErr(m.Apply(ctx))
	is.True(hand.IsEmpty(1, board.Cell))
	is.Equal(board0(ctx).What(0, board.Cell), pawn)
	is.Equal(m.ToTurnFormat(ctx, true), "Hand1:1-A1")
	checkRoundTrip(t, ctx, m)
}

func TestLargePiece(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) {
		g.MaxRotation = 3
		g.Components = append(g.Components, &game.Component{
			Name: "Domino", Footprint: &board.Footprint{Walk: []board.Direction{board.E}},
		})
	})
	const domino = 4
	cs := board0(ctx)

	add := NewAdd(board.Cell, 5, domino)
	is.NoErr(add.Apply(ctx))
	is.True(cs.IsCovered(6, board.Cell))
	is.True(cs.IsOccupied(6, board.Cell))
	is.True(!cs.EmptyRegion(board.Cell).Contains(6))
	is.True(add.Concepts(ctx).Has(concept.LargePiece))

	// turned a quarter, the domino anchored at 9 points south onto 5
	m := NewMove(board.Cell, 5, board.Cell, 9, WithRotation(1))
	is.NoErr(m.Apply(ctx))
	is.True(cs.IsCovered(5, board.Cell))
	is.True(!cs.IsEmpty(5, board.Cell))
	is.Equal(cs.SizeStack(5, board.Cell), 0)
	is.True(!cs.IsCovered(6, board.Cell))
	is.True(cs.IsEmpty(6, board.Cell))
	is.Equal(cs.Rotation(9, board.Cell), 1)

	is.NoErr(m.Undo(ctx))
	is.Equal(cs.What(5, board.Cell), domino)
	is.True(cs.IsCovered(6, board.Cell))
	is.True(!cs.IsCovered(5, board.Cell))
	is.True(cs.IsEmpty(9, board.Cell))
	checkRoundTrip(t, ctx, m)

	// half a turn points the walk west
	rot := NewSetRotation(board.Cell, 5, 2)
	is.NoErr(rot.Apply(ctx))
	is.True(cs.IsCovered(4, board.Cell))
	is.True(!cs.IsCovered(6, board.Cell))
	is.NoErr(rot.Undo(ctx))

	before := ctx.State().Clone()
	err := NewAdd(board.Cell, 3, domino).Apply(ctx)
	is.True(errors.Is(err, ErrDoesNotFit))
	is.True(ctx.State().Equals(before))

	is.NoErr(add.Undo(ctx))
	is.True(!cs.IsCovered(6, board.Cell))
	is.Equal(cs.EmptyRegion(board.Cell).Count(), 16)
}

func TestMoveN(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.MaxCount = 10 })
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 0, pawn, WithCount(5)))

	m := NewMoveN(board.Cell, 0, 1, 2)
	is.NoErr(m.Apply(ctx))
	is.Equal(cs.Count(0, board.Cell), 3)
	is.Equal(cs.Count(1, board.Cell), 2)
	m2 := NewMoveN(board.Cell, 0, 1, 2)
	is.NoErr(m2.Apply(ctx))
	is.Equal(cs.Count(0, board.Cell), 1)
	is.Equal(cs.Count(1, board.Cell), 4)
	// the whole pile
	m3 := NewMoveN(board.Cell, 0, 1, 1)
	is.NoErr(m3.Apply(ctx))
	is.True(cs.IsEmpty(0, board.Cell))
	is.Equal(cs.Count(1, board.Cell), 5)

	for _, a := range []Action{m3, m2, m} {
		is.NoErr(a.Undo(ctx))
	}
	is.Equal(cs.Count(0, board.Cell), 5)
	is.True(cs.IsEmpty(1, board.Cell))
}

func TestMoveFromPile(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.MaxCount = 10 })
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 0, pawn, WithCount(3)))

	one := NewMove(board.Cell, 0, board.Cell, 1)
	is.NoErr(one.Apply(ctx))
	is.Equal(cs.Count(0, board.Cell), 2)
	is.Equal(cs.Count(1, board.Cell), 1)

	pile := NewMove(board.Cell, 0, board.Cell, 2, WithStack())
	is.NoErr(pile.Apply(ctx))
	is.True(cs.IsEmpty(0, board.Cell))
	is.Equal(cs.Count(2, board.Cell), 2)

	is.NoErr(pile.Undo(ctx))
	is.NoErr(one.Undo(ctx))
	is.Equal(cs.Count(0, board.Cell), 3)
	is.True(cs.IsEmpty(1, board.Cell))
	checkRoundTrip(t, ctx, one)
}

func TestStackMoves(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.Stacking = true })
	cs := board0(ctx)
	mustApply(t, ctx,
		NewAdd(board.Cell, 0, pawn),
		NewAdd(board.Cell, 0, queen),
		NewAdd(board.Cell, 0, enemy),
	)
	before := ctx.State().Clone()
	levels := func(site int) []int {
		var out []int
		for l := range cs.SizeStack(site, board.Cell) {
			out = append(out, cs.WhatAt(site, l, board.Cell))
		}
		return out
	}

	top := NewStackMove(board.Cell, 0, board.Cell, 1, 2)
	is.NoErr(top.Apply(ctx))
	is.Equal(levels(0), []int{pawn})
	is.Equal(levels(1), []int{queen, enemy})
	is.True(top.Concepts(nil).Has(concept.Stack))

	sub := NewSubStackMove(board.Cell, 1, board.Cell, 0, 0, 1)
	is.NoErr(sub.Apply(ctx))
	is.Equal(levels(0), []int{pawn, queen})
	is.Equal(levels(1), []int{enemy})

	whole := NewMove(board.Cell, 0, board.Cell, 1, WithStack())
	is.NoErr(whole.Apply(ctx))
	is.Equal(levels(0), []int(nil))
	is.Equal(levels(1), []int{enemy, pawn, queen})

	mn := NewMoveN(board.Cell, 1, 2, 2)
	is.NoErr(mn.Apply(ctx))
	is.Equal(levels(1), []int{enemy})
	is.Equal(levels(2), []int{pawn, queen})

	for _, a := range []Action{mn, whole, sub, top} {
		is.NoErr(a.Undo(ctx))
	}
	is.True(ctx.State().Equals(before))
	is.Equal(levels(0), []int{pawn, queen, enemy})
}

func TestRemoveStack(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.Stacking = true })
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 4, pawn), NewAdd(board.Cell, 4, enemy))

	top := NewRemove(board.Cell, 4)
	is.NoErr(top.Apply(ctx))
	is.Equal(cs.SizeStack(4, board.Cell), 1)
	is.Equal(cs.What(4, board.Cell), pawn)
	is.NoErr(top.Undo(ctx))

	bottom := NewRemove(board.Cell, 4, WithLevel(0))
	is.NoErr(bottom.Apply(ctx))
	is.Equal(cs.What(4, board.Cell), enemy)
	is.NoErr(bottom.Undo(ctx))

	all := NewRemove(board.Cell, 4, WithStack())
	checkRoundTrip(t, ctx, all)
	is.NoErr(all.Apply(ctx))
	is.True(cs.IsEmpty(4, board.Cell))
}

func TestCorruptDestination(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.Stacking = true })
	mustApply(t, ctx, NewAdd(board.Cell, 0, pawn))
	before := ctx.State().Clone()
	// there is no level 5 to take a piece from
	m := NewMove(board.Cell, 0, board.Cell, 1, WithLevelFrom(5))
	err := m.Apply(ctx)
	is.True(errors.Is(err, ErrCorruptState))
	is.NoErr(m.Undo(ctx))
	is.True(ctx.State().Equals(before))
}

func TestCopyAndPromote(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, nil)
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 0, pawn))

	cp := NewCopy(board.Cell, 0, board.Cell, 15)
	is.NoErr(cp.Apply(ctx))
	is.Equal(cs.What(0, board.Cell), pawn)
	is.Equal(cs.What(15, board.Cell), pawn)
	is.Equal(len(ctx.State().Owned().Locations(1, pawn)), 2)
	is.NoErr(cp.Undo(ctx))
	is.True(cs.IsEmpty(15, board.Cell))

	pr := NewPromote(board.Cell, 0, queen)
	is.NoErr(pr.Apply(ctx))
	is.Equal(cs.What(0, board.Cell), queen)
	is.Equal(len(ctx.State().Owned().Locations(1, pawn)), 0)
	is.Equal(len(ctx.State().Owned().Locations(1, queen)), 1)
	is.True(pr.Concepts(ctx).Has(concept.Promotion))
	is.NoErr(pr.Undo(ctx))
	is.Equal(cs.What(0, board.Cell), pawn)

	checkRoundTrip(t, ctx, cp)
	checkRoundTrip(t, ctx, pr)
	checkRoundTrip(t, ctx, NewPromote(board.Cell, 0, enemy, WithWho(2)))
}

func TestSetters(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) {
		g.MaxState = 4
		g.MaxRotation = 3
		g.MaxValue = 9
	})
	cs := board0(ctx)
	mustApply(t, ctx, NewAdd(board.Cell, 6, pawn, WithState(1), WithValue(2)))
	is.Equal(cs.State(6, board.Cell), 1)
	is.Equal(cs.Value(6, board.Cell), 2)

	for _, a := range []Action{
		NewSetState(board.Cell, 6, 3),
		NewSetRotation(board.Cell, 6, 2),
		NewSetValue(board.Cell, 6, 9),
		// a state on an empty site
		NewSetState(board.Cell, 7, 4),
		NewMove(board.Cell, 6, board.Cell, 10, WithState(0), WithValue(5)),
	} {
		checkRoundTrip(t, ctx, a)
	}

	s := NewSetState(board.Cell, 7, 4)
	is.NoErr(s.Apply(ctx))
	is.Equal(cs.State(7, board.Cell), 4)
	is.True(cs.IsEmpty(7, board.Cell))

	m := NewMove(board.Cell, 6, board.Cell, 10, WithValue(5))
	is.NoErr(m.Apply(ctx))
	is.Equal(cs.Value(10, board.Cell), 5)
	is.Equal(cs.State(10, board.Cell), 1)
}

func TestSetCount(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) { g.MaxCount = 20 })
	cs := board0(ctx)

	fill := NewSetCount(board.Cell, 3, 6, WithWhat(pawn))
	is.NoErr(fill.Apply(ctx))
	is.Equal(cs.Count(3, board.Cell), 6)
	is.Equal(cs.Who(3, board.Cell), 1)

	grow := NewSetCount(board.Cell, 3, 11)
	is.NoErr(grow.Apply(ctx))
	is.Equal(cs.Count(3, board.Cell), 11)

	empty := NewSetCount(board.Cell, 3, 0)
	is.NoErr(empty.Apply(ctx))
	is.True(cs.IsEmpty(3, board.Cell))

	for _, a := range []Action{empty, grow, fill} {
		is.NoErr(a.Undo(ctx))
	}
	is.True(cs.IsEmpty(3, board.Cell))
	// nothing to count without a piece type
	is.NoErr(NewSetCount(board.Cell, 3, 4).Apply(ctx))
	is.True(cs.IsEmpty(3, board.Cell))
}

func TestTrackUpdates(t *testing.T) {
	is := is.New(t)
	ctx := newContext(t, func(g *game.Game) {
		tp := g.Containers[0].Topology
		require.NoError(t, tp.AddTrack(board.Track{Name: "Main", Sites: []int{0, 1, 2, 3, 7, 6, 5, 4}}))
	})
	tracks := ctx.State().Tracks()
	add := NewAdd(board.Cell, 0, pawn)
	is.NoErr(add.Apply(ctx))
	is.Equal(tracks.Positions(0, pawn), []int{0})
	is.True(add.Concepts(ctx).Has(concept.Track))

	m := NewMove(board.Cell, 0, board.Cell, 7)
	is.NoErr(m.Apply(ctx))
	is.Equal(tracks.Positions(0, pawn), []int{4})

	// leaving the board for a hand takes the piece off the track
	off := NewMove(board.Cell, 7, board.Cell, 16)
	is.NoErr(off.Apply(ctx))
	is.Equal(len(tracks.Positions(0, pawn)), 0)

	is.NoErr(off.Undo(ctx))
	is.Equal(tracks.Positions(0, pawn), []int{4})
	is.NoErr(m.Undo(ctx))
	is.Equal(tracks.Positions(0, pawn), []int{0})

	// the rebuilt index agrees with the incremental one
	rebuilt := ctx.State().Clone()
	rebuilt.RebuildCaches()
	is.True(rebuilt.Equals(ctx.State()))
}

func TestRoundTripEveryKind(t *testing.T) {
	flat := func(g *game.Game) {
		g.HiddenInfo = true
		g.MaxState = 3
		g.MaxRotation = 3
		g.MaxValue = 3
	}
	stacked := func(g *game.Game) {
		flat(g)
		g.Stacking = true
	}
	counted := func(g *game.Game) {
		flat(g)
		g.MaxCount = 9
	}
	setup := []Action{
		NewAdd(board.Cell, 0, pawn),
		NewAdd(board.Cell, 0, queen),
		NewAdd(board.Cell, 5, enemy, WithState(2)),
		NewSetHidden(board.Cell, 5, 1, hidden.Who, true),
	}
	actions := []Action{
		NewAdd(board.Cell, 1, queen),
		NewAdd(board.Cell, 5, pawn),
		NewAdd(board.Vertex, 3, pawn),
		NewRemove(board.Cell, 0),
		NewRemove(board.Cell, 0, WithCount(1)),
		NewRemove(board.Cell, 0, WithStack()),
		NewMove(board.Cell, 0, board.Cell, 5),
		NewMove(board.Cell, 5, board.Cell, 17, WithRotation(2)),
		NewMove(board.Cell, 0, board.Cell, 1, WithStack()),
		NewMoveN(board.Cell, 0, 2, 1),
		NewCopy(board.Cell, 5, board.Cell, 0),
		NewInsert(board.Cell, 0, 0, enemy),
		NewPromote(board.Cell, 5, queen),
		NewSelect(board.Cell, 0, board.Cell, 1),
		NewStackMove(board.Cell, 0, board.Cell, 5, 1),
		NewSubStackMove(board.Cell, 0, board.Cell, 5, 0, 1),
		NewSetState(board.Cell, 0, 3),
		NewSetRotation(board.Cell, 5, 1),
		NewSetValue(board.Cell, 5, 3),
		NewSetHidden(board.Cell, 5, 1, hidden.Who, false),
		NewSetHidden(board.Cell, 0, 2, hidden.Site, true),
	}
	for name, mod := range map[string]func(*game.Game){
		"flat": flat, "stacked": stacked, "counted": counted,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := newContext(t, func(g *game.Game) {
				mod(g)
				g.Kinds = []board.SiteType{board.Cell, board.Vertex, board.Edge}
			})
			mustApply(t, ctx, setup...)
			for _, a := range actions {
				checkRoundTrip(t, ctx, a)
			}
		})
	}
	t.Run("count", func(t *testing.T) {
		ctx := newContext(t, counted)
		mustApply(t, ctx, NewAdd(board.Cell, 0, pawn, WithCount(4)))
		checkRoundTrip(t, ctx, NewSetCount(board.Cell, 0, 7))
		checkRoundTrip(t, ctx, NewSetCount(board.Cell, 0, 0))
		checkRoundTrip(t, ctx, NewSetCount(board.Cell, 1, 2, WithWhat(enemy)))
	})
}

func TestDecision(t *testing.T) {
	is := is.New(t)
	a := NewRemove(board.Cell, 3)
	is.True(!a.IsDecision())
	is.True(a.Concepts(nil).Has(concept.Capture))
	is.True(a.Concepts(nil).Has(concept.Effect))
	a.SetDecision(true)
	is.True(a.IsDecision())
	is.True(a.Concepts(nil).Has(concept.Decision))
	is.True(!a.Concepts(nil).Has(concept.Capture))
}
