package action

import (
	"fmt"

	"github.com/domino14/boardstate/containerstate"
	"github.com/domino14/boardstate/game"
)

func (a *Add) Apply(ctx *game.Context) error {
	return a.addPiece(ctx, Undefined)
}

func (a *Insert) Apply(ctx *game.Context) error {
	return a.addPiece(ctx, a.levelTo)
}

// addPiece puts a new piece of type a.what at a.to. Stacks receive it at
// level, or on top when level is Undefined.
func (c *common) addPiece(ctx *game.Context, level int) error {
	comp := ctx.Game().Component(c.what)
	if comp == nil {
		return fmt.Errorf("%w: %d", ErrUnknownComponent, c.what)
	}
	to, err := locate(ctx, c.typeTo, c.to)
	if err != nil {
		return err
	}
	r := c.override(containerstate.Record{
		Who:   orDefault(c.who, comp.Owner),
		What:  c.what,
		Count: orDefault(c.count, 1),
	})
	secs, err := footprint(ctx, to, r.What, r.Rotation)
	if err != nil {
		return err
	}
	m := c.begin(ctx)
	m.save(to)
	m.saveLocals(to, secs)
	m.place(to, level, containerstate.Item{Record: r})
	m.trackMove(nil, &to, r.Who, r.What, r.Count)
	c.finish(m, r.What)
	return filled(to, c.kind)
}

func (a *Remove) Apply(ctx *game.Context) error {
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	if to.empty() {
		return nil
	}
	m := a.begin(ctx)
	m.save(to)
	if a.stack && to.cs.Stacking() {
		for _, it := range to.cs.RemoveStack(m.st.Owned(), to.local, to.t) {
			m.trackMove(&to, nil, it.Who, it.What, it.Count)
		}
		a.finish(m, 0)
		return nil
	}
	it, whole := m.take(to, a.levelTo, a.count)
	if whole {
		m.trackMove(&to, nil, it.Who, it.What, it.Count)
	} else {
		m.trackAdjust(to, it.Who, it.What, -it.Count)
	}
	a.finish(m, it.What)
	return nil
}

func (a *Move) Apply(ctx *game.Context) error {
	if a.stack {
		return a.moveLevels(ctx, 0, Undefined)
	}
	count := a.count
	if count == Undefined {
		from, err := locate(ctx, a.typeFrom, a.from)
		if err != nil {
			return err
		}
		// one piece off a pile; WithStack or a count moves more
		if from.cs.Counted() && !from.cs.Stacking() {
			count = 1
		}
	}
	return a.movePiece(ctx, count)
}

func (a *MoveN) Apply(ctx *game.Context) error {
	from, err := locate(ctx, a.typeFrom, a.from)
	if err != nil {
		return err
	}
	if from.cs.Stacking() {
		return a.moveLevels(ctx, Undefined, a.count)
	}
	return a.movePiece(ctx, a.count)
}

func (a *StackMove) Apply(ctx *game.Context) error {
	return a.moveLevels(ctx, Undefined, a.num)
}

func (a *SubStackMove) Apply(ctx *game.Context) error {
	return a.moveLevels(ctx, a.levelFrom, a.num)
}

// movePiece carries one piece, or count pieces of a pile, from c.from to
// c.to.
func (c *common) movePiece(ctx *game.Context, count int) error {
	from, err := locate(ctx, c.typeFrom, c.from)
	if err != nil {
		return err
	}
	to, err := locate(ctx, c.typeTo, c.to)
	if err != nil {
		return err
	}
	if from.empty() {
		return nil
	}
	moving := c.override(from.record(c.levelFrom))
	secs, err := footprint(ctx, to, moving.What, moving.Rotation)
	if err != nil {
		return err
	}
	m := c.begin(ctx)
	m.save(from)
	m.save(to)
	m.saveLocals(to, secs)
	it, _ := m.take(from, c.levelFrom, count)
	it.Record = c.override(it.Record)
	m.place(to, c.levelTo, it)
	m.trackMove(&from, &to, it.Who, it.What, it.Count)
	c.finish(m, it.What)
	return filled(to, c.kind)
}

// moveLevels carries num pieces of the stack at c.from, starting at level
// start, onto the top of c.to in the same order. An Undefined start takes
// the top num pieces and an Undefined num the whole stack from start. Flat
// containers hold a single level, so this moves their piece.
func (c *common) moveLevels(ctx *game.Context, start, num int) error {
	from, err := locate(ctx, c.typeFrom, c.from)
	if err != nil {
		return err
	}
	to, err := locate(ctx, c.typeTo, c.to)
	if err != nil {
		return err
	}
	if !from.cs.Stacking() {
		return c.movePiece(ctx, Undefined)
	}
	sz := from.size()
	if num == Undefined {
		num = sz - max(start, 0)
	}
	if start == Undefined {
		start = sz - num
	}
	start = max(start, 0)
	num = min(num, sz-start)
	if num <= 0 {
		return nil
	}
	m := c.begin(ctx)
	m.save(from)
	m.save(to)
	ow := m.st.Owned()
	items := make([]containerstate.Item, 0, num)
	for range num {
		items = append(items, from.cs.RemoveItem(ow, from.local, start, from.t))
	}
	piece := 0
	for _, it := range items {
		m.place(to, Undefined, it)
		m.trackMove(&from, &to, it.Who, it.What, it.Count)
		piece = it.What
	}
	c.finish(m, piece)
	return filled(to, c.kind)
}

func (a *Copy) Apply(ctx *game.Context) error {
	from, err := locate(ctx, a.typeFrom, a.from)
	if err != nil {
		return err
	}
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	if from.empty() {
		return nil
	}
	it := from.item(a.levelFrom)
	it.Record = a.override(it.Record)
	if a.count != Undefined {
		it.Count = a.count
	}
	secs, err := footprint(ctx, to, it.What, it.Rotation)
	if err != nil {
		return err
	}
	m := a.begin(ctx)
	m.save(to)
	m.saveLocals(to, secs)
	m.place(to, a.levelTo, it)
	m.trackMove(nil, &to, it.Who, it.What, it.Count)
	a.finish(m, it.What)
	return filled(to, a.kind)
}

func (a *Promote) Apply(ctx *game.Context) error {
	comp := ctx.Game().Component(a.what)
	if comp == nil {
		return fmt.Errorf("%w: %d", ErrUnknownComponent, a.what)
	}
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	if to.empty() {
		return nil
	}
	level := to.level(a.levelTo)
	old := to.record(level)
	n := a.override(old)
	n.What = a.what
	if a.who != Undefined {
		n.Who = a.who
	}
	return a.replace(ctx, to, level, old, n)
}

// replace rewrites the piece at one level of a site, moving any large-piece
// cover and track entries along with it.
func (c *common) replace(ctx *game.Context, s site, level int, old, n containerstate.Record) error {
	secs, err := footprint(ctx, s, n.What, n.Rotation)
	if err != nil {
		return err
	}
	m := c.begin(ctx)
	m.save(s)
	m.saveLocals(s, secs)
	m.uncover(s, old.What, old.Rotation)
	w := containerstate.Unset()
	w.Who, w.What = n.Who, n.What
	w.State, w.Rotation, w.Value = n.State, n.Rotation, n.Value
	s.cs.SetAt(m.st.Owned(), s.local, level, s.t, w)
	m.cover(s, n.What, n.Rotation)
	if old.What != n.What || old.Who != n.Who {
		m.trackAdjust(s, old.Who, old.What, -old.Count)
		m.trackAdjust(s, n.Who, n.What, old.Count)
	}
	c.finish(m, n.What)
	return nil
}

func (a *Select) Apply(*game.Context) error { return nil }

func (a *SetState) Apply(ctx *game.Context) error {
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	r := containerstate.Unset()
	r.State = a.state
	if to.empty() {
		// flat sites keep a state without a piece
		if to.cs.Stacking() {
			return nil
		}
		m := a.begin(ctx)
		m.save(to)
		to.cs.SetAt(m.st.Owned(), to.local, 0, to.t, r)
		a.finish(m, 0)
		return nil
	}
	level := to.level(a.levelTo)
	old := to.record(level)
	n := old
	n.State = a.state
	return a.replace(ctx, to, level, old, n)
}

func (a *SetRotation) Apply(ctx *game.Context) error {
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	if to.empty() {
		return nil
	}
	level := to.level(a.levelTo)
	old := to.record(level)
	n := old
	n.Rotation = a.rotation
	return a.replace(ctx, to, level, old, n)
}

func (a *SetValue) Apply(ctx *game.Context) error {
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	if to.empty() {
		return nil
	}
	level := to.level(a.levelTo)
	old := to.record(level)
	n := old
	n.Value = a.value
	return a.replace(ctx, to, level, old, n)
}

// Apply sets the pile size. An empty site is filled with a.what when given;
// a count of zero or less empties the site.
func (a *SetCount) Apply(ctx *game.Context) error {
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	old := to.record(0)
	if to.empty() {
		comp := ctx.Game().Component(a.what)
		if comp == nil || a.count <= 0 {
			return nil
		}
		old = containerstate.Record{Who: orDefault(a.who, comp.Owner), What: a.what}
	}
	m := a.begin(ctx)
	m.save(to)
	if a.count <= 0 {
		it := to.cs.RemoveItem(m.st.Owned(), to.local, 0, to.t)
		m.uncover(to, it.What, it.Rotation)
		m.trackMove(&to, nil, it.Who, it.What, it.Count)
		a.finish(m, it.What)
		return nil
	}
	w := containerstate.Unset()
	w.Who, w.What, w.Count = old.Who, old.What, a.count
	to.cs.SetSite(m.st.Owned(), to.local, to.t, w)
	m.trackAdjust(to, old.Who, old.What, a.count-old.Count)
	a.finish(m, old.What)
	return nil
}

func (a *SetHidden) Apply(ctx *game.Context) error {
	to, err := locate(ctx, a.typeTo, a.to)
	if err != nil {
		return err
	}
	m := a.begin(ctx)
	m.save(to)
	to.cs.SetHidden(a.player, to.local, to.level(a.levelTo), to.t, a.field, a.on)
	a.finish(m, 0)
	return nil
}
