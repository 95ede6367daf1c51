package action

import (
	"fmt"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/containerstate"
	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/track"
)

// site is a resolved global site.
type site struct {
	cs        containerstate.ContainerState
	container int
	t         board.SiteType
	global    int
	local     int
}

func locate(ctx *game.Context, t board.SiteType, global int) (site, error) {
	ci, local, ok := ctx.Game().Locate(t, global)
	if !ok {
		return site{}, fmt.Errorf("%w: %v %d", ErrNoSuchSite, t, global)
	}
	return site{
		cs:        ctx.State().Container(ci),
		container: ci,
		t:         t,
		global:    global,
		local:     local,
	}, nil
}

func (s site) size() int { return s.cs.SizeStack(s.local, s.t) }

func (s site) empty() bool { return s.size() == 0 }

// level resolves an Undefined level to the top of the site.
func (s site) level(l int) int {
	if l != Undefined {
		return l
	}
	if s.cs.Stacking() {
		return max(s.size()-1, 0)
	}
	return 0
}

func (s site) record(level int) containerstate.Record {
	return s.cs.Record(s.local, s.level(level), s.t)
}

func (s site) item(level int) containerstate.Item {
	l := s.level(level)
	it := containerstate.Item{Record: s.cs.Record(s.local, l, s.t)}
	if s.cs.HiddenEnabled() {
		it.Hidden = s.cs.HiddenFlags(s.local, l, s.t)
	}
	return it
}

// onTrack is the global index used by the track index, -1 off the board.
func (s site) onTrack() int {
	if s.container != 0 || s.t != board.Cell {
		return -1
	}
	return s.global
}

// usesFootprints reports whether large pieces placed here cover several
// cells.
func (s site) usesFootprints() bool {
	return s.container == 0 && s.t == board.Cell && !s.cs.Stacking()
}

// footprint returns the secondary sites, local to the board, that a piece
// of type what with the given rotation covers when anchored at s.
func footprint(ctx *game.Context, s site, what, rotation int) ([]int, error) {
	comp := ctx.Game().Component(what)
	if !s.usesFootprints() || !comp.IsLarge() {
		return nil, nil
	}
	secs, ok := comp.Footprint.Secondary(s.cs.Container().Topology, s.local, max(rotation, 0))
	if !ok {
		return nil, fmt.Errorf("%w: %s at %d rotated %d", ErrDoesNotFit, comp.Name, s.global, rotation)
	}
	return secs, nil
}

// mutation is one Apply in progress. Sites are only recorded into snap on
// the first Apply of an action.
type mutation struct {
	ctx  *game.Context
	st   *game.State
	snap *snapshot
	seen map[siteKey]struct{}
	ops  []track.Op
	// displaced is set once a piece has been knocked off a destination
	displaced bool
}

type siteKey struct {
	container int
	t         board.SiteType
	local     int
}

func (c *common) begin(ctx *game.Context) *mutation {
	m := &mutation{ctx: ctx, st: ctx.State()}
	if c.undo == nil {
		c.undo = &snapshot{}
		m.snap = c.undo
		m.seen = map[siteKey]struct{}{}
	}
	return m
}

func (c *common) finish(m *mutation, piece int) {
	c.undo.trackOps = m.ops
	if m.snap != nil {
		m.snap.captured = m.displaced
		m.snap.piece = piece
	}
}

// save records the contents of s, and of every site covered by the piece
// anchored there, before they change.
func (m *mutation) save(s site) {
	if m.snap == nil {
		return
	}
	m.saveLocal(s, s.local)
	if s.empty() {
		return
	}
	r := s.record(Undefined)
	secs, _ := footprint(m.ctx, s, r.What, r.Rotation)
	m.saveLocals(s, secs)
}

// saveLocals records sites of the container of s.
func (m *mutation) saveLocals(s site, locals []int) {
	for _, l := range locals {
		m.saveLocal(s, l)
	}
}

func (m *mutation) saveLocal(s site, local int) {
	if m.snap == nil {
		return
	}
	k := siteKey{s.container, s.t, local}
	if _, ok := m.seen[k]; ok {
		return
	}
	m.seen[k] = struct{}{}
	m.snap.sites = append(m.snap.sites, siteUndo{
		container:    s.container,
		SiteSnapshot: s.cs.Snapshot(local, s.t),
	})
}

func (m *mutation) cover(s site, what, rotation int) {
	secs, _ := footprint(m.ctx, s, what, rotation)
	for _, l := range secs {
		s.cs.Cover(l, s.t)
	}
}

func (m *mutation) uncover(s site, what, rotation int) {
	secs, _ := footprint(m.ctx, s, what, rotation)
	for _, l := range secs {
		s.cs.Uncover(l, s.t)
	}
}

// trackMove records count pieces going from one site to another on the
// track index. A nil site is off the board.
func (m *mutation) trackMove(from, to *site, who, what, count int) {
	f, t := -1, -1
	if from != nil {
		f = from.onTrack()
	}
	if to != nil {
		t = to.onTrack()
	}
	if f < 0 && t < 0 {
		return
	}
	m.ops = append(m.ops, m.st.Tracks().Move(f, t, who, what, count)...)
}

func (m *mutation) trackAdjust(s site, who, what, delta int) {
	if g := s.onTrack(); g >= 0 {
		m.ops = append(m.ops, m.st.Tracks().Adjust(g, who, what, delta)...)
	}
}

// take lifts a piece off s. In counted containers a count below the pile
// size only takes that many; stacks take the top unless a level is given.
// The returned item holds what was taken and whole reports whether the
// site lost its piece.
func (m *mutation) take(s site, level, count int) (it containerstate.Item, whole bool) {
	ow := m.st.Owned()
	if s.cs.Stacking() {
		return s.cs.RemoveItem(ow, s.local, s.level(level), s.t), true
	}
	it = s.item(0)
	if s.cs.Counted() && count != Undefined && count < it.Count {
		r := containerstate.Unset()
		r.Count = it.Count - count
		s.cs.SetSite(ow, s.local, s.t, r)
		it.Count = count
		return it, false
	}
	it = s.cs.RemoveItem(ow, s.local, 0, s.t)
	m.uncover(s, it.What, it.Rotation)
	return it, true
}

// place puts it on s: pushed or inserted at level on stacks, merged into a
// pile of the same piece in counted containers, and otherwise replacing
// whatever was there.
func (m *mutation) place(s site, level int, it containerstate.Item) {
	ow := m.st.Owned()
	if s.cs.Stacking() {
		if level == Undefined {
			s.cs.AddItem(ow, s.local, s.t, it)
		} else {
			s.cs.InsertItem(ow, s.local, level, s.t, it)
		}
		return
	}
	if !s.empty() {
		cur := s.record(0)
		if s.cs.Counted() && cur.What == it.What && cur.Who == it.Who {
			s.cs.AddItem(ow, s.local, s.t, it)
			return
		}
		gone := s.cs.RemoveItem(ow, s.local, 0, s.t)
		m.uncover(s, gone.What, gone.Rotation)
		m.trackMove(&s, nil, gone.Who, gone.What, gone.Count)
		m.displaced = true
	}
	s.cs.AddItem(ow, s.local, s.t, it)
	m.cover(s, it.What, it.Rotation)
}

// override applies the state, rotation and value an action asks a piece to
// end up with.
func (p *params) override(r containerstate.Record) containerstate.Record {
	if p.state != Undefined {
		r.State = p.state
	}
	if p.rotation != Undefined {
		r.Rotation = p.rotation
	}
	if p.value != Undefined {
		r.Value = p.value
	}
	return r
}

func orDefault(v, d int) int {
	if v == Undefined {
		return d
	}
	return v
}

// filled checks a destination is occupied after a move into it.
func filled(s site, k Kind) error {
	if s.empty() {
		return fmt.Errorf("%w: %v left %v %d empty", ErrCorruptState, k, s.t, s.global)
	}
	return nil
}
