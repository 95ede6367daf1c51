package containerstate

import (
	"fmt"
	"slices"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/chunks"
	"github.com/domino14/boardstate/hidden"
	"github.com/domino14/boardstate/owned"
	"github.com/domino14/boardstate/region"
	"github.com/domino14/boardstate/zobrist"
)

// kindStore holds the sites of one kind. flatStore and stackStore differ in
// how levels, counts and emptiness are interpreted; the arrays they keep are
// the same.
type kindStore interface {
	data() *fields
	record(site, level int) Record
	size(site int) int
	top(site int) int
	count(site int) int
	setRecord(ow *owned.Index, site, level int, r Record)
	add(ow *owned.Index, site int, it Item)
	insert(ow *owned.Index, site, level int, it Item)
	remove(ow *owned.Index, site, level int) Item
	snapshot(site int) SiteSnapshot
	restore(ow *owned.Index, snap SiteSnapshot)
	clone() kindStore
}

// fields are the packed arrays of one site kind. Value i of every array is
// level i%stride of site i/stride.
type fields struct {
	container *board.Container
	kind      board.SiteType
	sites     int
	stride    int
	vals      [numFields]*chunks.HashedChunkSet
	// sizes is only kept for stacks
	sizes    *chunks.HashedChunkSet
	empty    *region.Region
	playable *region.Region
	// cover[s] counts the large pieces covering s without being anchored
	// there
	cover  []int32
	hidden *hidden.Info
}

func newFields(cfg Config, kind board.SiteType, stacked bool) fields {
	n := cfg.Container.NumSites(kind)
	stride := 1
	if stacked {
		stride = cfg.MaxStackHeight
	}
	stream := uint64(cfg.Container.Index)*board.NumSiteTypes + uint64(kind)
	gen := zobrist.NewGenerator(cfg.Seed, stream)
	alloc := func(maxValue int) *chunks.HashedChunkSet {
		return chunks.NewHashedChunkSet(gen.Table(n*stride, maxValue), n, stride, maxValue)
	}
	f := fields{
		container: cfg.Container,
		kind:      kind,
		sites:     n,
		stride:    stride,
		empty:     region.New(n, true),
		cover:     make([]int32, n),
	}
	// player numPlayers+1 owns shared pieces
	f.vals[FieldWho] = alloc(cfg.NumPlayers + 1)
	f.vals[FieldWhat] = alloc(max(cfg.NumComponents, 1))
	if !stacked && cfg.MaxCount > 1 {
		f.vals[FieldCount] = alloc(cfg.MaxCount)
	}
	if cfg.MaxState > 0 {
		f.vals[FieldState] = alloc(cfg.MaxState)
	}
	if cfg.MaxRotation > 0 {
		f.vals[FieldRotation] = alloc(cfg.MaxRotation)
	}
	if cfg.MaxValue > 0 {
		f.vals[FieldValue] = alloc(cfg.MaxValue)
	}
	if stacked {
		f.sizes = chunks.NewHashedChunkSet(gen.Table(n, stride), n, 1, stride)
	}
	if cfg.Hidden {
		f.hidden = hidden.New(cfg.NumPlayers, n, stride, gen)
	}
	if cfg.Container.Boardless && n > 0 {
		f.playable = region.New(n, false)
		f.playable.Add(f.centre())
	}
	return f
}

func (f *fields) data() *fields { return f }

func (f *fields) centre() int { return f.sites / 2 }

func (f *fields) loc(site, level int) owned.Location {
	return owned.Location{Site: f.container.Global(f.kind, site), Level: level, Type: f.kind}
}

func (f *fields) raw(field Field, site, level int) int {
	c := f.vals[field]
	if c == nil {
		return 0
	}
	return c.GetAt(site, level)
}

// write stores v, or checks it is the default dflt when the field is not
// allocated.
func (f *fields) write(field Field, site, level, v, dflt int) {
	c := f.vals[field]
	if c == nil {
		if v != dflt {
			panic(&FieldError{Container: f.container.Name, Field: field, Value: v})
		}
		return
	}
	c.SetAt(site, level, v)
}

// put writes a whole record. Nothing is written if any field is
// unsupported.
func (f *fields) put(site, level int, r Record) {
	dflt := 0
	if r.What != 0 {
		dflt = 1
	}
	for field := FieldCount; field < numFields; field++ {
		d := 0
		if field == FieldCount {
			d = dflt
		}
		if v := r.Get(field); f.vals[field] == nil && v != d {
			panic(&FieldError{Container: f.container.Name, Field: field, Value: v})
		}
	}
	f.write(FieldWho, site, level, r.Who, 0)
	f.write(FieldWhat, site, level, r.What, 0)
	f.write(FieldCount, site, level, r.Count, dflt)
	f.write(FieldState, site, level, r.State, 0)
	f.write(FieldRotation, site, level, r.Rotation, 0)
	f.write(FieldValue, site, level, r.Value, 0)
}

func (f *fields) get(site, level int) Record {
	r := Record{
		Who:      f.raw(FieldWho, site, level),
		What:     f.raw(FieldWhat, site, level),
		State:    f.raw(FieldState, site, level),
		Rotation: f.raw(FieldRotation, site, level),
		Value:    f.raw(FieldValue, site, level),
	}
	if f.vals[FieldCount] != nil {
		r.Count = f.raw(FieldCount, site, level)
	} else if r.What != 0 {
		r.Count = 1
	}
	return r
}

func (f *fields) clearLevel(site, level int) {
	for _, c := range f.vals {
		if c != nil {
			c.SetAt(site, level, 0)
		}
	}
	if f.hidden != nil {
		f.hidden.Clear(site, level)
	}
}

func (f *fields) moveLevel(site, from, to int) {
	for _, c := range f.vals {
		if c != nil {
			c.SetAt(site, to, c.GetAt(site, from))
		}
	}
	if f.hidden != nil {
		f.hidden.SetFlags(site, to, f.hidden.Flags(site, from))
	}
}

func (f *fields) trackOwned(ow *owned.Index, site, level int, old, n Record) {
	if old.Who == n.Who && old.What == n.What {
		return
	}
	l := f.loc(site, level)
	if old.What != 0 {
		ow.Remove(old.Who, old.What, l)
	}
	if n.What != 0 {
		ow.Add(n.Who, n.What, l)
	}
}

// refresh brings the empty region in line with the site's occupancy. It is
// a no-op unless occupancy changed.
func (f *fields) refresh(site int, occupied bool) {
	occupied = occupied || f.cover[site] > 0
	if occupied != f.empty.Contains(site) {
		return
	}
	if occupied {
		f.empty.Remove(site)
	} else {
		f.empty.Add(site)
	}
	if f.playable != nil {
		f.refreshPlayable(site)
	}
}

// refreshPlayable recomputes playability around a site whose occupancy
// changed. On an empty board only the centre is playable.
func (f *fields) refreshPlayable(site int) {
	f.updatePlayable(site)
	for _, n := range f.container.Topology.Neighbours(f.kind, site) {
		f.updatePlayable(n)
	}
	f.updatePlayable(f.centre())
}

func (f *fields) updatePlayable(s int) {
	ok := f.empty.Contains(s)
	if ok {
		if f.empty.Count() == f.sites {
			ok = s == f.centre()
		} else {
			ok = slices.ContainsFunc(f.container.Topology.Neighbours(f.kind, s), func(n int) bool {
				return !f.empty.Contains(n)
			})
		}
	}
	if ok {
		f.playable.Add(s)
	} else {
		f.playable.Remove(s)
	}
}

func (f *fields) hash() uint64 {
	var h uint64
	for _, c := range f.vals {
		if c != nil {
			h ^= c.Hash()
		}
	}
	if f.sizes != nil {
		h ^= f.sizes.Hash()
	}
	return h ^ f.hidden.Hash()
}

func (f *fields) whoHash() uint64 {
	h := f.vals[FieldWho].Hash()
	if f.sizes != nil {
		h ^= f.sizes.Hash()
	}
	return h
}

func (f *fields) calcHash() uint64 {
	var h uint64
	for _, c := range f.vals {
		if c != nil {
			h ^= c.CalcHash()
		}
	}
	if f.sizes != nil {
		h ^= f.sizes.CalcHash()
	}
	return h ^ f.hidden.CalcHash()
}

func (f *fields) remappedHash(siteRemap, playerRemap []int, whoOnly bool) uint64 {
	h := f.vals[FieldWho].RemappedHash(siteRemap, playerRemap)
	if f.sizes != nil {
		h ^= f.sizes.RemappedHash(siteRemap, nil)
	}
	if whoOnly {
		return h
	}
	for field := FieldWhat; field < numFields; field++ {
		if c := f.vals[field]; c != nil {
			h ^= c.RemappedHash(siteRemap, nil)
		}
	}
	return h ^ f.hidden.RemappedHash(siteRemap, playerRemap)
}

func (f *fields) cloneFields() fields {
	c := *f
	for i, v := range f.vals {
		if v != nil {
			c.vals[i] = v.Clone()
		}
	}
	if f.sizes != nil {
		c.sizes = f.sizes.Clone()
	}
	c.empty = f.empty.Clone()
	if f.playable != nil {
		c.playable = f.playable.Clone()
	}
	c.cover = slices.Clone(f.cover)
	c.hidden = f.hidden.Clone()
	return c
}

func (f *fields) reset() {
	for _, c := range f.vals {
		if c != nil {
			c.Reset()
		}
	}
	if f.sizes != nil {
		f.sizes.Reset()
	}
	f.empty.Reset(true)
	clear(f.cover)
	f.hidden.Reset()
	if f.playable != nil {
		f.playable.Reset(false)
		f.playable.Add(f.centre())
	}
}

func (f *fields) hiddenAt(site, level int) hidden.Flags {
	if f.hidden == nil {
		return hidden.Flags{}
	}
	return f.hidden.Flags(site, level)
}

// flatStore keeps one record per site. A site is occupied while its piece
// type is non-zero; in counted containers a count of zero clears the piece.
type flatStore struct {
	fields
}

func (s *flatStore) record(site, _ int) Record { return s.get(site, 0) }

func (s *flatStore) size(site int) int {
	if s.raw(FieldWhat, site, 0) != 0 {
		return 1
	}
	return 0
}

func (s *flatStore) top(int) int { return 0 }

func (s *flatStore) count(site int) int { return s.get(site, 0).Count }

func (s *flatStore) counted() bool { return s.vals[FieldCount] != nil }

func (s *flatStore) setRecord(ow *owned.Index, site, _ int, r Record) {
	old := s.get(site, 0)
	n := old.merge(r)
	switch {
	case n.What == 0:
		n.Who, n.Count = 0, 0
	case s.counted():
		if old.What == 0 && r.Count == Undefined {
			n.Count = 1
		}
		if n.Count <= 0 {
			n.Who, n.What, n.Count = 0, 0, 0
		}
	case r.Count == Undefined:
		n.Count = 1
	}
	s.commit(ow, site, old, n)
}

func (s *flatStore) commit(ow *owned.Index, site int, old, n Record) {
	s.put(site, 0, n)
	s.trackOwned(ow, site, 0, old, n)
	s.refresh(site, n.What != 0)
}

func (s *flatStore) add(ow *owned.Index, site int, it Item) {
	if it.What <= 0 {
		return
	}
	old := s.get(site, 0)
	c := it.Count
	if c <= 0 || !s.counted() {
		c = 1
	}
	if s.counted() && old.What == it.What && old.Who == it.Who {
		n := old
		n.Count += c
		s.commit(ow, site, old, n)
		return
	}
	n := it.Record.orZero()
	n.Count = c
	s.commit(ow, site, old, n)
	if s.hidden != nil {
		s.hidden.SetFlags(site, 0, it.Hidden)
	}
}

func (s *flatStore) insert(ow *owned.Index, site, _ int, it Item) {
	s.add(ow, site, it)
}

func (s *flatStore) remove(ow *owned.Index, site, _ int) Item {
	it := Item{Record: s.get(site, 0), Hidden: s.hiddenAt(site, 0)}
	if s.hidden != nil {
		s.hidden.Clear(site, 0)
	}
	s.commit(ow, site, it.Record, Record{})
	return it
}

func (s *flatStore) snapshot(site int) SiteSnapshot {
	snap := SiteSnapshot{
		Kind:   s.kind,
		Site:   site,
		Levels: []Record{s.get(site, 0)},
		Cover:  s.cover[site],
	}
	if s.hidden != nil {
		snap.Hidden = []hidden.Flags{s.hidden.Flags(site, 0)}
	}
	return snap
}

func (s *flatStore) restore(ow *owned.Index, snap SiteSnapshot) {
	n := Record{}
	if len(snap.Levels) > 0 {
		n = snap.Levels[0]
	}
	if s.hidden != nil {
		var h hidden.Flags
		if len(snap.Hidden) > 0 {
			h = snap.Hidden[0]
		}
		s.hidden.SetFlags(snap.Site, 0, h)
	}
	s.cover[snap.Site] = snap.Cover
	s.commit(ow, snap.Site, s.get(snap.Site, 0), n)
}

func (s *flatStore) clone() kindStore { return &flatStore{fields: s.cloneFields()} }

// stackStore keeps a pile of records per site. Levels at or above the
// stack size are always zero.
type stackStore struct {
	fields
}

func (s *stackStore) record(site, level int) Record {
	if level < 0 || level >= s.size(site) {
		return Record{}
	}
	return s.get(site, level)
}

func (s *stackStore) size(site int) int { return s.sizes.Get(site) }

func (s *stackStore) top(site int) int { return max(s.size(site)-1, 0) }

func (s *stackStore) count(site int) int { return s.size(site) }

func (s *stackStore) setRecord(ow *owned.Index, site, level int, r Record) {
	sz := s.size(site)
	if level < 0 || level >= sz {
		if r.What > 0 {
			s.insert(ow, site, sz, Item{Record: r})
		}
		return
	}
	old := s.get(site, level)
	n := old.merge(r)
	if n.What == 0 {
		s.remove(ow, site, level)
		return
	}
	n.Count = 1
	if r.Count != Undefined && r.Count != 1 {
		panic(&FieldError{Container: s.container.Name, Field: FieldCount, Value: r.Count})
	}
	s.put(site, level, n)
	s.trackOwned(ow, site, level, old, n)
}

func (s *stackStore) add(ow *owned.Index, site int, it Item) {
	s.insert(ow, site, s.size(site), it)
}

func (s *stackStore) insert(ow *owned.Index, site, level int, it Item) {
	if it.What <= 0 {
		return
	}
	sz := s.size(site)
	if sz == s.stride {
		panic(fmt.Errorf("container %s %v %d holds %d pieces: %w",
			s.container.Name, s.kind, site, sz, ErrStackFull))
	}
	if level < 0 || level > sz {
		level = sz
	}
	for l := sz - 1; l >= level; l-- {
		s.moveLevel(site, l, l+1)
	}
	ow.Shift(s.container.Global(s.kind, site), s.kind, level, 1)
	n := it.Record.orZero()
	n.Count = 1
	s.put(site, level, n)
	if s.hidden != nil {
		s.hidden.SetFlags(site, level, it.Hidden)
	}
	s.trackOwned(ow, site, level, Record{}, n)
	s.sizes.Set(site, sz+1)
	s.refresh(site, true)
}

func (s *stackStore) remove(ow *owned.Index, site, level int) Item {
	sz := s.size(site)
	if level < 0 || level >= sz {
		return Item{}
	}
	it := Item{Record: s.get(site, level), Hidden: s.hiddenAt(site, level)}
	s.trackOwned(ow, site, level, it.Record, Record{})
	for l := level; l < sz-1; l++ {
		s.moveLevel(site, l+1, l)
	}
	s.clearLevel(site, sz-1)
	ow.Shift(s.container.Global(s.kind, site), s.kind, level+1, -1)
	s.sizes.Set(site, sz-1)
	s.refresh(site, sz > 1)
	return it
}

func (s *stackStore) snapshot(site int) SiteSnapshot {
	sz := s.size(site)
	snap := SiteSnapshot{
		Kind:   s.kind,
		Site:   site,
		Levels: make([]Record, sz),
		Cover:  s.cover[site],
	}
	for l := range sz {
		snap.Levels[l] = s.get(site, l)
	}
	if s.hidden != nil {
		snap.Hidden = make([]hidden.Flags, sz)
		for l := range sz {
			snap.Hidden[l] = s.hidden.Flags(site, l)
		}
	}
	return snap
}

func (s *stackStore) restore(ow *owned.Index, snap SiteSnapshot) {
	site := snap.Site
	for l := s.size(site) - 1; l >= 0; l-- {
		s.trackOwned(ow, site, l, s.get(site, l), Record{})
		s.clearLevel(site, l)
	}
	for l, r := range snap.Levels {
		s.put(site, l, r)
		if s.hidden != nil && l < len(snap.Hidden) {
			s.hidden.SetFlags(site, l, snap.Hidden[l])
		}
		s.trackOwned(ow, site, l, Record{}, r)
	}
	s.sizes.Set(site, len(snap.Levels))
	s.cover[site] = snap.Cover
	s.refresh(site, len(snap.Levels) > 0)
}

func (s *stackStore) clone() kindStore { return &stackStore{fields: s.cloneFields()} }
