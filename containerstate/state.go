package containerstate

import (
	"fmt"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/hidden"
	"github.com/domino14/boardstate/owned"
	"github.com/domino14/boardstate/region"
)

// base dispatches the ContainerState API to the store of each site kind.
type base struct {
	container *board.Container
	kinds     []board.SiteType
	stores    [board.NumSiteTypes]kindStore
	stacking  bool
	counted   bool
}

func (b *base) store(t board.SiteType) kindStore {
	if int(t) >= len(b.stores) || b.stores[t] == nil {
		panic(fmt.Errorf("container %s, %v: %w", b.container.Name, t, ErrUnsupportedKind))
	}
	return b.stores[t]
}

func (b *base) Container() *board.Container { return b.container }
func (b *base) Kinds() []board.SiteType     { return b.kinds }
func (b *base) Stacking() bool              { return b.stacking }
func (b *base) Counted() bool               { return b.counted }

func (b *base) topRecord(site int, t board.SiteType) Record {
	s := b.store(t)
	return s.record(site, s.top(site))
}

func (b *base) Who(site int, t board.SiteType) int  { return b.topRecord(site, t).Who }
func (b *base) What(site int, t board.SiteType) int { return b.topRecord(site, t).What }
func (b *base) Count(site int, t board.SiteType) int {
	return b.store(t).count(site)
}
func (b *base) State(site int, t board.SiteType) int    { return b.topRecord(site, t).State }
func (b *base) Rotation(site int, t board.SiteType) int { return b.topRecord(site, t).Rotation }
func (b *base) Value(site int, t board.SiteType) int    { return b.topRecord(site, t).Value }

func (b *base) WhoAt(site, level int, t board.SiteType) int {
	return b.store(t).record(site, level).Who
}

func (b *base) WhatAt(site, level int, t board.SiteType) int {
	return b.store(t).record(site, level).What
}

func (b *base) CountAt(site, level int, t board.SiteType) int {
	return b.store(t).record(site, level).Count
}

func (b *base) StateAt(site, level int, t board.SiteType) int {
	return b.store(t).record(site, level).State
}

func (b *base) RotationAt(site, level int, t board.SiteType) int {
	return b.store(t).record(site, level).Rotation
}

func (b *base) ValueAt(site, level int, t board.SiteType) int {
	return b.store(t).record(site, level).Value
}

func (b *base) Record(site, level int, t board.SiteType) Record {
	return b.store(t).record(site, level)
}

func (b *base) SizeStack(site int, t board.SiteType) int { return b.store(t).size(site) }

func (b *base) IsEmpty(site int, t board.SiteType) bool {
	return b.store(t).data().empty.Contains(site)
}

func (b *base) IsOccupied(site int, t board.SiteType) bool { return !b.IsEmpty(site, t) }

func (b *base) IsCovered(site int, t board.SiteType) bool {
	return b.store(t).data().cover[site] > 0
}

func (b *base) EmptyRegion(t board.SiteType) *region.Region { return b.store(t).data().empty }

// Playable is nil unless the container is boardless.
func (b *base) Playable(t board.SiteType) *region.Region { return b.store(t).data().playable }

func (b *base) SetSite(ow *owned.Index, site int, t board.SiteType, r Record) {
	s := b.store(t)
	level := s.top(site)
	if s.size(site) == 0 {
		level = 0
	}
	s.setRecord(ow, site, level, r)
}

func (b *base) SetAt(ow *owned.Index, site, level int, t board.SiteType, r Record) {
	b.store(t).setRecord(ow, site, level, r)
}

func (b *base) AddItem(ow *owned.Index, site int, t board.SiteType, it Item) {
	b.store(t).add(ow, site, it)
}

func (b *base) InsertItem(ow *owned.Index, site, level int, t board.SiteType, it Item) {
	b.store(t).insert(ow, site, level, it)
}

func (b *base) RemoveItem(ow *owned.Index, site, level int, t board.SiteType) Item {
	return b.store(t).remove(ow, site, level)
}

// RemoveStack empties a site and returns what it held, bottom first.
func (b *base) RemoveStack(ow *owned.Index, site int, t board.SiteType) []Item {
	s := b.store(t)
	var items []Item
	for sz := s.size(site); sz > 0; sz = s.size(site) {
		items = append(items, s.remove(ow, site, sz-1))
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// Cover marks a site as taken by part of a large piece anchored elsewhere.
func (b *base) Cover(site int, t board.SiteType) {
	s := b.store(t)
	f := s.data()
	f.cover[site]++
	f.refresh(site, s.size(site) > 0)
}

func (b *base) Uncover(site int, t board.SiteType) {
	s := b.store(t)
	f := s.data()
	if f.cover[site] > 0 {
		f.cover[site]--
	}
	f.refresh(site, s.size(site) > 0)
}

func (b *base) HiddenEnabled() bool {
	for _, k := range b.kinds {
		if b.stores[k].data().hidden != nil {
			return true
		}
	}
	return false
}

func (b *base) IsHidden(player, site, level int, t board.SiteType, k hidden.Kind) bool {
	return b.store(t).data().hidden.IsHidden(player, site, level, k)
}

func (b *base) SetHidden(player, site, level int, t board.SiteType, k hidden.Kind, on bool) {
	b.store(t).data().hidden.Set(player, site, level, k, on)
}

func (b *base) HiddenFlags(site, level int, t board.SiteType) hidden.Flags {
	return b.store(t).data().hidden.Flags(site, level)
}

func (b *base) SetHiddenFlags(site, level int, t board.SiteType, f hidden.Flags) {
	b.store(t).data().hidden.SetFlags(site, level, f)
}

func (b *base) Snapshot(site int, t board.SiteType) SiteSnapshot {
	return b.store(t).snapshot(site)
}

func (b *base) Restore(ow *owned.Index, snap SiteSnapshot) {
	b.store(snap.Kind).restore(ow, snap)
}

func (b *base) Hash() uint64 {
	var h uint64
	for _, k := range b.kinds {
		h ^= b.stores[k].data().hash()
	}
	return h
}

// WhoHash only covers owners (and stack sizes), for games where piece
// identity beyond ownership does not matter.
func (b *base) WhoHash() uint64 {
	var h uint64
	for _, k := range b.kinds {
		h ^= b.stores[k].data().whoHash()
	}
	return h
}

func (b *base) CalcHash() uint64 {
	var h uint64
	for _, k := range b.kinds {
		h ^= b.stores[k].data().calcHash()
	}
	return h
}

// RemappedHash is the hash the container would have with the sites of
// each kind permuted by siteRemap and owners renamed by playerRemap. Nil
// remaps are the identity.
func (b *base) RemappedHash(siteRemap [board.NumSiteTypes][]int, playerRemap []int, whoOnly bool) uint64 {
	var h uint64
	for _, k := range b.kinds {
		h ^= b.stores[k].data().remappedHash(siteRemap[k], playerRemap, whoOnly)
	}
	return h
}

func (b *base) clone() base {
	c := *b
	for i, s := range b.stores {
		if s != nil {
			c.stores[i] = s.clone()
		}
	}
	return c
}

func (b *base) Reset() {
	for _, s := range b.stores {
		if s != nil {
			s.data().reset()
		}
	}
}
