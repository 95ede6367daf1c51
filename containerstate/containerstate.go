// Package containerstate stores the pieces in one container (the board or a
// hand). A container state is picked once per container by New, from the
// static shape of the game, and then only ever cloned or reset.
//
// All site indices taken by this package are local to the container. The
// owned-pieces index passed to mutators records global indices.
package containerstate

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/hidden"
	"github.com/domino14/boardstate/owned"
	"github.com/domino14/boardstate/region"
)

// Undefined marks a Record field that a write should leave alone.
const Undefined = -1

var (
	// ErrUnsupportedField is wrapped by the FieldError raised when a field
	// the container does not allocate is given a non-default value.
	ErrUnsupportedField = errors.New("field not supported by this game configuration")
	// ErrUnsupportedKind is raised when a site kind the container does not
	// store is addressed.
	ErrUnsupportedKind = errors.New("site kind not stored in this container")
	// ErrStackFull is raised when a piece is pushed onto a full stack.
	ErrStackFull = errors.New("stack is full")
)

// Field names one of the values kept per site (and per level, for stacks).
type Field uint8

const (
	FieldWho Field = iota
	FieldWhat
	FieldCount
	FieldState
	FieldRotation
	FieldValue
	numFields
)

var fieldNames = [numFields]string{"who", "what", "count", "state", "rotation", "value"}

func (f Field) String() string {
	if f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", uint8(f))
}

// FieldError reports a write of a non-default value to a field the
// container does not allocate.
type FieldError struct {
	Container string
	Field     Field
	Value     int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("container %s: cannot set %v to %d", e.Container, e.Field, e.Value)
}

func (e *FieldError) Unwrap() error { return ErrUnsupportedField }

// Record is everything stored at one site (or one level of a stacked site).
type Record struct {
	Who      int
	What     int
	Count    int
	State    int
	Rotation int
	Value    int
}

// Unset returns a record with every field Undefined.
func Unset() Record {
	return Record{Undefined, Undefined, Undefined, Undefined, Undefined, Undefined}
}

// Get returns the value of one field.
func (r Record) Get(f Field) int {
	switch f {
	case FieldWho:
		return r.Who
	case FieldWhat:
		return r.What
	case FieldCount:
		return r.Count
	case FieldState:
		return r.State
	case FieldRotation:
		return r.Rotation
	case FieldValue:
		return r.Value
	}
	return 0
}

func (r *Record) set(f Field, v int) {
	switch f {
	case FieldWho:
		r.Who = v
	case FieldWhat:
		r.What = v
	case FieldCount:
		r.Count = v
	case FieldState:
		r.State = v
	case FieldRotation:
		r.Rotation = v
	case FieldValue:
		r.Value = v
	}
}

// merge overlays the defined fields of o on r.
func (r Record) merge(o Record) Record {
	for f := FieldWho; f < numFields; f++ {
		if v := o.Get(f); v != Undefined {
			r.set(f, v)
		}
	}
	return r
}

// orZero replaces Undefined fields with 0.
func (r Record) orZero() Record {
	return Record{}.merge(r)
}

// Item is one piece: its record and who it is hidden from.
type Item struct {
	Record
	Hidden hidden.Flags
}

// SiteSnapshot is the complete contents of one site, enough to restore it
// exactly.
type SiteSnapshot struct {
	Kind   board.SiteType
	Site   int
	Levels []Record
	Hidden []hidden.Flags
	Cover  int32
}

// ContainerState is the uniform API over every storage layout. For stacked
// containers, the level-less accessors read the top of the stack.
type ContainerState interface {
	Container() *board.Container
	Kinds() []board.SiteType
	Stacking() bool
	Counted() bool

	Who(site int, t board.SiteType) int
	What(site int, t board.SiteType) int
	Count(site int, t board.SiteType) int
	State(site int, t board.SiteType) int
	Rotation(site int, t board.SiteType) int
	Value(site int, t board.SiteType) int
	WhoAt(site, level int, t board.SiteType) int
	WhatAt(site, level int, t board.SiteType) int
	CountAt(site, level int, t board.SiteType) int
	StateAt(site, level int, t board.SiteType) int
	RotationAt(site, level int, t board.SiteType) int
	ValueAt(site, level int, t board.SiteType) int
	Record(site, level int, t board.SiteType) Record
	SizeStack(site int, t board.SiteType) int
	IsEmpty(site int, t board.SiteType) bool
	IsOccupied(site int, t board.SiteType) bool
	IsCovered(site int, t board.SiteType) bool
	EmptyRegion(t board.SiteType) *region.Region
	Playable(t board.SiteType) *region.Region

	// SetSite writes the defined fields of r at the top of the site.
	SetSite(ow *owned.Index, site int, t board.SiteType, r Record)
	SetAt(ow *owned.Index, site, level int, t board.SiteType, r Record)
	AddItem(ow *owned.Index, site int, t board.SiteType, it Item)
	InsertItem(ow *owned.Index, site, level int, t board.SiteType, it Item)
	RemoveItem(ow *owned.Index, site, level int, t board.SiteType) Item
	RemoveStack(ow *owned.Index, site int, t board.SiteType) []Item
	Cover(site int, t board.SiteType)
	Uncover(site int, t board.SiteType)

	HiddenEnabled() bool
	IsHidden(player, site, level int, t board.SiteType, k hidden.Kind) bool
	SetHidden(player, site, level int, t board.SiteType, k hidden.Kind, on bool)
	HiddenFlags(site, level int, t board.SiteType) hidden.Flags
	SetHiddenFlags(site, level int, t board.SiteType, f hidden.Flags)

	Snapshot(site int, t board.SiteType) SiteSnapshot
	Restore(ow *owned.Index, snap SiteSnapshot)

	Hash() uint64
	WhoHash() uint64
	CalcHash() uint64
	RemappedHash(siteRemap [board.NumSiteTypes][]int, playerRemap []int, whoOnly bool) uint64

	Clone() ContainerState
	Reset()
}

// Config is the static shape a container state is sized from.
type Config struct {
	Container     *board.Container
	Kinds         []board.SiteType
	NumPlayers    int
	NumComponents int
	Stacking      bool
	// MaxCount above 1 makes flat containers counted.
	MaxCount       int
	MaxState       int
	MaxRotation    int
	MaxValue       int
	MaxStackHeight int
	Hidden         bool
	Seed           uint64
}

// New picks and allocates the container state for cfg. Hands only ever hold
// cells.
func New(cfg Config) ContainerState {
	kinds := cfg.Kinds
	if cfg.Container.IsHand() || len(kinds) == 0 {
		kinds = []board.SiteType{board.Cell}
	}
	if cfg.Stacking && cfg.MaxStackHeight < 1 {
		cfg.MaxStackHeight = config.DefaultMaxStackHeight
	}
	b := base{
		container: cfg.Container,
		kinds:     kinds,
		stacking:  cfg.Stacking,
		counted:   !cfg.Stacking && cfg.MaxCount > 1,
	}
	var cs ContainerState
	switch {
	case cfg.Stacking:
		for _, k := range kinds {
			b.stores[k] = &stackStore{fields: newFields(cfg, k, true)}
		}
		cs = &StackState{b}
	case len(kinds) == 1:
		b.stores[kinds[0]] = &flatStore{fields: newFields(cfg, kinds[0], false)}
		cs = &FlatState{b}
	default:
		b.kinds = board.SiteTypes[:]
		for _, k := range board.SiteTypes {
			b.stores[k] = &flatStore{fields: newFields(cfg, k, false)}
		}
		cs = &GraphState{b}
	}
	log.Debug().Str("container", cfg.Container.Name).Str("variant", fmt.Sprintf("%T", cs)).
		Bool("counted", b.counted).Bool("hidden", cfg.Hidden).Msg("allocated-container-state")
	return cs
}

// FlatState stores one record per site, for a single site kind.
type FlatState struct{ base }

// GraphState stores one record per site for each of cells, vertices and
// edges, as three independent flat stores.
type GraphState struct{ base }

// StackState stores a stack of records per site for each kind it uses.
type StackState struct{ base }

func (s *FlatState) Clone() ContainerState  { return &FlatState{s.base.clone()} }
func (s *GraphState) Clone() ContainerState { return &GraphState{s.base.clone()} }
func (s *StackState) Clone() ContainerState { return &StackState{s.base.clone()} }
