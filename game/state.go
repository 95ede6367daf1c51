package game

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/containerstate"
	"github.com/domino14/boardstate/owned"
	"github.com/domino14/boardstate/track"
)

// State is everything an action can change: the container states and the
// caches derived from them.
type State struct {
	containers []containerstate.ContainerState
	owned      *owned.Index
	tracks     *track.Index
}

// NewState allocates an empty state for g. g must have been initialized.
func NewState(g *Game) *State {
	s := &State{
		containers: make([]containerstate.ContainerState, len(g.Containers)),
		owned:      owned.New(g.NumPlayers, g.NumComponents()),
		tracks:     track.New(g.Tracks(), g.NumComponents()),
	}
	for i, c := range g.Containers {
		s.containers[i] = containerstate.New(containerstate.Config{
			Container:      c,
			Kinds:          g.Kinds,
			NumPlayers:     g.NumPlayers,
			NumComponents:  g.NumComponents(),
			Stacking:       g.Stacking,
			MaxCount:       g.MaxCount,
			MaxState:       g.MaxState,
			MaxRotation:    g.MaxRotation,
			MaxValue:       g.MaxValue,
			MaxStackHeight: g.MaxStackHeight,
			Hidden:         g.HiddenInfo,
			Seed:           g.Seed,
		})
	}
	return s
}

// Containers returns every container state, the board first.
func (s *State) Containers() []containerstate.ContainerState { return s.containers }

// Container returns one container state.
func (s *State) Container(i int) containerstate.ContainerState { return s.containers[i] }

// Owned is the owned-pieces index.
func (s *State) Owned() *owned.Index { return s.owned }

// Tracks is the track index; nil when the game has no tracks.
func (s *State) Tracks() *track.Index { return s.tracks }

// Hash combines the running hashes of every container.
func (s *State) Hash() uint64 {
	var h uint64
	for _, c := range s.containers {
		h ^= c.Hash()
	}
	return h
}

// Clone deep-copies the state. Static game data stays shared.
func (s *State) Clone() *State {
	c := &State{
		containers: make([]containerstate.ContainerState, len(s.containers)),
		owned:      s.owned.Clone(),
		tracks:     s.tracks.Clone(),
	}
	for i, cs := range s.containers {
		c.containers[i] = cs.Clone()
	}
	return c
}

// Reset empties every container and cache.
func (s *State) Reset() {
	for _, cs := range s.containers {
		cs.Reset()
	}
	s.owned.Reset()
	s.tracks.Reset()
}

// RebuildCaches recomputes the owned-pieces and track indices from the
// container states.
func (s *State) RebuildCaches() {
	s.owned.Reset()
	s.tracks.Reset()
	for _, cs := range s.containers {
		c := cs.Container()
		for _, k := range cs.Kinds() {
			for site := 0; site < c.NumSites(k); site++ {
				for l := 0; l < cs.SizeStack(site, k); l++ {
					r := cs.Record(site, l, k)
					g := c.Global(k, site)
					s.owned.Add(r.Who, r.What, owned.Location{Site: g, Level: l, Type: k})
					if c.Index == 0 && k == board.Cell {
						s.tracks.Move(-1, g, r.Who, r.What, r.Count)
					}
				}
			}
		}
	}
	log.Debug().Int("pieces", s.countPieces()).Msg("rebuilt-caches")
}

func (s *State) countPieces() int {
	n := 0
	for _, cs := range s.containers {
		for _, k := range cs.Kinds() {
			n += cs.Container().NumSites(k) - cs.EmptyRegion(k).Count()
		}
	}
	return n
}

// Equals compares two states by contents: hashes, occupancy and caches.
func (s *State) Equals(o *State) bool {
	if len(s.containers) != len(o.containers) {
		return false
	}
	for i, cs := range s.containers {
		oc := o.containers[i]
		if cs.Hash() != oc.Hash() {
			return false
		}
		for _, k := range cs.Kinds() {
			if !cs.EmptyRegion(k).Equals(oc.EmptyRegion(k)) {
				return false
			}
		}
	}
	return s.owned.Equals(o.owned) && s.tracks.Equals(o.tracks)
}
