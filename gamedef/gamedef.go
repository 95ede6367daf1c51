// Package gamedef reads game descriptions written in YAML and builds the
// static game metadata from them.
package gamedef

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/cache"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/game"
)

// Extension is the file extension of game descriptions in the game
// directory.
const Extension = ".yaml"

var ErrBadDescription = errors.New("bad game description")

// Description is the YAML form of a game.
type Description struct {
	Name           string      `yaml:"name"`
	Players        int         `yaml:"players"`
	Kinds          []string    `yaml:"kinds"`
	Stacking       bool        `yaml:"stacking"`
	HiddenInfo     bool        `yaml:"hidden_info"`
	MaxCount       int         `yaml:"max_count"`
	MaxState       int         `yaml:"max_state"`
	MaxRotation    int         `yaml:"max_rotation"`
	MaxValue       int         `yaml:"max_value"`
	MaxStackHeight int         `yaml:"max_stack_height"`
	Seed           uint64      `yaml:"seed"`
	Board          BoardDesc   `yaml:"board"`
	Hands          []HandDesc  `yaml:"hands"`
	Components     []PieceDesc `yaml:"components"`
	Tracks         []TrackDesc `yaml:"tracks"`
}

// BoardDesc is either a rectangular grid or an explicit graph.
type BoardDesc struct {
	Name      string     `yaml:"name"`
	Grid      *GridDesc  `yaml:"grid"`
	Graph     *GraphDesc `yaml:"graph"`
	Boardless bool       `yaml:"boardless"`
}

type GridDesc struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// GraphDesc lists vertices, edges between them and cells as cycles of
// vertices. Symmetries are vertex permutations.
type GraphDesc struct {
	Vertices    int      `yaml:"vertices"`
	Edges       [][2]int `yaml:"edges"`
	Cells       [][]int  `yaml:"cells"`
	Rotations   [][]int  `yaml:"rotations"`
	Reflections [][]int  `yaml:"reflections"`
}

type HandDesc struct {
	Name  string `yaml:"name"`
	Owner int    `yaml:"owner"`
	Size  int    `yaml:"size"`
}

// PieceDesc is a component. Footprint is the walk of compass directions
// covered by a large piece.
type PieceDesc struct {
	Name      string   `yaml:"name"`
	Owner     int      `yaml:"owner"`
	Footprint []string `yaml:"footprint"`
}

// TrackDesc is a track. Sites are cell labels or indices on the board.
type TrackDesc struct {
	Name  string   `yaml:"name"`
	Owner int      `yaml:"owner"`
	Sites []string `yaml:"sites"`
	Loop  bool     `yaml:"loop"`
}

// Read decodes a description. Unknown keys are an error.
func Read(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	d := &Description{}
	if err := dec.Decode(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDescription, err)
	}
	return d, nil
}

// Write encodes a description.
func (d *Description) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// Build creates and initializes the game. cfg supplies the stack height
// and hash seed when the description leaves them out; it may be nil.
func (d *Description) Build(cfg *config.Config) (*game.Game, error) {
	top, err := d.Board.topology()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadDescription, d.Name, err)
	}
	g := &game.Game{
		Name:           d.Name,
		NumPlayers:     d.Players,
		Stacking:       d.Stacking,
		HiddenInfo:     d.HiddenInfo,
		MaxCount:       d.MaxCount,
		MaxState:       d.MaxState,
		MaxRotation:    d.MaxRotation,
		MaxValue:       d.MaxValue,
		MaxStackHeight: d.MaxStackHeight,
		Seed:           d.Seed,
		Containers: []*board.Container{
			{Name: boardName(d.Board.Name), Topology: top, Boardless: d.Board.Boardless},
		},
		Components: []*game.Component{nil},
	}
	if cfg != nil {
		if g.Stacking && g.MaxStackHeight == 0 {
			g.MaxStackHeight = cfg.GetInt(config.ConfigMaxStackHeight)
		}
		if g.Seed == 0 {
			g.Seed = cfg.GetUint64(config.ConfigZobristSeed)
		}
	}
	for _, k := range d.Kinds {
		st, err := board.ParseSiteType(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadDescription, d.Name, err)
		}
		g.Kinds = append(g.Kinds, st)
	}
	for _, h := range d.Hands {
		if h.Size <= 0 {
			return nil, fmt.Errorf("%w: hand %s has no cells", ErrBadDescription, h.Name)
		}
		g.Containers = append(g.Containers, &board.Container{
			Name: h.Name, Owner: h.Owner, Topology: board.NewHand(h.Name, h.Size),
		})
	}
	for _, p := range d.Components {
		c := &game.Component{Name: p.Name, Owner: p.Owner}
		if len(p.Footprint) > 0 {
			c.Footprint = &board.Footprint{}
			for _, s := range p.Footprint {
				dir, err := board.ParseDirection(s)
				if err != nil {
					return nil, fmt.Errorf("%w: component %s: %w", ErrBadDescription, p.Name, err)
				}
				c.Footprint.Walk = append(c.Footprint.Walk, dir)
			}
		}
		g.Components = append(g.Components, c)
	}
	for _, tr := range d.Tracks {
		t := board.Track{Name: tr.Name, Owner: tr.Owner, Loop: tr.Loop}
		for _, label := range tr.Sites {
			s, ok := top.SiteFromLabel(board.Cell, label)
			if !ok {
				s, err = strconv.Atoi(label)
				ok = err == nil
			}
			if !ok {
				return nil, fmt.Errorf("%w: track %s: no cell %q", ErrBadDescription, tr.Name, label)
			}
			t.Sites = append(t.Sites, s)
		}
		if err := top.AddTrack(t); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadDescription, err)
		}
	}
	if err := g.Init(); err != nil {
		return nil, err
	}
	return g, nil
}

func boardName(n string) string {
	if n == "" {
		return "Board"
	}
	return n
}

func (b BoardDesc) topology() (*board.Topology, error) {
	switch {
	case b.Grid != nil && b.Graph != nil:
		return nil, errors.New("board is both a grid and a graph")
	case b.Grid != nil:
		if b.Grid.Rows <= 0 || b.Grid.Cols <= 0 {
			return nil, fmt.Errorf("bad grid dimensions %dx%d", b.Grid.Rows, b.Grid.Cols)
		}
		return board.NewSquareGrid(b.Grid.Rows, b.Grid.Cols), nil
	case b.Graph != nil:
		g := b.Graph
		t, err := board.NewGraph(boardName(b.Name), g.Vertices, g.Edges, g.Cells)
		if err != nil {
			return nil, err
		}
		if len(g.Rotations) > 0 || len(g.Reflections) > 0 {
			if err := t.WithVertexSymmetries(g.Rotations, g.Reflections); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
	return nil, errors.New("board has no grid or graph")
}

// Load reads and builds a game.
func Load(r io.Reader, cfg *config.Config) (*game.Game, error) {
	d, err := Read(r)
	if err != nil {
		return nil, err
	}
	return d.Build(cfg)
}

// LoadFile reads and builds a game from a file.
func LoadFile(path string, cfg *config.Config) (*game.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Load(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("game", g.Name).Msg("loaded-game")
	return g, nil
}

var games = cache.New[*game.Game]()

// LoadNamed loads name from the configured game directory. A name with a
// path separator or extension is taken as a path. Games are loaded once per
// path; the returned game is shared and must not be modified.
func LoadNamed(name string, cfg *config.Config) (*game.Game, error) {
	path := name
	if filepath.Ext(name) == "" && filepath.Base(name) == name {
		path = filepath.Join(cfg.GetString(config.ConfigGameDir), name+Extension)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return games.Load(cfg, path, func(cfg *config.Config, path string) (*game.Game, error) {
		return LoadFile(path, cfg)
	})
}
