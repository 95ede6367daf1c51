package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/containerstate"
	"github.com/domino14/boardstate/game"
)

// pieceSymbol is the first letter of the piece name, upper case for the
// first player and lower case for everyone else.
func pieceSymbol(g *game.Game, who, what int) string {
	c := g.Component(what)
	if c == nil || c.Name == "" {
		return strconv.Itoa(what)
	}
	s := c.Name[:1]
	if who == 1 {
		return strings.ToUpper(s)
	}
	return strings.ToLower(s)
}

func cellText(g *game.Game, cs containerstate.ContainerState, site int, t board.SiteType) string {
	if cs.IsEmpty(site, t) {
		if cs.IsCovered(site, t) {
			return "#"
		}
		return "."
	}
	s := pieceSymbol(g, cs.Who(site, t), cs.What(site, t))
	if n := cs.SizeStack(site, t); n > 1 {
		s += strconv.Itoa(n)
	}
	if n := cs.Count(site, t); n > 1 {
		s += "x" + strconv.Itoa(n)
	}
	return s
}

func pieceText(g *game.Game, cs containerstate.ContainerState, site int, t board.SiteType) string {
	c := g.Component(cs.What(site, t))
	name := "?"
	if c != nil {
		name = c.Name
	}
	s := fmt.Sprintf("%s(P%d)", name, cs.Who(site, t))
	if n := cs.SizeStack(site, t); n > 1 {
		s += "^" + strconv.Itoa(n)
	}
	if n := cs.Count(site, t); n > 1 {
		s += "x" + strconv.Itoa(n)
	}
	return s
}

func writeGrid(sb *strings.Builder, g *game.Game, cs containerstate.ContainerState) {
	top := cs.Container().Topology
	rows, cols := top.Rows(), top.Cols()
	sb.WriteString("    ")
	for c := range cols {
		fmt.Fprintf(sb, "%-4s", strings.TrimSuffix(board.GridCoords(0, c), "1"))
	}
	sb.WriteString("\n")
	for r := range rows {
		fmt.Fprintf(sb, "%3d ", r+1)
		for c := range cols {
			fmt.Fprintf(sb, "%-4s", cellText(g, cs, r*cols+c, board.Cell))
		}
		sb.WriteString("\n")
	}
}

// writeOccupied lists the occupied sites of one kind.
func writeOccupied(sb *strings.Builder, g *game.Game, cs containerstate.ContainerState, t board.SiteType, prefix string) {
	c := cs.Container()
	var parts []string
	for l := range c.NumSites(t) {
		if cs.IsEmpty(l, t) {
			continue
		}
		parts = append(parts, c.Topology.Label(t, l)+"="+pieceText(g, cs, l, t))
	}
	if len(parts) == 0 {
		parts = []string{"(empty)"}
	}
	sb.WriteString(prefix + strings.Join(parts, " ") + "\n")
}

// displayText renders every container of the state.
func displayText(ctx *game.Context) string {
	g := ctx.Game()
	st := ctx.State()
	var sb strings.Builder
	b := st.Container(0)
	if b.Container().Topology.Rows() > 0 {
		writeGrid(&sb, g, b)
	} else {
		writeOccupied(&sb, g, b, board.Cell, "Cells: ")
	}
	for _, t := range g.Kinds {
		if t != board.Cell {
			writeOccupied(&sb, g, b, t, t.String()+"s: ")
		}
	}
	for _, cs := range st.Containers()[1:] {
		writeOccupied(&sb, g, cs, board.Cell, cs.Container().Name+": ")
	}
	for p := 1; p <= g.NumPlayers; p++ {
		fmt.Fprintf(&sb, "Player %d: %d pieces\n", p, st.Owned().Count(p))
	}
	return sb.String()
}
