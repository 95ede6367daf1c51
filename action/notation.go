package action

import (
	"strconv"
	"strings"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/concept"
	"github.com/domino14/boardstate/game"
)

func label(ctx *game.Context, t board.SiteType, s int, useCoords bool) string {
	if useCoords && ctx != nil {
		return ctx.Game().Label(t, s)
	}
	return strconv.Itoa(s)
}

func pieceName(ctx *game.Context, what int) string {
	if ctx != nil {
		if c := ctx.Game().Component(what); c != nil {
			return c.Name
		}
	}
	return strconv.Itoa(what)
}

func withLevel(s string, level int) string {
	if level == Undefined {
		return s
	}
	return s + "/" + strconv.Itoa(level)
}

// ToTurnFormat is the short notation of the action as shown in a move
// list, for instance A1-A2, +A1=Pawn or -A1x2.
func (c *common) ToTurnFormat(ctx *game.Context, useCoords bool) string {
	from := withLevel(label(ctx, c.typeFrom, c.from, useCoords), c.levelFrom)
	to := withLevel(label(ctx, c.typeTo, c.to, useCoords), c.levelTo)
	var sb strings.Builder
	switch c.kind {
	case KindAdd, KindInsert:
		sb.WriteString("+" + to + "=" + pieceName(ctx, c.what))
		if c.count != Undefined && c.count != 1 {
			sb.WriteString("x" + strconv.Itoa(c.count))
		}
	case KindRemove:
		sb.WriteString("-" + to)
		if c.count != Undefined {
			sb.WriteString("x" + strconv.Itoa(c.count))
		}
		if c.stack {
			sb.WriteString("^")
		}
	case KindMove, KindMoveN:
		sb.WriteString(from + "-" + to)
		if c.count != Undefined {
			sb.WriteString("x" + strconv.Itoa(c.count))
		}
		if c.stack {
			sb.WriteString("^")
		}
	case KindCopy:
		sb.WriteString(from + ">>" + to)
	case KindPromote:
		sb.WriteString(to + "=" + pieceName(ctx, c.what))
	case KindSelect:
		sb.WriteString("*" + from)
		if c.to != Undefined && c.to != c.from {
			sb.WriteString("-" + to)
		}
	case KindStackMove, KindSubStackMove:
		sb.WriteString(from + "-" + to + "^" + strconv.Itoa(c.num))
	case KindSetState:
		sb.WriteString(to + " state=" + strconv.Itoa(c.state))
	case KindSetRotation:
		sb.WriteString(to + " rotation=" + strconv.Itoa(c.rotation))
	case KindSetValue:
		sb.WriteString(to + " value=" + strconv.Itoa(c.value))
	case KindSetCount:
		sb.WriteString(to + " count=" + strconv.Itoa(c.count))
	case KindSetHidden:
		verb := " reveal "
		if c.on {
			verb = " hide "
		}
		sb.WriteString(to + verb + c.field.String() + " P" + strconv.Itoa(c.player))
	}
	for _, f := range []struct {
		name string
		v    int
	}{{"state", c.state}, {"rotation", c.rotation}, {"value", c.value}} {
		if f.v != Undefined && !c.kind.setsOnly(f.name) {
			sb.WriteString(" " + f.name + "=" + strconv.Itoa(f.v))
		}
	}
	return sb.String()
}

// setsOnly reports whether the kind exists to set the named field, whose
// value is then already part of the notation.
func (k Kind) setsOnly(name string) bool {
	switch k {
	case KindSetState:
		return name == "state"
	case KindSetRotation:
		return name == "rotation"
	case KindSetValue:
		return name == "value"
	}
	return false
}

// ToMoveFormat wraps the turn notation with the action kind, for instance
// (Move A1-A2).
func (c *common) ToMoveFormat(ctx *game.Context, useCoords bool) string {
	return "(" + c.kind.String() + " " + c.ToTurnFormat(ctx, useCoords) + ")"
}

var kindConcepts = [numKinds]concept.Concept{
	KindAdd:          concept.Add,
	KindRemove:       concept.Remove,
	KindMove:         concept.FromTo,
	KindMoveN:        concept.FromTo,
	KindCopy:         concept.Copy,
	KindInsert:       concept.Insert,
	KindPromote:      concept.Promotion,
	KindSelect:       concept.Select,
	KindStackMove:    concept.FromTo,
	KindSubStackMove: concept.FromTo,
	KindSetState:     concept.SetState,
	KindSetRotation:  concept.SetRotation,
	KindSetValue:     concept.SetValue,
	KindSetCount:     concept.SetCount,
	KindSetHidden:    concept.SetHidden,
}

// Concepts tags what the action does. Captures and the piece moved are only
// known once the action has been applied.
func (c *common) Concepts(ctx *game.Context) concept.Set {
	s := concept.NewSet(kindConcepts[c.kind])
	if c.decision {
		s.Add(concept.Decision)
	} else {
		s.Add(concept.Effect)
	}
	switch {
	case c.kind == KindStackMove, c.kind == KindSubStackMove, c.stack:
		s.Add(concept.Stack)
	case c.kind == KindRemove && !c.decision:
		s.Add(concept.Capture)
	}
	if c.undo != nil && c.undo.captured {
		s.Add(concept.Capture)
	}
	if ctx == nil {
		return s
	}
	piece := c.what
	if c.undo != nil && c.undo.piece > 0 {
		piece = c.undo.piece
	}
	if ctx.Game().Component(piece).IsLarge() {
		s.Add(concept.LargePiece)
	}
	if ctx.Game().HasTracks() && (c.kind.twoSites() || c.kind == KindAdd) && c.kind != KindSelect && c.typeTo == board.Cell {
		s.Add(concept.Track)
	}
	return s
}
