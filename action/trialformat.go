package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/boardstate/board"
	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/hidden"
)

// twoSites reports whether the kind reads its origin from from.
func (k Kind) twoSites() bool {
	switch k {
	case KindMove, KindMoveN, KindCopy, KindSelect, KindStackMove, KindSubStackMove:
		return true
	}
	return false
}

// ToTrialFormat renders the action as [Kind:key=value,...]. Undefined and
// false parameters are left out. The context is not needed and may be nil.
func (c *common) ToTrialFormat(*game.Context) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(c.kind.String())
	sep := ":"
	put := func(k, v string) {
		sb.WriteString(sep)
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(v)
		sep = ","
	}
	putInt := func(k string, v int) {
		if v != Undefined {
			put(k, strconv.Itoa(v))
		}
	}
	if c.kind.twoSites() {
		put("typeFrom", c.typeFrom.String())
		putInt("from", c.from)
		putInt("levelFrom", c.levelFrom)
		if c.typeTo != c.typeFrom {
			put("typeTo", c.typeTo.String())
		}
		putInt("to", c.to)
		putInt("levelTo", c.levelTo)
	} else {
		put("type", c.typeTo.String())
		putInt("to", c.to)
		putInt("levelFrom", c.levelFrom)
		putInt("level", c.levelTo)
	}
	putInt("who", c.who)
	putInt("what", c.what)
	putInt("count", c.count)
	putInt("state", c.state)
	putInt("rotation", c.rotation)
	putInt("value", c.value)
	putInt("num", c.num)
	if c.stack {
		put("stack", "true")
	}
	putInt("player", c.player)
	if c.kind == KindSetHidden {
		put("field", c.field.String())
	}
	if c.on {
		put("on", "true")
	}
	if c.decision {
		put("decision", "true")
	}
	sb.WriteString("]")
	return sb.String()
}

// Parse reads an action written by ToTrialFormat.
func Parse(s string) (Action, error) {
	a, err := parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrMalformed, s, err)
	}
	return a, nil
}

func parse(s string) (Action, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not bracketed")
	}
	name, body, _ := strings.Cut(s[1:len(s)-1], ":")
	var a Action
	for k := KindAdd; k < numKinds; k++ {
		if k.String() == name {
			a = newOfKind(k)
			break
		}
	}
	if a == nil {
		return nil, fmt.Errorf("unknown kind %q", name)
	}
	p := &a.base().params
	typeTo := false
	if body == "" {
		return a, nil
	}
	for _, kv := range strings.Split(body, ",") {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("no value for %q", kv)
		}
		var err error
		switch key {
		case "type":
			p.typeFrom, err = board.ParseSiteType(val)
			p.typeTo = p.typeFrom
			typeTo = true
		case "typeFrom":
			p.typeFrom, err = board.ParseSiteType(val)
		case "typeTo":
			p.typeTo, err = board.ParseSiteType(val)
			typeTo = true
		case "from":
			p.from, err = strconv.Atoi(val)
		case "to":
			p.to, err = strconv.Atoi(val)
		case "levelFrom":
			p.levelFrom, err = strconv.Atoi(val)
		case "level", "levelTo":
			p.levelTo, err = strconv.Atoi(val)
		case "who":
			p.who, err = strconv.Atoi(val)
		case "what":
			p.what, err = strconv.Atoi(val)
		case "count":
			p.count, err = strconv.Atoi(val)
		case "state":
			p.state, err = strconv.Atoi(val)
		case "rotation":
			p.rotation, err = strconv.Atoi(val)
		case "value":
			p.value, err = strconv.Atoi(val)
		case "num":
			p.num, err = strconv.Atoi(val)
		case "stack":
			p.stack, err = strconv.ParseBool(val)
		case "player":
			p.player, err = strconv.Atoi(val)
		case "field":
			p.field, err = hidden.ParseKind(val)
		case "on":
			p.on, err = strconv.ParseBool(val)
		case "decision":
			p.decision, err = strconv.ParseBool(val)
		default:
			err = fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			return nil, err
		}
	}
	if !typeTo {
		p.typeTo = p.typeFrom
	}
	return a, nil
}
