// Package trial keeps the ordered list of actions applied during one
// playout, and reads and writes it as text: one action per line in the
// bracketed trial format, with # comments.
package trial

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/action"
	"github.com/domino14/boardstate/game"
)

var (
	ErrNothingToUndo = errors.New("no action to undo")
	ErrGameMismatch  = errors.New("trial was recorded for another game")
)

// Extension is the file extension of trials in the trial directory.
const Extension = ".trial"

// GameRegex matches the pragma naming the game a trial belongs to.
const GameRegex = `^#game\s+(?P<game>\S.*)$`

var gameRegexp = regexp.MustCompile(GameRegex)

// A Trial is the sequence of actions applied to a state, in order.
type Trial struct {
	Game    string
	Actions []action.Action
}

// New creates an empty trial for the named game.
func New(gameName string) *Trial {
	return &Trial{Game: gameName}
}

// Len is the number of actions.
func (t *Trial) Len() int { return len(t.Actions) }

// Append applies a to the state and records it.
func (t *Trial) Append(ctx *game.Context, a action.Action) error {
	if err := a.Apply(ctx); err != nil {
		return err
	}
	t.Actions = append(t.Actions, a)
	return nil
}

// UndoLast reverts and forgets the last action.
func (t *Trial) UndoLast(ctx *game.Context) (action.Action, error) {
	if len(t.Actions) == 0 {
		return nil, ErrNothingToUndo
	}
	a := t.Actions[len(t.Actions)-1]
	if err := a.Undo(ctx); err != nil {
		return nil, err
	}
	t.Actions = t.Actions[:len(t.Actions)-1]
	return a, nil
}

// Truncate forgets every action from position n on. The forgotten actions
// must not be applied.
func (t *Trial) Truncate(n int) {
	if n < len(t.Actions) {
		t.Actions = t.Actions[:n]
	}
}

// Apply plays every action, in order, on ctx. It stops at the first
// failing action.
func (t *Trial) Apply(ctx *game.Context) error {
	if t.Game != "" && t.Game != ctx.Game().Name {
		return fmt.Errorf("%w: %q, not %q", ErrGameMismatch, t.Game, ctx.Game().Name)
	}
	for i, a := range t.Actions {
		if err := a.Apply(ctx); err != nil {
			return fmt.Errorf("action %d %s: %w", i, a, err)
		}
	}
	return nil
}

// UndoAll reverts every action, last first.
func (t *Trial) UndoAll(ctx *game.Context) error {
	for i := len(t.Actions) - 1; i >= 0; i-- {
		if err := t.Actions[i].Undo(ctx); err != nil {
			return fmt.Errorf("undo action %d: %w", i, err)
		}
	}
	return nil
}

// Clone copies the trial with fresh, unapplied actions.
func (t *Trial) Clone() *Trial {
	c := &Trial{Game: t.Game, Actions: make([]action.Action, len(t.Actions))}
	for i, a := range t.Actions {
		c.Actions[i] = action.Duplicate(a)
	}
	return c
}

// Text is the trial as written by Write.
func (t *Trial) Text() string {
	var sb strings.Builder
	// a strings.Builder never fails
	_ = t.Write(&sb)
	return sb.String()
}

// Fingerprint identifies the trial by its text. Trials with equal actions
// for the same game have equal fingerprints.
func (t *Trial) Fingerprint() uint64 {
	return xxhash.Sum64String(t.Text())
}

// Write writes the trial, one action per line.
func (t *Trial) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if t.Game != "" {
		fmt.Fprintf(bw, "#game %s\n", t.Game)
	}
	for _, a := range t.Actions {
		bw.WriteString(a.ToTrialFormat(nil))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Read parses a trial. Blank lines and # comments are skipped; a #game
// line names the game.
func Read(r io.Reader) (*Trial, error) {
	t := &Trial{}
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if m := gameRegexp.FindStringSubmatch(line); m != nil {
				t.Game = strings.TrimSpace(m[1])
			}
			continue
		}
		a, err := action.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		t.Actions = append(t.Actions, a)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	log.Debug().Str("game", t.Game).Int("actions", len(t.Actions)).Msg("read-trial")
	return t, nil
}

// ReadFile reads a trial from a file.
func ReadFile(path string) (*Trial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteFile writes a trial to a file, replacing it.
func WriteFile(path string, t *Trial) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
