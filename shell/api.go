package shell

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/action"
	"github.com/domino14/boardstate/canonical"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/gamedef"
	"github.com/domino14/boardstate/replay"
	"github.com/domino14/boardstate/trial"
)

// trialPath resolves a bare trial name against the trial directory.
func (sc *ShellController) trialPath(name string) string {
	if filepath.Ext(name) != "" || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(sc.config.GetString(config.ConfigTrialDir), name+trial.Extension)
}

func (sc *ShellController) setGame(g *game.Game) {
	sc.game = g
	sc.ctx = game.NewContext(g)
	sc.hasher = canonical.NewHasher(g.NumPlayers, canonical.AllSymmetries, sc.cache)
	sc.setTrial(trial.New(g.Name))
}

func (sc *ShellController) setTrial(t *trial.Trial) {
	sc.ctx.Reset()
	sc.trial = t
	sc.cursor = trial.NewCursor(t, sc.ctx)
}

func (sc *ShellController) position() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Action %d of %d", sc.cursor.Pos(), sc.cursor.Len())
	if a := sc.cursor.Last(); a != nil {
		sb.WriteString(": " + a.ToMoveFormat(sc.ctx, sc.useCoords))
	}
	sb.WriteString("\n")
	sb.WriteString(displayText(sc.ctx))
	return sb.String()
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	topic := "usage"
	if len(cmd.args) > 0 {
		topic = cmd.args[0]
	}
	return msg(usage(topic)), nil
}

func (sc *ShellController) loadGame(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("game <name or path>")
	}
	g, err := gamedef.LoadNamed(cmd.args[0], sc.config)
	if err != nil {
		return nil, err
	}
	sc.setGame(g)
	log.Debug().Str("game", g.Name).Msg("shell-loaded-game")
	return msg(fmt.Sprintf("Loaded %s: %d players, %d components\n%s",
		g.Name, g.NumPlayers, g.NumComponents(), displayText(sc.ctx))), nil
}

func (sc *ShellController) newTrial(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	sc.setTrial(trial.New(sc.game.Name))
	return msg(sc.position()), nil
}

func (sc *ShellController) loadTrial(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("load <trial name or path>")
	}
	t, err := trial.ReadFile(sc.trialPath(cmd.args[0]))
	if err != nil {
		return nil, err
	}
	if sc.game == nil || (t.Game != "" && t.Game != sc.game.Name) {
		if t.Game == "" {
			return nil, errNoGame
		}
		g, err := gamedef.LoadNamed(t.Game, sc.config)
		if err != nil {
			return nil, fmt.Errorf("trial is for %s: %w", t.Game, err)
		}
		sc.setGame(g)
	}
	sc.setTrial(t)
	return msg(sc.position()), nil
}

func (sc *ShellController) saveTrial(cmd *shellcmd) (*Response, error) {
	if sc.trial == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("save <trial name or path>")
	}
	path := sc.trialPath(cmd.args[0])
	if err := trial.WriteFile(path, sc.trial); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Wrote %d actions to %s", sc.trial.Len(), path)), nil
}

func (sc *ShellController) step(cmd *shellcmd, dir int) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if err := sc.cursor.Seek(sc.cursor.Pos() + dir*n); err != nil {
		return nil, err
	}
	return msg(sc.position()), nil
}

func (sc *ShellController) seek(cmd *shellcmd) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("goto <n|start|end>")
	}
	var n int
	switch cmd.args[0] {
	case "start":
	case "end":
		n = sc.cursor.Len()
	default:
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if err := sc.cursor.Seek(n); err != nil {
		return nil, err
	}
	return msg(sc.position()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	return msg(sc.position()), nil
}

func (sc *ShellController) list(cmd *shellcmd) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	for i, a := range sc.trial.Actions {
		marker := " "
		if i+1 == sc.cursor.Pos() {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s%4d. %s\n", marker, i+1, a.ToMoveFormat(sc.ctx, sc.useCoords))
	}
	if sc.trial.Len() == 0 {
		sb.WriteString("(no actions)\n")
	}
	return msg(sb.String()), nil
}

// apply adds an action after the current position, dropping any actions
// that came after it.
func (sc *ShellController) apply(cmd *shellcmd) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("apply <action>, for example apply [Move:typeFrom=Cell,from=0,to=1]")
	}
	a, err := action.Parse(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	if cmd.options["decision"] == "true" {
		a.SetDecision(true)
	}
	pos := sc.cursor.Pos()
	sc.trial.Truncate(pos)
	sc.trial.Actions = append(sc.trial.Actions, a)
	if err := sc.cursor.Forward(); err != nil {
		sc.trial.Truncate(pos)
		return nil, err
	}
	return msg(sc.position()), nil
}

// undo steps back one action and forgets it.
func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	if err := sc.cursor.Back(); err != nil {
		return nil, trial.ErrNothingToUndo
	}
	sc.trial.Truncate(sc.cursor.Pos())
	return msg(sc.position()), nil
}

func (sc *ShellController) hash(cmd *shellcmd) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	st := sc.ctx.State()
	var sb strings.Builder
	fmt.Fprintf(&sb, "state:     %016x\n", st.Hash())
	for _, cs := range st.Containers() {
		fmt.Fprintf(&sb, "%-10s %016x\n", cs.Container().Name+":", cs.Hash())
	}
	b := st.Container(0)
	fmt.Fprintf(&sb, "canonical: %016x\n", sc.hasher.Hash(b, false))
	fmt.Fprintf(&sb, "owners:    %016x\n", sc.hasher.Hash(b, true))
	return msg(sb.String()), nil
}

func (sc *ShellController) fingerprint(cmd *shellcmd) (*Response, error) {
	if sc.trial == nil {
		return nil, errNoGame
	}
	return msg(fmt.Sprintf("%016x", sc.trial.Fingerprint())), nil
}

func (sc *ShellController) concepts(cmd *shellcmd) (*Response, error) {
	if sc.cursor == nil {
		return nil, errNoGame
	}
	a := sc.cursor.Last()
	if a == nil {
		return nil, errors.New("no action has been applied")
	}
	return msg(a.ToMoveFormat(sc.ctx, sc.useCoords) + " " + a.Concepts(sc.ctx).String()), nil
}

// loadTrials reads trial files given as paths or glob patterns. With no
// arguments every trial in the trial directory is used.
func (sc *ShellController) loadTrials(cmd *shellcmd) ([]string, []*trial.Trial, error) {
	patterns := cmd.args
	if len(patterns) == 0 {
		patterns = []string{filepath.Join(sc.config.GetString(config.ConfigTrialDir), "*"+trial.Extension)}
	}
	var paths []string
	for _, p := range patterns {
		m, err := filepath.Glob(p)
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, m...)
	}
	if len(paths) == 0 {
		return nil, nil, errors.New("no trials found")
	}
	trials := make([]*trial.Trial, len(paths))
	for i, p := range paths {
		t, err := trial.ReadFile(p)
		if err != nil {
			return nil, nil, err
		}
		trials[i] = t
	}
	return paths, trials, nil
}

func (sc *ShellController) replayer(cmd *shellcmd) (*replay.Replayer, error) {
	threads := sc.config.GetInt(config.ConfigReplayThreads)
	if v, ok := cmd.options["threads"]; ok {
		var err error
		if threads, err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	return replay.New(threads, sc.hasher), nil
}

// replay runs trials from an empty state of the loaded game.
func (sc *ShellController) replay(cmd *shellcmd) (*Response, error) {
	return sc.runTrials(cmd, "replayed", (*replay.Replayer).Run)
}

// verify replays trials checking hashes, indices and undo after every
// action.
func (sc *ShellController) verify(cmd *shellcmd) (*Response, error) {
	return sc.runTrials(cmd, "verified", (*replay.Replayer).Verify)
}

type runFunc func(*replay.Replayer, context.Context, *game.Context, []*trial.Trial) ([]replay.Result, error)

func (sc *ShellController) runTrials(cmd *shellcmd, verb string, run runFunc) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	paths, trials, err := sc.loadTrials(cmd)
	if err != nil {
		return nil, err
	}
	r, err := sc.replayer(cmd)
	if err != nil {
		return nil, err
	}
	results, err := run(r, context.Background(), game.NewContext(sc.game), trials)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(&sb, "%s: %v\n", paths[res.Index], res.Err)
		}
	}
	s := replay.Summarize(results)
	fmt.Fprintf(&sb, "%d trials %s on %d threads, %d failed, %d distinct positions",
		s.Replayed, verb, r.Threads(), s.Failed, s.Positions)
	return msg(sb.String()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("Settings:\n  coords: %v\n  debug: %v",
			sc.useCoords, sc.config.GetBool(config.ConfigDebug))), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("set <option> <value>")
	}
	switch cmd.args[0] {
	case "coords":
		v, err := strconv.ParseBool(cmd.args[1])
		if err != nil {
			return nil, err
		}
		sc.useCoords = v
	default:
		return nil, fmt.Errorf("no such option: %s", cmd.args[0])
	}
	return msg(cmd.args[0] + " set to " + cmd.args[1]), nil
}
