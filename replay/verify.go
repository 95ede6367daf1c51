package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/trial"
)

var (
	ErrHashDrift  = errors.New("running hash differs from a full recomputation")
	ErrCacheDrift = errors.New("owned-pieces index differs from a rebuilt one")
	ErrUndoDrift  = errors.New("undo did not restore the position")
)

// Verify replays every trial like Run, and checks the state as it goes.
// After each action the running hash of every container must match a full
// recomputation and the owned-pieces index must match one rebuilt from the
// containers. The actions are then undone newest first, and each undo must
// bring back the position from before that action. The first failed check
// is the trial's Err.
func (r *Replayer) Verify(ctx context.Context, base *game.Context, trials []*trial.Trial) ([]Result, error) {
	return r.each(ctx, base, trials, r.verify)
}

func (r *Replayer) verify(i int, ctx *game.Context, tr *trial.Trial) Result {
	res := Result{Index: i, Fingerprint: tr.Fingerprint()}
	tr = tr.Clone()
	before := make([]*game.State, len(tr.Actions))
	for n, a := range tr.Actions {
		before[n] = ctx.State().Clone()
		if err := a.Apply(ctx); err != nil {
			res.Err = fmt.Errorf("action %d: %w", n+1, err)
			return res
		}
		if err := check(ctx.State()); err != nil {
			log.Debug().Int("trial", i).Int("action", n+1).Err(err).Msg("verify-failed")
			res.Err = fmt.Errorf("action %d %s: %w", n+1, a, err)
			return res
		}
	}
	r.finish(&res, ctx)
	for n := len(tr.Actions) - 1; n >= 0; n-- {
		a := tr.Actions[n]
		if err := a.Undo(ctx); err != nil {
			res.Err = fmt.Errorf("undoing action %d: %w", n+1, err)
			return res
		}
		if !ctx.State().Equals(before[n]) {
			res.Err = fmt.Errorf("undoing action %d %s: %w", n+1, a, ErrUndoDrift)
			return res
		}
	}
	return res
}

func check(st *game.State) error {
	for _, cs := range st.Containers() {
		if cs.Hash() != cs.CalcHash() {
			return fmt.Errorf("%s: %w", cs.Container().Name, ErrHashDrift)
		}
	}
	rebuilt := st.Clone()
	rebuilt.RebuildCaches()
	if !rebuilt.Owned().Equals(st.Owned()) {
		return ErrCacheDrift
	}
	return nil
}
