// Package replay plays many trials from the same starting position at once,
// each on its own clone of the state.
package replay

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/boardstate/canonical"
	"github.com/domino14/boardstate/config"
	"github.com/domino14/boardstate/game"
	"github.com/domino14/boardstate/trial"
)

// Result is the outcome of one trial.
type Result struct {
	Index       int
	Fingerprint uint64
	// Hash is the full state hash after the last action.
	Hash uint64
	// Canonical is the board hash up to symmetry, 0 without a hasher.
	Canonical uint64
	Err       error
}

// A Replayer runs trials with a bounded number of goroutines.
type Replayer struct {
	threads int
	hasher  *canonical.Hasher
}

// New creates a replayer. threads <= 0 means GOMAXPROCS. A nil hasher skips
// canonical hashing.
func New(threads int, h *canonical.Hasher) *Replayer {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	return &Replayer{threads: threads, hasher: h}
}

// NewFromConfig sizes the replayer from the replay-threads setting and
// hashes boards up to every symmetry of g.
func NewFromConfig(cfg *config.Config, g *game.Game) *Replayer {
	h := canonical.NewHasher(g.NumPlayers, canonical.AllSymmetries, canonical.NewCacheFromConfig(cfg))
	return New(cfg.GetInt(config.ConfigReplayThreads), h)
}

// Threads is the number of trials replayed at once.
func (r *Replayer) Threads() int { return r.threads }

// Run replays every trial on a clone of base. base itself is not modified,
// and neither are the trials. A trial that fails records its error in its
// Result; Run only returns an error when ctx is done.
func (r *Replayer) Run(ctx context.Context, base *game.Context, trials []*trial.Trial) ([]Result, error) {
	return r.each(ctx, base, trials, r.replay)
}

// each runs play on every trial, each with its own clone of base.
func (r *Replayer) each(ctx context.Context, base *game.Context, trials []*trial.Trial,
	play func(int, *game.Context, *trial.Trial) Result) ([]Result, error) {
	results := make([]Result, len(trials))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.threads)
	for i, tr := range trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = play(i, base.Clone(), tr)
			return nil
		})
	}
	err := g.Wait()
	log.Debug().Int("trials", len(trials)).Int("threads", r.threads).Err(err).Msg("replay-done")
	return results, err
}

func (r *Replayer) replay(i int, ctx *game.Context, tr *trial.Trial) Result {
	res := Result{Index: i, Fingerprint: tr.Fingerprint()}
	if err := tr.Clone().Apply(ctx); err != nil {
		log.Debug().Int("trial", i).Err(err).Msg("replay-failed")
		res.Err = err
		return res
	}
	r.finish(&res, ctx)
	return res
}

// finish records the hashes of the position reached.
func (r *Replayer) finish(res *Result, ctx *game.Context) {
	res.Hash = ctx.State().Hash()
	if r.hasher != nil {
		res.Canonical = r.hasher.Hash(ctx.State().Container(0), false)
	}
}

// Summary counts the outcomes of a replay.
type Summary struct {
	Replayed int
	Failed   int
	// Positions is the number of distinct final boards up to symmetry.
	Positions int
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	ok, failed := lo.FilterReject(results, func(r Result, _ int) bool { return r.Err == nil })
	return Summary{
		Replayed:  len(ok),
		Failed:    len(failed),
		Positions: len(lo.UniqBy(ok, func(r Result) uint64 { return r.Canonical })),
	}
}
