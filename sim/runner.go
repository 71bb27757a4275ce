package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"holdemsim/holdem"
	"holdemsim/record"
)

// RunnerConfig configures a self-play run.
type RunnerConfig struct {
	Hands      int
	BaseSeed   uint64
	SmallBlind int64
	BigBlind   int64
	StartStack int64

	// LevelEvery doubles the blinds every N hands; 0 disables levels.
	LevelEvery int

	// MaxActionsPerHand guards against a policy ping-ponging forever.
	// Zero picks a generous default.
	MaxActionsPerHand int
}

// RunSummary is the aggregate outcome of a run.
type RunSummary struct {
	HandsPlayed int
	Busted      string // player id that ran out of chips, if any
	FinalStacks map[string]int64
	Net         map[string]int64
}

// Runner plays a sequence of hands between two action sources, emitting one
// record per hand. Hand seeds derive from the base seed by hand index, so an
// entire run is reproducible from (base seed, policy seeds).
type Runner struct {
	cfg     RunnerConfig
	game    *holdem.Game
	sources [holdem.NumSeats]ActionSource
	out     *record.Writer
	log     *logrus.Entry
}

func NewRunner(cfg RunnerConfig, src0, src1 ActionSource, out *record.Writer, log *logrus.Entry) (*Runner, error) {
	if cfg.Hands <= 0 {
		return nil, fmt.Errorf("hands must be > 0")
	}
	if cfg.StartStack <= 0 {
		return nil, fmt.Errorf("start stack must be > 0")
	}
	if cfg.MaxActionsPerHand == 0 {
		cfg.MaxActionsPerHand = 512
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	g, err := holdem.NewGame(holdem.Config{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
	})
	if err != nil {
		return nil, err
	}
	if err := g.Seat(0, "p0", cfg.StartStack); err != nil {
		return nil, err
	}
	if err := g.Seat(1, "p1", cfg.StartStack); err != nil {
		return nil, err
	}

	return &Runner{
		cfg:     cfg,
		game:    g,
		sources: [holdem.NumSeats]ActionSource{src0, src1},
		out:     out,
		log:     log.WithField("component", "sim"),
	}, nil
}

// Run plays hands until the configured count, a bust, or ctx cancellation.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		FinalStacks: make(map[string]int64, holdem.NumSeats),
		Net:         make(map[string]int64, holdem.NumSeats),
	}

	for i := 0; i < r.cfg.Hands; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if r.cfg.LevelEvery > 0 {
			level := uint32(i / r.cfg.LevelEvery)
			sb := r.cfg.SmallBlind << level
			bb := r.cfg.BigBlind << level
			if err := r.game.SetBlinds(level, sb, bb); err != nil {
				return summary, err
			}
		}

		seed := r.cfg.BaseSeed + uint64(i)
		res, err := r.playHand(seed)
		if err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"seed": seed,
				"hand": i,
			}).Error("hand aborted")
			return summary, err
		}
		summary.HandsPlayed++

		if r.out != nil {
			rec := record.FromResult(res, uuid.NewString(), time.Now())
			if err := r.out.Append(rec); err != nil {
				return summary, err
			}
		}

		if err := r.auditStacks(summary); err != nil {
			return summary, err
		}
		if summary.Busted != "" {
			r.log.WithFields(logrus.Fields{
				"hands":  summary.HandsPlayed,
				"busted": summary.Busted,
			}).Info("run ended by bust")
			break
		}
	}

	snap := r.game.Snapshot()
	for _, p := range snap.Players {
		summary.FinalStacks[p.ID] = p.Stack
		summary.Net[p.ID] = p.Stack - r.cfg.StartStack
	}
	return summary, nil
}

func (r *Runner) playHand(seed uint64) (*holdem.HandResult, error) {
	if err := r.game.StartHand(seed); err != nil {
		return nil, err
	}
	// Blinds alone can finish the hand.
	if res := r.game.Result(); res != nil {
		return res, nil
	}

	for steps := 0; steps < r.cfg.MaxActionsPerHand; steps++ {
		snap := r.game.Snapshot()
		if snap.Ended {
			break
		}
		d, err := r.sources[snap.Actor].Act(snap)
		if err != nil {
			return nil, fmt.Errorf("action source for chair %d: %w", snap.Actor, err)
		}
		if _, err := r.game.Act(snap.Actor, d.Action, d.Amount); err != nil {
			// A policy emitting an illegal action is a harness bug: the
			// engine does not retry on the caller's behalf.
			return nil, fmt.Errorf("seed %d: %s rejected: %w", seed, d.Action, err)
		}
	}

	res := r.game.Result()
	if res == nil {
		return nil, fmt.Errorf("seed %d: hand did not finish within %d actions", seed, r.cfg.MaxActionsPerHand)
	}
	return res, nil
}

// auditStacks re-checks cross-hand chip conservation and spots busts.
func (r *Runner) auditStacks(summary *RunSummary) error {
	snap := r.game.Snapshot()
	var total int64
	for _, p := range snap.Players {
		total += p.Stack
		if p.Stack == 0 {
			summary.Busted = p.ID
		}
	}
	if want := r.cfg.StartStack * holdem.NumSeats; total != want {
		return fmt.Errorf("chips leaked across hands: have %d, want %d", total, want)
	}
	return nil
}
