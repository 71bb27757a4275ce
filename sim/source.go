// Package sim is the self-play harness: it drives the hand engine with
// pluggable action sources and streams completed hands into the record log.
package sim

import (
	"fmt"
	"math/rand"

	"holdemsim/holdem"
)

// Decision is one chosen action with its street commitment amount.
type Decision struct {
	Action holdem.ActionType
	Amount int64
}

// ActionSource produces one legal action for the seat to act. The engine
// never depends on which variant supplied the action: scripted, human or
// policy-driven sources all satisfy the same interface.
type ActionSource interface {
	Act(snap holdem.Snapshot) (Decision, error)
}

// Caller is the calling-station baseline: check when possible, otherwise
// call, otherwise push the short stack in.
type Caller struct{}

func (Caller) Act(snap holdem.Snapshot) (Decision, error) {
	var fallback *holdem.LegalAction
	for i, la := range snap.Legal {
		switch la.Type {
		case holdem.ActionCheck:
			return Decision{Action: holdem.ActionCheck}, nil
		case holdem.ActionCall:
			return Decision{Action: holdem.ActionCall, Amount: la.Min}, nil
		case holdem.ActionAllIn:
			fallback = &snap.Legal[i]
		}
	}
	if fallback != nil {
		return Decision{Action: holdem.ActionAllIn, Amount: fallback.Min}, nil
	}
	return Decision{}, fmt.Errorf("no passive action available: %+v", snap.Legal)
}

// Random picks uniformly among the legal actions with a policy-local RNG.
// The policy stream is deliberately separate from the deck stream: policy
// exploration must never perturb card determinism.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Act(snap holdem.Snapshot) (Decision, error) {
	if len(snap.Legal) == 0 {
		return Decision{}, fmt.Errorf("no legal actions")
	}
	la := snap.Legal[r.rng.Intn(len(snap.Legal))]
	d := Decision{Action: la.Type, Amount: la.Min}
	if la.Max > la.Min {
		// Bet and raise sizes are sampled in big-blind steps.
		steps := (la.Max - la.Min) / snap.BigBlind
		if steps > 0 {
			d.Amount = la.Min + snap.BigBlind*r.rng.Int63n(steps+1)
		}
		if d.Amount > la.Max {
			d.Amount = la.Max
		}
	}
	return d, nil
}

// Scripted replays a fixed decision list; used by tests.
type Scripted struct {
	Decisions []Decision
	next      int
}

func (s *Scripted) Act(snap holdem.Snapshot) (Decision, error) {
	if s.next >= len(s.Decisions) {
		return Decision{}, fmt.Errorf("script exhausted after %d decisions", s.next)
	}
	d := s.Decisions[s.next]
	s.next++
	return d, nil
}
