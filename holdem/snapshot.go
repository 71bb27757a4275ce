package holdem

import (
	"sort"

	"holdemsim/card"
)

// LegalAction is one available action with its amount bounds. Min and Max
// are total street commitments; both are zero for fold and check.
type LegalAction struct {
	Type ActionType
	Min  int64
	Max  int64
}

type PlayerSnapshot struct {
	ID         string
	Chair      uint16
	Stack      int64
	Bet        int64
	TotalBet   int64
	Folded     bool
	AllIn      bool
	LastAction ActionType
	HoleCards  []card.Card
}

type PotSnapshot struct {
	Amount   int64
	Eligible []uint16
}

// Snapshot is an immutable projection of the current hand state, including
// the legal action set for the seat to act. It is safe to hand to renderers
// and policies; nothing in it aliases engine state.
type Snapshot struct {
	HandNo uint32
	Seed   uint64
	Street Street
	Ended  bool

	Button uint16
	Actor  uint16

	Level      uint32
	SmallBlind int64
	BigBlind   int64

	CurBet        int64
	MinRaiseDelta int64

	Board    []card.Card
	Pots     []PotSnapshot
	PotTotal int64
	Players  []PlayerSnapshot

	// Legal actions for the current actor; empty once the hand has ended.
	Legal []LegalAction
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		HandNo:        g.handNo,
		Seed:          g.seed,
		Street:        g.street,
		Ended:         !g.started || g.ended,
		Button:        g.button,
		Actor:         InvalidChair,
		Level:         g.cfg.Level,
		SmallBlind:    g.cfg.SmallBlind,
		BigBlind:      g.cfg.BigBlind,
		CurBet:        g.curBet,
		MinRaiseDelta: g.minRaise,
		Board:         append([]card.Card{}, g.board...),
		PotTotal:      g.pots.total(),
	}

	for _, p := range g.seats {
		if p == nil {
			continue
		}
		s.Players = append(s.Players, PlayerSnapshot{
			ID:         p.ID,
			Chair:      p.Chair,
			Stack:      p.stack,
			Bet:        p.bet,
			TotalBet:   p.totalBet,
			Folded:     p.folded,
			AllIn:      p.allIn,
			LastAction: p.lastAction,
			HoleCards:  append([]card.Card{}, p.holeCards...),
		})
	}

	for _, layer := range g.pots.pots {
		ps := PotSnapshot{Amount: layer.amount}
		for chair := range layer.eligible {
			ps.Eligible = append(ps.Eligible, chair)
		}
		sort.Slice(ps.Eligible, func(i, j int) bool { return ps.Eligible[i] < ps.Eligible[j] })
		s.Pots = append(s.Pots, ps)
	}

	if !s.Ended && g.actor != InvalidChair {
		s.Actor = g.actor
		s.Legal = g.legalActionsLocked(g.seats[g.actor])
	}
	return s
}
