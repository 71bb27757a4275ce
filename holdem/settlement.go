package holdem

import (
	"sort"

	"holdemsim/card"
)

// ShowdownPlayer is one revealed hand at showdown.
type ShowdownPlayer struct {
	Chair     uint16
	ID        string
	Category  byte
	Score     uint32
	HoleCards []card.Card
	BestFive  []card.Card
	Won       bool
	Amount    int64
}

// PotResult is the distribution of one pot layer.
type PotResult struct {
	Amount     int64
	Winners    []uint16
	WinAmounts []int64
}

// SettlementResult describes how the pots were paid out.
type SettlementResult struct {
	Showdown     []ShowdownPlayer
	Pots         []PotResult
	RefundChair  uint16
	RefundAmount int64
}

// endHandLocked finishes the hand: sweeps any live bets, runs out the board
// if a showdown is owed, distributes the pot layers, and freezes the result.
func (g *Game) endHandLocked() error {
	// A fold can end the hand mid-street with bets still on the table.
	if g.curBet > 0 || g.anyLiveBetsLocked() {
		contributors := make([]*Player, 0, NumSeats)
		for _, p := range g.seats {
			if p.bet > 0 {
				contributors = append(contributors, p)
			}
		}
		g.pots.sweep(contributors)
		g.curBet = 0
	}

	settle := &SettlementResult{
		RefundChair:  g.pots.refundChair,
		RefundAmount: g.pots.refundAmount,
	}

	var byChair map[uint16]*ShowdownPlayer
	if !g.noShowdown {
		g.street = StreetShowdown
		if missing := 5 - len(g.board); missing > 0 {
			if err := g.dealBoardLocked(missing); err != nil {
				g.ended = true
				return err
			}
		}
		var err error
		byChair, err = g.evaluateShowdownLocked()
		if err != nil {
			g.ended = true
			return err
		}
	}

	for _, layer := range g.pots.pots {
		settle.Pots = append(settle.Pots, g.distributeLayerLocked(layer, byChair))
	}

	if byChair != nil {
		for chair := uint16(0); chair < NumSeats; chair++ {
			if sp, ok := byChair[chair]; ok {
				settle.Showdown = append(settle.Showdown, *sp)
			}
		}
	}

	g.pots.reset()
	g.street = StreetComplete
	g.ended = true

	endReason := EndReasonShowdown
	if g.noShowdown {
		endReason = EndReasonFold
	}

	net := make(map[string]int64, NumSeats)
	seats := make([]SeatStart, 0, NumSeats)
	for chair, p := range g.seats {
		net[p.ID] = p.stack - g.startStacks[chair]
		seats = append(seats, SeatStart{Chair: p.Chair, ID: p.ID, Stack: g.startStacks[chair]})
	}

	g.result = &HandResult{
		HandNo:     g.handNo,
		Seed:       g.seed,
		Level:      g.cfg.Level,
		SmallBlind: g.cfg.SmallBlind,
		BigBlind:   g.cfg.BigBlind,
		Button:     g.button,
		ButtonID:   g.seats[g.button].ID,
		Seats:      seats,
		Actions:    g.history,
		Board:      append([]card.Card{}, g.board...),
		Settlement: settle,
		Net:        net,
		EndReason:  endReason,
	}
	return g.auditChipsLocked()
}

func (g *Game) anyLiveBetsLocked() bool {
	for _, p := range g.seats {
		if p.bet > 0 {
			return true
		}
	}
	return false
}

// evaluateShowdownLocked ranks every non-folded hand against the full board.
func (g *Game) evaluateShowdownLocked() (map[uint16]*ShowdownPlayer, error) {
	if len(g.board) != 5 {
		return nil, errInvalidState("showdown requires a complete board")
	}
	out := make(map[uint16]*ShowdownPlayer, NumSeats)
	for _, p := range g.seats {
		if p.folded || len(p.holeCards) != 2 {
			continue
		}
		all := make(card.CardList, 0, 7)
		all = append(all, p.holeCards...)
		all = append(all, g.board...)
		eval := EvalBestOf7(all)
		if eval == nil {
			return nil, errInvalidState("hand evaluation failed")
		}
		p.evalRes = eval
		bestFive := make([]card.Card, 0, 5)
		for _, i := range eval.BestIndex {
			bestFive = append(bestFive, all[i])
		}
		out[p.Chair] = &ShowdownPlayer{
			Chair:     p.Chair,
			ID:        p.ID,
			Category:  eval.Category,
			Score:     eval.Score,
			HoleCards: append([]card.Card{}, p.holeCards...),
			BestFive:  bestFive,
		}
	}
	return out, nil
}

// distributeLayerLocked awards one pot layer to its best eligible hand(s).
// Ties split evenly; the indivisible remainder goes to the first winner in
// the seat order fixed by the configured odd-chip rule.
func (g *Game) distributeLayerLocked(layer pot, byChair map[uint16]*ShowdownPlayer) PotResult {
	pr := PotResult{Amount: layer.amount}
	if layer.amount <= 0 || len(layer.eligible) == 0 {
		return pr
	}

	winners := make([]uint16, 0, NumSeats)
	if byChair == nil {
		// Fold-ended hand: every remaining eligible seat wins its share
		// without evaluation. Heads-up this is always a single seat.
		for chair := range layer.eligible {
			winners = append(winners, chair)
		}
	} else {
		var best uint32
		for chair := range layer.eligible {
			sp, ok := byChair[chair]
			if !ok {
				continue
			}
			switch {
			case len(winners) == 0 || sp.Score > best:
				winners = winners[:0]
				winners = append(winners, chair)
				best = sp.Score
			case sp.Score == best:
				winners = append(winners, chair)
			}
		}
	}
	if len(winners) == 0 {
		return pr
	}

	sort.Slice(winners, func(i, j int) bool {
		return g.oddChipOrderLocked(winners[i]) < g.oddChipOrderLocked(winners[j])
	})

	share := layer.amount / int64(len(winners))
	remainder := layer.amount % int64(len(winners))

	pr.Winners = append(pr.Winners, winners...)
	for i, chair := range winners {
		amt := share
		if i == 0 {
			amt += remainder
		}
		pr.WinAmounts = append(pr.WinAmounts, amt)
		g.seats[chair].award(amt)
		if byChair != nil {
			if sp, ok := byChair[chair]; ok {
				sp.Won = true
				sp.Amount += amt
			}
		}
	}
	return pr
}

// oddChipOrderLocked ranks a chair by distance clockwise from the rule's
// starting seat: left of the button by default, or the button itself.
func (g *Game) oddChipOrderLocked(chair uint16) uint16 {
	start := other(g.button)
	if g.cfg.OddChip == OddChipButton {
		start = g.button
	}
	return (chair + NumSeats - start) % NumSeats
}
