package holdem

import "sort"

// pot is one layer of the pot. Eligibility is tracked by chair index into
// the seat array, never by player pointers.
type pot struct {
	amount   int64
	eligible map[uint16]bool
}

// potManager keeps the ordered pot layers, first-created first. Layers are
// rebuilt from street contributions every time bets are swept, splitting
// around all-in amounts so each layer's eligibility set matches exactly the
// players who covered it.
type potManager struct {
	pots         []pot
	refundChair  uint16
	refundAmount int64
}

func (pm *potManager) reset() {
	pm.pots = pm.pots[:0]
	pm.refundChair = InvalidChair
	pm.refundAmount = 0
}

func (pm *potManager) total() int64 {
	var sum int64
	for _, p := range pm.pots {
		sum += p.amount
	}
	return sum
}

// sweep folds the street's bets into pot layers. Contributions are cut at
// each distinct all-in level: chips up to a level go into a layer open to
// everyone who reached it, chips beyond it into deeper layers restricted to
// the players who kept contributing. An unmatched overbet is refunded to its
// owner before layering.
func (pm *potManager) sweep(contributors []*Player) {
	pm.refundChair = InvalidChair
	pm.refundAmount = 0
	if len(contributors) == 0 {
		return
	}

	sort.Slice(contributors, func(i, j int) bool {
		return contributors[i].bet < contributors[j].bet
	})

	// Refund the uncalled portion of the deepest bet.
	top := contributors[len(contributors)-1]
	var second int64
	if len(contributors) > 1 {
		second = contributors[len(contributors)-2].bet
	}
	if excess := top.bet - second; excess > 0 {
		top.refund(excess)
		pm.refundChair = top.Chair
		pm.refundAmount = excess
	}

	covered := int64(0)
	for i, p := range contributors {
		level := p.bet - covered
		if level <= 0 {
			continue
		}

		layer := pot{eligible: make(map[uint16]bool)}
		for _, q := range contributors[i:] {
			chip := level
			if rest := q.bet - covered; chip > rest {
				chip = rest
			}
			layer.amount += chip
			if !q.folded {
				layer.eligible[q.Chair] = true
			}
		}

		// Merge into the previous layer when eligibility is unchanged.
		if n := len(pm.pots); n > 0 && sameEligibility(pm.pots[n-1].eligible, layer.eligible) {
			pm.pots[n-1].amount += layer.amount
		} else {
			pm.pots = append(pm.pots, layer)
		}
		covered += level
	}

	for _, p := range contributors {
		p.resetBet()
	}
}

func (pm *potManager) dropEligibility(chair uint16) {
	for i := range pm.pots {
		delete(pm.pots[i].eligible, chair)
	}
}

func sameEligibility(a, b map[uint16]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for chair := range b {
		if !a[chair] {
			return false
		}
	}
	return true
}
