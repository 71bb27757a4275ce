package holdem

import (
	"sort"

	"holdemsim/card"
)

// BestHand is the evaluation of the strongest 5-card hand in a 7-card set.
type BestHand struct {
	Score     uint32 // Larger is stronger; equal means exact chop.
	Category  byte
	BestIndex [5]int // Indices of the best 5 cards in the original 7.
}

// EvalBestOf7 evaluates the best 5-card hand across all 21 combinations of
// 7 cards (2 hole + 5 board). Returns nil unless exactly 7 cards are given.
func EvalBestOf7(cards card.CardList) *BestHand {
	if len(cards) != 7 {
		return nil
	}

	var best *BestHand
	idx := [5]int{}

	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						idx[0], idx[1], idx[2], idx[3], idx[4] = a, b, c, d, e
						score, category := eval5(cards[a], cards[b], cards[c], cards[d], cards[e])
						if best == nil || score > best.Score {
							best = &BestHand{
								Score:     score,
								Category:  category,
								BestIndex: idx,
							}
						}
					}
				}
			}
		}
	}
	return best
}

// eval5 ranks exactly five cards. The score packs the category into the top
// nibble above five 4-bit tie-break ranks, so scores are totally ordered and
// equal scores mean an exact tie:
//
//	score = category<<20 | t0<<16 | t1<<12 | t2<<8 | t3<<4 | t4
//
// Tie-break ranks use 2..14 with ace high, except the wheel straight where
// the ace plays low and the hand ranks by its 5-high top card.
func eval5(a, b, c, d, e card.Card) (score uint32, category byte) {
	cards := [5]card.Card{a, b, c, d, e}

	flush := true
	suit0 := cards[0].Suit()
	var ranks [5]int
	var count [15]int
	for i, cc := range cards {
		if cc.Suit() != suit0 {
			flush = false
		}
		r := cc.HighValue()
		ranks[i] = r
		count[r]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks[:])))

	straightHigh := straightTop(ranks)

	switch {
	case flush && straightHigh == 14:
		return packScore(HandRoyalFlush, straightHigh, 0, 0, 0, 0), HandRoyalFlush
	case flush && straightHigh > 0:
		return packScore(HandStraightFlush, straightHigh, 0, 0, 0, 0), HandStraightFlush
	}

	// Group ranks by multiplicity, best group first.
	type group struct{ n, rank int }
	groups := make([]group, 0, 5)
	for r := 14; r >= 2; r-- {
		if count[r] > 0 {
			groups = append(groups, group{count[r], r})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].n > groups[j].n })

	switch {
	case groups[0].n == 4:
		return packScore(HandFourOfKind, groups[0].rank, groups[1].rank, 0, 0, 0), HandFourOfKind
	case groups[0].n == 3 && groups[1].n == 2:
		return packScore(HandFullHouse, groups[0].rank, groups[1].rank, 0, 0, 0), HandFullHouse
	case flush:
		return packScore(HandFlush, ranks[0], ranks[1], ranks[2], ranks[3], ranks[4]), HandFlush
	case straightHigh > 0:
		return packScore(HandStraight, straightHigh, 0, 0, 0, 0), HandStraight
	case groups[0].n == 3:
		return packScore(HandThreeOfKind, groups[0].rank, groups[1].rank, groups[2].rank, 0, 0), HandThreeOfKind
	case groups[0].n == 2 && groups[1].n == 2:
		return packScore(HandTwoPair, groups[0].rank, groups[1].rank, groups[2].rank, 0, 0), HandTwoPair
	case groups[0].n == 2:
		return packScore(HandOnePair, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, 0), HandOnePair
	default:
		return packScore(HandHighCard, ranks[0], ranks[1], ranks[2], ranks[3], ranks[4]), HandHighCard
	}
}

// straightTop returns the top card of a straight formed by the five sorted
// (descending) ranks, 0 if they do not form one. The wheel A-2-3-4-5 counts
// as a 5-high straight.
func straightTop(ranks [5]int) int {
	for i := 1; i < 5; i++ {
		if ranks[i] != ranks[i-1]-1 {
			// Wheel: A,5,4,3,2 sorts as 14,5,4,3,2.
			if ranks == [5]int{14, 5, 4, 3, 2} {
				return 5
			}
			return 0
		}
	}
	return ranks[0]
}

func packScore(category byte, t0, t1, t2, t3, t4 int) uint32 {
	return uint32(category)<<20 |
		uint32(t0)<<16 | uint32(t1)<<12 | uint32(t2)<<8 | uint32(t3)<<4 | uint32(t4)
}
