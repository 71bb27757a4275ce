package holdem

import "testing"

func TestPotSweep_ShortAllInSplitsMatchedAndExcess(t *testing.T) {
	// Player A bets 100, player B is all-in for 60: the matched layer holds
	// 120 open to both, A's uncovered 40 comes straight back.
	a := &Player{ID: "a", Chair: 0, stack: 400}
	b := &Player{ID: "b", Chair: 1, stack: 0, allIn: true}
	a.bet, a.totalBet = 100, 100
	b.bet, b.totalBet = 60, 60

	var pm potManager
	pm.reset()
	pm.sweep([]*Player{a, b})

	if len(pm.pots) != 1 {
		t.Fatalf("expected 1 pot layer, got %d", len(pm.pots))
	}
	if pm.pots[0].amount != 120 {
		t.Fatalf("expected matched layer of 120, got %d", pm.pots[0].amount)
	}
	if !pm.pots[0].eligible[0] || !pm.pots[0].eligible[1] {
		t.Fatalf("both players should be eligible for the matched layer: %v", pm.pots[0].eligible)
	}
	if pm.refundChair != 0 || pm.refundAmount != 40 {
		t.Fatalf("expected refund of 40 to chair 0, got %d to chair %d", pm.refundAmount, pm.refundChair)
	}
	if a.stack != 440 {
		t.Fatalf("expected refunded stack 440, got %d", a.stack)
	}
	if a.bet != 0 || b.bet != 0 {
		t.Fatalf("street bets should be swept: a=%d b=%d", a.bet, b.bet)
	}
}

func TestPotSweep_FoldedContributorPaysButCannotWin(t *testing.T) {
	a := &Player{ID: "a", Chair: 0, folded: true}
	b := &Player{ID: "b", Chair: 1, stack: 100}
	a.bet = 50
	b.bet = 50

	var pm potManager
	pm.reset()
	pm.sweep([]*Player{a, b})

	if len(pm.pots) != 1 || pm.pots[0].amount != 100 {
		t.Fatalf("expected single 100-chip layer, got %+v", pm.pots)
	}
	if pm.pots[0].eligible[0] {
		t.Fatal("folded player must not be eligible")
	}
	if !pm.pots[0].eligible[1] {
		t.Fatal("remaining player must be eligible")
	}
}

func TestPotSweep_MergesLayersWithSameEligibility(t *testing.T) {
	var pm potManager
	pm.reset()

	a := &Player{ID: "a", Chair: 0, stack: 900}
	b := &Player{ID: "b", Chair: 1, stack: 900}
	a.bet, b.bet = 100, 100
	pm.sweep([]*Player{a, b})

	a.bet, b.bet = 200, 200
	pm.sweep([]*Player{a, b})

	if len(pm.pots) != 1 {
		t.Fatalf("expected merged single layer, got %d layers", len(pm.pots))
	}
	if pm.pots[0].amount != 600 {
		t.Fatalf("expected merged amount 600, got %d", pm.pots[0].amount)
	}
}

func TestPotSweep_TotalMatchesContributions(t *testing.T) {
	a := &Player{ID: "a", Chair: 0, stack: 100}
	b := &Player{ID: "b", Chair: 1, stack: 0, allIn: true}
	a.bet = 300
	b.bet = 240

	var pm potManager
	pm.reset()
	pm.sweep([]*Player{a, b})

	if got := pm.total(); got != 480 {
		t.Fatalf("pot total %d, want 480 (uncovered 60 refunded)", got)
	}
}
