package replay

import (
	"testing"
	"time"

	"holdemsim/holdem"
	"holdemsim/record"
)

func playRecordedHand(t *testing.T, seed uint64, script []holdem.ActionType) *record.HandRecord {
	t.Helper()
	button := uint16(0)
	g, err := holdem.NewGame(holdem.Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	if err := g.Seat(0, "p0", 1000); err != nil {
		t.Fatal(err)
	}
	if err := g.Seat(1, "p1", 1000); err != nil {
		t.Fatal(err)
	}
	if err := g.StartHand(seed); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	var res *holdem.HandResult
	for _, action := range script {
		snap := g.Snapshot()
		if snap.Ended {
			t.Fatalf("script continues after hand end")
		}
		res, err = g.Act(snap.Actor, action, 0)
		if err != nil {
			t.Fatalf("Act(%v) err: %v", action, err)
		}
	}
	if res == nil {
		t.Fatal("script did not finish the hand")
	}
	return record.FromResult(res, "replay-test", time.Now())
}

func TestVerify_AllInHandRoundTrips(t *testing.T) {
	rec := playRecordedHand(t, 977, []holdem.ActionType{holdem.ActionAllIn, holdem.ActionAllIn})
	if err := Verify(rec); err != nil {
		t.Fatalf("Verify err: %v", err)
	}
}

func TestVerify_CheckdownHandRoundTrips(t *testing.T) {
	script := []holdem.ActionType{
		holdem.ActionCall, holdem.ActionCheck, // preflop
		holdem.ActionCheck, holdem.ActionCheck, // flop
		holdem.ActionCheck, holdem.ActionCheck, // turn
		holdem.ActionCheck, holdem.ActionCheck, // river
	}
	rec := playRecordedHand(t, 31337, script)
	if err := Verify(rec); err != nil {
		t.Fatalf("Verify err: %v", err)
	}
}

func TestVerify_DetectsTamperedBoard(t *testing.T) {
	rec := playRecordedHand(t, 977, []holdem.ActionType{holdem.ActionAllIn, holdem.ActionAllIn})
	rec.Board[0], rec.Board[1] = rec.Board[1], rec.Board[0]
	err := Verify(rec)
	if err == nil {
		t.Fatal("expected divergence for tampered board")
	}
	var div *DivergenceError
	if !asDivergence(err, &div) || div.Field != "board" {
		t.Fatalf("expected board divergence, got %v", err)
	}
}

func TestVerify_DetectsTamperedNetResult(t *testing.T) {
	rec := playRecordedHand(t, 4242, []holdem.ActionType{holdem.ActionFold})
	rec.NetResult["p0"] += 25
	if err := Verify(rec); err == nil {
		t.Fatal("expected divergence for tampered net result")
	}
}

func TestVerify_DetectsWrongSeed(t *testing.T) {
	rec := playRecordedHand(t, 555, []holdem.ActionType{holdem.ActionAllIn, holdem.ActionAllIn})
	rec.Seed = 556
	if err := Verify(rec); err == nil {
		t.Fatal("expected divergence when replaying under a different seed")
	}
}

func asDivergence(err error, target **DivergenceError) bool {
	d, ok := err.(*DivergenceError)
	if ok {
		*target = d
	}
	return ok
}
