package holdem

import (
	"errors"
	"testing"

	"holdemsim/card"
)

// deckWithPrefix builds a full 52-card order that deals prefix first.
func deckWithPrefix(prefix []card.Card) []card.Card {
	out := make([]card.Card, 0, len(card.FullDeck))
	out = append(out, prefix...)
	for _, c := range card.FullDeck {
		inPrefix := false
		for _, p := range prefix {
			if p == c {
				inPrefix = true
				break
			}
		}
		if !inPrefix {
			out = append(out, c)
		}
	}
	return out
}

func newHeadsUpGame(t *testing.T, cfg Config, stack0, stack1 int64) *Game {
	t.Helper()
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	if err := g.Seat(0, "p0", stack0); err != nil {
		t.Fatalf("Seat 0 err: %v", err)
	}
	if err := g.Seat(1, "p1", stack1); err != nil {
		t.Fatalf("Seat 1 err: %v", err)
	}
	return g
}

func assertConservation(t *testing.T, g *Game, want int64) {
	t.Helper()
	snap := g.Snapshot()
	total := snap.PotTotal
	for _, p := range snap.Players {
		total += p.Stack + p.Bet
	}
	if total != want {
		t.Fatalf("chip conservation violated: have %d, want %d", total, want)
	}
}

func TestStartHand_PostsBlindsAndDealsHoleCards(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 1000, 1000)

	if err := g.StartHand(1); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	snap := g.Snapshot()
	if snap.Street != StreetPreflop {
		t.Fatalf("expected preflop, got %v", snap.Street)
	}
	if snap.Button != 0 {
		t.Fatalf("expected button on chair 0, got %d", snap.Button)
	}
	// Heads-up: the button posts the small blind and acts first.
	if snap.Actor != 0 {
		t.Fatalf("expected button to act first preflop, got chair %d", snap.Actor)
	}
	if snap.Players[0].Bet != 50 || snap.Players[1].Bet != 100 {
		t.Fatalf("blinds not posted: sb=%d bb=%d", snap.Players[0].Bet, snap.Players[1].Bet)
	}
	for _, p := range snap.Players {
		if len(p.HoleCards) != 2 {
			t.Fatalf("chair %d has %d hole cards", p.Chair, len(p.HoleCards))
		}
	}
	assertConservation(t, g, 2000)
}

func TestStartHand_DealsFirstCardLeftOfButton(t *testing.T) {
	button := uint16(0)
	prefix := []card.Card{card.SpadeA, card.SpadeK, card.SpadeQ, card.SpadeJ}
	g := newHeadsUpGame(t, Config{
		SmallBlind:   50,
		BigBlind:     100,
		ForcedButton: &button,
		DeckOverride: deckWithPrefix(prefix),
	}, 1000, 1000)

	if err := g.StartHand(1); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	snap := g.Snapshot()
	hole := map[uint16][]card.Card{}
	for _, p := range snap.Players {
		hole[p.Chair] = p.HoleCards
	}
	if hole[1][0] != card.SpadeA || hole[1][1] != card.SpadeQ {
		t.Fatalf("chair 1 hole cards wrong: %v", card.Labels(hole[1]))
	}
	if hole[0][0] != card.SpadeK || hole[0][1] != card.SpadeJ {
		t.Fatalf("chair 0 hole cards wrong: %v", card.Labels(hole[0]))
	}
}

func TestHand_FoldPreflopEndsHand(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 1000, 1000)
	if err := g.StartHand(3); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	res, err := g.Act(0, ActionFold, 0)
	if err != nil {
		t.Fatalf("fold err: %v", err)
	}
	if res == nil {
		t.Fatal("expected hand result after fold")
	}
	if res.EndReason != EndReasonFold {
		t.Fatalf("expected fold end reason, got %q", res.EndReason)
	}
	if res.Settlement.Showdown != nil {
		t.Fatalf("fold-ended hand must not have showdown entries: %+v", res.Settlement.Showdown)
	}
	// Winner nets the folder's blind; the big blind's unmatched 50 came back.
	if res.Net["p0"] != -50 || res.Net["p1"] != 50 {
		t.Fatalf("unexpected net result: %v", res.Net)
	}
	assertConservation(t, g, 2000)
}

func TestHand_AAvsKKAllInPreflop(t *testing.T) {
	button := uint16(0)
	// Deal order with button on 0: chair1, chair0, chair1, chair0, board.
	prefix := []card.Card{
		card.ClubK, card.SpadeA, card.DiamondK, card.HeartA,
		// Blank board: no pair, straight or flush possibilities.
		card.Club2, card.Diamond7, card.Spade9, card.Heart3, card.DiamondQ,
	}
	g := newHeadsUpGame(t, Config{
		SmallBlind:   50,
		BigBlind:     100,
		ForcedButton: &button,
		DeckOverride: deckWithPrefix(prefix),
	}, 1000, 1000)

	if err := g.StartHand(42); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	if res, err := g.Act(0, ActionAllIn, 0); err != nil || res != nil {
		t.Fatalf("button all-in: res=%v err=%v", res, err)
	}
	res, err := g.Act(1, ActionAllIn, 0)
	if err != nil {
		t.Fatalf("big blind all-in call err: %v", err)
	}
	if res == nil {
		t.Fatal("expected hand result")
	}

	if res.EndReason != EndReasonShowdown {
		t.Fatalf("expected showdown, got %q", res.EndReason)
	}
	if res.Seed != 42 {
		t.Fatalf("expected seed 42 recorded, got %d", res.Seed)
	}
	if res.Net["p0"] != 1000 || res.Net["p1"] != -1000 {
		t.Fatalf("expected mirrored +/-1000, got %v", res.Net)
	}
	if len(res.Board) != 5 {
		t.Fatalf("expected 5 board cards, got %d", len(res.Board))
	}
	for _, sp := range res.Settlement.Showdown {
		switch sp.ID {
		case "p0":
			if !sp.Won || sp.Category != HandOnePair {
				t.Fatalf("expected p0 to win with one pair, got %+v", sp)
			}
		case "p1":
			if sp.Won {
				t.Fatalf("p1 must not win: %+v", sp)
			}
		}
	}
	assertConservation(t, g, 2000)
}

func TestHand_ShortAllInDoesNotReopenBetting(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 230, 1000)
	if err := g.StartHand(5); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	// Preflop: button calls, big blind checks.
	if _, err := g.Act(0, ActionCall, 0); err != nil {
		t.Fatalf("call err: %v", err)
	}
	if _, err := g.Act(1, ActionCheck, 0); err != nil {
		t.Fatalf("check err: %v", err)
	}

	// Flop: p1 bets 100 (a full bet), p0 shoves 130 total, a raise of 30
	// which is below the 100 minimum.
	if _, err := g.Act(1, ActionBet, 100); err != nil {
		t.Fatalf("bet err: %v", err)
	}
	if _, err := g.Act(0, ActionAllIn, 0); err != nil {
		t.Fatalf("all-in err: %v", err)
	}

	// p1 already matched the last full bet, so the short all-in must not
	// grant a new raise.
	legal, err := g.LegalActions(1)
	if err != nil {
		t.Fatalf("LegalActions err: %v", err)
	}
	for _, la := range legal {
		if la.Type == ActionRaise || la.Type == ActionAllIn {
			t.Fatalf("short all-in must not reopen betting, got %v", la.Type)
		}
	}
	hasCall := false
	for _, la := range legal {
		if la.Type == ActionCall {
			hasCall = true
		}
	}
	if !hasCall {
		t.Fatalf("expected call to remain available, got %+v", legal)
	}

	res, err := g.Act(1, ActionCall, 0)
	if err != nil {
		t.Fatalf("closing call err: %v", err)
	}
	if res == nil || res.EndReason != EndReasonShowdown {
		t.Fatalf("expected showdown result, got %+v", res)
	}
	assertConservation(t, g, 1230)
}

func TestHand_BigBlindHasOptionAfterLimp(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 1000, 1000)
	if err := g.StartHand(9); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	if _, err := g.Act(0, ActionCall, 0); err != nil {
		t.Fatalf("limp err: %v", err)
	}

	legal, err := g.LegalActions(1)
	if err != nil {
		t.Fatalf("LegalActions err: %v", err)
	}
	hasCheck, hasRaise := false, false
	var raiseMin int64
	for _, la := range legal {
		switch la.Type {
		case ActionCheck:
			hasCheck = true
		case ActionRaise:
			hasRaise = true
			raiseMin = la.Min
		}
	}
	if !hasCheck || !hasRaise {
		t.Fatalf("big blind should have check and raise options, got %+v", legal)
	}
	if raiseMin != 200 {
		t.Fatalf("minimum raise should be to 200, got %d", raiseMin)
	}

	// Raising reopens action for the button.
	if _, err := g.Act(1, ActionRaise, 300); err != nil {
		t.Fatalf("raise err: %v", err)
	}
	snap := g.Snapshot()
	if snap.Actor != 0 {
		t.Fatalf("expected button to act after raise, got chair %d", snap.Actor)
	}
	if snap.Street != StreetPreflop {
		t.Fatalf("street advanced early: %v", snap.Street)
	}
}

func TestHand_IllegalActionsRejectedWithoutMutation(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 1000, 1000)
	if err := g.StartHand(11); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	before := g.Snapshot()

	// Out of turn.
	if _, err := g.Act(1, ActionCheck, 0); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}

	// Check facing the big blind.
	var illegal *IllegalActionError
	_, err := g.Act(0, ActionCheck, 0)
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalActionError, got %v", err)
	}

	// Undersized raise.
	_, err = g.Act(0, ActionRaise, 150)
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalActionError for short raise, got %v", err)
	}

	// Raise beyond stack is recoverable as insufficient stack.
	var short *InsufficientStackError
	_, err = g.Act(0, ActionRaise, 5000)
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStackError, got %v", err)
	}

	after := g.Snapshot()
	if before.CurBet != after.CurBet || before.Actor != after.Actor ||
		before.Players[0].Stack != after.Players[0].Stack {
		t.Fatal("rejected actions must not mutate state")
	}
}

func TestHand_CheckdownReachesShowdown(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 1000, 1000)
	if err := g.StartHand(17); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	// Preflop: call + check; then check every street down.
	if _, err := g.Act(0, ActionCall, 0); err != nil {
		t.Fatalf("call err: %v", err)
	}
	var res *HandResult
	var err error
	if res, err = g.Act(1, ActionCheck, 0); err != nil {
		t.Fatalf("check err: %v", err)
	}
	streets := []Street{StreetFlop, StreetTurn, StreetRiver}
	for _, want := range streets {
		snap := g.Snapshot()
		if snap.Street != want {
			t.Fatalf("expected street %v, got %v", want, snap.Street)
		}
		if snap.Actor != 1 {
			t.Fatalf("non-button must act first postflop, got chair %d", snap.Actor)
		}
		if _, err = g.Act(1, ActionCheck, 0); err != nil {
			t.Fatalf("%v check err: %v", want, err)
		}
		if res, err = g.Act(0, ActionCheck, 0); err != nil {
			t.Fatalf("%v check err: %v", want, err)
		}
	}
	if res == nil || res.EndReason != EndReasonShowdown {
		t.Fatalf("expected showdown result, got %+v", res)
	}
	if len(res.Settlement.Showdown) != 2 {
		t.Fatalf("expected both hands revealed, got %d", len(res.Settlement.Showdown))
	}
	total := res.Net["p0"] + res.Net["p1"]
	if total != 0 {
		t.Fatalf("net results must sum to zero, got %d", total)
	}
	assertConservation(t, g, 2000)
}

func TestHand_ButtonAlternatesAcrossHands(t *testing.T) {
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100}, 5000, 5000)
	if err := g.StartHand(1); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	first := g.Snapshot().Button

	snap := g.Snapshot()
	if _, err := g.Act(snap.Actor, ActionFold, 0); err != nil {
		t.Fatalf("fold err: %v", err)
	}
	if err := g.StartHand(2); err != nil {
		t.Fatalf("second StartHand err: %v", err)
	}
	if second := g.Snapshot().Button; second == first {
		t.Fatalf("button should alternate, stayed on %d", second)
	}
}

func TestHand_DeterministicReplaySameSeed(t *testing.T) {
	run := func() *HandResult {
		button := uint16(0)
		g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 1000, 1000)
		if err := g.StartHand(20250829); err != nil {
			t.Fatalf("StartHand err: %v", err)
		}
		if _, err := g.Act(0, ActionCall, 0); err != nil {
			t.Fatalf("call err: %v", err)
		}
		var res *HandResult
		var err error
		if res, err = g.Act(1, ActionCheck, 0); err != nil {
			t.Fatalf("check err: %v", err)
		}
		for res == nil {
			snap := g.Snapshot()
			if res, err = g.Act(snap.Actor, ActionCheck, 0); err != nil {
				t.Fatalf("check err: %v", err)
			}
		}
		return res
	}

	r1 := run()
	r2 := run()
	if len(r1.Board) != 5 || len(r2.Board) != 5 {
		t.Fatalf("expected full boards: %d, %d", len(r1.Board), len(r2.Board))
	}
	for i := range r1.Board {
		if r1.Board[i] != r2.Board[i] {
			t.Fatalf("board diverged at %d: %s vs %s", i, r1.Board[i], r2.Board[i])
		}
	}
	for id, net := range r1.Net {
		if r2.Net[id] != net {
			t.Fatalf("net diverged for %s: %d vs %d", id, net, r2.Net[id])
		}
	}
}

func TestGame_SetBlindsRejectedMidHand(t *testing.T) {
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100}, 1000, 1000)
	if err := g.StartHand(1); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	if err := g.SetBlinds(1, 100, 200); !errors.Is(err, ErrHandInProgress) {
		t.Fatalf("expected ErrHandInProgress, got %v", err)
	}
	snap := g.Snapshot()
	if _, err := g.Act(snap.Actor, ActionFold, 0); err != nil {
		t.Fatalf("fold err: %v", err)
	}
	if err := g.SetBlinds(1, 100, 200); err != nil {
		t.Fatalf("SetBlinds between hands err: %v", err)
	}
}

func TestHand_ShortStackCallBecomesAllIn(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 2000, 300)
	if err := g.StartHand(11); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	if _, err := g.Act(0, ActionRaise, 1000); err != nil {
		t.Fatalf("raise err: %v", err)
	}

	// p1 covers only 300 of the 1000; the call applies as an all-in.
	res, err := g.Act(1, ActionCall, 0)
	if err != nil {
		t.Fatalf("short call err: %v", err)
	}
	if res == nil {
		t.Fatal("expected the hand to run out after the all-in call")
	}

	last := res.Actions[len(res.Actions)-1]
	if last.Chair != 1 || last.Action != ActionAllIn || last.Amount != 300 {
		t.Fatalf("expected chair 1 all_in 300, got chair %d %s %d", last.Chair, last.Action, last.Amount)
	}
	if res.Settlement.RefundChair != 0 || res.Settlement.RefundAmount != 700 {
		t.Fatalf("expected 700 refunded to chair 0, got %d to chair %d",
			res.Settlement.RefundAmount, res.Settlement.RefundChair)
	}
	if res.Net["p0"]+res.Net["p1"] != 0 {
		t.Fatalf("net results do not balance: %v", res.Net)
	}
	assertConservation(t, g, 2300)
}

func TestHand_ExactStackUnderMinRaiseBecomesAllIn(t *testing.T) {
	button := uint16(0)
	g := newHeadsUpGame(t, Config{SmallBlind: 50, BigBlind: 100, ForcedButton: &button}, 2000, 450)
	if err := g.StartHand(12); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	// Full raise to 400 sets the raise baseline to 300.
	if _, err := g.Act(0, ActionRaise, 400); err != nil {
		t.Fatalf("raise err: %v", err)
	}

	// p1 raises its exact stack of 450: a delta of 50, below the baseline.
	// It applies as a short all-in and does not reopen the action.
	res, err := g.Act(1, ActionRaise, 450)
	if err != nil {
		t.Fatalf("exact-stack raise err: %v", err)
	}
	if res != nil {
		t.Fatal("hand should still be live with a call pending")
	}

	snap := g.Snapshot()
	if snap.CurBet != 450 {
		t.Fatalf("expected current bet 450, got %d", snap.CurBet)
	}
	if snap.MinRaiseDelta != 300 {
		t.Fatalf("short all-in must not move the raise baseline, got %d", snap.MinRaiseDelta)
	}

	legal, err := g.LegalActions(0)
	if err != nil {
		t.Fatalf("LegalActions err: %v", err)
	}
	for _, la := range legal {
		if la.Type == ActionRaise || la.Type == ActionAllIn {
			t.Fatalf("chair 0 must only fold or call, got %s", la.Type)
		}
	}

	res, err = g.Act(0, ActionCall, 0)
	if err != nil {
		t.Fatalf("call err: %v", err)
	}
	if res == nil {
		t.Fatal("expected showdown after the call")
	}
	for _, a := range res.Actions {
		if a.Chair == 1 && a.Action == ActionAllIn {
			if a.Amount != 450 {
				t.Fatalf("expected all_in for 450, got %d", a.Amount)
			}
			assertConservation(t, g, 2450)
			return
		}
	}
	t.Fatal("chair 1 all_in missing from the hand history")
}
