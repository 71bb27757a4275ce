// Package replay re-derives hands from their records. Because the deck order
// is a pure function of the hand seed, a record carries everything needed to
// reconstruct the hand and check that the engine still produces the same
// outcome bit for bit.
package replay

import (
	"fmt"

	"holdemsim/holdem"
	"holdemsim/record"
)

// DivergenceError reports the first point where a replay stopped matching
// its record.
type DivergenceError struct {
	Field  string
	Detail string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("replay diverged at %s: %s", e.Field, e.Detail)
}

func diverged(field, format string, args ...any) error {
	return &DivergenceError{Field: field, Detail: fmt.Sprintf(format, args...)}
}

// Verify replays rec from its seed and confirms the re-derived hand matches
// the recorded board, net results and end reason.
func Verify(rec *record.HandRecord) error {
	res, err := Rederive(rec)
	if err != nil {
		return err
	}

	board := make([]string, 0, len(res.Board))
	for _, c := range res.Board {
		board = append(board, c.Label())
	}
	if len(board) != len(rec.Board) {
		return diverged("board", "replay dealt %d cards, record has %d", len(board), len(rec.Board))
	}
	for i := range board {
		if board[i] != rec.Board[i] {
			return diverged("board", "card %d: replay %s, record %s", i, board[i], rec.Board[i])
		}
	}

	if res.EndReason != rec.EndReason {
		return diverged("end_reason", "replay %q, record %q", res.EndReason, rec.EndReason)
	}

	for id, want := range rec.NetResult {
		if got, ok := res.Net[id]; !ok || got != want {
			return diverged("net_result", "player %s: replay %d, record %d", id, res.Net[id], want)
		}
	}

	if len(res.Settlement.Showdown) != len(rec.Showdown) {
		return diverged("showdown", "replay revealed %d hands, record has %d",
			len(res.Settlement.Showdown), len(rec.Showdown))
	}
	for _, sp := range res.Settlement.Showdown {
		found := false
		for _, entry := range rec.Showdown {
			if entry.Player != sp.ID {
				continue
			}
			found = true
			if entry.Won != sp.Won || entry.Amount != sp.Amount {
				return diverged("showdown", "player %s: replay won=%v amount=%d, record won=%v amount=%d",
					sp.ID, sp.Won, sp.Amount, entry.Won, entry.Amount)
			}
		}
		if !found {
			return diverged("showdown", "player %s missing from record", sp.ID)
		}
	}
	return nil
}

// Rederive reconstructs the game from the record's setup and reapplies its
// action sequence against a deck reshuffled from the recorded seed.
func Rederive(rec *record.HandRecord) (*holdem.HandResult, error) {
	if len(rec.Players) != holdem.NumSeats {
		return nil, fmt.Errorf("record has %d players, heads-up replay needs %d",
			len(rec.Players), holdem.NumSeats)
	}

	chairByID := make(map[string]uint16, len(rec.Players))
	button := holdem.InvalidChair
	for i, ps := range rec.Players {
		chairByID[ps.ID] = uint16(i)
		if ps.ID == rec.Button {
			button = uint16(i)
		}
	}
	if button == holdem.InvalidChair {
		return nil, fmt.Errorf("button %q is not a seated player", rec.Button)
	}

	g, err := holdem.NewGame(holdem.Config{
		SmallBlind:   rec.SB,
		BigBlind:     rec.BB,
		Level:        rec.Level,
		ForcedButton: &button,
	})
	if err != nil {
		return nil, err
	}
	for i, ps := range rec.Players {
		if err := g.Seat(uint16(i), ps.ID, ps.StackStart); err != nil {
			return nil, err
		}
	}
	if err := g.StartHand(rec.Seed); err != nil {
		return nil, err
	}

	// Blinds alone can finish a hand, leaving a record with no actions.
	res := g.Result()
	for i, a := range rec.Actions {
		if res != nil {
			return nil, diverged("actions", "action %d submitted after replay ended", i)
		}
		chair, ok := chairByID[a.Actor]
		if !ok {
			return nil, diverged("actions", "action %d has unknown actor %q", i, a.Actor)
		}
		action, ok := holdem.ParseActionType(a.Action)
		if !ok {
			return nil, diverged("actions", "action %d has unknown type %q", i, a.Action)
		}
		var amount int64
		if a.Amount != nil {
			amount = *a.Amount
		}
		res, err = g.Act(chair, action, amount)
		if err != nil {
			return nil, diverged("actions", "action %d (%s %s) rejected: %v", i, a.Actor, a.Action, err)
		}
	}
	if res == nil {
		return nil, diverged("actions", "record ended with the hand still live")
	}
	return res, nil
}
