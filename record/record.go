// Package record serializes completed hands into the append-only JSONL hand
// history. The field layout is byte-stable: downstream replay, verify, stats
// and export tooling parses these lines independently.
package record

import (
	"encoding/json"
	"fmt"
	"time"

	"holdemsim/holdem"
)

// HandRecord is one completed hand, one line of JSONL. Write-once: never
// mutated after emission.
type HandRecord struct {
	HandID    string           `json:"hand_id"`
	Seed      uint64           `json:"seed"`
	Level     uint32           `json:"level"`
	SB        int64            `json:"sb"`
	BB        int64            `json:"bb"`
	Button    string           `json:"button"`
	Players   []SeatStart      `json:"players"`
	Actions   []Action         `json:"actions"`
	Board     []string         `json:"board"`
	Showdown  []ShowdownEntry  `json:"showdown,omitempty"`
	NetResult map[string]int64 `json:"net_result"`
	EndReason string           `json:"end_reason"`
	TS        time.Time        `json:"ts"`
}

type SeatStart struct {
	ID         string `json:"id"`
	StackStart int64  `json:"stack_start"`
}

type Action struct {
	Street string `json:"street"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Amount *int64 `json:"amount,omitempty"`
}

type ShowdownEntry struct {
	Player string   `json:"player"`
	Cards  []string `json:"cards"`
	Won    bool     `json:"won"`
	Amount int64    `json:"amount"`
}

// FromResult converts an engine hand result into its record form.
func FromResult(res *holdem.HandResult, handID string, ts time.Time) *HandRecord {
	rec := &HandRecord{
		HandID:    handID,
		Seed:      res.Seed,
		Level:     res.Level,
		SB:        res.SmallBlind,
		BB:        res.BigBlind,
		Button:    res.ButtonID,
		Players:   make([]SeatStart, 0, len(res.Seats)),
		Actions:   make([]Action, 0, len(res.Actions)),
		Board:     boardLabels(res),
		NetResult: make(map[string]int64, len(res.Net)),
		EndReason: res.EndReason,
		TS:        ts.UTC(),
	}
	for _, s := range res.Seats {
		rec.Players = append(rec.Players, SeatStart{ID: s.ID, StackStart: s.Stack})
	}
	for _, a := range res.Actions {
		entry := Action{
			Street: a.Street.String(),
			Actor:  a.PlayerID,
			Action: a.Action.String(),
		}
		switch a.Action {
		case holdem.ActionBet, holdem.ActionRaise, holdem.ActionCall, holdem.ActionAllIn:
			amount := a.Amount
			entry.Amount = &amount
		}
		rec.Actions = append(rec.Actions, entry)
	}
	if res.Settlement != nil {
		for _, sp := range res.Settlement.Showdown {
			cards := make([]string, 0, len(sp.HoleCards))
			for _, c := range sp.HoleCards {
				cards = append(cards, c.Label())
			}
			rec.Showdown = append(rec.Showdown, ShowdownEntry{
				Player: sp.ID,
				Cards:  cards,
				Won:    sp.Won,
				Amount: sp.Amount,
			})
		}
	}
	for id, net := range res.Net {
		rec.NetResult[id] = net
	}
	return rec
}

func boardLabels(res *holdem.HandResult) []string {
	out := make([]string, 0, len(res.Board))
	for _, c := range res.Board {
		out = append(out, c.Label())
	}
	return out
}

// Encode marshals the record as one newline-terminated JSONL line.
func (r *HandRecord) Encode() ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append(raw, '\n'), nil
}

// Decode parses one JSONL line back into a record.
func Decode(line []byte) (*HandRecord, error) {
	var rec HandRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("decode hand record: %w", err)
	}
	if rec.HandID == "" {
		return nil, fmt.Errorf("decode hand record: missing hand_id")
	}
	return &rec, nil
}
