package server

import (
	"encoding/json"

	"holdemsim/holdem"
	"holdemsim/record"
)

// Event kinds on the SSE and WebSocket streams.
const (
	eventState   = "state"
	eventHandEnd = "hand_end"
)

type eventEnvelope struct {
	Type   string             `json:"type"`
	State  *StateView         `json:"state,omitempty"`
	Record *record.HandRecord `json:"record,omitempty"`
}

func encodeEvent(kind string, state StateView, rec *record.HandRecord) ([]byte, error) {
	env := eventEnvelope{Type: kind, Record: rec}
	if kind == eventState {
		env.State = &state
	}
	return json.Marshal(env)
}

// StateView is the wire projection of a hand snapshot. Cards travel as
// labels and actions as their lowercase names.
type StateView struct {
	SessionID  string       `json:"session_id"`
	HandNo     uint32       `json:"hand_no"`
	Seed       uint64       `json:"seed"`
	Street     string       `json:"street"`
	Ended      bool         `json:"ended"`
	Button     uint16       `json:"button"`
	Actor      *uint16      `json:"actor,omitempty"`
	SmallBlind int64        `json:"sb"`
	BigBlind   int64        `json:"bb"`
	CurBet     int64        `json:"cur_bet"`
	MinRaise   int64        `json:"min_raise"`
	Board      []string     `json:"board"`
	PotTotal   int64        `json:"pot_total"`
	Players    []PlayerView `json:"players"`
	Legal      []LegalView  `json:"legal,omitempty"`
}

type PlayerView struct {
	ID         string   `json:"id"`
	Chair      uint16   `json:"chair"`
	Stack      int64    `json:"stack"`
	Bet        int64    `json:"bet"`
	Folded     bool     `json:"folded,omitempty"`
	AllIn      bool     `json:"all_in,omitempty"`
	LastAction string   `json:"last_action,omitempty"`
	HoleCards  []string `json:"hole_cards,omitempty"`
}

type LegalView struct {
	Action string `json:"action"`
	Min    int64  `json:"min,omitempty"`
	Max    int64  `json:"max,omitempty"`
}

func newStateView(sessionID string, snap holdem.Snapshot) StateView {
	v := StateView{
		SessionID:  sessionID,
		HandNo:     snap.HandNo,
		Seed:       snap.Seed,
		Street:     snap.Street.String(),
		Ended:      snap.Ended,
		Button:     snap.Button,
		SmallBlind: snap.SmallBlind,
		BigBlind:   snap.BigBlind,
		CurBet:     snap.CurBet,
		MinRaise:   snap.MinRaiseDelta,
		Board:      make([]string, 0, len(snap.Board)),
		PotTotal:   snap.PotTotal,
	}
	for _, c := range snap.Board {
		v.Board = append(v.Board, c.Label())
	}
	if snap.Actor != holdem.InvalidChair {
		actor := snap.Actor
		v.Actor = &actor
	}
	for _, p := range snap.Players {
		pv := PlayerView{
			ID:     p.ID,
			Chair:  p.Chair,
			Stack:  p.Stack,
			Bet:    p.Bet,
			Folded: p.Folded,
			AllIn:  p.AllIn,
		}
		if p.LastAction != holdem.ActionNone {
			pv.LastAction = p.LastAction.String()
		}
		for _, c := range p.HoleCards {
			pv.HoleCards = append(pv.HoleCards, c.Label())
		}
		v.Players = append(v.Players, pv)
	}
	for _, la := range snap.Legal {
		v.Legal = append(v.Legal, LegalView{Action: la.Type.String(), Min: la.Min, Max: la.Max})
	}
	return v
}
