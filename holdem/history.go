package holdem

import "holdemsim/card"

// ActionRecord is one applied action in the hand history. Amount is the
// actor's total street commitment and is zero for fold and check.
type ActionRecord struct {
	Street   Street
	Chair    uint16
	PlayerID string
	Action   ActionType
	Amount   int64
}

// SeatStart captures a seat at hand start.
type SeatStart struct {
	Chair uint16
	ID    string
	Stack int64
}

// HandResult is the immutable outcome of one completed hand: everything the
// record layer needs to emit a self-contained log entry. It is built once at
// hand end and never mutated afterwards.
type HandResult struct {
	HandNo     uint32
	Seed       uint64
	Level      uint32
	SmallBlind int64
	BigBlind   int64

	Button   uint16
	ButtonID string

	Seats   []SeatStart
	Actions []ActionRecord
	Board   []card.Card

	Settlement *SettlementResult
	Net        map[string]int64
	EndReason  string
}
