package holdem

// InvalidChair marks "no seat" in fields that hold a chair index.
const InvalidChair uint16 = 65535

// NumSeats is fixed: this is a heads-up engine.
const NumSeats = 2

// Street is a betting round, strictly forward-progressing per hand.
type Street byte

const (
	StreetPreflop  Street = 1
	StreetFlop     Street = 2
	StreetTurn     Street = 3
	StreetRiver    Street = 4
	StreetShowdown Street = 5
	StreetComplete Street = 6
)

var streetNames = map[Street]string{
	StreetPreflop:  "preflop",
	StreetFlop:     "flop",
	StreetTurn:     "turn",
	StreetRiver:    "river",
	StreetShowdown: "showdown",
	StreetComplete: "complete",
}

func (s Street) String() string {
	if n, ok := streetNames[s]; ok {
		return n
	}
	return "unknown"
}

// ActionType enumerates the discrete player actions.
type ActionType byte

const (
	ActionNone  ActionType = 0
	ActionCheck ActionType = 1
	ActionBet   ActionType = 2
	ActionCall  ActionType = 3
	ActionRaise ActionType = 4
	ActionFold  ActionType = 5
	ActionAllIn ActionType = 6
)

var actionNames = map[ActionType]string{
	ActionNone:  "none",
	ActionCheck: "check",
	ActionBet:   "bet",
	ActionCall:  "call",
	ActionRaise: "raise",
	ActionFold:  "fold",
	ActionAllIn: "all_in",
}

func (a ActionType) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

// ParseActionType maps a wire-format action name back to its type.
func ParseActionType(name string) (ActionType, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return ActionNone, false
}

// Hand category constants, weakest to strongest.
const (
	HandHighCard      byte = iota + 1 // high card
	HandOnePair                       // one pair
	HandTwoPair                       // two pair
	HandThreeOfKind                   // three of a kind
	HandStraight                      // straight
	HandFlush                         // flush
	HandFullHouse                     // full house
	HandFourOfKind                    // four of a kind
	HandStraightFlush                 // straight flush
	HandRoyalFlush                    // ace-high straight flush
)

var handCategoryNames = map[byte]string{
	HandHighCard:      "high card",
	HandOnePair:       "one pair",
	HandTwoPair:       "two pair",
	HandThreeOfKind:   "three of a kind",
	HandStraight:      "straight",
	HandFlush:         "flush",
	HandFullHouse:     "full house",
	HandFourOfKind:    "four of a kind",
	HandStraightFlush: "straight flush",
	HandRoyalFlush:    "royal flush",
}

// EndReason values carried on a finished hand.
const (
	EndReasonShowdown = "showdown"
	EndReasonFold     = "fold"
)

// OddChipRule selects who receives the indivisible remainder chip when a pot
// splits unevenly. Kept configurable: the exact casino rule varies by room.
type OddChipRule byte

const (
	// OddChipLeftOfButton awards the remainder to the first winning seat
	// clockwise from the button (the earliest position to act postflop).
	OddChipLeftOfButton OddChipRule = 0
	// OddChipButton awards the remainder to the button if it is a winner,
	// otherwise the first winning seat clockwise from it.
	OddChipButton OddChipRule = 1
)
