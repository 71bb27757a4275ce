package card

import (
	"fmt"
	"strings"
)

// Card is a single playing card packed into one byte.
//
// Encoding:
// - high nibble: suit (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - low nibble: rank (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
type Card byte

func (c Card) String() string {
	if c == Invalid {
		return "Invalid"
	}
	return fmt.Sprintf("%s%s", c.Suit(), rankString(c.Rank()))
}

// Label returns the canonical two-character form used by the hand record
// schema: rank then lowercase suit letter, e.g. "As", "Td", "9c".
func (c Card) Label() string {
	if c == Invalid {
		return "??"
	}
	return rankString(c.Rank()) + c.Suit().Letter()
}

// Rank returns the face value 1-13 (A=1, K=13), or 0 for an invalid card.
func (c Card) Rank() byte {
	if c == Invalid {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit returns the suit encoded in the high nibble.
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == 1
}

// HighValue returns the rank used for hand comparison: A counts as 14,
// everything else keeps its face value.
func (c Card) HighValue() int {
	r := int(c & 0x0F)
	if r == 1 {
		return 14
	}
	return r
}

func rankString(r byte) string {
	switch r {
	case 1:
		return "A"
	case 10:
		return "T"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return fmt.Sprintf("%d", r)
	}
}

// Parse converts a card label such as "As", "Td" or "10h" into a Card.
func Parse(label string) (Card, error) {
	if len(label) < 2 {
		return 0, fmt.Errorf("invalid card label: %q", label)
	}

	var suitBase Card
	switch label[len(label)-1] {
	case 's', 'S':
		suitBase = 0x00
	case 'h', 'H':
		suitBase = 0x10
	case 'c', 'C':
		suitBase = 0x20
	case 'd', 'D':
		suitBase = 0x30
	default:
		return 0, fmt.Errorf("invalid suit: %c", label[len(label)-1])
	}

	var rank Card
	switch strings.ToUpper(label[:len(label)-1]) {
	case "A":
		rank = 0x01
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Card(label[0] - '0')
	case "T", "10":
		rank = 0x0A
	case "J":
		rank = 0x0B
	case "Q":
		rank = 0x0C
	case "K":
		rank = 0x0D
	default:
		return 0, fmt.Errorf("invalid rank: %q", label[:len(label)-1])
	}

	return suitBase + rank, nil
}

// ParseAll converts a slice of card labels, failing on the first bad label.
func ParseAll(labels []string) ([]Card, error) {
	out := make([]Card, 0, len(labels))
	for _, l := range labels {
		c, err := Parse(l)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Labels converts cards to their canonical labels.
func Labels(cs []Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Label())
	}
	return out
}
