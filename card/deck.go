package card

import (
	"errors"
	"fmt"
)

// ErrDeckExhausted is returned by Draw once all 52 cards have been dealt.
// Hitting it mid-hand indicates an engine bug, not a player mistake.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck owns one hand's shuffled 52-card population. Draws are destructive
// and the deck is meant to be owned by exactly one hand's engine instance.
type Deck struct {
	cards CardList
}

// NewDeck builds a full deck and shuffles it deterministically from seed.
// Equal seeds produce equal draw sequences on every platform.
func NewDeck(seed uint64) (*Deck, error) {
	rng, err := newStreamRNG(seed)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, len(FullDeck))
	copy(cards, FullDeck)
	// Fisher-Yates over the fixed FullDeck order.
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	d := &Deck{}
	d.cards.Init(cards)
	return d, nil
}

// NewOrderedDeck builds a deck that deals the given cards front to back,
// bypassing the shuffle. Used by scripted tests and scenario replays.
func NewOrderedDeck(cards []Card) (*Deck, error) {
	if len(cards) != len(FullDeck) {
		return nil, fmt.Errorf("ordered deck needs %d cards, got %d", len(FullDeck), len(cards))
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if c.Rank() == 0 || c.Rank() > 13 || c.Suit() > Diamond {
			return nil, fmt.Errorf("ordered deck contains invalid card %#x", byte(c))
		}
		if seen[c] {
			return nil, fmt.Errorf("ordered deck contains duplicate card %s", c.Label())
		}
		seen[c] = true
	}
	d := &Deck{}
	d.cards.Init(cards)
	return d, nil
}

// Draw removes and returns the next card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Invalid, ErrDeckExhausted
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

// DrawN removes and returns the next n cards.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	out := make([]Card, n)
	copy(out, d.cards[:n])
	d.cards = d.cards[n:]
	return out, nil
}

// Remaining reports how many cards are still undealt.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
