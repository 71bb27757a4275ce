package holdem

import (
	"fmt"

	"holdemsim/card"
)

type Config struct {
	// Blinds
	SmallBlind int64
	BigBlind   int64
	Level      uint32

	// Odd-chip policy for split pots.
	OddChip OddChipRule

	// ForcedButton pins the button to a chair instead of alternating.
	// Used by replay and scripted tests.
	ForcedButton *uint16

	// DeckOverride deals this exact 52-card order instead of shuffling from
	// the hand seed. The seed is still recorded, but the shuffle is bypassed.
	DeckOverride []card.Card
}

func (c Config) validate() error {
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.OddChip != OddChipLeftOfButton && c.OddChip != OddChipButton {
		return fmt.Errorf("invalid odd-chip rule: %d", c.OddChip)
	}
	if c.ForcedButton != nil && *c.ForcedButton >= NumSeats {
		return fmt.Errorf("forced button chair %d out of range", *c.ForcedButton)
	}
	if c.DeckOverride != nil {
		if _, err := card.NewOrderedDeck(c.DeckOverride); err != nil {
			return fmt.Errorf("deck override: %w", err)
		}
	}
	return nil
}
