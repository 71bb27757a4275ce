package holdem

import "holdemsim/card"

// Player is one seat's hand-scoped state. Mutated only by Game in response
// to validated actions.
type Player struct {
	ID    string
	Chair uint16

	stack    int64
	bet      int64 // committed this street, not yet swept into the pot
	totalBet int64 // committed this hand

	allIn      bool
	folded     bool
	lastAction ActionType

	holeCards card.CardList
	evalRes   *BestHand
}

func (p *Player) Stack() int64    { return p.stack }
func (p *Player) Bet() int64      { return p.bet }
func (p *Player) TotalBet() int64 { return p.totalBet }
func (p *Player) AllIn() bool     { return p.allIn }
func (p *Player) Folded() bool    { return p.folded }

func (p *Player) HoleCards() card.CardList { return p.holeCards }

func (p *Player) resetForNewHand() {
	p.bet = 0
	p.totalBet = 0
	p.allIn = false
	p.folded = false
	p.lastAction = ActionNone
	p.holeCards = make([]card.Card, 0, 2)
	p.evalRes = nil
}

func (p *Player) addHoleCard(cards ...card.Card) {
	p.holeCards = append(p.holeCards, cards...)
}

// placeBet moves up to amount chips from stack to the current street bet,
// flagging all-in when the stack runs out.
func (p *Player) placeBet(amount int64) {
	if amount <= 0 {
		return
	}
	if p.stack <= amount {
		amount = p.stack
		p.allIn = true
	}
	p.stack -= amount
	p.bet += amount
	p.totalBet += amount
}

// refund returns uncalled chips swept back out of the street bet.
func (p *Player) refund(amount int64) {
	p.stack += amount
	p.bet -= amount
	p.totalBet -= amount
	if p.allIn && p.stack > 0 {
		p.allIn = false
	}
}

func (p *Player) resetBet() {
	p.bet = 0
}

func (p *Player) award(amount int64) {
	p.stack += amount
}
