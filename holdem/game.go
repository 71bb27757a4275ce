package holdem

import (
	"fmt"
	"sync"

	"holdemsim/card"
)

// Game is a heads-up no-limit hold'em hand engine. It is synchronous and has
// no internal goroutines; the mutex only serializes callers that share one
// instance. Stacks persist across hands, everything else resets per hand.
type Game struct {
	cfg Config
	mu  sync.Mutex

	seats [NumSeats]*Player

	// hand state
	handNo uint32
	seed   uint64
	street Street
	board  card.CardList
	deck   *card.Deck

	button uint16
	actor  uint16

	// betting-round state
	curBet     int64  // highest total street commitment
	minRaise   int64  // current legal raise delta
	lastRaiser uint16 // chair of the last full raise, InvalidChair if none
	lastAction ActionType
	needAction int // players still owing a response this street

	noShowdown bool
	started    bool
	ended      bool

	pots    potManager
	history []ActionRecord

	startStacks [NumSeats]int64
	startTotal  int64
	result      *HandResult
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &Game{
		cfg:        cfg,
		button:     InvalidChair,
		lastRaiser: InvalidChair,
		actor:      InvalidChair,
	}
	g.pots.reset()
	return g, nil
}

// Seat places a player on a chair. Only allowed between hands.
func (g *Game) Seat(chair uint16, playerID string, stack int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if chair >= NumSeats {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if playerID == "" {
		return fmt.Errorf("empty player id")
	}
	if stack < 0 {
		return fmt.Errorf("stack must be >= 0")
	}
	if g.started && !g.ended {
		return ErrHandInProgress
	}
	if g.seats[chair] != nil {
		return fmt.Errorf("chair %d already occupied", chair)
	}
	g.seats[chair] = &Player{ID: playerID, Chair: chair, stack: stack}
	return nil
}

// Player returns the seat state for a chair, or nil.
func (g *Game) Player(chair uint16) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	if chair >= NumSeats {
		return nil
	}
	return g.seats[chair]
}

// SetBlinds updates the blind level between hands.
func (g *Game) SetBlinds(level uint32, smallBlind, bigBlind int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started && !g.ended {
		return ErrHandInProgress
	}
	next := g.cfg
	next.Level = level
	next.SmallBlind = smallBlind
	next.BigBlind = bigBlind
	if err := next.validate(); err != nil {
		return err
	}
	g.cfg = next
	return nil
}

// Ended reports whether the current hand has completed.
func (g *Game) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.started || g.ended
}

// Result returns the finished hand's result, nil while a hand is live.
func (g *Game) Result() *HandResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// StartHand begins a new hand with a fresh deck shuffled from seed. Blinds
// are posted before the first action; if posting leaves nobody able to act,
// the hand runs out to showdown immediately.
func (g *Game) StartHand(seed uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started && !g.ended {
		return ErrHandInProgress
	}
	for chair := uint16(0); chair < NumSeats; chair++ {
		p := g.seats[chair]
		if p == nil {
			return fmt.Errorf("chair %d is empty", chair)
		}
		if p.stack <= 0 {
			return fmt.Errorf("player %s is busted", p.ID)
		}
		p.resetForNewHand()
	}

	g.handNo++
	g.seed = seed
	g.board = nil
	g.history = nil
	g.result = nil
	g.noShowdown = false
	g.ended = false
	g.started = true
	g.pots.reset()

	g.startTotal = 0
	for chair, p := range g.seats {
		g.startStacks[chair] = p.stack
		g.startTotal += p.stack
	}

	// Button placement: forced, else alternating.
	switch {
	case g.cfg.ForcedButton != nil:
		g.button = *g.cfg.ForcedButton
	case g.button == InvalidChair:
		g.button = 0
	default:
		g.button = other(g.button)
	}

	var err error
	if g.cfg.DeckOverride != nil {
		g.deck, err = card.NewOrderedDeck(g.cfg.DeckOverride)
	} else {
		g.deck, err = card.NewDeck(seed)
	}
	if err != nil {
		g.ended = true
		return err
	}

	if err := g.dealHoleCardsLocked(); err != nil {
		g.ended = true
		return err
	}

	// Heads-up: the button posts the small blind.
	g.seats[g.button].placeBet(g.cfg.SmallBlind)
	g.seats[other(g.button)].placeBet(g.cfg.BigBlind)

	g.street = StreetPreflop
	g.curBet = g.cfg.BigBlind
	g.minRaise = g.cfg.BigBlind
	g.lastRaiser = InvalidChair
	g.lastAction = ActionBet
	g.needAction = g.activeCount() - g.allinCount()

	if g.needAction == 0 {
		// Blinds put everyone all-in.
		return g.closeStreetLocked()
	}

	// Preflop the button (small blind) acts first in heads-up play.
	g.actor = g.nextEligibleLocked(other(g.button))
	if g.actor == InvalidChair {
		return g.closeStreetLocked()
	}
	return nil
}

// LegalActions returns the action types currently available to a chair.
func (g *Game) LegalActions(chair uint16) ([]LegalAction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started || g.ended {
		return nil, ErrHandEnded
	}
	if chair >= NumSeats || g.seats[chair] == nil {
		return nil, fmt.Errorf("player not found on chair %d", chair)
	}
	if chair != g.actor {
		return nil, ErrOutOfTurn
	}
	return g.legalActionsLocked(g.seats[chair]), nil
}

// Act validates and applies one action for the current actor. The amount is
// the actor's total street commitment ("amount to"), ignored for fold and
// check. Illegal actions return a typed error and mutate nothing. A non-nil
// HandResult means the hand just completed.
func (g *Game) Act(chair uint16, action ActionType, amount int64) (*HandResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started || g.ended {
		return nil, ErrHandEnded
	}
	if chair != g.actor {
		return nil, ErrOutOfTurn
	}
	p := g.seats[chair]

	applied, amount, err := g.normalizeActionLocked(p, action, amount)
	if err != nil {
		return nil, err
	}

	// Raise bookkeeping: a full raise resets the minimum-raise baseline and
	// reopens the action; a short all-in raise forces a response but leaves
	// the baseline (and thus raising rights) untouched.
	if amount > g.curBet {
		if amount-g.curBet >= g.minRaise {
			g.minRaise = amount - g.curBet
			g.lastRaiser = chair
		}
		g.curBet = amount
		g.needAction = g.activeCount() - g.allinCount()
	}

	switch applied {
	case ActionBet, ActionRaise, ActionCall, ActionAllIn:
		p.placeBet(amount - p.bet)
	case ActionCheck:
		// no chips move
	case ActionFold:
		p.folded = true
		g.pots.dropEligibility(chair)
	}
	p.lastAction = applied
	if applied != ActionFold {
		g.lastAction = applied
	}

	rec := ActionRecord{
		Street:   g.street,
		Chair:    chair,
		PlayerID: p.ID,
		Action:   applied,
	}
	if applied == ActionBet || applied == ActionRaise || applied == ActionCall || applied == ActionAllIn {
		rec.Amount = amount
	}
	g.history = append(g.history, rec)

	if err := g.auditChipsLocked(); err != nil {
		g.ended = true
		return nil, err
	}

	if g.activeCount() <= 1 {
		g.noShowdown = true
		if err := g.endHandLocked(); err != nil {
			return nil, err
		}
		return g.result, nil
	}

	g.needAction--
	if g.needAction <= 0 {
		if err := g.closeStreetLocked(); err != nil {
			return nil, err
		}
		return g.result, nil
	}

	next := g.nextEligibleLocked(chair)
	if next == InvalidChair {
		if err := g.closeStreetLocked(); err != nil {
			return nil, err
		}
		return g.result, nil
	}
	g.actor = next
	return nil, nil
}

// normalizeActionLocked validates the submitted action against the legal set
// and resolves its final form: short calls and full-stack bets/raises become
// all-ins, explicit overbets of the stack are rejected as recoverable errors.
func (g *Game) normalizeActionLocked(p *Player, action ActionType, amount int64) (ActionType, int64, error) {
	legal := g.legalActionsLocked(p)
	allowed := func(t ActionType) bool {
		for _, la := range legal {
			if la.Type == t {
				return true
			}
		}
		return false
	}

	avail := p.stack + p.bet
	ok := allowed(action)
	if !ok {
		// A call with a covered stack and a raise of exactly the stack both
		// resolve to an all-in, so they are acceptable whenever that all-in
		// is.
		switch {
		case action == ActionCall && g.curBet > p.bet && avail <= g.curBet:
			ok = allowed(ActionAllIn)
		case action == ActionRaise && amount == avail && amount > g.curBet:
			ok = allowed(ActionAllIn)
		}
	}
	if !ok {
		return ActionNone, 0, errIllegal(action, "not available in current state")
	}

	switch action {
	case ActionFold:
		return ActionFold, 0, nil

	case ActionCheck:
		return ActionCheck, p.bet, nil

	case ActionCall:
		if avail <= g.curBet {
			return ActionAllIn, avail, nil
		}
		return ActionCall, g.curBet, nil

	case ActionBet:
		if amount > avail {
			return ActionNone, 0, &InsufficientStackError{Action: action, Requested: amount, Available: avail}
		}
		if amount == avail {
			return ActionAllIn, amount, nil
		}
		if amount < g.cfg.BigBlind {
			return ActionNone, 0, errIllegal(action, fmt.Sprintf("bet %d below big blind %d", amount, g.cfg.BigBlind))
		}
		return ActionBet, amount, nil

	case ActionRaise:
		if amount > avail {
			return ActionNone, 0, &InsufficientStackError{Action: action, Requested: amount, Available: avail}
		}
		if amount <= g.curBet {
			return ActionNone, 0, errIllegal(action, fmt.Sprintf("raise to %d does not exceed current bet %d", amount, g.curBet))
		}
		if amount == avail {
			return ActionAllIn, amount, nil
		}
		if amount-g.curBet < g.minRaise {
			return ActionNone, 0, errIllegal(action, fmt.Sprintf("raise delta %d below minimum %d", amount-g.curBet, g.minRaise))
		}
		return ActionRaise, amount, nil

	case ActionAllIn:
		return ActionAllIn, avail, nil
	}
	return ActionNone, 0, errIllegal(action, "unknown action")
}

// legalActionsLocked is a pure projection of the current state for one seat.
func (g *Game) legalActionsLocked(p *Player) []LegalAction {
	avail := p.stack + p.bet
	out := make([]LegalAction, 0, 5)
	out = append(out, LegalAction{Type: ActionFold})

	facingBet := g.curBet > p.bet
	othersCanRespond := g.activeCount()-g.allinCount() > 1

	if !facingBet {
		out = append(out, LegalAction{Type: ActionCheck})
	}
	if !facingBet && g.streetOpenForBetLocked() && avail > g.cfg.BigBlind {
		out = append(out, LegalAction{Type: ActionBet, Min: g.cfg.BigBlind, Max: avail})
	}

	canCall := facingBet && avail > g.curBet
	if canCall {
		out = append(out, LegalAction{Type: ActionCall, Min: g.curBet, Max: g.curBet})
	}

	canRaise := g.curBet > 0 && avail > g.curBet+g.minRaise
	reopened := g.lastRaiser != p.Chair
	if canRaise && reopened && othersCanRespond {
		out = append(out, LegalAction{Type: ActionRaise, Min: g.curBet + g.minRaise, Max: avail})
	}

	// All-in is pointless when extra chips could never be matched: facing an
	// opponent who is already all-in, or with raising rights closed by a
	// short all-in, the call caps what can be won.
	allinLocked := (canCall && !othersCanRespond) || (canRaise && !reopened)
	if p.stack > 0 && !allinLocked {
		out = append(out, LegalAction{Type: ActionAllIn, Min: avail, Max: avail})
	}
	return out
}

// streetOpenForBetLocked reports whether no voluntary bet has been made yet
// this street. Preflop the blinds count as a live bet.
func (g *Game) streetOpenForBetLocked() bool {
	return g.lastAction == ActionNone || g.lastAction == ActionCheck
}

func (g *Game) dealHoleCardsLocked() error {
	// One card at a time, first to the seat left of the button.
	order := [NumSeats]uint16{other(g.button), g.button}
	for round := 0; round < 2; round++ {
		for _, chair := range order {
			c, err := g.deck.Draw()
			if err != nil {
				return err
			}
			g.seats[chair].addHoleCard(c)
		}
	}
	return nil
}

func (g *Game) dealBoardLocked(n int) error {
	cards, err := g.deck.DrawN(n)
	if err != nil {
		return err
	}
	g.board.Add(cards...)
	return nil
}

// closeStreetLocked sweeps bets into pot layers and either advances to the
// next street, runs the board out for an all-in showdown, or settles.
func (g *Game) closeStreetLocked() error {
	contributors := make([]*Player, 0, NumSeats)
	for _, p := range g.seats {
		if p.bet > 0 {
			contributors = append(contributors, p)
		}
	}
	g.pots.sweep(contributors)
	g.curBet = 0

	if err := g.auditChipsLocked(); err != nil {
		g.ended = true
		return err
	}

	directShowdown := g.allinCount() >= g.activeCount()-1
	if directShowdown || g.street == StreetRiver {
		return g.endHandLocked()
	}

	g.street++
	deal := 3
	if g.street != StreetFlop {
		deal = 1
	}
	if err := g.dealBoardLocked(deal); err != nil {
		g.ended = true
		return err
	}
	g.openStreetLocked()
	return nil
}

func (g *Game) openStreetLocked() {
	g.minRaise = g.cfg.BigBlind
	g.lastRaiser = InvalidChair
	g.lastAction = ActionNone
	g.needAction = g.activeCount() - g.allinCount()
	for _, p := range g.seats {
		p.lastAction = ActionNone
	}
	// Postflop the seat left of the button acts first.
	g.actor = g.nextEligibleLocked(g.button)
}

func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.seats {
		if !p.folded {
			n++
		}
	}
	return n
}

func (g *Game) allinCount() int {
	n := 0
	for _, p := range g.seats {
		if !p.folded && p.allIn {
			n++
		}
	}
	return n
}

// nextEligibleLocked walks clockwise starting at the seat after from and
// returns the first chair that can still act.
func (g *Game) nextEligibleLocked(from uint16) uint16 {
	chair := from
	for i := 0; i < NumSeats; i++ {
		chair = other(chair)
		p := g.seats[chair]
		if p != nil && !p.folded && !p.allIn && p.stack > 0 {
			return chair
		}
	}
	return InvalidChair
}

// auditChipsLocked enforces chip conservation after every state change.
func (g *Game) auditChipsLocked() error {
	total := g.pots.total()
	for _, p := range g.seats {
		total += p.stack + p.bet
	}
	if total != g.startTotal {
		return errInvalidState(fmt.Sprintf(
			"chip conservation violated: have %d, want %d (seed=%d hand=%d actions=%d)",
			total, g.startTotal, g.seed, g.handNo, len(g.history)))
	}
	return nil
}

func other(chair uint16) uint16 {
	return (chair + 1) % NumSeats
}
