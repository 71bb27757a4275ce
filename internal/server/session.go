// Package server exposes the hand engine over HTTP: JSON state and action
// endpoints plus SSE and WebSocket event streams. One session is one
// heads-up match; each session serializes engine access behind its own lock.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"holdemsim/holdem"
	"holdemsim/record"
)

// SessionConfig describes one heads-up match.
type SessionConfig struct {
	SmallBlind int64    `json:"sb"`
	BigBlind   int64    `json:"bb"`
	StartStack int64    `json:"start_stack"`
	BaseSeed   uint64   `json:"base_seed"`
	Players    []string `json:"players"`
}

func (c *SessionConfig) validate() error {
	if len(c.Players) != holdem.NumSeats {
		return fmt.Errorf("need exactly %d players, got %d", holdem.NumSeats, len(c.Players))
	}
	if c.Players[0] == c.Players[1] {
		return fmt.Errorf("player ids must differ")
	}
	if c.StartStack <= 0 {
		return fmt.Errorf("start stack must be > 0")
	}
	return nil
}

// Session owns one live game. All engine access goes through its mutex;
// event fan-out happens outside engine calls.
type Session struct {
	ID string

	mu         sync.Mutex
	game       *holdem.Game
	cfg        SessionConfig
	hands      uint64
	lastActive time.Time

	subMu sync.Mutex
	subs  map[chan []byte]struct{}
}

func newSession(cfg SessionConfig) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g, err := holdem.NewGame(holdem.Config{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
	})
	if err != nil {
		return nil, err
	}
	for chair, id := range cfg.Players {
		if err := g.Seat(uint16(chair), id, cfg.StartStack); err != nil {
			return nil, err
		}
	}
	return &Session{
		ID:         uuid.NewString(),
		game:       g,
		cfg:        cfg,
		lastActive: time.Now(),
		subs:       make(map[chan []byte]struct{}),
	}, nil
}

// Deal starts the next hand; the seed derives from the session base seed and
// hand index so a whole match replays from its config.
func (s *Session) Deal() (StateView, error) {
	s.mu.Lock()
	seed := s.cfg.BaseSeed + s.hands
	err := s.game.StartHand(seed)
	if err == nil {
		s.hands++
	}
	s.lastActive = time.Now()
	snap := s.game.Snapshot()
	res := s.game.Result()
	s.mu.Unlock()
	if err != nil {
		return StateView{}, err
	}

	view := newStateView(s.ID, snap)
	s.publish(eventState, view, nil)
	// Blinds alone can end the hand.
	if res != nil {
		s.publishResult(res)
	}
	return view, nil
}

// Act applies one player action and fans the new state out to subscribers.
func (s *Session) Act(chair uint16, action holdem.ActionType, amount int64) (StateView, error) {
	s.mu.Lock()
	res, err := s.game.Act(chair, action, amount)
	s.lastActive = time.Now()
	snap := s.game.Snapshot()
	s.mu.Unlock()
	if err != nil {
		return StateView{}, err
	}

	view := newStateView(s.ID, snap)
	s.publish(eventState, view, nil)
	if res != nil {
		s.publishResult(res)
	}
	return view, nil
}

// State returns the current projection without mutating anything.
func (s *Session) State() StateView {
	s.mu.Lock()
	snap := s.game.Snapshot()
	s.mu.Unlock()
	return newStateView(s.ID, snap)
}

func (s *Session) publishResult(res *holdem.HandResult) {
	rec := record.FromResult(res, uuid.NewString(), time.Now())
	s.publish(eventHandEnd, StateView{}, rec)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Subscribe registers an event channel; the returned func unsubscribes.
// Slow consumers drop events rather than stalling the engine.
func (s *Session) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 64)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch, func() {
		s.subMu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
}

func (s *Session) publish(kind string, state StateView, rec *record.HandRecord) {
	data, err := encodeEvent(kind, state, rec)
	if err != nil {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- data:
		default:
		}
	}
}
