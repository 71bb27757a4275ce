package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"holdemsim/holdem"
)

const (
	defaultSessionIdle   = 30 * time.Minute
	defaultJanitorPeriod = time.Minute
)

// Server holds the live sessions and their HTTP surface.
type Server struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxIdle time.Duration
	stop    chan struct{}
	once    sync.Once
	log     *logrus.Entry
}

func New(log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{
		sessions: make(map[string]*Session),
		maxIdle:  defaultSessionIdle,
		stop:     make(chan struct{}),
		log:      log.WithField("component", "server"),
	}
	go s.janitor(defaultJanitorPeriod)
	return s
}

// Close stops the idle janitor.
func (s *Server) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/sessions/", s.handleSession)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var cfg SessionConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := newSession(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"total":   n,
	}).Info("session created")

	writeJSON(w, http.StatusOK, sess.State())
}

// handleSession dispatches /api/sessions/{id}[/op].
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id, op, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "missing session id")
		return
	}

	s.mu.RLock()
	sess := s.sessions[id]
	s.mu.RUnlock()
	if sess == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	switch op {
	case "", "state":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	case "deal":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		view, err := sess.Deal()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case "action":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleAction(w, r, sess)
	case "events":
		s.handleEvents(w, r, sess)
	case "ws":
		s.handleWebSocket(w, r, sess)
	default:
		writeError(w, http.StatusNotFound, "unknown operation")
	}
}

type actionRequest struct {
	Chair  uint16 `json:"chair"`
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, sess *Session) {
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	action, ok := holdem.ParseActionType(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", req.Action))
		return
	}
	view, err := sess.Act(req.Chair, action, req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleEvents streams session events as SSE until the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, sess *Session) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, cancel := sess.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) janitor(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweepIdle(s.maxIdle)
		}
	}
}

func (s *Server) sweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.WithFields(logrus.Fields{
			"removed": removed,
			"total":   len(s.sessions),
		}).Info("idle sessions swept")
	}
	return removed
}

func writeEngineError(w http.ResponseWriter, err error) {
	var illegal *holdem.IllegalActionError
	var short *holdem.InsufficientStackError
	switch {
	case errors.As(err, &illegal), errors.As(err, &short),
		errors.Is(err, holdem.ErrOutOfTurn), errors.Is(err, holdem.ErrHandEnded),
		errors.Is(err, holdem.ErrHandInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
