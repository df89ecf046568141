package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrInvalidSymbol = errors.New("invalid move")
)

const maxSeats = 2

// Session is one game: the shared symbol sequence, whose turn it is, the two
// seats, and the terminal pattern once somebody loses. All mutation goes
// through the session's mutex; callers only ever see StateView snapshots.
type Session struct {
	ID string

	mu       sync.Mutex
	sequence []Symbol
	turn     int // 1 or 2
	status   Status
	winner   int
	match    *Match
	seats    []string // connection ids in join order
}

func NewSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		sequence: []Symbol{},
		turn:     1,
		status:   StatusOpen,
	}
}

// AddPlayer seats a connection and reports whether it was admitted.
// A third connection is turned away without touching existing seats.
func (s *Session) AddPlayer(id string) bool {
	_, ok := s.join(id)
	return ok
}

// join seats the connection and returns its 1-based seat number.
func (s *Session) join(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.seats) >= maxSeats {
		return 0, false
	}
	s.seats = append(s.seats, id)
	if len(s.seats) == maxSeats && s.status == StatusOpen {
		s.status = StatusActive
	}
	return len(s.seats), true
}

// RemovePlayer vacates the connection's seat if it holds one. Game state is
// left as-is; whether the room survives is the registry's call.
func (s *Session) RemovePlayer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, seat := range s.seats {
		if seat == id {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return
		}
	}
}

// AddMove appends sym to the sequence and checks for a triple repeat.
// It returns true when the move ended the game: the mover produced the
// repetition, so the opposite seat wins and the turn does not advance.
func (s *Session) AddMove(sym Symbol) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusFinished {
		return false, ErrGameOver
	}
	if !sym.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidSymbol, string(sym))
	}

	s.sequence = append(s.sequence, sym)

	if m, found := DetectTripleRepeat(s.sequence); found {
		s.status = StatusFinished
		s.winner = otherSeat(s.turn)
		s.match = &m
		return true, nil
	}

	s.turn = otherSeat(s.turn)
	return false, nil
}

// Reset clears the board for a rematch. Seats are untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence = []Symbol{}
	s.turn = 1
	s.winner = 0
	s.match = nil
	if len(s.seats) == maxSeats {
		s.status = StatusActive
	} else {
		s.status = StatusOpen
	}
}

// RenderLosingPattern formats the three repeated blocks for display,
// e.g. "Pattern 'XO' repeated 3 times: XO | XO | XO". Empty until finished.
func (s *Session) RenderLosingPattern() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLosingPattern()
}

func (s *Session) renderLosingPattern() string {
	if s.match == nil {
		return ""
	}

	unit := len(s.match.Pattern)
	segments := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		start := s.match.StartIndex + i*unit
		segments = append(segments, joinSymbols(s.sequence[start:start+unit]))
	}

	return fmt.Sprintf("Pattern '%s' repeated 3 times: %s | %s | %s",
		s.match.Pattern, segments[0], segments[1], segments[2])
}

// Snapshot returns the externally visible projection of the session.
func (s *Session) Snapshot() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := StateView{
		Sequence:             append([]Symbol{}, s.sequence...),
		Turn:                 s.turn,
		Status:               s.status,
		GameOver:             s.status == StatusFinished,
		Winner:               s.winner,
		LosingPatternDisplay: s.renderLosingPattern(),
		PlayerCount:          len(s.seats),
	}
	if s.match != nil {
		pattern := s.match.Pattern
		start := s.match.StartIndex
		view.LosingPattern = &pattern
		view.LosingPatternStart = &start
	}
	return view
}

// PlayerCount reports how many seats are filled.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seats)
}

func otherSeat(seat int) int {
	if seat == 1 {
		return 2
	}
	return 1
}
