package game

import (
	"errors"
	"math/rand"
	"sync"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrWaitingForOpponent = errors.New("waiting for second player")
)

// RoomRegistry owns every live room. The top-level map is guarded by an
// RWMutex; each session serializes its own mutation, so operations on
// different rooms never block each other.
type RoomRegistry struct {
	mu     sync.RWMutex
	rooms  map[string]*Session
	byConn map[string]map[string]struct{} // connection id -> room codes it is seated in
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:  make(map[string]*Session),
		byConn: make(map[string]map[string]struct{}),
	}
}

// CreateRoom builds a fresh session with the creator in seat 1 and registers
// it under a code not currently in use.
func (r *RoomRegistry) CreateRoom(creatorID string) (string, *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := randomCode(6)
	for r.rooms[code] != nil {
		code = randomCode(6)
	}

	s := NewSession()
	s.AddPlayer(creatorID)
	r.rooms[code] = s
	r.index(creatorID, code)
	return code, s
}

func (r *RoomRegistry) GetRoom(code string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.rooms[code]
	if s == nil {
		return nil, ErrRoomNotFound
	}
	return s, nil
}

// JoinRoom seats the connection in the room and returns its 1-based seat
// number along with the session.
func (r *RoomRegistry) JoinRoom(code, id string) (int, *Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.rooms[code]
	if s == nil {
		return 0, nil, ErrRoomNotFound
	}

	seat, ok := s.join(id)
	if !ok {
		return 0, nil, ErrRoomFull
	}
	r.index(id, code)
	return seat, s, nil
}

// ApplyMove resolves the room and delegates to the session. A move before
// both seats are filled is rejected without touching the sequence.
func (r *RoomRegistry) ApplyMove(code string, sym Symbol) (*Session, error) {
	s, err := r.GetRoom(code)
	if err != nil {
		return nil, err
	}

	if s.PlayerCount() < maxSeats {
		return nil, ErrWaitingForOpponent
	}

	if _, err := s.AddMove(sym); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RoomRegistry) ResetRoom(code string) (*Session, error) {
	s, err := r.GetRoom(code)
	if err != nil {
		return nil, err
	}

	s.Reset()
	return s, nil
}

// Departure records one room a disconnecting player was seated in. Session is
// nil when the room was deleted because its last seat emptied.
type Departure struct {
	Code    string
	Session *Session
}

// Disconnect vacates every seat held by the connection. Rooms left with no
// seats are deleted on the spot; an unknown connection id is a no-op.
func (r *RoomRegistry) Disconnect(id string) []Departure {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := r.byConn[id]
	if codes == nil {
		return nil
	}
	delete(r.byConn, id)

	departures := make([]Departure, 0, len(codes))
	for code := range codes {
		s := r.rooms[code]
		if s == nil {
			continue
		}

		s.RemovePlayer(id)
		if s.PlayerCount() == 0 {
			delete(r.rooms, code)
			departures = append(departures, Departure{Code: code})
			continue
		}
		departures = append(departures, Departure{Code: code, Session: s})
	}

	return departures
}

// Size reports the number of live rooms.
func (r *RoomRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *RoomRegistry) index(id, code string) {
	if r.byConn[id] == nil {
		r.byConn[id] = make(map[string]struct{})
	}
	r.byConn[id][code] = struct{}{}
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
