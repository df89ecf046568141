package game

import (
	"errors"
	"testing"
)

func seatedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	if !s.AddPlayer("p1") {
		t.Fatal("first player should be admitted")
	}
	if !s.AddPlayer("p2") {
		t.Fatal("second player should be admitted")
	}
	return s
}

func TestNewSession(t *testing.T) {
	s := NewSession()
	if s.ID == "" {
		t.Fatal("session should have an id")
	}
	view := s.Snapshot()
	if view.Status != StatusOpen {
		t.Fatalf("expected status %s, got %s", StatusOpen, view.Status)
	}
	if view.Turn != 1 {
		t.Fatalf("fresh session should start at seat 1, got %d", view.Turn)
	}
	if len(view.Sequence) != 0 {
		t.Fatalf("fresh session should have empty sequence, got %v", view.Sequence)
	}
	if view.LosingPattern != nil || view.LosingPatternStart != nil {
		t.Fatal("fresh session should have no losing pattern")
	}
}

func TestSeatExclusivity(t *testing.T) {
	s := seatedSession(t)
	if s.Snapshot().Status != StatusActive {
		t.Fatal("session with two seats should be active")
	}
	if s.AddPlayer("p3") {
		t.Fatal("third player should not be admitted")
	}
	if s.PlayerCount() != 2 {
		t.Fatalf("expected 2 seats, got %d", s.PlayerCount())
	}
}

func TestTurnAlternation(t *testing.T) {
	s := seatedSession(t)

	// non-terminal run: X O O X leaves no triple repeat at any step
	moves := []Symbol{SymbolX, SymbolO, SymbolO, SymbolX}
	for i, m := range moves {
		terminal, err := s.AddMove(m)
		if err != nil {
			t.Fatalf("move %d: %v", i+1, err)
		}
		if terminal {
			t.Fatalf("move %d should not be terminal", i+1)
		}
		want := (i+1)%2 + 1
		if got := s.Snapshot().Turn; got != want {
			t.Fatalf("after move %d expected turn %d, got %d", i+1, want, got)
		}
	}
}

func TestInvalidSymbolRejected(t *testing.T) {
	s := seatedSession(t)
	if _, err := s.AddMove(Symbol("Z")); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
	if len(s.Snapshot().Sequence) != 0 {
		t.Fatal("rejected move must not grow the sequence")
	}
}

func TestTripleRepeatEndsGame(t *testing.T) {
	s := seatedSession(t)

	for i := 0; i < 2; i++ {
		if terminal, err := s.AddMove(SymbolX); err != nil || terminal {
			t.Fatalf("move %d: terminal=%v err=%v", i+1, terminal, err)
		}
	}

	// seat 1 plays the third X and loses
	terminal, err := s.AddMove(SymbolX)
	if err != nil {
		t.Fatalf("third move: %v", err)
	}
	if !terminal {
		t.Fatal("third X should end the game")
	}

	view := s.Snapshot()
	if view.Status != StatusFinished || !view.GameOver {
		t.Fatalf("expected finished, got %s", view.Status)
	}
	if view.Winner != 2 {
		t.Fatalf("the seat that did not move should win, got %d", view.Winner)
	}
	if view.Turn != 1 {
		t.Fatalf("turn must not advance on the terminal move, got %d", view.Turn)
	}
	if view.LosingPattern == nil || *view.LosingPattern != "X" {
		t.Fatalf("expected losing pattern X, got %v", view.LosingPattern)
	}
	if view.LosingPatternStart == nil || *view.LosingPatternStart != 0 {
		t.Fatalf("expected losing pattern start 0, got %v", view.LosingPatternStart)
	}
}

func TestMovesFrozenAfterFinish(t *testing.T) {
	s := seatedSession(t)
	for i := 0; i < 3; i++ {
		if _, err := s.AddMove(SymbolO); err != nil {
			t.Fatalf("move %d: %v", i+1, err)
		}
	}

	if _, err := s.AddMove(SymbolX); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if got := len(s.Snapshot().Sequence); got != 3 {
		t.Fatalf("sequence must stay frozen at 3, got %d", got)
	}
}

func TestRenderLosingPattern(t *testing.T) {
	s := seatedSession(t)
	for _, m := range []Symbol{SymbolX, SymbolO, SymbolX, SymbolO, SymbolX, SymbolO} {
		if _, err := s.AddMove(m); err != nil {
			t.Fatal(err)
		}
	}

	want := "Pattern 'XO' repeated 3 times: XO | XO | XO"
	if got := s.RenderLosingPattern(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	// the second-to-move seat made the sixth move, so seat 1 wins
	if view := s.Snapshot(); view.Winner != 1 {
		t.Fatalf("expected winner 1, got %d", view.Winner)
	}
}

func TestResetIdempotent(t *testing.T) {
	s := seatedSession(t)
	for i := 0; i < 3; i++ {
		if _, err := s.AddMove(SymbolX); err != nil {
			t.Fatal(err)
		}
	}

	s.Reset()
	first := s.Snapshot()
	if len(first.Sequence) != 0 {
		t.Fatal("reset should clear the sequence")
	}
	if first.Turn != 1 {
		t.Fatalf("reset should hand the turn to seat 1, got %d", first.Turn)
	}
	if first.Status != StatusActive {
		t.Fatalf("reset with both seats filled should be active, got %s", first.Status)
	}
	if first.Winner != 0 || first.LosingPattern != nil || first.LosingPatternStart != nil {
		t.Fatal("reset should clear the terminal result")
	}
	if s.PlayerCount() != 2 {
		t.Fatal("reset must not touch the seats")
	}

	s.Reset()
	second := s.Snapshot()
	if second.Turn != first.Turn || second.Status != first.Status || len(second.Sequence) != 0 {
		t.Fatal("second reset should be a no-op")
	}
}

func TestRemovePlayerLeavesGameState(t *testing.T) {
	s := seatedSession(t)
	for i := 0; i < 3; i++ {
		if _, err := s.AddMove(SymbolX); err != nil {
			t.Fatal(err)
		}
	}

	s.RemovePlayer("p2")
	view := s.Snapshot()
	if view.Status != StatusFinished {
		t.Fatalf("removal must not change status, got %s", view.Status)
	}
	if view.PlayerCount != 1 {
		t.Fatalf("expected 1 seat left, got %d", view.PlayerCount)
	}

	// removing an unknown id is a no-op
	s.RemovePlayer("stranger")
	if s.PlayerCount() != 1 {
		t.Fatal("unknown removal must not change seats")
	}
}
