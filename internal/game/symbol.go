package game

type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"
)

// Valid reports whether s is part of the two-symbol alphabet.
func (s Symbol) Valid() bool {
	return s == SymbolX || s == SymbolO
}

type Status string

const (
	// StatusOpen: fewer than two seats are filled, moves are not accepted yet.
	StatusOpen Status = "open"
	// StatusActive: both seats filled, no terminal pattern so far.
	StatusActive Status = "active"
	// StatusFinished: the last move completed a triple repeat.
	StatusFinished Status = "finished"
)

// StateView is the snapshot sent over the wire. It is the only representation
// of a session that ever leaves the package.
type StateView struct {
	Sequence             []Symbol `json:"sequence"`
	Turn                 int      `json:"currentPlayer"`
	Status               Status   `json:"status"`
	GameOver             bool     `json:"gameOver"`
	Winner               int      `json:"winner,omitempty"`
	LosingPattern        *string  `json:"losingPattern"`
	LosingPatternStart   *int     `json:"losingPatternStart"`
	LosingPatternDisplay string   `json:"losingPatternDisplay"`
	PlayerCount          int      `json:"playerCount"`
}
