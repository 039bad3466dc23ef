package matchdto

import "time"

// ChainProgress mirrors an open capture chain. Board is the text rendering
// of the position with the chain's jumps applied so far.
type ChainProgress struct {
	Origin    string
	Current   string
	Completed int
	Required  int
	Captured  []string
	Board     string
}

// MatchState is the read-only view handed to move sources and presenters.
type MatchState struct {
	MatchID   string
	WhiteName string
	BlackName string
	Status    string
	Phase     string

	Turn     string
	TurnName string

	HalfMoves int
	Moves     []string
	LastMove  string

	// Board is the text rendering of the committed position. BoardImage is
	// only filled when a PNG was requested.
	Board      string
	BoardImage []byte

	RequiredCaptures int
	Candidates       []string
	// ChainLengths maps each square of the side to move that can capture to
	// its longest chain. Pieces reaching RequiredCaptures are the Candidates.
	ChainLengths map[string]int
	Chain        *ChainProgress

	WhiteElapsed time.Duration
	BlackElapsed time.Duration

	Winner     string
	WinnerName string
	Method     string
	// Reason is set when the match was aborted.
	Reason string
}

// HalfMoveSummary reports one committed half-move or a resignation.
type HalfMoveSummary struct {
	State    *MatchState
	Side     string
	Name     string
	From     string
	To       string
	Path     []string
	Captured []string
	Promoted bool
	Resigned bool
	Duration time.Duration
	Finished bool
}
