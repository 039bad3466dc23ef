package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/park285/jumpchess/internal/game"
	"github.com/park285/jumpchess/pkg/matchdto"
)

// Status is the match lifecycle as seen by players.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusResigned Status = "RESIGNED"
	StatusDraw     Status = "DRAW"
	StatusAborted  Status = "ABORTED"
)

// PlayerKind selects how a side's moves are produced.
type PlayerKind string

const (
	PlayerHuman  PlayerKind = "human"
	PlayerScript PlayerKind = "script"
)

func ParsePlayerKind(s string) (PlayerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "h", "":
		return PlayerHuman, nil
	case "script", "s", "computer", "c":
		return PlayerScript, nil
	default:
		return "", fmt.Errorf("unknown player kind %q", s)
	}
}

// RequestKind distinguishes a move from a resignation.
type RequestKind int

const (
	RequestMove RequestKind = iota
	RequestResign
)

// Request is what a MoveSource answers when asked for a half-move. For a
// capture, From/To is the first jump of the chain.
type Request struct {
	Kind RequestKind
	From game.Coord
	To   game.Coord
}

// MoveSource produces a side's moves. A capture chain is driven one landing
// square at a time through NextCaptureStep. Rejected is told why the last
// request was refused before the source is asked again.
type MoveSource interface {
	NextMove(ctx context.Context, state *matchdto.MatchState) (Request, error)
	NextCaptureStep(ctx context.Context, state *matchdto.MatchState) (game.Coord, error)
	Rejected(ctx context.Context, err matchdto.DomainError)
}

// Observer receives match progress. The console presenter implements it.
type Observer interface {
	MatchStarted(state *matchdto.MatchState)
	HalfMovePlayed(summary *matchdto.HalfMoveSummary)
	MatchFinished(state *matchdto.MatchState)
}

// Player binds a name to a move source.
type Player struct {
	Name   string
	Kind   PlayerKind
	Source MoveSource
}

// Match is the bookkeeping around one game.
type Match struct {
	ID        string           `json:"id"`
	WhiteName string           `json:"white_name"`
	BlackName string           `json:"black_name"`
	Status    Status           `json:"status"`
	Moves     []string         `json:"moves"`
	Winner    string           `json:"winner,omitempty"`
	Outcome   string           `json:"outcome,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Elapsed   [2]time.Duration `json:"-"`
}
