package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/park285/jumpchess/internal/game"
	"github.com/park285/jumpchess/internal/service/render"
	"github.com/park285/jumpchess/pkg/matchdto"
)

// State returns the current view of the match without an image.
func (m *Manager) State() *matchdto.MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// ToDTO returns the current view, with a PNG board when withImage is set and
// a renderer is configured.
func (m *Manager) ToDTO(ctx context.Context, withImage bool) (*matchdto.MatchState, error) {
	m.mu.Lock()
	state := m.stateLocked()
	grid := m.game.Board()
	opts := render.Options{
		Highlight: m.lastMove,
		Captured:  append([]game.Coord(nil), m.lastCaptured...),
		Header:    fmt.Sprintf("%s vs %s", m.match.WhiteName, m.match.BlackName),
		Turn:      turnCaption(state),
	}
	renderer := m.renderer
	m.mu.Unlock()

	if !withImage || renderer == nil {
		return state, nil
	}
	img, err := renderer.RenderPNG(ctx, grid, opts)
	if err != nil {
		return state, fmt.Errorf("render board: %w", err)
	}
	state.BoardImage = img
	return state, nil
}

func turnCaption(state *matchdto.MatchState) string {
	if state.Status != string(StatusActive) {
		if state.WinnerName != "" {
			return state.WinnerName + " wins"
		}
		return state.Status
	}
	return fmt.Sprintf("%s (%s) to move", state.TurnName, state.Turn)
}

func (m *Manager) stateLocked() *matchdto.MatchState {
	turn := m.game.Turn()
	committed := m.game.Board()
	state := &matchdto.MatchState{
		MatchID:      m.match.ID,
		WhiteName:    m.match.WhiteName,
		BlackName:    m.match.BlackName,
		Status:       string(m.match.Status),
		Phase:        m.game.Phase().String(),
		Turn:         turn.String(),
		TurnName:     m.players[turn].Name,
		Reason:       m.match.Reason,
		HalfMoves:    m.game.HalfMoves(),
		Moves:        append([]string(nil), m.match.Moves...),
		Board:        render.Text(committed),
		WhiteElapsed: m.match.Elapsed[game.White],
		BlackElapsed: m.match.Elapsed[game.Black],
	}
	if n := len(m.match.Moves); n > 0 {
		state.LastMove = m.match.Moves[n-1]
	}

	if out, done := m.game.Outcome(); done {
		state.Method = string(out.Method)
		if out.Decided {
			state.Winner = out.Winner.String()
			state.WinnerName = m.players[out.Winner].Name
		}
		return state
	}
	if m.match.Status != StatusActive {
		return state
	}

	if ch := m.game.Chain(); ch.InProgress {
		pending := m.game.PendingBoard()
		state.RequiredCaptures = ch.Required
		state.Chain = &matchdto.ChainProgress{
			Origin:    ch.Origin.String(),
			Current:   ch.Current.String(),
			Completed: ch.Completed,
			Required:  ch.Required,
			Captured:  coordStrings(ch.Captured),
			Board:     render.Text(pending),
		}
		return state
	}
	state.RequiredCaptures = m.game.RequiredCaptures()
	if state.RequiredCaptures > 0 {
		state.Candidates = coordStrings(m.game.CaptureCandidates())
		state.ChainLengths = make(map[string]int)
		for _, cell := range committed.Cells() {
			if n := m.game.ChainLength(cell.Coord); n > 0 {
				state.ChainLengths[cell.Coord.String()] = n
			}
		}
	}
	return state
}

// ToDomainError maps an engine or match error to the code a move source is
// told about. Retryable errors leave the match waiting for another request.
// User-facing text is looked up from the code by the presenter.
func ToDomainError(err error) matchdto.DomainError {
	if err == nil {
		return matchdto.DomainError{}
	}
	var de matchdto.DomainError
	if errors.As(err, &de) {
		return de
	}
	code, retry := classify(err)
	return matchdto.DomainError{
		Code:      code,
		Retryable: retry,
		Detail:    err.Error(),
	}
}

func classify(err error) (string, bool) {
	switch {
	case errors.Is(err, game.ErrInvalidCaptureStep):
		return matchdto.CodeInvalidCaptureStep, true
	case errors.Is(err, game.ErrIncompleteCaptureChain):
		return matchdto.CodeIncompleteChain, true
	case errors.Is(err, game.ErrNotMaximalCapture):
		return matchdto.CodeNotMaximal, true
	case errors.Is(err, game.ErrCaptureMandatory):
		return matchdto.CodeCaptureMandatory, true
	case errors.Is(err, game.ErrOutOfBounds):
		return matchdto.CodeOutOfBounds, true
	case errors.Is(err, game.ErrInvalidCoordinate):
		return matchdto.CodeInvalidCoordinate, true
	case errors.Is(err, game.ErrEmptySourceSquare):
		return matchdto.CodeEmptySource, true
	case errors.Is(err, game.ErrWrongTurnColor):
		return matchdto.CodeWrongTurn, true
	case errors.Is(err, game.ErrIllegalRelocation):
		return matchdto.CodeIllegalRelocation, true
	case errors.Is(err, ErrBadRequest):
		return matchdto.CodeBadRequest, true
	default:
		return matchdto.CodeInternal, false
	}
}
