package match

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/jumpchess/internal/game"
	"github.com/park285/jumpchess/internal/obslog"
	"github.com/park285/jumpchess/internal/service/render"
	"github.com/park285/jumpchess/pkg/matchdto"
)

// Options configures a Manager. Grid, when set, replaces the standard opening
// and FirstTurn picks the side to move first on it.
type Options struct {
	White         Player
	Black         Player
	Renderer      render.BoardRenderer
	MaxRejections int
	Grid          *game.Grid
	FirstTurn     game.Color
	Clock         func() time.Time
}

// Manager owns one game and arbitrates half-moves between two players. All
// methods are safe for concurrent use.
type Manager struct {
	mu            sync.Mutex
	game          *game.Game
	match         *Match
	players       [2]Player
	renderer      render.BoardRenderer
	maxRejections int
	now           func() time.Time

	turnStarted  time.Time
	path         []game.Coord
	captured     []game.Coord
	promoted     bool
	lastMove     *render.MoveHighlight
	lastCaptured []game.Coord
}

// Progress is the effect of one Move or CaptureStep call. Summary is set
// once the half-move is committed.
type Progress struct {
	Result  game.Result
	Summary *matchdto.HalfMoveSummary
}

func NewManager(opts Options) (*Manager, error) {
	players := [2]Player{game.White: opts.White, game.Black: opts.Black}
	for i := range players {
		players[i].Name = strings.TrimSpace(players[i].Name)
		if players[i].Name == "" {
			return nil, fmt.Errorf("%s player needs a name", game.Color(i))
		}
		if players[i].Source == nil {
			return nil, fmt.Errorf("%s player needs a move source", game.Color(i))
		}
	}
	if opts.MaxRejections < 0 {
		return nil, fmt.Errorf("max rejections must not be negative")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	var g *game.Game
	if opts.Grid != nil {
		g = game.NewGameFromGrid(*opts.Grid, opts.FirstTurn)
	} else {
		g = game.NewGame()
	}

	now := clock()
	return &Manager{
		game:          g,
		players:       players,
		renderer:      opts.Renderer,
		maxRejections: opts.MaxRejections,
		now:           clock,
		match: &Match{
			ID:        uuid.NewString(),
			WhiteName: players[game.White].Name,
			BlackName: players[game.Black].Name,
			Status:    StatusActive,
			Moves:     []string{},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}

// ID returns the match identifier.
func (m *Manager) ID() string { return m.match.ID }

// Player returns the player for side.
func (m *Manager) Player(side game.Color) Player { return m.players[side] }

// Start moves the game from Setup to InProgress.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.game.Start(); err != nil {
		return err
	}
	m.turnStarted = m.now()
	obslog.L().Info("match_start",
		zap.String("match_id", m.match.ID),
		zap.String("white", m.match.WhiteName),
		zap.String("black", m.match.BlackName),
		zap.String("first_turn", m.game.Turn().String()),
	)
	if m.game.Phase() == game.PhaseFinished {
		m.finishLocked()
	}
	return nil
}

// Turn returns the side to move.
func (m *Manager) Turn() game.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Turn()
}

// Status returns the match status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.match.Status
}

// Match returns a copy of the match record.
func (m *Manager) Match() Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.match
	cp.Moves = append([]string(nil), m.match.Moves...)
	return cp
}

// Move plays side's request. When a capture is mandatory the request opens the
// chain; CaptureStep then supplies the remaining landing squares.
func (m *Manager) Move(side game.Color, from, to game.Coord) (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkTurnLocked(side); err != nil {
		return Progress{}, err
	}
	res, err := m.game.Move(from, to)
	if err != nil {
		m.rejectLocked(side, "move", err)
		return Progress{}, err
	}
	m.path = []game.Coord{from, to}
	m.captured = append([]game.Coord(nil), res.Captured...)
	m.promoted = res.Promoted
	if len(res.Captured) > 0 {
		m.logStepLocked(side, res)
	}
	return m.progressLocked(side, res), nil
}

// CaptureStep plays the next jump of side's open chain. A rejected step rolls
// the whole chain back.
func (m *Manager) CaptureStep(side game.Color, to game.Coord) (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkTurnLocked(side); err != nil {
		return Progress{}, err
	}
	res, err := m.game.CaptureStep(to)
	if err != nil {
		m.rejectLocked(side, "capture_step", err)
		return Progress{}, err
	}
	m.path = append(m.path, to)
	m.captured = append(m.captured, res.Captured...)
	m.promoted = res.Promoted
	m.logStepLocked(side, res)
	return m.progressLocked(side, res), nil
}

// AbortChain rolls back side's open chain, if any.
func (m *Manager) AbortChain(side game.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkTurnLocked(side); err != nil {
		return err
	}
	return m.rollbackChainLocked("cancelled")
}

// rollbackChainLocked closes an open chain, putting back every captured piece.
func (m *Manager) rollbackChainLocked(reason string) error {
	ch := m.game.Chain()
	if !ch.InProgress {
		return nil
	}
	if err := m.game.AbortChain(); err != nil {
		return err
	}
	obslog.L().Info("chain_rollback",
		zap.String("match_id", m.match.ID),
		zap.String("side", m.game.Turn().String()),
		zap.String("reason", reason),
		zap.Int("completed", ch.Completed),
		zap.Int("required", ch.Required),
	)
	m.resetHalfMoveLocked()
	return nil
}

// Resign ends the match in favour of side's opponent.
func (m *Manager) Resign(side game.Color) (*matchdto.HalfMoveSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.match.Status != StatusActive {
		return nil, ErrMatchNotActive
	}
	if err := m.game.Resign(side); err != nil {
		return nil, err
	}
	elapsed := m.chargeLocked(side)
	m.resetHalfMoveLocked()
	m.match.Moves = append(m.match.Moves, side.String()+" resigns")
	obslog.L().Info("match_resign",
		zap.String("match_id", m.match.ID),
		zap.String("resigner", m.players[side].Name),
		zap.String("side", side.String()),
	)
	m.finishLocked()
	return &matchdto.HalfMoveSummary{
		State:    m.stateLocked(),
		Side:     side.String(),
		Name:     m.players[side].Name,
		Resigned: true,
		Duration: elapsed,
		Finished: true,
	}, nil
}

// Abort stops an active match without a winner. An open capture chain is
// rolled back first so the board is left at the last committed position.
func (m *Manager) Abort(reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.match.Status != StatusActive {
		return
	}
	if err := m.rollbackChainLocked("aborted"); err != nil {
		obslog.L().Error("chain_rollback_failed", zap.String("match_id", m.match.ID), zap.Error(err))
	}
	m.match.Status = StatusAborted
	m.match.Outcome = "aborted"
	m.match.UpdatedAt = m.now()
	fields := []zap.Field{zap.String("match_id", m.match.ID), zap.Int("half_moves", m.game.HalfMoves())}
	if reason != nil {
		m.match.Reason = reason.Error()
		fields = append(fields, zap.Error(reason))
	}
	obslog.L().Warn("match_abort", fields...)
}

func (m *Manager) checkTurnLocked(side game.Color) error {
	if m.match.Status != StatusActive {
		return ErrMatchNotActive
	}
	if side != m.game.Turn() {
		return fmt.Errorf("%w: it is %s's turn", game.ErrWrongTurnColor, m.game.Turn())
	}
	return nil
}

func (m *Manager) rejectLocked(side game.Color, op string, err error) {
	rolledBack := errors.Is(err, game.ErrInvalidCaptureStep) || errors.Is(err, game.ErrIncompleteCaptureChain)
	obslog.L().Info("move_rejected",
		zap.String("match_id", m.match.ID),
		zap.String("side", side.String()),
		zap.String("op", op),
		zap.Bool("chain_rolled_back", rolledBack),
		zap.Error(err),
	)
	if rolledBack {
		obslog.L().Debug("chain_rollback",
			zap.String("match_id", m.match.ID),
			obslog.Dump("path", coordStrings(m.path)),
			obslog.Dump("restored", coordStrings(m.captured)),
		)
		m.resetHalfMoveLocked()
	}
}

func (m *Manager) logStepLocked(side game.Color, res game.Result) {
	obslog.L().Debug("capture_step",
		zap.String("match_id", m.match.ID),
		zap.String("side", side.String()),
		zap.String("from", res.From.String()),
		zap.String("to", res.To.String()),
		zap.Int("completed", len(m.captured)),
		zap.Int("required", res.Chain.Required),
	)
}

func (m *Manager) progressLocked(side game.Color, res game.Result) Progress {
	p := Progress{Result: res}
	if !res.Committed {
		return p
	}
	elapsed := m.chargeLocked(side)
	notation := moveNotation(m.path, len(m.captured) > 0)
	m.match.Moves = append(m.match.Moves, notation)
	m.match.UpdatedAt = m.now()
	m.lastMove = &render.MoveHighlight{From: m.path[0], To: m.path[len(m.path)-1]}
	m.lastCaptured = append([]game.Coord(nil), m.captured...)

	summary := &matchdto.HalfMoveSummary{
		Side:     side.String(),
		Name:     m.players[side].Name,
		From:     m.path[0].String(),
		To:       m.path[len(m.path)-1].String(),
		Path:     coordStrings(m.path),
		Captured: coordStrings(m.captured),
		Promoted: m.promoted,
		Duration: elapsed,
	}
	obslog.L().Info("half_move",
		zap.String("match_id", m.match.ID),
		zap.String("side", side.String()),
		zap.String("move", notation),
		zap.Int("captures", len(m.captured)),
		zap.Bool("promoted", m.promoted),
		zap.Duration("elapsed", elapsed),
		zap.Int("half_moves", m.game.HalfMoves()),
	)
	m.resetHalfMoveLocked()
	if m.game.Phase() == game.PhaseFinished {
		m.finishLocked()
		summary.Finished = true
	}
	summary.State = m.stateLocked()
	p.Summary = summary
	return p
}

// chargeLocked adds the time since the turn began to side's clock and starts
// the next turn's clock.
func (m *Manager) chargeLocked(side game.Color) time.Duration {
	now := m.now()
	elapsed := now.Sub(m.turnStarted)
	if elapsed < 0 {
		elapsed = 0
	}
	m.match.Elapsed[side] += elapsed
	m.turnStarted = now
	return elapsed
}

func (m *Manager) resetHalfMoveLocked() {
	m.path = nil
	m.captured = nil
	m.promoted = false
}

func (m *Manager) finishLocked() {
	out, ok := m.game.Outcome()
	if !ok {
		return
	}
	switch {
	case out.Method == game.MethodResignation:
		m.match.Status = StatusResigned
		m.match.Winner = m.players[out.Winner].Name
		m.match.Outcome = out.Winner.String()
	case !out.Decided:
		m.match.Status = StatusDraw
		m.match.Outcome = "draw"
	default:
		m.match.Status = StatusFinished
		m.match.Winner = m.players[out.Winner].Name
		m.match.Outcome = out.Winner.String()
	}
	m.match.UpdatedAt = m.now()
	obslog.L().Info("match_finish",
		zap.String("match_id", m.match.ID),
		zap.String("status", string(m.match.Status)),
		zap.String("outcome", m.match.Outcome),
		zap.String("method", string(out.Method)),
		zap.Int("half_moves", m.game.HalfMoves()),
		zap.Duration("white_elapsed", m.match.Elapsed[game.White]),
		zap.Duration("black_elapsed", m.match.Elapsed[game.Black]),
	)
}

func moveNotation(path []game.Coord, capture bool) string {
	sep := "-"
	if capture {
		sep = "x"
	}
	return strings.Join(coordStrings(path), sep)
}

func coordStrings(cs []game.Coord) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}
