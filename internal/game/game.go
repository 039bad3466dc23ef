// Package game implements the rules of the jump-capture board game: quiet
// relocation, forced maximal capture chains with rollback, pawn promotion
// and the game phase machine. It is synchronous and not safe for concurrent
// use; callers serialise access to a Game.
package game

import "fmt"

// Result describes the effect of one accepted call on a Game.
type Result struct {
	From      Coord
	To        Coord
	Captured  []Coord
	Promoted  bool
	Committed bool
	Chain     ChainState
	Phase     Phase
}

// Game owns the grid and arbitrates half-moves.
type Game struct {
	grid      Grid
	base      Grid
	phase     Phase
	turn      Color
	chain     *chain
	outcome   Outcome
	halfMoves int
}

// NewGame returns a game in Setup with the standard opening placement.
func NewGame() *Game {
	return NewGameFromGrid(NewStandardGrid(), White)
}

// NewGameFromGrid returns a game in Setup over a custom position with turn
// to move first.
func NewGameFromGrid(g Grid, turn Color) *Game {
	return &Game{grid: g, turn: turn, phase: PhaseSetup}
}

// Start ends placement. A position already missing one side finishes at once.
func (g *Game) Start() error {
	if g.phase != PhaseSetup {
		return fmt.Errorf("start: game is %s", g.phase)
	}
	g.phase = PhaseInProgress
	g.checkFinished()
	return nil
}

func (g *Game) Phase() Phase { return g.phase }

func (g *Game) Turn() Color { return g.turn }

// HalfMoves counts committed half-moves.
func (g *Game) HalfMoves() int { return g.halfMoves }

// Chain reports the open capture chain, if any.
func (g *Game) Chain() ChainState { return g.chain.state() }

// Outcome is valid once the game is Finished.
func (g *Game) Outcome() (Outcome, bool) {
	return g.outcome, g.phase == PhaseFinished
}

// Board returns the committed position. While a chain is open that is the
// position from before the chain started.
func (g *Game) Board() Grid {
	if g.chain != nil {
		return g.base
	}
	return g.grid
}

// PendingBoard returns the live position including an open chain's jumps.
func (g *Game) PendingBoard() Grid { return g.grid }

// ChainLength is CountMaxCaptureChain for the piece on c, for the side to move.
func (g *Game) ChainLength(c Coord) int {
	if !c.Valid() {
		return 0
	}
	p := g.grid.at(c)
	if p.IsZero() || p.Color != g.turn {
		return 0
	}
	return p.CountMaxCaptureChain(&g.grid, c, g.turn)
}

// RequiredCaptures is M: the longest chain any piece of the side to move can
// make, 0 when no capture exists.
func (g *Game) RequiredCaptures() int {
	m := 0
	for i, p := range g.grid.slots {
		if p.IsZero() || p.Color != g.turn {
			continue
		}
		if n := p.CountMaxCaptureChain(&g.grid, coordAt(i), g.turn); n > m {
			m = n
		}
	}
	return m
}

// CaptureCandidates lists the squares whose piece reaches the required chain
// length. It is empty when no capture is mandatory.
func (g *Game) CaptureCandidates() []Coord {
	m := g.RequiredCaptures()
	if m == 0 {
		return nil
	}
	var out []Coord
	for i, p := range g.grid.slots {
		if p.IsZero() || p.Color != g.turn {
			continue
		}
		c := coordAt(i)
		if p.CountMaxCaptureChain(&g.grid, c, g.turn) == m {
			out = append(out, c)
		}
	}
	return out
}

// Move plays from -> to for the side to move. With no capture available it is
// a quiet relocation. When a capture is mandatory it must be the first jump of
// a maximal chain; the chain then stays open until CaptureStep completes it.
func (g *Game) Move(from, to Coord) (Result, error) {
	if err := g.accepting(); err != nil {
		return Result{}, err
	}
	if g.chain != nil {
		return Result{}, ErrChainInProgress
	}
	if !from.Valid() || !to.Valid() {
		return Result{}, fmt.Errorf("%w: %v -> %v", ErrOutOfBounds, from, to)
	}
	p := g.grid.at(from)
	if p.IsZero() {
		return Result{}, fmt.Errorf("%w: %v", ErrEmptySourceSquare, from)
	}
	if p.Color != g.turn {
		return Result{}, fmt.Errorf("%w: %v holds a %s piece", ErrWrongTurnColor, from, p.Color)
	}

	if m := g.RequiredCaptures(); m > 0 {
		if !g.isJump(from, to) {
			return Result{}, fmt.Errorf("%w: %d capture(s) available", ErrCaptureMandatory, m)
		}
		if _, err := g.BeginChain(from); err != nil {
			return Result{}, err
		}
		return g.CaptureStep(to)
	}

	if !p.CanRelocate(&g.grid, from, to, g.turn) {
		return Result{}, fmt.Errorf("%w: %s %v -> %v", ErrIllegalRelocation, p, from, to)
	}
	g.grid.set(to, p)
	g.grid.set(from, Piece{})
	res := Result{From: from, To: to, Committed: true}
	res.Promoted = Promote(&g.grid, to)
	g.endHalfMove()
	res.Phase = g.phase
	return res, nil
}

// BeginChain opens a capture chain for the piece on from. The piece must
// reach the required chain length.
func (g *Game) BeginChain(from Coord) (ChainState, error) {
	if err := g.accepting(); err != nil {
		return ChainState{}, err
	}
	if g.chain != nil {
		return ChainState{}, ErrChainInProgress
	}
	if !from.Valid() {
		return ChainState{}, fmt.Errorf("%w: %v", ErrOutOfBounds, from)
	}
	p := g.grid.at(from)
	if p.IsZero() {
		return ChainState{}, fmt.Errorf("%w: %v", ErrEmptySourceSquare, from)
	}
	if p.Color != g.turn {
		return ChainState{}, fmt.Errorf("%w: %v holds a %s piece", ErrWrongTurnColor, from, p.Color)
	}
	m := g.RequiredCaptures()
	if m == 0 {
		return ChainState{}, fmt.Errorf("%w: no capture available", ErrInvalidCaptureStep)
	}
	if n := p.CountMaxCaptureChain(&g.grid, from, g.turn); n < m {
		return ChainState{}, fmt.Errorf("%w: %v reaches %d of %d", ErrNotMaximalCapture, from, n, m)
	}
	g.base = g.grid
	g.chain = newChain(g.turn, from, m)
	return g.chain.state(), nil
}

// CaptureStep plays the next jump of the open chain. A failed step rolls the
// whole chain back and closes it; the half-move must then start over.
func (g *Game) CaptureStep(to Coord) (Result, error) {
	if err := g.accepting(); err != nil {
		return Result{}, err
	}
	c := g.chain
	if c == nil {
		return Result{}, ErrNoChainInProgress
	}
	from := c.current
	j, err := SimulateAndValidateCapture(&g.grid, from, c.mover, to)
	if err != nil {
		g.rollbackChain()
		return Result{}, err
	}
	c.record(j)
	res := Result{From: from, To: to, Captured: []Coord{j.Over}}

	if c.done() {
		res.Chain = c.state()
		res.Chain.InProgress = false
		res.Committed = true
		res.Promoted = Promote(&g.grid, c.current)
		g.endHalfMove()
		res.Phase = g.phase
		return res, nil
	}

	owed := c.required - len(c.jumps)
	if rem := CountMaxCaptureChain(&g.grid, c.current, c.mover); rem < owed {
		g.rollbackChain()
		return Result{}, fmt.Errorf("%w: %d more jump(s) owed, %d reachable from %v", ErrIncompleteCaptureChain, owed, rem, to)
	}
	res.Chain = c.state()
	res.Phase = g.phase
	return res, nil
}

// AbortChain rolls back an open chain without playing further.
func (g *Game) AbortChain() error {
	if g.chain == nil {
		return ErrNoChainInProgress
	}
	g.rollbackChain()
	return nil
}

// Resign finishes the game in favour of side's opponent. Any open chain is
// rolled back first.
func (g *Game) Resign(side Color) error {
	if err := g.accepting(); err != nil {
		return err
	}
	if g.chain != nil {
		g.rollbackChain()
	}
	g.phase = PhaseFinished
	g.outcome = Outcome{Winner: side.Other(), Decided: true, Method: MethodResignation}
	return nil
}

func (g *Game) accepting() error {
	switch g.phase {
	case PhaseSetup:
		return ErrGameNotStarted
	case PhaseFinished:
		return ErrGameFinished
	}
	return nil
}

func (g *Game) isJump(from, to Coord) bool {
	for _, d := range diagonals {
		if j, ok := jumpToward(&g.grid, from, d, g.turn); ok && j.To == to {
			return true
		}
	}
	return false
}

func (g *Game) rollbackChain() {
	g.chain.rollback(&g.grid)
	if g.grid != g.base {
		panic("game: capture chain rollback did not restore the board")
	}
	g.chain = nil
}

func (g *Game) endHalfMove() {
	g.chain = nil
	g.halfMoves++
	if g.checkFinished() {
		return
	}
	g.turn = g.turn.Other()
}

func (g *Game) checkFinished() bool {
	out, over := scanOutcome(&g.grid)
	if !over {
		return false
	}
	g.phase = PhaseFinished
	g.outcome = out
	return true
}
