package game

import "fmt"

// Jump is one applied capture step, kept so it can be undone exactly.
type Jump struct {
	From     Coord
	Over     Coord
	To       Coord
	Mover    Piece
	Captured Piece
}

// jumpToward builds the jump from `from` in direction d, if the adjacent cell
// holds an enemy of mover and the cell beyond it is empty.
func jumpToward(g *Grid, from Coord, d Delta, mover Color) (Jump, bool) {
	over := from.Add(d)
	to := over.Add(d)
	if !over.Valid() || !to.Valid() {
		return Jump{}, false
	}
	victim := g.at(over)
	if victim.IsZero() || victim.Color == mover {
		return Jump{}, false
	}
	if !g.at(to).IsZero() {
		return Jump{}, false
	}
	return Jump{From: from, Over: over, To: to, Mover: g.at(from), Captured: victim}, true
}

// apply performs j and returns the function restoring the three touched slots.
func (g *Grid) apply(j Jump) (undo func()) {
	g.set(j.From, Piece{})
	g.set(j.Over, Piece{})
	g.set(j.To, j.Mover)
	return func() {
		g.set(j.To, Piece{})
		g.set(j.Over, j.Captured)
		g.set(j.From, j.Mover)
	}
}

// speculate runs fn with j applied; j is undone on every exit path.
func speculate(g *Grid, j Jump, fn func() int) int {
	undo := g.apply(j)
	defer undo()
	return fn()
}

func countChain(g *Grid, from Coord, mover Color, dirs []Delta) int {
	best := 0
	for _, d := range dirs {
		j, ok := jumpToward(g, from, d, mover)
		if !ok {
			continue
		}
		n := speculate(g, j, func() int {
			return 1 + countChain(g, j.To, mover, dirs)
		})
		if n > best {
			best = n
		}
	}
	return best
}

// CountMaxCaptureChain is the chain length for whatever piece stands on from.
// An empty or off-board square yields 0.
func CountMaxCaptureChain(g *Grid, from Coord, mover Color) int {
	if !from.Valid() {
		return 0
	}
	return g.at(from).CountMaxCaptureChain(g, from, mover)
}

// SimulateAndValidateCapture checks that end is a straight two-cell diagonal
// jump from current over an enemy of mover into an empty cell, and applies it.
// The returned Jump is what a rollback needs to restore.
func SimulateAndValidateCapture(g *Grid, current Coord, mover Color, end Coord) (Jump, error) {
	if !current.Valid() || !end.Valid() {
		return Jump{}, fmt.Errorf("%w: %w: %v -> %v", ErrInvalidCaptureStep, ErrOutOfBounds, current, end)
	}
	p := g.at(current)
	if p.IsZero() || p.Color != mover {
		return Jump{}, fmt.Errorf("%w: no %s piece on %v", ErrInvalidCaptureStep, mover, current)
	}
	dr, df := end.Rank-current.Rank, end.File-current.File
	if abs(dr) != 2 || abs(df) != 2 {
		return Jump{}, fmt.Errorf("%w: %v -> %v is not a two-cell diagonal", ErrInvalidCaptureStep, current, end)
	}
	j, ok := jumpToward(g, current, Delta{Rank: dr / 2, File: df / 2}, mover)
	if !ok {
		return Jump{}, fmt.Errorf("%w: nothing to capture between %v and %v", ErrInvalidCaptureStep, current, end)
	}
	g.apply(j)
	return j, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
