package game

import "fmt"

// Grid is a fixed arena of 64 slots addressed by Coord.Index. Copying a Grid
// takes a snapshot; == compares two snapshots slot by slot.
type Grid struct {
	slots [BoardSize * BoardSize]Piece
}

// Cell is a read-only view of one slot.
type Cell struct {
	Coord Coord
	Piece Piece
}

// Empty reports whether no piece occupies the cell.
func (c Cell) Empty() bool { return c.Piece.IsZero() }

// NewStandardGrid returns the opening placement: black pawns on ranks 0–2,
// white pawns on ranks 5–7, on the squares where rank and file parity differ.
func NewStandardGrid() Grid {
	var g Grid
	for rank := 0; rank < BoardSize; rank++ {
		var side Color
		switch {
		case rank < 3:
			side = Black
		case rank > 4:
			side = White
		default:
			continue
		}
		for file := 0; file < BoardSize; file++ {
			if file%2 != rank%2 {
				g.set(Coord{Rank: rank, File: file}, NewPawn(side))
			}
		}
	}
	return g
}

// CellAt returns the cell at c.
func (g *Grid) CellAt(c Coord) (Cell, error) {
	if !c.Valid() {
		return Cell{}, fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	return Cell{Coord: c, Piece: g.slots[c.Index()]}, nil
}

// Place replaces the occupant of c. A zero Piece empties the cell.
func (g *Grid) Place(c Coord, p Piece) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	g.slots[c.Index()] = p
	return nil
}

// Clear empties c.
func (g *Grid) Clear(c Coord) error { return g.Place(c, Piece{}) }

// Cells returns all 64 cells in rank-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.slots))
	for i, p := range g.slots {
		out = append(out, Cell{Coord: coordAt(i), Piece: p})
	}
	return out
}

// Count returns how many pieces of side c are on the board.
func (g *Grid) Count(c Color) int {
	n := 0
	for _, p := range g.slots {
		if !p.IsZero() && p.Color == c {
			n++
		}
	}
	return n
}

// at and set are the internal accessors. A coordinate reaching them out of
// range is a programming defect, not bad input.
func (g *Grid) at(c Coord) Piece {
	if !c.Valid() {
		panic(fmt.Sprintf("game: grid read outside board at %v", c))
	}
	return g.slots[c.Index()]
}

func (g *Grid) set(c Coord, p Piece) {
	if !c.Valid() {
		panic(fmt.Sprintf("game: grid write outside board at %v", c))
	}
	g.slots[c.Index()] = p
}
