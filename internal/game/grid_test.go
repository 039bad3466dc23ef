package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellRoundTrip(t *testing.T) {
	var g Grid
	pieces := []Piece{NewPawn(White), NewPawn(Black), NewQueen(White), NewQueen(Black)}
	for rank := 0; rank < BoardSize; rank++ {
		for file := 0; file < BoardSize; file++ {
			c := Coord{Rank: rank, File: file}
			want := pieces[(rank+file)%len(pieces)]
			require.NoError(t, g.Place(c, want))
			cell, err := g.CellAt(c)
			require.NoError(t, err)
			require.Equal(t, c, cell.Coord)
			require.Equal(t, want, cell.Piece)
		}
	}
	// every slot is distinct: clearing one leaves the others intact
	require.NoError(t, g.Clear(Coord{Rank: 3, File: 3}))
	require.Equal(t, 63, g.Count(White)+g.Count(Black))
}

func TestCellAtOutOfBounds(t *testing.T) {
	var g Grid
	for _, c := range []Coord{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {8, 8}, {-3, 12}} {
		_, err := g.CellAt(c)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("CellAt(%v) err = %v, want ErrOutOfBounds", c, err)
		}
		if err := g.Place(c, NewPawn(White)); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Place(%v) err = %v, want ErrOutOfBounds", c, err)
		}
	}
}

func TestStandardGrid(t *testing.T) {
	g := NewStandardGrid()
	require.Equal(t, 12, g.Count(White))
	require.Equal(t, 12, g.Count(Black))

	cell, _ := g.CellAt(Coord{Rank: 0, File: 1})
	require.Equal(t, NewPawn(Black), cell.Piece)
	cell, _ = g.CellAt(Coord{Rank: 0, File: 0})
	require.True(t, cell.Empty())
	cell, _ = g.CellAt(Coord{Rank: 5, File: 0})
	require.Equal(t, NewPawn(White), cell.Piece)
	for file := 0; file < BoardSize; file++ {
		for _, rank := range []int{3, 4} {
			cell, _ := g.CellAt(Coord{Rank: rank, File: file})
			require.True(t, cell.Empty(), "rank %d file %d", rank, file)
		}
	}
}

func TestInternalAccessPanicsOffBoard(t *testing.T) {
	var g Grid
	require.Panics(t, func() { g.at(Coord{Rank: 8, File: 0}) })
	require.Panics(t, func() { g.set(Coord{Rank: 0, File: -1}, NewPawn(White)) })
}

func TestGlyphs(t *testing.T) {
	cases := map[Piece]byte{
		{}:               ' ',
		NewPawn(White):  'w',
		NewPawn(Black):  'b',
		NewQueen(White): 'W',
		NewQueen(Black): 'B',
	}
	for p, want := range cases {
		if got := p.Glyph(); got != want {
			t.Fatalf("%v glyph = %q, want %q", p, got, want)
		}
	}
}
