package game

import (
	"fmt"
	"strings"
)

// BoardSize is the number of ranks and files.
const BoardSize = 8

// Coord addresses one cell as (rank, file), both in [0,8).
type Coord struct {
	Rank int
	File int
}

// Valid reports whether c lies on the board.
func (c Coord) Valid() bool {
	return c.Rank >= 0 && c.Rank < BoardSize && c.File >= 0 && c.File < BoardSize
}

// Index is the arena slot for c. Callers must check Valid first.
func (c Coord) Index() int { return c.Rank*BoardSize + c.File }

// Add offsets c by d.
func (c Coord) Add(d Delta) Coord { return Coord{Rank: c.Rank + d.Rank, File: c.File + d.File} }

// String renders c as file letter + rank digit ("b6" for {5,1}).
func (c Coord) String() string {
	if !c.Valid() {
		return fmt.Sprintf("(%d,%d)", c.Rank, c.File)
	}
	return string(rune('a'+c.File)) + string(rune('1'+c.Rank))
}

// Delta is a displacement between two coordinates.
type Delta struct {
	Rank int
	File int
}

var diagonals = [4]Delta{{1, 1}, {-1, -1}, {1, -1}, {-1, 1}}

func coordAt(index int) Coord { return Coord{Rank: index / BoardSize, File: index % BoardSize} }

// ParseAxis maps '1'–'8', 'a'–'h' and 'A'–'H' to 0–7.
func ParseAxis(ch byte) (int, error) {
	switch {
	case ch >= '1' && ch <= '8':
		return int(ch - '1'), nil
	case ch >= 'a' && ch <= 'h':
		return int(ch - 'a'), nil
	case ch >= 'A' && ch <= 'H':
		return int(ch - 'A'), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, ch)
}

// ParseCoord reads a square written as file then rank, e.g. "b6", "B 6" or "2 6".
// Either character may use any of the accepted axis ranges.
func ParseCoord(s string) (Coord, error) {
	compact := strings.Join(strings.Fields(s), "")
	if len(compact) != 2 {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	file, err := ParseAxis(compact[0])
	if err != nil {
		return Coord{}, err
	}
	rank, err := ParseAxis(compact[1])
	if err != nil {
		return Coord{}, err
	}
	return Coord{Rank: rank, File: file}, nil
}

// MustCoord is ParseCoord for literals known to be valid.
func MustCoord(s string) Coord {
	c, err := ParseCoord(s)
	if err != nil {
		panic(err)
	}
	return c
}
