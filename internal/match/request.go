package match

import (
	"fmt"
	"strings"

	"github.com/park285/jumpchess/internal/game"
)

// Line is one parsed input line: a resignation, a chain cancel, or a list of
// squares. Two or more squares start a half-move (from, to, then further
// landing squares of a chain); a single square continues an open chain.
type Line struct {
	Resign  bool
	Cancel  bool
	Squares []game.Coord
}

var (
	resignWords = map[string]bool{"resign": true, "r": true, "quit": true, "q": true}
	cancelWords = map[string]bool{"cancel": true, "undo": true, "c": true}
)

// ParseLine accepts "b6 c5", "b6-c5", "b6xd4xf2", "b6c5", "d4", "cancel" or
// "resign".
// Separators are spaces, '-', 'x', ',' and '>'.
func ParseLine(s string) (Line, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return Line{}, fmt.Errorf("%w: empty input", ErrBadRequest)
	}
	if resignWords[text] {
		return Line{Resign: true}, nil
	}
	if cancelWords[text] {
		return Line{Cancel: true}, nil
	}
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', 'x', ',', '>':
			return -1
		}
		return r
	}, text)
	if len(compact) == 0 || len(compact)%2 != 0 {
		return Line{}, fmt.Errorf("%w: %q", ErrBadRequest, s)
	}
	squares := make([]game.Coord, 0, len(compact)/2)
	for i := 0; i < len(compact); i += 2 {
		c, err := game.ParseCoord(compact[i : i+2])
		if err != nil {
			return Line{}, err
		}
		squares = append(squares, c)
	}
	return Line{Squares: squares}, nil
}
