package game

import "fmt"

// Color identifies a side. It is fixed when a piece is created.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// Forward is the rank direction pawns of c travel in.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// FarRank is the rank on which pawns of c promote.
func (c Color) FarRank() int {
	if c == White {
		return 0
	}
	return BoardSize - 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// Kind is the closed set of piece variants. The zero value marks an empty slot.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Queen
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Queen:
		return "Queen"
	default:
		return "None"
	}
}

// Piece is stored inline in a grid slot.
type Piece struct {
	Kind  Kind
	Color Color
}

func NewPawn(c Color) Piece  { return Piece{Kind: Pawn, Color: c} }
func NewQueen(c Color) Piece { return Piece{Kind: Queen, Color: c} }

// IsZero reports whether p is the empty-slot value.
func (p Piece) IsZero() bool { return p.Kind == NoKind }

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}

// Glyph is the single-character board symbol: lower case for pawns, upper
// case for queens, 'w'/'b' by color, blank for empty.
func (p Piece) Glyph() byte {
	if p.IsZero() {
		return ' '
	}
	return ruleFor(p.Kind).glyphs[p.Color]
}

// kindRules is the behavior table for one variant.
type kindRules struct {
	// steps are the quiet single-step displacements, indexed by color.
	steps [2][]Delta
	// jumps are the directions a capture may be made in.
	jumps  []Delta
	glyphs [2]byte
}

var ruleTable = [...]kindRules{
	Pawn: {
		steps: [2][]Delta{
			White: {{-1, -1}, {-1, 1}},
			Black: {{1, -1}, {1, 1}},
		},
		jumps:  diagonals[:],
		glyphs: [2]byte{White: 'w', Black: 'b'},
	},
	Queen: {
		steps:  [2][]Delta{White: diagonals[:], Black: diagonals[:]},
		jumps:  diagonals[:],
		glyphs: [2]byte{White: 'W', Black: 'B'},
	},
}

func ruleFor(k Kind) *kindRules {
	if k == NoKind || int(k) >= len(ruleTable) {
		panic(fmt.Sprintf("game: no rules for kind %d", k))
	}
	return &ruleTable[k]
}

// CanRelocate reports whether p, moving for side mover, may make a quiet
// one-step move from -> to. Only the destination cell is checked for blocking.
func (p Piece) CanRelocate(g *Grid, from, to Coord, mover Color) bool {
	if p.IsZero() || !from.Valid() || !to.Valid() {
		return false
	}
	if !g.at(to).IsZero() {
		return false
	}
	d := Delta{Rank: to.Rank - from.Rank, File: to.File - from.File}
	for _, step := range ruleFor(p.Kind).steps[mover] {
		if step == d {
			return true
		}
	}
	return false
}

// CountMaxCaptureChain returns the length of the longest jump sequence the
// piece on from can make for side mover. g is left exactly as it was found.
func (p Piece) CountMaxCaptureChain(g *Grid, from Coord, mover Color) int {
	if p.IsZero() {
		return 0
	}
	return countChain(g, from, mover, ruleFor(p.Kind).jumps)
}
