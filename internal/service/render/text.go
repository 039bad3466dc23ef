package render

import (
	"strings"

	"github.com/park285/jumpchess/internal/game"
)

const fileLabels = "A B C D E F G H"

// Text draws g in the console layout: file letters above and below, rank
// numbers 1-8 on both sides, one glyph per cell between '|' separators.
func Text(g game.Grid) string {
	var b strings.Builder
	b.WriteString("   " + fileLabels + "  \n")
	b.WriteString("  +---------------+\n")
	cells := g.Cells()
	for rank := 0; rank < game.BoardSize; rank++ {
		label := byte('1' + rank)
		b.WriteByte(label)
		b.WriteString(" |")
		for _, c := range cells[rank*game.BoardSize : (rank+1)*game.BoardSize] {
			b.WriteByte(c.Piece.Glyph())
			b.WriteByte('|')
		}
		b.WriteByte(' ')
		b.WriteByte(label)
		b.WriteByte('\n')
	}
	b.WriteString("  +---------------+\n")
	b.WriteString("   " + fileLabels + " \n")
	return b.String()
}
