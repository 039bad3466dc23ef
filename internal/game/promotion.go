package game

// Promote replaces a pawn standing on its far rank with a queen of the same
// color. It reports whether a promotion happened.
func Promote(g *Grid, at Coord) bool {
	if !at.Valid() {
		return false
	}
	p := g.at(at)
	if p.Kind != Pawn || at.Rank != p.Color.FarRank() {
		return false
	}
	g.set(at, NewQueen(p.Color))
	return true
}
