package game

// ChainState is what a move source polls while driving a capture chain one
// step at a time.
type ChainState struct {
	InProgress bool
	Completed  int
	Required   int
	Origin     Coord
	Current    Coord
	Captured   []Coord
}

// Remaining is the number of jumps still owed.
func (s ChainState) Remaining() int {
	if !s.InProgress {
		return 0
	}
	return s.Required - s.Completed
}

// chain is the single open capture-chain mutation against a Game's grid.
type chain struct {
	mover    Color
	origin   Coord
	current  Coord
	required int
	jumps    []Jump
}

func newChain(mover Color, origin Coord, required int) *chain {
	return &chain{
		mover:    mover,
		origin:   origin,
		current:  origin,
		required: required,
		jumps:    make([]Jump, 0, required),
	}
}

func (c *chain) state() ChainState {
	if c == nil {
		return ChainState{}
	}
	captured := make([]Coord, len(c.jumps))
	for i, j := range c.jumps {
		captured[i] = j.Over
	}
	return ChainState{
		InProgress: true,
		Completed:  len(c.jumps),
		Required:   c.required,
		Origin:     c.origin,
		Current:    c.current,
		Captured:   captured,
	}
}

func (c *chain) record(j Jump) {
	c.jumps = append(c.jumps, j)
	c.current = j.To
}

func (c *chain) done() bool { return len(c.jumps) >= c.required }

// rollback undoes every recorded jump, newest first, which puts each captured
// piece back and returns the mover to origin.
func (c *chain) rollback(g *Grid) {
	for i := len(c.jumps) - 1; i >= 0; i-- {
		j := c.jumps[i]
		g.set(j.To, Piece{})
		g.set(j.Over, j.Captured)
		g.set(j.From, j.Mover)
	}
	c.jumps = c.jumps[:0]
	c.current = c.origin
}
