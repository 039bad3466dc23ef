package game

// Phase is the game lifecycle: Setup -> InProgress -> Finished.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "SETUP"
	case PhaseInProgress:
		return "IN_PROGRESS"
	case PhaseFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Method records how a finished game ended.
type Method string

const (
	MethodExhaustion  Method = "exhaustion"
	MethodResignation Method = "resignation"
)

// Outcome describes a finished game. Decided is false when neither side has
// a piece left.
type Outcome struct {
	Winner  Color
	Decided bool
	Method  Method
}

// scanOutcome walks all 64 cells. The game is over when either side has no
// piece; both sides empty counts the same.
func scanOutcome(g *Grid) (Outcome, bool) {
	var white, black bool
	for _, p := range g.slots {
		if p.IsZero() {
			continue
		}
		if p.Color == White {
			white = true
		} else {
			black = true
		}
		if white && black {
			return Outcome{}, false
		}
	}
	switch {
	case white:
		return Outcome{Winner: White, Decided: true, Method: MethodExhaustion}, true
	case black:
		return Outcome{Winner: Black, Decided: true, Method: MethodExhaustion}, true
	default:
		return Outcome{Method: MethodExhaustion}, true
	}
}
