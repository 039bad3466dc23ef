package game

import "errors"

// Every error below is recoverable at the half-move boundary: the move source
// may resubmit. Only broken internal invariants panic.
var (
	ErrOutOfBounds            = errors.New("coordinate out of bounds")
	ErrInvalidCoordinate      = errors.New("invalid coordinate")
	ErrEmptySourceSquare      = errors.New("no piece on source square")
	ErrWrongTurnColor         = errors.New("piece belongs to the other side")
	ErrIllegalRelocation      = errors.New("piece cannot move to that square")
	ErrCaptureMandatory       = errors.New("a capture is mandatory")
	ErrNotMaximalCapture      = errors.New("another piece has a longer capture chain")
	ErrInvalidCaptureStep     = errors.New("invalid capture step")
	ErrIncompleteCaptureChain = errors.New("capture chain cannot be completed")
	ErrChainInProgress        = errors.New("capture chain already in progress")
	ErrNoChainInProgress      = errors.New("no capture chain in progress")
	ErrGameNotStarted         = errors.New("game not started")
	ErrGameFinished           = errors.New("game finished")
)
