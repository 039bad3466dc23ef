package match

import "errors"

var (
	ErrBadRequest        = errors.New("could not parse request")
	ErrMatchNotActive    = errors.New("match is not active")
	ErrTooManyRejections = errors.New("too many rejected requests")
	ErrScriptExhausted   = errors.New("script has no more moves")
	ErrInputClosed       = errors.New("input closed")
	ErrChainCancelled    = errors.New("capture chain cancelled by player")
)
