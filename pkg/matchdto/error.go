package matchdto

// Error codes carried by DomainError.
const (
	CodeOutOfBounds        = "out_of_bounds"
	CodeInvalidCoordinate  = "invalid_coordinate"
	CodeEmptySource        = "empty_source"
	CodeWrongTurn          = "wrong_turn"
	CodeIllegalRelocation  = "illegal_relocation"
	CodeCaptureMandatory   = "capture_mandatory"
	CodeNotMaximal         = "not_maximal"
	CodeInvalidCaptureStep = "invalid_capture_step"
	CodeIncompleteChain    = "incomplete_chain"
	CodeBadRequest         = "bad_request"
	CodeInternal           = "internal"
)

// DomainError is what a move source is told about a refused request. Message
// is optional; presenters render text from Code.
type DomainError struct {
	Code      string
	Message   string
	Retryable bool
	// Detail is the wrapped engine error text, for logs.
	Detail string
}

func (e DomainError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Detail != "":
		return e.Code + ": " + e.Detail
	case e.Code != "":
		return e.Code
	}
	return "match error"
}

