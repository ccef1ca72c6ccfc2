package aacenc

// Error is an encoder error code. Call sites wrap the codes with context,
// so test for them with errors.Is.
type Error int

// Error codes.
const (
	ErrNone                 Error = 0
	ErrInvalidParameters    Error = 1 // Bad Open or Encode arguments
	ErrInvalidConfiguration Error = 2 // Rejected configuration, prior one kept
	ErrInvalidState         Error = 3 // Operation out of sequence
	ErrBufferTooSmall       Error = 4 // Retryable: output capacity too small
	ErrEncodingFailure      Error = 5 // Fatal to the session
)

// errMessages holds the message of each error code.
var errMessages = [6]string{
	"No error",
	"Invalid parameters",
	"Invalid configuration",
	"Invalid encoder state",
	"Output buffer too small",
	"Encoding failure",
}

// Error implements the error interface.
func (e Error) Error() string {
	if e >= 0 && int(e) < len(errMessages) {
		return errMessages[e]
	}
	return "unknown error"
}

// Retryable reports whether the failed call may be repeated unchanged with
// more output capacity.
func (e Error) Retryable() bool {
	return e == ErrBufferTooSmall
}
