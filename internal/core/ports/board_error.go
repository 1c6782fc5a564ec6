package ports

import "errors"

// BoardError represents a typed rejection returned by board operations.
// It is defined here so infrastructure can depend on the error contract without
// importing application-level implementations.
type BoardError interface {
	error
	Code() int
	Message() string
}

// Concrete implementation returned by NewBoardError.
type boardError struct {
	code    int
	message string
	cause   error
}

func (e *boardError) Error() string   { return e.message }
func (e *boardError) Code() int       { return e.code }
func (e *boardError) Message() string { return e.message }
func (e *boardError) Unwrap() error   { return e.cause }

const (
	BoardCodeUnknown       = 0
	BoardCodeNotFound      = 1
	BoardCodeForbidden     = 2
	BoardCodeInvalidTarget = 3
	BoardCodeConflict      = 4
	BoardCodeInvalidInput  = 5
)

// NewBoardError constructs a typed BoardError that the application layer returns
// and the HTTP layer inspects.
func NewBoardError(code int, message string) BoardError {
	return &boardError{code: code, message: message}
}

// WrapBoardError is NewBoardError keeping cause reachable through errors.Unwrap.
func WrapBoardError(code int, message string, cause error) BoardError {
	return &boardError{code: code, message: message, cause: cause}
}

// BoardErrorCode returns the code of the first BoardError in err's chain, or BoardCodeUnknown.
func BoardErrorCode(err error) int {
	var be BoardError
	if errors.As(err, &be) {
		return be.Code()
	}
	return BoardCodeUnknown
}

func IsForbidden(err error) bool     { return BoardErrorCode(err) == BoardCodeForbidden }
func IsNotFound(err error) bool      { return BoardErrorCode(err) == BoardCodeNotFound }
func IsInvalidTarget(err error) bool { return BoardErrorCode(err) == BoardCodeInvalidTarget }
func IsConflict(err error) bool      { return BoardErrorCode(err) == BoardCodeConflict }
func IsInvalidInput(err error) bool  { return BoardErrorCode(err) == BoardCodeInvalidInput }
