package locator

import "errors"

// ErrInvalidArgument is matched by every validation failure in this package.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes which input constraint failed.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

// Is lets callers test with errors.Is(err, ErrInvalidArgument).
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalid(msg string) error {
	return &ArgumentError{Msg: msg}
}
