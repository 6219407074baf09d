package bitly

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the common root of all argument errors.
// errors.Is(err, ErrInvalidArgument) matches both ArgumentError and
// ArgTypeError, so callers can branch on "my input was bad" without
// caring which refinement it was.
var ErrInvalidArgument = errors.New("invalid argument")

// APIError is returned when the bit.ly envelope reports a non-success
// status. Code and Text carry the status_code and status_txt fields
// verbatim from the service.
type APIError struct {
	Code int
	Text string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Error %d: %s.", e.Code, e.Text)
}

// ArgumentError reports a malformed argument detected before any request
// is sent. The caller can recover by fixing the argument.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string {
	return e.Reason
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// ArgTypeError reports an argument of the wrong type. The client itself is
// statically typed, so this error originates at dynamically typed ingress
// points feeding the client (the JSON facade in internal/handler), where a
// field that should be a list of strings arrived as something else.
type ArgTypeError struct {
	Arg      string
	Given    string
	Expected string
}

func (e *ArgTypeError) Error() string {
	return fmt.Sprintf("Argument '%s' has type '%s', expected '%s'.", e.Arg, e.Given, e.Expected)
}

func (e *ArgTypeError) Unwrap() error {
	return ErrInvalidArgument
}
