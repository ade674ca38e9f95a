package cli

import (
	"errors"
	"fmt"
)

// Sentinels for the exit-code mapping in Run. Typed errors below satisfy
// errors.Is against these.
var (
	ErrUnknownAction        = errors.New("unknown action")
	ErrArgument             = errors.New("bad action arguments")
	ErrConfirmationDeclined = errors.New("commit declined")
)

// UnknownActionError reports an action name the chain validator does not
// recognize. Raised before any action runs.
type UnknownActionError struct {
	Name string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("action -%s not recognized (see -help)", e.Name)
}

func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// ArgumentError reports arguments an action cannot use: wrong count, an
// unresolvable name, a malformed value.
type ArgumentError struct {
	Action string
	Usage  string
	Msg    string
}

func (e *ArgumentError) Error() string {
	if e.Usage != "" {
		return fmt.Sprintf("-%s: %s (usage: -%s %s)", e.Action, e.Msg, e.Action, e.Usage)
	}
	return fmt.Sprintf("-%s: %s", e.Action, e.Msg)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgument
}

func argErrorf(action, usage, format string, args ...any) error {
	return &ArgumentError{Action: action, Usage: usage, Msg: fmt.Sprintf(format, args...)}
}
