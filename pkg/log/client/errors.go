package client

import (
	"errors"
	"fmt"
)

// ErrRemoteFetch is matched by every error raised while talking to the log
// backend. Those errors are recoverable.
var ErrRemoteFetch = errors.New("remote fetch failed")

const (
	OpCreateClient  = "create client"
	OpListFunctions = "list functions"
	OpFetchLogs     = "fetch logs"
)

// FetchError describes a failed remote call.
type FetchError struct {
	Op       string
	Profile  string
	Function string
	Err      error
}

func (e *FetchError) Error() string {
	target := e.Profile
	if e.Function != "" {
		target = fmt.Sprintf("%s/%s", e.Profile, e.Function)
	}
	if target == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, target, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrRemoteFetch
}

// NewFetchError wraps err unless it is nil or already a FetchError.
func NewFetchError(op, profile, function string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Op: op, Profile: profile, Function: function, Err: err}
}
