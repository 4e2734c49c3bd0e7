package model

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrSuperseded marks a fetch whose response was dropped because a newer
	// request for the same kind had already been issued.
	ErrSuperseded = errors.New("fetch superseded by a newer request")
)

// FetchError is a failed point-of-interest request for one kind.
type FetchError struct {
	Kind       Kind
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Kind.Plural(), e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Kind.Plural(), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
