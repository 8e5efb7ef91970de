// Package localauth provides the on-device possession checks that stand in
// for a platform biometric prompt.
package localauth

import (
	"context"
	"errors"
)

var (
	// ErrNotSupported means the device offers no verifier at all.
	ErrNotSupported = errors.New("local authentication is not supported")
	// ErrNotEnrolled means a verifier exists but nothing has been enrolled.
	ErrNotEnrolled = errors.New("no passcode enrolled")

	ErrEmptyPasscode = errors.New("passcode is empty")
)

// Verifier is a local capability that can confirm the user is present.
//
// Available reports whether Evaluate can be attempted at all. Evaluate
// presents one prompt with the given reason and returns true only when the
// check succeeded; a plain mismatch is (false, nil). Once ctx is done,
// Evaluate returns ctx.Err(), but only after any prompt it showed has been
// dismissed.
type Verifier interface {
	Available(ctx context.Context) error
	Evaluate(ctx context.Context, reason string) (bool, error)
}

// Disabled is a Verifier for devices without the capability.
type Disabled struct{}

func (Disabled) Available(context.Context) error { return ErrNotSupported }

func (Disabled) Evaluate(context.Context, string) (bool, error) { return false, ErrNotSupported }
