// Package common defines shared constants, sentinel errors and small byte
// helpers used across SecurePass layers. Callers should use errors.Is to
// match the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Secure storage errors. An absent value is not an error: stores
	// return (nil, nil) for it.
	ErrStorageWriteFailed = errors.New("secure storage write failed")

	// Envelope errors.
	ErrDecryptionFailed      = errors.New("decryption failed")
	ErrDeserializationFailed = errors.New("deserialization failed")
	ErrKeyProvisioningFailed = errors.New("unable to save encryption key")

	// Authentication gate errors.
	ErrAuthDenied          = errors.New("authentication failed")
	ErrAuthUnavailable     = errors.New("authentication unavailable")
	ErrChallengeInProgress = errors.New("authentication challenge already in progress")

	// Pass service errors.
	ErrEmptyCode   = errors.New("pass code is empty")
	ErrVaultLocked = errors.New("vault is locked")
)
