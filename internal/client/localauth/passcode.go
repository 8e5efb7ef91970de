package localauth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/securepass/internal/client/repositories/keystore"
	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/dmitrijs2005/securepass/internal/cryptox"
)

const (
	saltSize     = 32
	verifierSize = sha256.Size
)

// PromptFunc asks the user for the passcode, showing reason.
type PromptFunc func(ctx context.Context, reason string) ([]byte, error)

// PasscodeVerifier checks a device passcode against a salted argon2id
// verifier kept in the secure store. The passcode itself is never stored.
//
// Salt and verifier live in one record so a re-enrollment replaces both or
// neither.
type PasscodeVerifier struct {
	store  keystore.Store
	prompt PromptFunc
	app    string
}

func NewPasscodeVerifier(store keystore.Store, app string, prompt PromptFunc) *PasscodeVerifier {
	return &PasscodeVerifier{store: store, prompt: prompt, app: app}
}

// Enroll replaces any previously enrolled passcode. On failure the previous
// passcode stays valid.
func (v *PasscodeVerifier) Enroll(ctx context.Context, passcode []byte) error {
	if len(passcode) == 0 {
		return ErrEmptyPasscode
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey(passcode, salt)
	defer common.WipeByteArray(key)

	record := append(salt, cryptox.MakeVerifier(key)...)
	if err := v.store.Put(ctx, common.PasscodeName(v.app), record); err != nil {
		return fmt.Errorf("save passcode: %w", err)
	}
	return nil
}

func (v *PasscodeVerifier) load(ctx context.Context) (salt, verifier []byte, err error) {
	record, err := v.store.Get(ctx, common.PasscodeName(v.app))
	if err != nil {
		return nil, nil, err
	}
	if len(record) != saltSize+verifierSize {
		return nil, nil, ErrNotEnrolled
	}
	return record[:saltSize], record[saltSize:], nil
}

func (v *PasscodeVerifier) Available(ctx context.Context) error {
	if v.prompt == nil {
		return ErrNotSupported
	}
	_, _, err := v.load(ctx)
	return err
}

// Evaluate prompts once and compares the answer in constant time.
//
// A prompt cannot always be interrupted (a terminal read blocks until the
// user presses Enter). When ctx is done first, Evaluate still waits for the
// prompt to return and discards the answer, so a caller that serializes on
// Evaluate never has two prompts outstanding.
func (v *PasscodeVerifier) Evaluate(ctx context.Context, reason string) (bool, error) {
	salt, verifier, err := v.load(ctx)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	type answer struct {
		passcode []byte
		err      error
	}
	ch := make(chan answer, 1)
	go func() {
		p, err := v.prompt(ctx, reason)
		ch <- answer{passcode: p, err: err}
	}()

	var a answer
	select {
	case a = <-ch:
	case <-ctx.Done():
		a = <-ch
		common.WipeByteArray(a.passcode)
		return false, ctx.Err()
	}
	defer common.WipeByteArray(a.passcode)

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.err != nil {
		return false, fmt.Errorf("read passcode: %w", a.err)
	}

	candidate := cryptox.DeriveMasterKey(a.passcode, salt)
	defer common.WipeByteArray(candidate)

	return subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(candidate)) == 1, nil
}
