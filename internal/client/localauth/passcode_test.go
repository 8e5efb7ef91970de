package localauth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/securepass/internal/client/repositories/keystore"
	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(s string) PromptFunc {
	return func(context.Context, string) ([]byte, error) { return []byte(s), nil }
}

func TestDisabled(t *testing.T) {
	var v Verifier = Disabled{}
	require.ErrorIs(t, v.Available(context.Background()), ErrNotSupported)
	ok, err := v.Evaluate(context.Background(), "x")
	require.ErrorIs(t, err, ErrNotSupported)
	require.False(t, ok)
}

func TestPasscode_NotEnrolled(t *testing.T) {
	v := NewPasscodeVerifier(keystore.NewMemoryStore(), "app", answer("1234"))
	require.ErrorIs(t, v.Available(context.Background()), ErrNotEnrolled)

	_, err := v.Evaluate(context.Background(), "x")
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestPasscode_NoPrompt(t *testing.T) {
	v := NewPasscodeVerifier(keystore.NewMemoryStore(), "app", nil)
	require.ErrorIs(t, v.Available(context.Background()), ErrNotSupported)
}

func TestPasscode_EnrollAndEvaluate(t *testing.T) {
	ctx := context.Background()
	store := keystore.NewMemoryStore()

	var gotReason string
	entered := "1234"
	prompt := func(_ context.Context, reason string) ([]byte, error) {
		gotReason = reason
		return []byte(entered), nil
	}
	v := NewPasscodeVerifier(store, "app", prompt)
	require.NoError(t, v.Enroll(ctx, []byte("1234")))
	require.NoError(t, v.Available(ctx))

	record, err := store.Get(ctx, common.PasscodeName("app"))
	require.NoError(t, err)
	assert.Len(t, record, saltSize+verifierSize)
	assert.False(t, bytes.Contains(record, []byte("1234")))

	ok, err := v.Evaluate(ctx, "Unlock your vault")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Unlock your vault", gotReason)

	entered = "0000"
	ok, err = v.Evaluate(ctx, "Unlock your vault")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasscode_ReEnrollReplaces(t *testing.T) {
	ctx := context.Background()
	store := keystore.NewMemoryStore()

	v := NewPasscodeVerifier(store, "app", answer("old"))
	require.NoError(t, v.Enroll(ctx, []byte("old")))
	require.NoError(t, v.Enroll(ctx, []byte("new")))

	ok, err := v.Evaluate(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasscode_EnrollEmpty(t *testing.T) {
	v := NewPasscodeVerifier(keystore.NewMemoryStore(), "app", answer(""))
	require.ErrorIs(t, v.Enroll(context.Background(), nil), ErrEmptyPasscode)
}

func TestPasscode_PromptError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("tty closed")
	v := NewPasscodeVerifier(keystore.NewMemoryStore(), "app",
		func(context.Context, string) ([]byte, error) { return nil, boom })
	require.NoError(t, v.Enroll(ctx, []byte("1234")))

	ok, err := v.Evaluate(ctx, "x")
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestPasscode_CancelWaitsForPrompt(t *testing.T) {
	release := make(chan struct{})
	v := NewPasscodeVerifier(keystore.NewMemoryStore(), "app",
		func(context.Context, string) ([]byte, error) {
			<-release
			return []byte("1234"), nil
		})
	require.NoError(t, v.Enroll(context.Background(), []byte("1234")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		ok, err := v.Evaluate(ctx, "x")
		assert.False(t, ok, "an answer given after cancellation is discarded")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("Evaluate returned while its prompt was still open")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	require.ErrorIs(t, <-done, context.DeadlineExceeded)
}

func TestPasscode_CancelledBeforePrompt(t *testing.T) {
	prompted := false
	v := NewPasscodeVerifier(keystore.NewMemoryStore(), "app",
		func(context.Context, string) ([]byte, error) {
			prompted = true
			return []byte("1234"), nil
		})
	require.NoError(t, v.Enroll(context.Background(), []byte("1234")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Evaluate(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, prompted)
}

// failingStore rejects every Put after the first allowed ones.
type failingStore struct {
	*keystore.MemoryStore
	allowed int
}

func (s *failingStore) Put(ctx context.Context, name string, value []byte) error {
	if s.allowed <= 0 {
		return fmt.Errorf("%w: disk full", common.ErrStorageWriteFailed)
	}
	s.allowed--
	return s.MemoryStore.Put(ctx, name, value)
}

func TestPasscode_FailedReEnrollKeepsOldPasscode(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: keystore.NewMemoryStore(), allowed: 1}

	v := NewPasscodeVerifier(store, "app", answer("old"))
	require.NoError(t, v.Enroll(ctx, []byte("old")))

	err := v.Enroll(ctx, []byte("new"))
	require.ErrorIs(t, err, common.ErrStorageWriteFailed)

	ok, err := v.Evaluate(ctx, "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasscode_CorruptRecordIsNotEnrolled(t *testing.T) {
	ctx := context.Background()
	store := keystore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, common.PasscodeName("app"), []byte("short")))

	v := NewPasscodeVerifier(store, "app", answer("1234"))
	require.ErrorIs(t, v.Available(ctx), ErrNotEnrolled)
}
