package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/securepass/internal/client/localauth"
	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/dmitrijs2005/securepass/internal/logging"
)

// Outcome is the result of one authentication challenge. The zero value
// means no challenge was resolved.
type Outcome int

const (
	OutcomeGranted Outcome = iota + 1
	OutcomeDenied
	OutcomeUnavailable
)

const (
	MsgDenied      = "Authentication failed, try again."
	MsgUnavailable = "Biometric authentication is not available on this device."
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeDenied:
		return "denied"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "none"
	}
}

// Err maps a non-granted outcome to its sentinel error.
func (o Outcome) Err() error {
	switch o {
	case OutcomeGranted:
		return nil
	case OutcomeUnavailable:
		return common.ErrAuthUnavailable
	default:
		return common.ErrAuthDenied
	}
}

// Message is the one-line text shown to the user, empty when granted.
func (o Outcome) Message() string {
	switch o {
	case OutcomeGranted:
		return ""
	case OutcomeUnavailable:
		return MsgUnavailable
	default:
		return MsgDenied
	}
}

// State is the gate's position in Locked → Challenging → {Unlocked,
// Denied, Unavailable}.
type State int

const (
	StateLocked State = iota
	StateChallenging
	StateUnlocked
	StateDenied
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateChallenging:
		return "challenging"
	case StateUnlocked:
		return "unlocked"
	case StateDenied:
		return "denied"
	case StateUnavailable:
		return "unavailable"
	default:
		return "locked"
	}
}

func stateOf(o Outcome) State {
	switch o {
	case OutcomeGranted:
		return StateUnlocked
	case OutcomeDenied:
		return StateDenied
	case OutcomeUnavailable:
		return StateUnavailable
	default:
		return StateLocked
	}
}

// Gate runs single-shot authentication challenges against a local
// verifier.
//
// Contract:
//   - Challenge never retries; the caller decides whether to ask again.
//   - A second Challenge while one is outstanding fails with
//     common.ErrChallengeInProgress.
//   - Cancelling ctx returns ctx.Err() and puts the gate back to Locked.
//     The slot stays taken until the verifier itself returns, so a prompt
//     left open by a cancelled challenge is never joined by a second one.
type Gate interface {
	Challenge(ctx context.Context, reason string) (Outcome, error)
	State() State
	// Reset returns the gate to Locked unless a challenge is running.
	Reset()
}

type gate struct {
	verifier localauth.Verifier
	log      logging.Logger
	timeout  time.Duration

	mu    sync.Mutex
	busy  bool
	state State
}

// NewGate builds a Gate. A positive timeout bounds every challenge.
func NewGate(v localauth.Verifier, log logging.Logger, timeout time.Duration) Gate {
	return &gate{verifier: v, log: log, timeout: timeout}
}

func (g *gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.busy {
		g.state = StateLocked
	}
}

func (g *gate) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	g.state = StateChallenging
	return true
}

// release frees the challenge slot and records the final state.
func (g *gate) release(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
	g.state = s
}

// abandon moves a still-running challenge back to Locked; the slot stays
// held until the verifier returns.
func (g *gate) abandon() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateChallenging {
		g.state = StateLocked
	}
}

func (g *gate) Challenge(ctx context.Context, reason string) (Outcome, error) {
	if !g.acquire() {
		return 0, common.ErrChallengeInProgress
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.verifier.Available(ctx); err != nil {
		if ctx.Err() != nil {
			g.release(StateLocked)
			return 0, ctx.Err()
		}
		g.log.Info(ctx, "local authentication unavailable", "error", err)
		g.release(StateUnavailable)
		return OutcomeUnavailable, nil
	}

	type result struct {
		outcome Outcome
		err     error
	}
	ch := make(chan result, 1)

	go func() {
		ok, err := g.verifier.Evaluate(ctx, reason)

		var r result
		switch {
		case ctx.Err() != nil:
			r.err = ctx.Err()
		case err != nil:
			g.log.Warn(ctx, "authentication challenge failed", "error", err)
			r.outcome = OutcomeDenied
		case ok:
			r.outcome = OutcomeGranted
		default:
			r.outcome = OutcomeDenied
		}

		g.release(stateOf(r.outcome))
		ch <- r
	}()

	var r result
	select {
	case <-ctx.Done():
		select {
		case r = <-ch:
		default:
			g.abandon()
			return 0, ctx.Err()
		}
	case r = <-ch:
	}

	if r.err != nil {
		return 0, r.err
	}
	g.log.Debug(ctx, "authentication challenge resolved", "outcome", r.outcome.String())
	return r.outcome, nil
}

// IsCancellation reports whether err came from a cancelled or expired
// context rather than from the verifier.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
