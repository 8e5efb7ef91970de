package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/securepass/internal/client/models"
	"github.com/dmitrijs2005/securepass/internal/client/repositories/keystore"
	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/dmitrijs2005/securepass/internal/cryptox"
	"github.com/dmitrijs2005/securepass/internal/logging"
)

const (
	ReasonUnlockVault = "Unlock your vault"

	MsgBusy     = "Authentication is already in progress."
	MsgCanceled = "Authentication was cancelled."
	MsgNotFound = "Pass not found."
)

// ReasonOpenPass is the prompt shown before a protected pass is revealed.
func ReasonOpenPass(title string) string { return "Unlock " + title }

// UnlockResult is what the presentation layer renders after Unlock.
type UnlockResult struct {
	State   State
	Passes  models.Collection
	Message string
	Err     error
}

// OpenResult carries the revealed pass, or nil with a Message.
type OpenResult struct {
	State   State
	Pass    *models.Pass
	Message string
	Err     error
}

// PassService owns the in-memory pass collection and its encrypted copy in
// the secure store.
//
// Contract:
//   - Load always yields a usable collection. Missing, undecryptable or
//     malformed data yields the default passes; only a failure to provision
//     the encryption key is returned as an error, next to the defaults.
//   - Save failures are returned and leave the stored payload untouched.
//   - Add, Remove and ToggleProtection save the whole collection and only
//     then replace the in-memory copy.
//   - All operations are serialized; at most one encryption key is ever
//     provisioned.
type PassService interface {
	Load(ctx context.Context) (models.Collection, error)
	Save(ctx context.Context, c models.Collection) error
	Add(ctx context.Context, code string) (*models.Pass, error)
	Remove(ctx context.Context, id string) error
	ToggleProtection(ctx context.Context, id string) (*models.Pass, error)
	Passes() models.Collection
	Unlock(ctx context.Context) UnlockResult
	Open(ctx context.Context, id string) OpenResult
	Lock()
}

type passService struct {
	store keystore.Store
	gate  Gate
	log   logging.Logger

	keyName     string
	payloadName string

	mu     sync.Mutex
	passes models.Collection
	loaded bool

	keyMu sync.Mutex
	key   *memguard.Enclave
}

// NewPassService binds the service to a store and gate. app prefixes the
// logical names of the key and the payload.
func NewPassService(store keystore.Store, gate Gate, log logging.Logger, app string) PassService {
	if app == "" {
		app = common.DefaultAppName
	}
	return &passService{
		store:       store,
		gate:        gate,
		log:         log,
		keyName:     common.KeyName(app),
		payloadName: common.PayloadName(app),
	}
}

// resolveKey returns the cached key, the stored key, or a freshly
// provisioned one, in that order. The caller must Destroy the buffer.
func (s *passService) resolveKey(ctx context.Context) (*memguard.LockedBuffer, error) {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()

	if s.key != nil {
		return s.key.Open()
	}

	raw, err := s.store.Get(ctx, s.keyName)
	if err != nil {
		return nil, fmt.Errorf("%w: read key: %v", common.ErrKeyProvisioningFailed, err)
	}

	if raw != nil && len(raw) != cryptox.KeySize {
		s.log.Warn(ctx, "stored encryption key has wrong size, provisioning a new one", "size", len(raw))
		common.WipeByteArray(raw)
		raw = nil
	}

	if raw == nil {
		raw, err = cryptox.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrKeyProvisioningFailed, err)
		}
		if err := s.store.Put(ctx, s.keyName, raw); err != nil {
			common.WipeByteArray(raw)
			return nil, fmt.Errorf("%w: %v", common.ErrKeyProvisioningFailed, err)
		}
		s.log.Info(ctx, "encryption key provisioned")
	}

	// NewEnclave wipes raw.
	s.key = memguard.NewEnclave(raw)
	return s.key.Open()
}

func (s *passService) dropKey() {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()
	s.key = nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, common.ErrDeserializationFailed), errors.Is(err, models.ErrInvalidPass):
		return "deserialization_failed"
	default:
		return "decryption_failed"
	}
}

func (s *passService) load(ctx context.Context) (models.Collection, error) {
	blob, err := s.store.Get(ctx, s.payloadName)
	if err != nil {
		s.log.Warn(ctx, "pass payload unreadable, using defaults", "reason", "read_failed", "error", err)
		return models.Defaults(), nil
	}
	if blob == nil {
		return models.Defaults(), nil
	}

	key, err := s.resolveKey(ctx)
	if err != nil {
		s.log.Error(ctx, "encryption key unavailable, using defaults", "error", err)
		return models.Defaults(), err
	}
	defer key.Destroy()

	var c models.Collection
	if err := cryptox.OpenJSON(blob, key.Bytes(), &c); err != nil {
		s.log.Warn(ctx, "pass payload rejected, using defaults", "reason", failureReason(err), "error", err)
		return models.Defaults(), nil
	}
	if err := c.Validate(); err != nil {
		s.log.Warn(ctx, "pass payload rejected, using defaults", "reason", failureReason(err), "error", err)
		return models.Defaults(), nil
	}
	if c == nil {
		c = models.Collection{}
	}
	return c, nil
}

func (s *passService) save(ctx context.Context, c models.Collection) error {
	if c == nil {
		c = models.Collection{}
	}

	key, err := s.resolveKey(ctx)
	if err != nil {
		return err
	}
	defer key.Destroy()

	blob, err := cryptox.SealJSON(c, key.Bytes())
	if err != nil {
		return fmt.Errorf("seal passes: %w", err)
	}
	if err := s.store.Put(ctx, s.payloadName, blob); err != nil {
		return fmt.Errorf("save passes: %w", err)
	}
	return nil
}

func (s *passService) Load(ctx context.Context) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	s.passes = c
	s.loaded = true
	return c.Clone(), err
}

func (s *passService) Save(ctx context.Context, c models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, c); err != nil {
		return err
	}
	s.passes = c.Clone()
	s.loaded = true
	return nil
}

// commit saves next and, on success, makes it the in-memory collection.
// The caller holds s.mu.
func (s *passService) commit(ctx context.Context, next models.Collection) error {
	if err := s.save(ctx, next); err != nil {
		s.log.Error(ctx, "saving passes failed", "error", err)
		return err
	}
	s.passes = next
	return nil
}

// Add imports a scanned code. Blank input is ignored and returns (nil, nil).
func (s *passService) Add(ctx context.Context, code string) (*models.Pass, error) {
	p, err := models.NewImported(code)
	if errors.Is(err, common.ErrEmptyCode) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, common.ErrVaultLocked
	}
	if err := s.commit(ctx, s.passes.Prepend(p)); err != nil {
		return nil, err
	}
	return &p, nil
}

// Remove deletes the pass with id. An unknown id still rewrites the
// unchanged collection.
func (s *passService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return common.ErrVaultLocked
	}
	return s.commit(ctx, s.passes.Without(id))
}

func (s *passService) ToggleProtection(ctx context.Context, id string) (*models.Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, common.ErrVaultLocked
	}
	next, ok := s.passes.Toggled(id)
	if !ok {
		return nil, fmt.Errorf("pass %s: %w", id, common.ErrorNotFound)
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	p, _ := next.Find(id)
	return &p, nil
}

func (s *passService) Passes() models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes.Clone()
}

func challengeMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrChallengeInProgress):
		return MsgBusy
	case IsCancellation(err):
		return MsgCanceled
	default:
		return err.Error()
	}
}

// Unlock challenges the user and, when granted, loads the collection.
func (s *passService) Unlock(ctx context.Context) UnlockResult {
	outcome, err := s.gate.Challenge(ctx, ReasonUnlockVault)
	if err != nil {
		return UnlockResult{State: s.gate.State(), Message: challengeMessage(err), Err: err}
	}
	if outcome != OutcomeGranted {
		return UnlockResult{State: s.gate.State(), Message: outcome.Message(), Err: outcome.Err()}
	}

	c, err := s.Load(ctx)
	res := UnlockResult{State: s.gate.State(), Passes: c, Err: err}
	if err != nil {
		res.Message = err.Error()
	}
	return res
}

// Open reveals a pass. Protected passes need a granted challenge first.
func (s *passService) Open(ctx context.Context, id string) OpenResult {
	s.mu.Lock()
	p, ok := s.passes.Find(id)
	s.mu.Unlock()

	if !ok {
		return OpenResult{
			State:   s.gate.State(),
			Message: MsgNotFound,
			Err:     fmt.Errorf("pass %s: %w", id, common.ErrorNotFound),
		}
	}
	if !p.RequiresBiometric {
		return OpenResult{State: s.gate.State(), Pass: &p}
	}

	outcome, err := s.gate.Challenge(ctx, ReasonOpenPass(p.Title))
	if err != nil {
		return OpenResult{State: s.gate.State(), Message: challengeMessage(err), Err: err}
	}
	if outcome != OutcomeGranted {
		return OpenResult{State: s.gate.State(), Message: outcome.Message(), Err: outcome.Err()}
	}
	return OpenResult{State: s.gate.State(), Pass: &p}
}

// Lock forgets the cached key and the in-memory passes.
func (s *passService) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropKey()
	s.passes = nil
	s.loaded = false
	s.gate.Reset()
}
