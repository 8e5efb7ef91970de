package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/securepass/internal/client/repositories/keystore"
	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/dmitrijs2005/securepass/internal/logging"
)

// ---- fake verifier ----

type fakeVerifier struct {
	mu sync.Mutex

	availErr error
	grant    bool
	evalErr  error

	// block, when set, holds Evaluate until closed or ctx is done.
	block chan struct{}

	// started is signalled once Evaluate is entered.
	started chan struct{}

	reasons []string
	calls   int
}

func (f *fakeVerifier) Available(context.Context) error { return f.availErr }

func (f *fakeVerifier) Evaluate(ctx context.Context, reason string) (bool, error) {
	f.mu.Lock()
	f.calls++
	f.reasons = append(f.reasons, reason)
	block, started := f.block, f.started
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return f.grant, f.evalErr
}

func (f *fakeVerifier) Reasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reasons...)
}

// ---- flaky store ----

// flakyStore wraps a MemoryStore and fails Put for the names in failPut.
type flakyStore struct {
	*keystore.MemoryStore

	mu      sync.Mutex
	failPut map[string]bool
	puts    map[string]int
	delay   time.Duration
}

func newFlakyStore() *flakyStore {
	return &flakyStore{
		MemoryStore: keystore.NewMemoryStore(),
		failPut:     map[string]bool{},
		puts:        map[string]int{},
	}
}

func (s *flakyStore) FailPut(name string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut[name] = fail
}

func (s *flakyStore) Puts(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[name]
}

func (s *flakyStore) Put(ctx context.Context, name string, value []byte) error {
	s.mu.Lock()
	fail, delay := s.failPut[name], s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return fmt.Errorf("%w: injected failure for %s", common.ErrStorageWriteFailed, name)
	}

	s.mu.Lock()
	s.puts[name]++
	s.mu.Unlock()
	return s.MemoryStore.Put(ctx, name, value)
}

// ---- recording logger ----

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	with    []any
}

func newRecLogger() *recLogger {
	return &recLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := append(append([]any{}, l.with...), args...)
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: all})
}

func (l *recLogger) Debug(_ context.Context, msg string, args ...any) { l.add("DEBUG", msg, args) }
func (l *recLogger) Info(_ context.Context, msg string, args ...any)  { l.add("INFO", msg, args) }
func (l *recLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("WARN", msg, args) }
func (l *recLogger) Error(_ context.Context, msg string, args ...any) { l.add("ERROR", msg, args) }

func (l *recLogger) With(args ...any) logging.Logger {
	return &recLogger{mu: l.mu, entries: l.entries, with: append(append([]any{}, l.with...), args...)}
}

// value returns the value logged for key on the first entry at level.
func (l *recLogger) value(level, key string) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.level != level {
			continue
		}
		for i := 0; i+1 < len(e.args); i += 2 {
			if e.args[i] == key {
				return e.args[i+1], true
			}
		}
	}
	return nil, false
}
