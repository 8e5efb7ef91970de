package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/securepass/internal/client/config"
	"github.com/dmitrijs2005/securepass/internal/client/localauth"
	"github.com/dmitrijs2005/securepass/internal/client/repositories/keystore"
	"github.com/dmitrijs2005/securepass/internal/client/services"
	"github.com/dmitrijs2005/securepass/internal/client/storage"
	"github.com/dmitrijs2005/securepass/internal/filex"
	"github.com/dmitrijs2005/securepass/internal/logging"
)

// enroller is implemented by verifiers that can register a passcode.
type enroller interface {
	Enroll(ctx context.Context, passcode []byte) error
}

type App struct {
	config   *config.Config
	log      logging.Logger
	passes   services.PassService
	enroller enroller
	db       *sql.DB

	unlocked bool
	message  string

	promptMu   sync.Mutex
	promptDone chan struct{}

	reader *bufio.Reader
	out    io.Writer
}

// openStore builds the secure store selected by cfg.Backend.
func openStore(ctx context.Context, cfg *config.Config) (keystore.Store, *sql.DB, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return keystore.NewMemoryStore(), nil, nil
	case config.BackendFile:
		s, err := keystore.NewFileStore(filepath.Join(cfg.DataDir, "secrets"))
		return s, nil, err
	case config.BackendSQLite:
		if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
			return nil, nil, err
		}
		db, err := storage.InitDatabase(ctx, cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return keystore.NewSQLiteStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	store, db, err := openStore(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing secure store", "backend", c.Backend, "error", err)
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	var verifier localauth.Verifier = localauth.Disabled{}
	if c.Verifier == config.VerifierPasscode {
		pv := localauth.NewPasscodeVerifier(store, c.AppName, a.promptPasscode)
		verifier, a.enroller = pv, pv
	}

	gate := services.NewGate(verifier, log.With("component", "gate"), c.ChallengeTimeout)
	a.passes = services.NewPassService(store, gate, log.With("component", "passes"), c.AppName)
	return a, nil
}

// promptPasscode is the PromptFunc handed to the passcode verifier.
// The terminal read cannot be interrupted, so it is tracked until it returns.
func (a *App) promptPasscode(_ context.Context, reason string) ([]byte, error) {
	done := make(chan struct{})
	a.promptMu.Lock()
	a.promptDone = done
	a.promptMu.Unlock()
	defer close(done)

	return GetPasscode(a.out, reason)
}

// waitPrompt blocks until a prompt left open by a cancelled or timed out
// challenge is dismissed, so the REPL never reads stdin alongside it.
func (a *App) waitPrompt() {
	a.promptMu.Lock()
	done := a.promptDone
	a.promptMu.Unlock()
	if done == nil {
		return
	}

	select {
	case <-done:
		return
	default:
	}
	printlnFn("Authentication timed out, press Enter to dismiss the prompt.")
	<-done
}

func (a *App) isUnlocked() bool {
	return a.unlocked
}

func (a *App) getStatus() string {
	if a.unlocked {
		return "(unlocked)"
	}
	return "(locked)"
}

// Run starts the REPL and blocks until the user leaves or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to SecurePass (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// Close locks the vault and releases the database, if any.
func (a *App) Close() {
	a.passes.Lock()
	if a.db != nil {
		_ = a.db.Close()
	}
}
