package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/securepass/internal/client/repositories/keystore"
	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/dmitrijs2005/securepass/internal/logging"
)

// Backend selects the secure store implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// VerifierKind selects the local authentication capability.
type VerifierKind string

const (
	VerifierPasscode VerifierKind = "passcode"
	VerifierNone     VerifierKind = "none"
)

// Config holds runtime settings for the SecurePass CLI.
//
// ChallengeTimeout bounds a single authentication prompt; zero disables
// the bound.
type Config struct {
	DataDir          string
	Backend          Backend
	AppName          string
	Verifier         VerifierKind
	ChallengeTimeout time.Duration
	LogLevel         string
	LogBackend       logging.Backend
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "./securepass-data"
	c.Backend = BackendSQLite
	c.AppName = common.DefaultAppName
	c.Verifier = VerifierPasscode
	c.ChallengeTimeout = 60 * time.Second
	c.LogLevel = "info"
	c.LogBackend = logging.BackendSlog
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Verifier {
	case VerifierPasscode, VerifierNone:
	default:
		return fmt.Errorf("unknown verifier %q", c.Verifier)
	}
	switch c.LogBackend {
	case logging.BackendSlog, logging.BackendZap:
	default:
		return fmt.Errorf("unknown log backend %q", c.LogBackend)
	}
	if c.AppName == "" {
		return fmt.Errorf("app name is empty")
	}
	if !keystore.ValidName(common.KeyName(c.AppName)) {
		return fmt.Errorf("app name %q may only contain letters, digits, '.', '_' and '-'", c.AppName)
	}
	if c.ChallengeTimeout < 0 {
		return fmt.Errorf("negative challenge timeout %s", c.ChallengeTimeout)
	}
	return nil
}

// DatabasePath is the SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "vault.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
