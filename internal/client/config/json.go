package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/securepass/internal/flagx"
	"github.com/dmitrijs2005/securepass/internal/logging"
	"github.com/dmitrijs2005/securepass/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// ChallengeTimeout uses timex.Duration so it can be "45s" or nanoseconds.
type JsonConfig struct {
	DataDir          string          `json:"data_dir"`
	Backend          string          `json:"backend"`
	AppName          string          `json:"app_name"`
	Verifier         string          `json:"verifier"`
	ChallengeTimeout *timex.Duration `json:"challenge_timeout"`
	LogLevel         string          `json:"log_level"`
	LogBackend       string          `json:"log_backend"`
}

// parseJson overlays cfg with the fields present in the file named by -c or
// -config. Missing fields keep their current values. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.Backend != "" {
		cfg.Backend = Backend(jc.Backend)
	}
	if jc.AppName != "" {
		cfg.AppName = jc.AppName
	}
	if jc.Verifier != "" {
		cfg.Verifier = VerifierKind(jc.Verifier)
	}
	if jc.ChallengeTimeout != nil {
		cfg.ChallengeTimeout = jc.ChallengeTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogBackend != "" {
		cfg.LogBackend = logging.Backend(jc.LogBackend)
	}
}
