// Package config loads runtime configuration for the SecurePass CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   data directory (default ./securepass-data)
//	-b string   secure store backend: sqlite | file | memory
//	-v string   local verifier: passcode | none
//	-t int      authentication timeout (seconds)
//
// # JSON schema
//
//	{
//	  "data_dir": "/home/me/.securepass",
//	  "backend": "sqlite",
//	  "app_name": "securepass",
//	  "verifier": "passcode",
//	  "challenge_timeout": "45s",
//	  "log_level": "info",
//	  "log_backend": "zap"
//	}
//
// Fields absent from the file keep their default.
package config
