package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/securepass/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   data directory
//	-b string   secure store backend: sqlite, file or memory
//	-v string   verifier: passcode or none
//	-t int      challenge timeout in seconds, 0 for none
//
// os.Args is filtered with flagx.FilterArgs so -c/-config stay with the
// JSON layer.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-v", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	backend := fs.String("b", string(cfg.Backend), "secure store backend (sqlite|file|memory)")
	verifier := fs.String("v", string(cfg.Verifier), "local verifier (passcode|none)")
	timeout := fs.Int("t", int(cfg.ChallengeTimeout.Seconds()), "authentication timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Backend = Backend(*backend)
	cfg.Verifier = VerifierKind(*verifier)
	cfg.ChallengeTimeout = time.Duration(*timeout) * time.Second
}
