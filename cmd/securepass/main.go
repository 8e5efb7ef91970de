package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/securepass/internal/buildinfo"
	"github.com/dmitrijs2005/securepass/internal/client/cli"
	"github.com/dmitrijs2005/securepass/internal/client/config"
	"github.com/dmitrijs2005/securepass/internal/logging"
)

func main() {
	// Runs after app.Run returns, including on Ctrl-C via ctx.
	defer memguard.Purge()

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
