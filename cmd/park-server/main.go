package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ngmaloney/park-terminal/internal/config"
	"github.com/ngmaloney/park-terminal/internal/metrics"
	"github.com/ngmaloney/park-terminal/internal/nps"
	"github.com/ngmaloney/park-terminal/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML config file")
		addr       = flag.String("addr", "", "Listen address, overrides server.listen_address")
	)
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.ListenAddress = addr
	}

	logger, closeLog, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := cfg.Validate(); errors.Is(err, config.ErrMissingAPIKey) {
		logger.Warn("NPS API key not configured; /api/parks will fail", "env", config.APIKeyEnv)
	}

	m := metrics.New()
	client := nps.NewClient(cfg.NPS, nps.WithLogger(logger), nps.WithMetrics(m))
	h := server.NewHandler(nps.NewService(client), m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Server, h.Router(), logger); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
