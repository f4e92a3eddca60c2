// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

// gossamer-sync is the synchronization daemon. It loads the client
// configuration, opens the record store, connects the push and poll
// sources, and runs the reconciliation engine until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/gossamer-forge/gossamer/lib/config"
	"github.com/gossamer-forge/gossamer/lib/engine"
	"github.com/gossamer-forge/gossamer/lib/forge"
	"github.com/gossamer-forge/gossamer/lib/kv"
	"github.com/gossamer-forge/gossamer/lib/process"
	"github.com/gossamer-forge/gossamer/lib/store"
	"github.com/gossamer-forge/gossamer/lib/version"
	"github.com/gossamer-forge/gossamer/network"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var configPath string
	var logLevel string
	var showVersion bool

	flags := pflag.NewFlagSet("gossamer-sync", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "path to gossamer.yaml (default: $GOSSAMER_CONFIG)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Println("gossamer-sync", version.Full())
		return nil
	}

	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	self, err := cfg.SelfIdentity()
	if err != nil {
		return err
	}

	backend, cleanup, err := openBackend(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	recordStore := store.New(backend, logger)

	bindings := make([]engine.Binding, 0, len(cfg.Containers))
	for _, cc := range cfg.Containers {
		container, err := cc.Resolve()
		if err != nil {
			return err
		}
		bindings = append(bindings, engine.Binding{
			Container: container,
			Owner:     cc.ForgeOwner,
			Repo:      cc.ForgeRepo,
		})
	}

	poller, err := buildPoller(cfg, logger)
	if err != nil {
		return err
	}

	pollInterval, err := cfg.Poll.IntervalDuration()
	if err != nil {
		return err
	}
	pollTimeout, err := cfg.Poll.TimeoutDuration()
	if err != nil {
		return err
	}

	// The relay protocol transport is not wired yet: publishes loop
	// back locally and no remote events arrive. The engine sees the
	// same Relay interface either way.
	// TODO: replace the loopback with a wss client for cfg.Network.Relays.
	relay := network.NewLoopback(self, nil)
	logger.Warn("relay transport not yet implemented, running with local loopback",
		"configured_relays", cfg.Network.Relays)

	eng, err := engine.New(engine.Config{
		Store:        recordStore,
		Relay:        relay,
		Self:         self,
		Poller:       poller,
		Bindings:     bindings,
		Policy:       cfg.Roles.Policy(),
		PollInterval: pollInterval,
		PollTimeout:  pollTimeout,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("gossamer-sync running",
		"identity", self,
		"containers", len(bindings),
		"poll_interval", pollInterval,
	)

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutting down")
	return nil
}

// openBackend opens the configured persistence backend, wrapped with
// value compression. The cleanup function closes it.
func openBackend(cfg config.StoreConfig, logger *slog.Logger) (kv.KV, func(), error) {
	if cfg.Path == "" {
		logger.Info("using in-memory store", "quota_bytes", cfg.QuotaBytes)
		return kv.NewCompressed(kv.NewMemory(int(cfg.QuotaBytes)), 0), func() {}, nil
	}
	db, err := kv.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store %s: %w", cfg.Path, err)
	}
	logger.Info("using sqlite store", "path", cfg.Path)
	return kv.NewCompressed(db, 0), func() { db.Close() }, nil
}

// buildPoller constructs the forge poller when any container binds a
// forge repository. Nil disables polling.
func buildPoller(cfg *config.Config, logger *slog.Logger) (engine.Poller, error) {
	bound := false
	for _, cc := range cfg.Containers {
		if cc.ForgeOwner != "" {
			bound = true
			break
		}
	}
	if !bound {
		return nil, nil
	}

	token, err := cfg.Forge.ResolveToken()
	if err != nil {
		return nil, err
	}
	client, err := forge.NewClient(forge.Config{
		BaseURL: cfg.Forge.BaseURL,
		Token:   token,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return &engine.ForgePoller{Client: client}, nil
}

func parseLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", raw)
	}
}
