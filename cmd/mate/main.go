package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"munchen_mate/internal/adapters/dataset"
	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/app"
	"munchen_mate/internal/shared"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	// stdout carries the JSON results, logs go to stderr
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newCLIApp(os.Stdout, buildFromConfig(cfg)).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildFromConfig(cfg shared.Config) buildFunc {
	return func(c *cli.Context) (*services, func(), error) {
		if d := c.String("dir"); d != "" {
			cfg.OriginDir, cfg.OriginBase = d, ""
		}
		if o := c.String("origin"); o != "" {
			cfg.OriginDir, cfg.OriginBase = "", o
		}
		if s := c.String("store"); s != "" {
			cfg.AssetStore = strings.ToLower(s)
		}

		manifest, err := shared.LoadManifest(cfg.ManifestFile)
		if err != nil {
			return nil, nil, err
		}
		interests, err := shared.LoadInterests(cfg.InterestsFile)
		if err != nil {
			return nil, nil, err
		}
		store, closeStore, err := shared.OpenStore(c.Context, cfg)
		if err != nil {
			return nil, nil, err
		}
		net, err := shared.OpenOrigin(cfg)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		cache := shared.NewManager(cfg, store, net)
		cmds := app.NewCommandService(cache, manifest)
		// read through a cache an earlier run left behind, if any
		_ = cmds.ActivateCache(c.Context, manifest.Version)

		q := app.NewQueryService(app.NewCatalog(dataset.New(cache)), app.NewPlanner(nil, interests), app.NoDelay)
		return &services{Q: q, C: cmds}, closeStore, nil
	}
}
