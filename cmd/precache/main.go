package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/domain"
	"munchen_mate/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	manifest, err := shared.LoadManifest(cfg.ManifestFile)
	if err != nil {
		log.Fatal().Err(err).Msg("manifest")
	}
	log.Info().
		Str("version", manifest.Version).
		Int("assets", len(manifest.Assets)).
		Str("store", cfg.AssetStore).
		Int("workers", cfg.InstallWorkers).
		Msg("precache starting")

	store, closeStore, err := shared.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("asset store")
	}
	defer closeStore()
	net, err := shared.OpenOrigin(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("origin")
	}

	// 2) fetch everything and commit in one step
	if err := shared.NewManager(cfg, store, net).Install(ctx, manifest); err != nil {
		log.Error().Err(err).Msg("install failed")
		closeStore()
		os.Exit(1)
	}

	// 3) read every entry back from the store
	name := manifest.CacheName(cfg.CachePrefix)
	sem := semaphore.NewWeighted(int64(max(cfg.InstallWorkers, 1)))
	var wg sync.WaitGroup
	var missing atomic.Int32

	for _, p := range manifest.Assets {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(asset string) {
			defer wg.Done()
			defer sem.Release(1)

			resp, ok, err := store.Lookup(ctx, name, asset)
			switch {
			case err != nil:
				log.Warn().Str("asset", asset).Err(err).Msg("verify failed")
				missing.Add(1)
			case !ok:
				log.Warn().Str("asset", asset).Msg("asset missing from cache")
				missing.Add(1)
			default:
				log.Debug().Str("asset", domain.AssetKey(asset)).Int("bytes", len(resp.Body)).Msg("asset ok")
			}
		}(p)
	}

	wg.Wait()
	if n := missing.Load(); n > 0 {
		log.Error().Int32("missing", n).Str("cache", name).Msg("precache incomplete")
		closeStore()
		os.Exit(1)
	}
	log.Info().Str("cache", name).Msg("precache completed")
}
