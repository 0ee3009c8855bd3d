package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"munchen_mate/internal/adapters/dataset"
	server "munchen_mate/internal/adapters/http_server"
	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/app"
	"munchen_mate/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	manifest, err := shared.LoadManifest(cfg.ManifestFile)
	if err != nil {
		log.Fatal().Err(err).Msg("manifest")
	}
	interests, err := shared.LoadInterests(cfg.InterestsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("interest table")
	}

	// deps
	store, closeStore, err := shared.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("asset store")
	}
	defer closeStore()
	net, err := shared.OpenOrigin(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("origin")
	}
	cache := shared.NewManager(cfg, store, net)

	catalog := app.NewCatalog(dataset.New(cache))
	q := app.NewQueryService(catalog, app.NewPlanner(nil, interests), app.FixedDelay(cfg.PresentationDelay))
	c := app.NewCommandService(cache, manifest)
	sessions := app.NewSessions()

	if cfg.InstallOnStart {
		// the app stays usable online while this runs
		go func() {
			if err := c.ResumeOrInstall(ctx); err != nil {
				log.Error().Err(err).Str("version", manifest.Version).Msg("offline cache not ready")
				return
			}
			log.Info().Str("version", manifest.Version).Msg("offline cache ready")
		}()
	}

	go func() {
		t := time.NewTicker(cfg.SessionIdle / 2)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := sessions.Evict(cfg.SessionIdle); n > 0 {
					log.Debug().Int("evicted", n).Int("live", sessions.Len()).Msg("idle sessions dropped")
				}
			}
		}
	}()

	// http
	srv := server.New(log.Logger)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c, Sessions: sessions, Assets: cache})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.AssetStore).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
