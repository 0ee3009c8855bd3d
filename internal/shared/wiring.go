package shared

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"munchen_mate/internal/adapters/origin"
	redisad "munchen_mate/internal/adapters/redis"
	"munchen_mate/internal/domain"
	"munchen_mate/internal/offline"
	mysqlrepo "munchen_mate/internal/storage/mysql"
)

// OpenStore connects the asset store selected by cfg.AssetStore. The
// returned close func is never nil.
func OpenStore(ctx context.Context, cfg Config) (domain.AssetStore, func(), error) {
	switch cfg.AssetStore {
	case StoreRedis:
		s := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, func() {}, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis asset store ok")
		return s, func() { _ = s.Close() }, nil
	case StoreMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, func() {}, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, func() {}, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Msg("mysql asset store ok")
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil
	default:
		return offline.NewMemoryStore(), func() {}, nil
	}
}

// OpenOrigin returns the network side of the cache: a local directory
// when ORIGIN_DIR is set, else the HTTP origin.
func OpenOrigin(cfg Config) (domain.AssetFetcher, error) {
	if cfg.OriginDir != "" {
		log.Info().Str("dir", cfg.OriginDir).Msg("serving app from directory")
		return origin.NewDir(cfg.OriginDir), nil
	}
	c, err := origin.New(cfg.OriginBase, cfg.OriginRPS)
	if err != nil {
		return nil, err
	}
	log.Info().Str("base", cfg.OriginBase).Int("rps", cfg.OriginRPS).Msg("serving app from origin")
	return c, nil
}

// NewManager builds the offline cache manager for cfg over store and net.
func NewManager(cfg Config, store domain.AssetStore, net domain.AssetFetcher) *offline.Manager {
	return offline.NewManager(store, net, cfg.CachePrefix,
		offline.WithWorkers(cfg.InstallWorkers),
		offline.WithStoreLabel(cfg.AssetStore),
		offline.WithLogger(log.Logger),
	)
}
