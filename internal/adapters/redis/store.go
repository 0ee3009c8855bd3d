package redisad

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/redis/go-redis/v9"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/domain"
)

const (
	namesKey  = "assetcache:names"
	keyPrefix = "assetcache:"
)

// Store keeps each named asset cache in one hash (path -> JSON entry) and
// tracks the cache names in a set.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func NewWithClient(c *redis.Client) *Store { return &Store{c: c} }

func (s *Store) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *Store) Close() error { return s.c.Close() }

func cacheKey(name string) string { return keyPrefix + name }

// Commit replaces the cache in a single MULTI/EXEC transaction.
func (s *Store) Commit(ctx context.Context, name string, entries []domain.AssetResponse) error {
	fields := make([]any, 0, 2*len(entries))
	for _, e := range entries {
		e.Path = domain.AssetKey(e.Path)
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		fields = append(fields, e.Path, b)
	}
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, cacheKey(name))
		if len(fields) > 0 {
			p.HSet(ctx, cacheKey(name), fields...)
		}
		p.SAdd(ctx, namesKey, name)
		return nil
	})
	if err == nil {
		observability.ObserveCache("redis", "commit")
	}
	return err
}

func (s *Store) Lookup(ctx context.Context, name, path string) (domain.AssetResponse, bool, error) {
	v, err := s.c.HGet(ctx, cacheKey(name), domain.AssetKey(path)).Bytes()
	if err == redis.Nil {
		return domain.AssetResponse{}, false, nil
	}
	if err != nil {
		return domain.AssetResponse{}, false, err
	}
	var out domain.AssetResponse
	if err := json.Unmarshal(v, &out); err != nil {
		return domain.AssetResponse{}, false, err
	}
	return out, true, nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	names, err := s.c.SMembers(ctx, namesKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Drop(ctx context.Context, name string) error {
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, cacheKey(name))
		p.SRem(ctx, namesKey, name)
		return nil
	})
	if err == nil {
		observability.ObserveCache("redis", "drop")
	}
	return err
}
