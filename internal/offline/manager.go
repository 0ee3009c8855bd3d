// Package offline keeps versioned, write-once caches of the app's own
// static assets and serves them cache-first.
package offline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/domain"
)

type State int

const (
	StateUninstalled State = iota
	StateInstalling
	StateInstalled
	// StateActivating: a new version is being installed while the
	// previous one keeps serving.
	StateActivating
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	default:
		return "uninstalled"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "uninstalled":
		*s = StateUninstalled
	case "installing":
		*s = StateInstalling
	case "installed":
		*s = StateInstalled
	case "activating":
		*s = StateActivating
	default:
		return fmt.Errorf("unknown cache state %q", b)
	}
	return nil
}

type Status struct {
	State   State  `json:"state"`
	Active  string `json:"active,omitempty"`
	Version string `json:"version,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type Manager struct {
	store   domain.AssetStore
	network domain.AssetFetcher
	prefix  string
	workers int
	label   string
	log     zerolog.Logger

	mu      sync.RWMutex
	state   State
	active  string
	version string
	pending string
}

type Option func(*Manager)

// WithWorkers bounds the number of concurrent fetches during install.
func WithWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithStoreLabel names the store in cache metrics.
func WithStoreLabel(s string) Option { return func(m *Manager) { m.label = s } }

func NewManager(store domain.AssetStore, network domain.AssetFetcher, prefix string, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		network: network,
		prefix:  prefix,
		workers: 4,
		label:   "store",
		log:     log.Logger,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{State: m.state, Active: m.active, Version: m.version, Pending: m.pending}
}

// Install fetches every manifest asset and commits them as a new named
// cache. Nothing is committed unless all fetches succeed; on failure the
// previously active cache keeps serving.
func (m *Manager) Install(ctx context.Context, man domain.Manifest) error {
	if man.Version == "" {
		return fmt.Errorf("%w: %w: manifest version is empty", domain.ErrCacheInstall, domain.ErrInvalidInput)
	}
	name := man.CacheName(m.prefix)

	m.mu.Lock()
	if m.pending != "" {
		m.mu.Unlock()
		return domain.ErrInstallInProgress
	}
	prev := m.state
	m.pending = man.Version
	if m.active == "" {
		m.state = StateInstalling
	} else {
		m.state = StateActivating
	}
	m.mu.Unlock()

	entries, err := m.fetchAll(ctx, man.Assets)
	if err == nil {
		err = m.store.Commit(ctx, name, entries)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = ""
	if err != nil {
		m.state = prev
		observability.ObserveCache(m.label, "install_fail")
		m.log.Error().Err(err).Str("cache", name).Str("serving", m.active).Msg("asset cache install failed")
		return fmt.Errorf("%w: %s: %w", domain.ErrCacheInstall, name, err)
	}
	m.state, m.active, m.version = StateInstalled, name, man.Version
	observability.ObserveCache(m.label, "install_ok")
	m.log.Info().Str("cache", name).Int("assets", len(entries)).Msg("asset cache installed")
	return nil
}

func (m *Manager) fetchAll(ctx context.Context, assets []string) ([]domain.AssetResponse, error) {
	keys := make([]string, 0, len(assets))
	for _, a := range assets {
		if k := domain.AssetKey(a); !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}

	out := make([]domain.AssetResponse, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, k := range keys {
		g.Go(func() error {
			resp, err := m.network.Fetch(gctx, k)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", k, err)
			}
			if resp.Status < 200 || resp.Status > 299 {
				return fmt.Errorf("fetch %s: status %d", k, resp.Status)
			}
			resp.Path = k
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Serve answers from the active cache and only falls back to the network
// on a miss. Network responses are not written back.
func (m *Manager) Serve(ctx context.Context, path string) (domain.AssetResponse, error) {
	key := domain.AssetKey(path)
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()

	if active != "" {
		resp, ok, err := m.store.Lookup(ctx, active, key)
		switch {
		case err != nil:
			m.log.Warn().Err(err).Str("cache", active).Str("path", key).Msg("asset cache lookup failed; using network")
		case ok:
			observability.ObserveCache(m.label, "hit")
			return resp, nil
		}
	}
	observability.ObserveCache(m.label, "miss")
	return m.network.Fetch(ctx, key)
}

// Fetch makes the manager usable wherever an AssetFetcher is expected.
func (m *Manager) Fetch(ctx context.Context, path string) (domain.AssetResponse, error) {
	return m.Serve(ctx, path)
}

// Activate switches serving to an already installed version, e.g. to roll
// back or to resume after a restart.
func (m *Manager) Activate(ctx context.Context, version string) error {
	name := domain.Manifest{Version: version}.CacheName(m.prefix)
	names, err := m.store.Names(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return fmt.Errorf("cache %s: %w", name, domain.ErrNotFound)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.active, m.version = name, version
	if m.pending == "" {
		m.state = StateInstalled
	}
	m.log.Info().Str("cache", name).Msg("asset cache activated")
	return nil
}

// Caches lists the cache names held by the store, installed by this
// process or an earlier one.
func (m *Manager) Caches(ctx context.Context) ([]string, error) {
	return m.store.Names(ctx)
}

// Prune drops every cache except the active one and one being installed.
func (m *Manager) Prune(ctx context.Context) ([]string, error) {
	names, err := m.store.Names(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	keep := []string{m.active}
	if m.pending != "" {
		keep = append(keep, domain.Manifest{Version: m.pending}.CacheName(m.prefix))
	}
	m.mu.RUnlock()

	var dropped []string
	var errs []error
	for _, n := range names {
		if slices.Contains(keep, n) {
			continue
		}
		if err := m.store.Drop(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("drop %s: %w", n, err))
			continue
		}
		dropped = append(dropped, n)
	}
	if len(dropped) > 0 {
		m.log.Info().Strs("dropped", dropped).Msg("asset caches pruned")
	}
	return dropped, errors.Join(errs...)
}
