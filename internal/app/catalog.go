package app

import (
	"context"
	"sync"

	"munchen_mate/internal/domain"
)

// snapshot loads a dataset once and then serves the same slice. A failed
// load is not remembered, so the next caller tries again.
type snapshot[T any] struct {
	mu     sync.Mutex
	loaded bool
	items  []T
}

func (s *snapshot[T]) get(ctx context.Context, load func(context.Context) ([]T, error)) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.items, nil
	}
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	s.items, s.loaded = items, true
	return items, nil
}

// Catalog owns the immutable dataset snapshots shared by all sessions.
// Callers must not modify the returned slices.
type Catalog struct {
	loader      domain.DatasetLoader
	attractions snapshot[domain.Attraction]
	clothing    snapshot[domain.ClothingItem]
	phrases     snapshot[domain.Phrase]
	routes      snapshot[domain.TransportRoute]
}

func NewCatalog(l domain.DatasetLoader) *Catalog {
	return &Catalog{loader: l}
}

func (c *Catalog) Attractions(ctx context.Context) ([]domain.Attraction, error) {
	return c.attractions.get(ctx, c.loader.Attractions)
}

func (c *Catalog) Clothing(ctx context.Context) ([]domain.ClothingItem, error) {
	return c.clothing.get(ctx, c.loader.Clothing)
}

func (c *Catalog) Phrases(ctx context.Context) ([]domain.Phrase, error) {
	return c.phrases.get(ctx, c.loader.Phrases)
}

func (c *Catalog) Routes(ctx context.Context) ([]domain.TransportRoute, error) {
	return c.routes.get(ctx, c.loader.Routes)
}
