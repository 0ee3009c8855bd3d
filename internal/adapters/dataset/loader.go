// Package dataset decodes the static JSON datasets served under /data/.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"munchen_mate/internal/domain"
)

// Loader fetches datasets through any asset fetcher; in the server that is
// the offline cache manager, so datasets are read cache-first.
type Loader struct {
	src domain.AssetFetcher
}

func New(src domain.AssetFetcher) *Loader { return &Loader{src: src} }

func Path(name string) string { return "/data/" + name + ".json" }

func (l *Loader) Attractions(ctx context.Context) ([]domain.Attraction, error) {
	return load[domain.Attraction](ctx, l.src, domain.DatasetAttractions)
}

// Clothing drops items whose temperature range is inverted.
func (l *Loader) Clothing(ctx context.Context) ([]domain.ClothingItem, error) {
	items, err := load[domain.ClothingItem](ctx, l.src, domain.DatasetClothing)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, it := range items {
		if err := it.Validate(); err != nil {
			log.Warn().Err(err).Str("dataset", domain.DatasetClothing).Msg("skipping clothing item")
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (l *Loader) Phrases(ctx context.Context) ([]domain.Phrase, error) {
	return load[domain.Phrase](ctx, l.src, domain.DatasetPhrases)
}

func (l *Loader) Routes(ctx context.Context) ([]domain.TransportRoute, error) {
	return load[domain.TransportRoute](ctx, l.src, domain.DatasetTransport)
}

func load[T any](ctx context.Context, src domain.AssetFetcher, name string) ([]T, error) {
	resp, err := src.Fetch(ctx, Path(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, name, err)
	}
	if resp.Status != 200 {
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrDataUnavailable, name, resp.Status)
	}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || body[0] != '[' {
		return nil, fmt.Errorf("%w: %s: payload is not a JSON array", domain.ErrDataUnavailable, name)
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, name, err)
	}
	log.Debug().Str("dataset", name).Int("records", len(out)).Msg("dataset loaded")
	return out, nil
}
