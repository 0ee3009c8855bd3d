package domain

import "context"

// AssetFetcher retrieves a single asset. The network origin implements it,
// and so does the cache manager (cache-first).
type AssetFetcher interface {
	Fetch(ctx context.Context, path string) (AssetResponse, error)
}

// AssetStore persists named, write-once asset caches.
type AssetStore interface {
	// Commit stores all entries under name in one atomic step. A cache
	// that already exists under name is replaced.
	Commit(ctx context.Context, name string, entries []AssetResponse) error
	Lookup(ctx context.Context, name, path string) (AssetResponse, bool, error)
	Names(ctx context.Context) ([]string, error)
	Drop(ctx context.Context, name string) error
}

// DatasetLoader returns the decoded records of a named dataset.
type DatasetLoader interface {
	Attractions(ctx context.Context) ([]Attraction, error)
	Clothing(ctx context.Context) ([]ClothingItem, error)
	Phrases(ctx context.Context) ([]Phrase, error)
	Routes(ctx context.Context) ([]TransportRoute, error)
}

// Dataset names, as served under /data/<name>.json.
const (
	DatasetAttractions = "attractions"
	DatasetClothing    = "clothing"
	DatasetPhrases     = "phrases"
	DatasetTransport   = "transport"
)
