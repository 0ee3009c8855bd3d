package shared

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"munchen_mate/internal/domain"
)

const (
	DefaultCachePrefix = "munchen-mate"
	DefaultVersion     = "v2"
)

// DefaultManifest is the app shell plus the four datasets.
func DefaultManifest() domain.Manifest {
	return domain.Manifest{
		Version: DefaultVersion,
		Assets: []string{
			"./",
			"./index.html",
			"./css/style.css",
			"./js/app.js",
			"./data/attractions.json",
			"./data/clothing.json",
			"./data/phrases.json",
			"./data/transport.json",
			"./images/icon.png",
		},
	}
}

// LoadManifest reads a manifest of the form
//
//	version: v3
//	assets:
//	  - ./
//	  - ./index.html
//
// An empty path yields DefaultManifest.
func LoadManifest(path string) (domain.Manifest, error) {
	if path == "" {
		return DefaultManifest(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Manifest{}, err
	}
	var m domain.Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return domain.Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.Version = strings.TrimSpace(m.Version)
	if m.Version == "" {
		return domain.Manifest{}, fmt.Errorf("manifest %s: %w: version is required", path, domain.ErrInvalidInput)
	}
	if len(m.Assets) == 0 {
		return domain.Manifest{}, fmt.Errorf("manifest %s: %w: no assets listed", path, domain.ErrInvalidInput)
	}
	return m, nil
}

// LoadInterests reads an interest table, one interest per key mapping to
// the tag keywords it selects:
//
//	art: [art, museum]
//	food: [food, beer]
//
// An empty path yields nil, meaning the built-in table.
func LoadInterests(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string][]string
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("interests %s: %w", path, err)
	}
	for k, v := range m {
		if len(v) == 0 {
			return nil, fmt.Errorf("interests %s: %w: %q has no keywords", path, domain.ErrInvalidInput, k)
		}
	}
	return m, nil
}
