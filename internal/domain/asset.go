package domain

import (
	"fmt"
	"path"
	"strings"
)

// Manifest lists the assets a cache version must hold to be ready.
type Manifest struct {
	Version string   `yaml:"version" json:"version"`
	Assets  []string `yaml:"assets" json:"assets"`
}

// CacheName embeds the manifest version, e.g. "munchen-mate-v2".
func (m Manifest) CacheName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, m.Version)
}

type AssetResponse struct {
	Path        string `json:"path"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// AssetKey normalises a request or manifest path so that "./index.html",
// "index.html" and "/index.html" address the same entry. "./" is "/".
func AssetKey(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "." {
		p = ""
	}
	p = strings.TrimPrefix(p, "./")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
