package origin

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/domain"
)

// Dir serves assets from a file system, e.g. the checked-out web app.
type Dir struct {
	fsys fs.FS
}

func NewDir(root string) *Dir { return &Dir{fsys: os.DirFS(root)} }

func NewFS(fsys fs.FS) *Dir { return &Dir{fsys: fsys} }

// Fetch maps "/" to index.html. Missing files yield a 404 response.
func (d *Dir) Fetch(ctx context.Context, p string) (domain.AssetResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.AssetResponse{}, err
	}
	key := domain.AssetKey(p)
	name := strings.TrimPrefix(key, "/")
	if name == "" || strings.HasSuffix(key, "/") {
		name = path.Join(name, "index.html")
	}

	start := time.Now()
	b, err := fs.ReadFile(d.fsys, name)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
		observability.ObserveExternal("dir", kind(key), http.StatusNotFound, time.Since(start))
		return domain.AssetResponse{Path: key, Status: http.StatusNotFound, ContentType: "text/plain; charset=utf-8", Body: []byte("not found")}, nil
	case err != nil:
		return domain.AssetResponse{}, err
	}
	observability.ObserveExternal("dir", kind(key), http.StatusOK, time.Since(start))

	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = http.DetectContentType(b)
	}
	return domain.AssetResponse{Path: key, Status: http.StatusOK, ContentType: ct, Body: b}, nil
}
