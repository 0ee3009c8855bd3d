package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/domain"
)

// entries per INSERT statement; keeps placeholders well under the 65535 limit
const batchSize = 200

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Repo is an AssetStore backed by the asset_caches and asset_entries tables.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Commit(ctx context.Context, name string, entries []domain.AssetResponse) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertCacheSQL, name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, deleteEntriesSQL, name); err != nil {
		return err
	}
	// the manifest may list a path twice in different spellings; last one wins
	byKey := make(map[string]domain.AssetResponse, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		k := domain.AssetKey(e.Path)
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		e.Path = k
		byKey[k] = e
	}
	for start := 0; start < len(order); start += batchSize {
		end := min(start+batchSize, len(order))
		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*5)
		for _, k := range order[start:end] {
			e := byKey[k]
			body := e.Body
			if body == nil {
				body = []byte{}
			}
			values = append(values, "(?,?,?,?,?)")
			args = append(args, name, e.Path, e.Status, valStr(e.ContentType), body)
		}
		if _, err = tx.ExecContext(ctx, insertEntriesPrefix+strings.Join(values, ","), args...); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	observability.ObserveCache("mysql", "commit")
	return nil
}

func (r *Repo) Lookup(ctx context.Context, name, path string) (domain.AssetResponse, bool, error) {
	var out domain.AssetResponse
	var ct sql.NullString
	err := r.db.QueryRowContext(ctx, lookupEntrySQL, name, domain.AssetKey(path)).
		Scan(&out.Path, &out.Status, &ct, &out.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AssetResponse{}, false, nil
	}
	if err != nil {
		return domain.AssetResponse{}, false, err
	}
	if ct.Valid {
		out.ContentType = ct.String
	}
	return out, true, nil
}

func (r *Repo) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listCachesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) Drop(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, deleteCacheSQL, name); err != nil {
		return err
	}
	observability.ObserveCache("mysql", "drop")
	return nil
}
