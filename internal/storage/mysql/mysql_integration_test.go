//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"munchen_mate/internal/domain"
	mysqlrepo "munchen_mate/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=mate",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/mate?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_CommitLookupDrop(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	v1 := []domain.AssetResponse{
		{Path: "./", Status: 200, ContentType: "text/html", Body: []byte("<html>v1")},
		{Path: "./data/transport.json", Status: 200, ContentType: "application/json", Body: []byte("[]")},
	}
	if err := repo.Commit(ctx, "munchen-mate-v1", v1); err != nil {
		t.Fatalf("Commit v1: %v", err)
	}
	if err := repo.Commit(ctx, "munchen-mate-v2", []domain.AssetResponse{
		{Path: "/", Status: 200, ContentType: "text/html", Body: []byte("<html>v2")},
	}); err != nil {
		t.Fatalf("Commit v2: %v", err)
	}

	got, ok, err := repo.Lookup(ctx, "munchen-mate-v1", "/data/transport.json")
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if string(got.Body) != "[]" || got.ContentType != "application/json" || got.Status != 200 {
		t.Fatalf("unexpected entry: %+v", got)
	}

	if _, ok, err := repo.Lookup(ctx, "munchen-mate-v2", "/data/transport.json"); err != nil || ok {
		t.Fatalf("expected miss in v2: ok=%v err=%v", ok, err)
	}

	names, err := repo.Names(ctx)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 || names[0] != "munchen-mate-v1" || names[1] != "munchen-mate-v2" {
		t.Fatalf("unexpected names: %v", names)
	}

	if err := repo.Drop(ctx, "munchen-mate-v1"); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if _, ok, _ := repo.Lookup(ctx, "munchen-mate-v1", "/"); ok {
		t.Fatalf("entries survived Drop")
	}
}

func TestRepo_MySQL_RecommitReplacesEntries(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	if err := repo.Commit(ctx, "c", []domain.AssetResponse{{Path: "/a", Status: 200}, {Path: "/b", Status: 200}}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := repo.Commit(ctx, "c", []domain.AssetResponse{{Path: "/a", Status: 200}, {Path: "./a", Status: 200}}); err != nil {
		t.Fatalf("Recommit: %v", err)
	}
	if _, ok, _ := repo.Lookup(ctx, "c", "/b"); ok {
		t.Fatalf("stale entry /b still present")
	}
	if _, ok, _ := repo.Lookup(ctx, "c", "/a"); !ok {
		t.Fatalf("entry /a missing")
	}
}
