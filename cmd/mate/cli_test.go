package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"munchen_mate/internal/adapters/dataset"
	"munchen_mate/internal/adapters/origin"
	"munchen_mate/internal/app"
	"munchen_mate/internal/domain"
	"munchen_mate/internal/offline"
)

var testApp = fstest.MapFS{
	"index.html": {Data: []byte("<html>")},
	"data/attractions.json": {Data: []byte(`[
		{"name": "Residenz", "tags": ["history", "royal", "must_see"]},
		{"name": "Alte Pinakothek", "tags": ["art", "museum"]}
	]`)},
	"data/clothing.json": {Data: []byte(`[
		{"item": "Jeans", "category": "Clothes", "min_temp": -10, "max_temp": 25, "rule": "1_per_2_days"}
	]`)},
	"data/phrases.json": {Data: []byte(`[
		{"de": "Danke", "en": "Thank you", "es": "Gracias", "category": "Basics"}
	]`)},
	"data/transport.json": {Data: []byte(`[
		{"from": "Airport", "to": "Central Station", "line": "S8"}
	]`)},
}

// setupTestApp wires the CLI to an in-memory store and a fake origin that
// outlive a single command, so cache commands can be chained.
func setupTestApp(t *testing.T) (*cli.App, *bytes.Buffer) {
	t.Helper()
	store := offline.NewMemoryStore()
	manifest := domain.Manifest{Version: "v2", Assets: []string{"./", "./data/attractions.json"}}
	build := func(c *cli.Context) (*services, func(), error) {
		cache := offline.NewManager(store, origin.NewFS(testApp), "munchen-mate", offline.WithLogger(zerolog.Nop()))
		cmds := app.NewCommandService(cache, manifest)
		_ = cmds.ActivateCache(c.Context, manifest.Version)
		q := app.NewQueryService(app.NewCatalog(dataset.New(cache)), app.NewPlanner(nil, nil), app.NoDelay)
		return &services{Q: q, C: cmds}, func() {}, nil
	}
	var out bytes.Buffer
	return newCLIApp(&out, build), &out
}

func run(t *testing.T, a *cli.App, out *bytes.Buffer, args ...string) []byte {
	t.Helper()
	out.Reset()
	if err := a.RunContext(context.Background(), append([]string{"mate"}, args...)); err != nil {
		t.Fatalf("mate %v: %v", args, err)
	}
	return out.Bytes()
}

func TestCLI_Plan(t *testing.T) {
	a, out := setupTestApp(t)
	var it app.Itinerary
	if err := json.Unmarshal(run(t, a, out, "plan", "--days", "1", "--per-day", "5", "-i", "art"), &it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(it.Days) != 1 || len(it.Days[0].Attractions) != 1 || it.Days[0].Attractions[0].Name != "Alte Pinakothek" {
		t.Fatalf("unexpected plan: %+v", it)
	}
}

func TestCLI_Pack(t *testing.T) {
	a, out := setupTestApp(t)
	var list app.PackingList
	if err := json.Unmarshal(run(t, a, out, "pack", "--days", "5", "--temp", "12"), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Groups) != 1 || list.Groups[0].Items[0].Label != "3x Jeans" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCLI_PhraseAndRoute(t *testing.T) {
	a, out := setupTestApp(t)

	var ps app.PhraseSearch
	if err := json.Unmarshal(run(t, a, out, "phrase", "thank"), &ps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ps.State != app.SearchMatches || ps.Phrases[0].German != "Danke" {
		t.Fatalf("unexpected search: %+v", ps)
	}

	var rr app.RouteResult
	if err := json.Unmarshal(run(t, a, out, "route", "--from", "Airport", "--to", "Central Station"), &rr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rr.Found || rr.Route.Line != "S8" {
		t.Fatalf("unexpected route: %+v", rr)
	}

	var ep app.RouteEndpoints
	if err := json.Unmarshal(run(t, a, out, "route"), &ep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ep.Destinations) != 1 || ep.Destinations[0] != "Central Station" {
		t.Fatalf("unexpected endpoints: %+v", ep)
	}
}

func TestCLI_CacheInstallStatusPrune(t *testing.T) {
	a, out := setupTestApp(t)

	var rep cacheReport
	if err := json.Unmarshal(run(t, a, out, "cache", "install"), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Status.Active != "munchen-mate-v2" {
		t.Fatalf("unexpected install report: %+v", rep)
	}

	// a fresh process picks the installed version up again
	if err := json.Unmarshal(run(t, a, out, "cache", "status"), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Status.State != offline.StateInstalled || len(rep.Installed) != 1 {
		t.Fatalf("unexpected status: %+v", rep)
	}

	if err := json.Unmarshal(run(t, a, out, "cache", "prune"), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rep.Dropped) != 0 || len(rep.Installed) != 1 {
		t.Fatalf("unexpected prune: %+v", rep)
	}
}

func TestCLI_ActivateUnknownVersionFails(t *testing.T) {
	a, _ := setupTestApp(t)
	err := a.RunContext(context.Background(), []string{"mate", "cache", "activate", "v9"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if ec, ok := err.(cli.ExitCoder); !ok || ec.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
}
