package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"munchen_mate/internal/app"
	"munchen_mate/internal/domain"
	"munchen_mate/internal/offline"
)

// services is what the commands run against; built lazily so that
// --help works without a store or origin.
type services struct {
	Q *app.QueryService
	C *app.CommandService
}

type buildFunc func(c *cli.Context) (*services, func(), error)

func newCLIApp(out io.Writer, build buildFunc) *cli.App {
	a := &cli.App{
		Name:    "mate",
		Usage:   "Munich travel helper: plans, packing lists, phrases, routes",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "Serve the app from this directory (overrides ORIGIN_DIR)"},
			&cli.StringFlag{Name: "origin", Usage: "Serve the app from this base URL (overrides ORIGIN_BASE_URL)"},
			&cli.StringFlag{Name: "store", Usage: "Asset store: memory|redis|mysql (overrides ASSET_STORE)"},
		},
		Commands: []*cli.Command{
			planCmd(out, build),
			packCmd(out, build),
			phraseCmd(out, build),
			routeCmd(out, build),
			cacheCmd(out, build),
		},
	}
	// keep errors as return values so tests can see them
	a.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return a
}

// withServices builds the services, runs fn and releases them.
func withServices(c *cli.Context, build buildFunc, fn func(*services) error) error {
	s, closeFn, err := build(c)
	if err != nil {
		return outputError(err)
	}
	defer closeFn()
	if err := fn(s); err != nil {
		return outputError(err)
	}
	return nil
}

func planCmd(out io.Writer, build buildFunc) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Build a day-by-day itinerary",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Value: 3, Usage: "Trip length in days"},
			&cli.IntFlag{Name: "per-day", Aliases: []string{"n"}, Value: 3, Usage: "Attractions per day"},
			&cli.StringSliceFlag{Name: "interest", Aliases: []string{"i"}, Usage: "Interest (repeatable): art, history, food, outdoor, shopping, ..."},
		},
		Action: func(c *cli.Context) error {
			return withServices(c, build, func(s *services) error {
				it, err := s.Q.Itinerary(c.Context, nil, app.ItineraryRequest{
					Days:        c.Int("days"),
					ItemsPerDay: c.Int("per-day"),
					Interests:   c.StringSlice("interest"),
				})
				if err != nil {
					return err
				}
				return outputJSON(out, it)
			})
		},
	}
}

func packCmd(out io.Writer, build buildFunc) *cli.Command {
	return &cli.Command{
		Name:  "pack",
		Usage: "Compose a packing list for the forecast",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Value: 3, Usage: "Trip length in days"},
			&cli.IntFlag{Name: "temp", Aliases: []string{"t"}, Value: 15, Usage: "Expected temperature in °C"},
			&cli.BoolFlag{Name: "rain", Usage: "Rain expected"},
			&cli.BoolFlag{Name: "sun", Usage: "Sun expected"},
			&cli.StringFlag{Name: "style", Value: string(domain.StyleCasual), Usage: "casual|formal"},
		},
		Action: func(c *cli.Context) error {
			return withServices(c, build, func(s *services) error {
				list, err := s.Q.Packing(c.Context, nil, app.PackingRequest{
					Days:         c.Int("days"),
					TemperatureC: c.Int("temp"),
					Raining:      c.Bool("rain"),
					Sunny:        c.Bool("sun"),
					Style:        domain.Style(c.String("style")),
				})
				if err != nil {
					return err
				}
				return outputJSON(out, list)
			})
		},
	}
}

func phraseCmd(out io.Writer, build buildFunc) *cli.Command {
	return &cli.Command{
		Name:      "phrase",
		Usage:     "Search the phrasebook (English, Spanish or category)",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			return withServices(c, build, func(s *services) error {
				res, err := s.Q.Phrases(c.Context, nil, query)
				if err != nil {
					return err
				}
				return outputJSON(out, res)
			})
		},
	}
}

func routeCmd(out io.Writer, build buildFunc) *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "Look up the connection between two stations (lists stations without flags)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Usage: "Start station"},
			&cli.StringFlag{Name: "to", Usage: "Destination station"},
		},
		Action: func(c *cli.Context) error {
			return withServices(c, build, func(s *services) error {
				if c.String("from") == "" && c.String("to") == "" {
					ep, err := s.Q.Endpoints(c.Context)
					if err != nil {
						return err
					}
					return outputJSON(out, ep)
				}
				res, err := s.Q.Route(c.Context, nil, c.String("from"), c.String("to"))
				if err != nil {
					return err
				}
				return outputJSON(out, res)
			})
		},
	}
}

type cacheReport struct {
	Status    offline.Status `json:"status"`
	Installed []string       `json:"installed"`
	Dropped   []string       `json:"dropped,omitempty"`
}

func cacheCmd(out io.Writer, build buildFunc) *cli.Command {
	report := func(ctx context.Context, s *services, dropped []string) error {
		names, err := s.C.InstalledCaches(ctx)
		if err != nil {
			return err
		}
		if names == nil {
			names = []string{}
		}
		return outputJSON(out, cacheReport{Status: s.C.CacheStatus(), Installed: names, Dropped: dropped})
	}
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the offline asset cache",
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the active cache and every installed version",
				Action: func(c *cli.Context) error {
					return withServices(c, build, func(s *services) error {
						return report(c.Context, s, nil)
					})
				},
			},
			{
				Name:  "install",
				Usage: "Fetch the manifest and install it as the active cache",
				Action: func(c *cli.Context) error {
					return withServices(c, build, func(s *services) error {
						if err := s.C.InstallCache(c.Context); err != nil {
							return err
						}
						return report(c.Context, s, nil)
					})
				},
			},
			{
				Name:      "activate",
				Usage:     "Switch back to an installed version",
				ArgsUsage: "<version>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return outputError(fmt.Errorf("%w: exactly one version expected", domain.ErrInvalidInput))
					}
					return withServices(c, build, func(s *services) error {
						if err := s.C.ActivateCache(c.Context, c.Args().First()); err != nil {
							return err
						}
						return report(c.Context, s, nil)
					})
				},
			},
			{
				Name:  "prune",
				Usage: "Delete every cache except the configured version",
				Action: func(c *cli.Context) error {
					return withServices(c, build, func(s *services) error {
						// never prune blind: the configured version must be active
						if err := s.C.ActivateCache(c.Context, s.C.Manifest().Version); err != nil {
							return err
						}
						dropped, err := s.C.PruneCaches(c.Context)
						if err != nil {
							return err
						}
						return report(c.Context, s, dropped)
					})
				},
			},
		},
	}
}

func outputJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputError(err error) error {
	return cli.Exit(err.Error(), 1)
}
