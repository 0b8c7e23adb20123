// Command planner loads a directory of GGTM route files, assigns them to the
// four event days with a pairing profile and writes one GPX file per day.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"backend-ggtm26/internal/catalog"
	"backend-ggtm26/internal/elevation"
	"backend-ggtm26/internal/gpxfile"
	"backend-ggtm26/internal/shared/geo"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	dir          string
	out          string
	profile      string
	event        string
	home         string
	region       string
	enrich       bool
	elevationURL string
	jsonReport   bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.dir, "dir", "", "Directory with GGTM route files")
	fs.StringVar(&opts.out, "out", "", "Directory for exported day files (no export if empty)")
	fs.StringVar(&opts.profile, "profile", catalog.Elite.Name, "Pairing profile: elite or mosjonist")
	fs.StringVar(&opts.event, "event", catalog.DefaultOptions().Event, "Event code in route file names")
	fs.StringVar(&opts.home, "home", catalog.DefaultOptions().HomeBase, "Home base name in route descriptions")
	fs.StringVar(&opts.region, "region", catalog.DefaultRegion, "Region used in exported file names")
	fs.BoolVar(&opts.enrich, "enrich", false, "Look up elevations before exporting")
	fs.StringVar(&opts.elevationURL, "elevation-url", elevation.DefaultOpenElevationURL, "Open-Elevation base URL")
	fs.BoolVar(&opts.jsonReport, "json", false, "Print the assignment report as JSON")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "planner - assign GGTM routes to event days\n\n")
		fmt.Fprintf(stderr, "usage: planner -dir ./routes [-profile mosjonist] [-out ./days]\n\n")
		fmt.Fprintf(stderr, "options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.dir == "" {
		fs.Usage()
		return opts, fmt.Errorf("-dir is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	profile, ok := catalog.ProfileByName(opts.profile)
	if !ok {
		fmt.Fprintf(stderr, "unknown profile %q\n", opts.profile)
		return 2
	}

	cat := catalog.New()
	loaded, err := loadDir(cat, opts.dir, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading routes: %v\n", err)
		return 1
	}
	if len(loaded) == 0 {
		fmt.Fprintf(stderr, "No GPX files found in %s\n", opts.dir)
		return 1
	}
	for _, name := range catalog.MissingFromManifest(loaded) {
		fmt.Fprintf(stdout, "missing from set: %s\n", name)
	}

	if opts.enrich {
		enrichAll(ctx, cat, opts.elevationURL, logger, stdout)
	}

	report := cat.ApplyProfile(profile, catalog.Options{Event: opts.event, HomeBase: opts.home})
	if opts.jsonReport {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error marshaling report: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		printReport(stdout, cat, report)
	}

	if opts.out == "" {
		return 0
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		fmt.Fprintf(stderr, "Error creating output dir: %v\n", err)
		return 1
	}
	for _, day := range cat.Days() {
		export, err := cat.ExportDay(day.ID, opts.region)
		if err != nil {
			fmt.Fprintf(stdout, "%s: skipped (%v)\n", day.Name, err)
			continue
		}
		path := filepath.Join(opts.out, export.FileName)
		if err := os.WriteFile(path, export.Content, 0o644); err != nil {
			fmt.Fprintf(stderr, "Error writing %s: %v\n", path, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s: wrote %s (%d points)\n", day.Name, path, export.Points)
	}
	return 0
}

func loadDir(cat *catalog.Catalog, dir string, stdout io.Writer) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".gpx") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	loaded := make([]string, 0, len(names))
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		decoded, err := gpxfile.Decode(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(stdout, "skipping %s: %v\n", name, err)
			continue
		}
		for _, w := range decoded.Warnings {
			fmt.Fprintf(stdout, "%s: %s\n", name, w)
		}
		cat.AddRoute(name, decoded.Points)
		loaded = append(loaded, name)
	}
	return loaded, nil
}

func enrichAll(ctx context.Context, cat *catalog.Catalog, baseURL string, logger *slog.Logger, stdout io.Writer) {
	client := &http.Client{Timeout: 30 * time.Second}
	enricher := elevation.NewEnricher(elevation.NewOpenElevation(baseURL, client), logger)

	routes := cat.Routes()
	work := make(map[string][]geo.Point, len(routes))
	for _, r := range routes {
		points := make([]geo.Point, len(r.Points))
		copy(points, r.Points)
		work[r.ID] = points
	}

	results := enricher.EnrichAll(ctx, work)
	enriched := 0
	for id, ok := range results {
		if !ok {
			continue
		}
		if err := cat.SetElevations(id, work[id]); err == nil {
			enriched++
		}
	}
	fmt.Fprintf(stdout, "elevation: %d/%d routes enriched\n", enriched, len(routes))
}

func printReport(w io.Writer, cat *catalog.Catalog, report catalog.Report) {
	fmt.Fprintf(w, "profile %s: %d/%d days assigned\n", report.Profile, report.Assigned(), len(report.Days))
	for _, d := range report.Days {
		fmt.Fprintf(w, "Dag %d [%s", d.Day, d.Status)
		if d.Source != "" {
			fmt.Fprintf(w, ", %s", d.Source)
		}
		fmt.Fprintln(w, "]")
		for _, id := range d.RouteIDs {
			r, ok := cat.Route(id)
			if !ok {
				continue
			}
			line := "  " + r.FileName
			if r.Stats != nil {
				line += fmt.Sprintf("  %.1f km  +%d m", r.Stats.DistanceKm, r.Stats.ElevationGainM)
			}
			if c, ok := r.Climb(); ok {
				line += fmt.Sprintf("  %s (%d pts)", c.CategoryName, c.Points)
			}
			fmt.Fprintln(w, line)
		}
	}
}
