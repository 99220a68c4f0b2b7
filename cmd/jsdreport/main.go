package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/analysis"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/config"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/divergence"
)

// jsdreport prints the divergence comparison for the configured sources
// without the UI: sources, shared categories, the latest JSD per comparison,
// and optionally the full table as TSV.
func main() {
	var cfgPath string
	var category string
	var tsvPath string
	var slots int
	var logLevel string
	flag.StringVar(&cfgPath, "config", "", "Path to jsdconfig.yaml (empty uses the bundled location)")
	flag.StringVar(&category, "category", "", "Category to compare (empty uses the first shared one)")
	flag.StringVar(&tsvPath, "tsv", "", "Write the divergence table to this file as TSV")
	flag.IntVar(&slots, "n", 0, "Number of comparison slots (0 keeps the config value)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	datasource.SetLogLevel(logLevel)
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fail(err)
	}
	store, err := datasource.LoadStore(cfg)
	if err != nil {
		fail(err)
	}
	if slots <= 0 {
		slots = cfg.NumberOfFiles
	}
	ctrl, err := analysis.NewController(store, divergence.JensenShannon, analysis.Options{
		Slots:             slots,
		DivergenceColumns: datasource.DivergenceColumns(cfg),
	})
	if err != nil {
		fail(err)
	}
	u, err := ctrl.Rebuild()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if category != "" && u != nil && category != u.Category {
		if err := ctrl.SetCategory(category); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		u = ctrl.LastUpdate()
	}
	if u == nil {
		fail(fmt.Errorf("no view produced for %s", cfgPath))
	}

	fmt.Printf("config: %s\n", cfgPath)
	fmt.Printf("sources: %d\n", store.Len())
	for _, name := range store.Names() {
		if src, ok := store.ByName(name); ok {
			fmt.Printf("  %-20s %s (%d categories)\n", name, src.Description, len(src.SheetNames))
		}
	}
	fmt.Printf("category: %s (shared: %s)\n", u.Category, strings.Join(u.CategoryOptions, ", "))
	fmt.Printf("comparisons: %d\n", len(u.Pairs))

	if u.Timeline == nil || len(u.Timeline.Table.Series) == 0 {
		fmt.Println("no comparison: fewer than two active sources")
		return
	}
	fmt.Println("latest divergence:")
	for _, s := range u.Timeline.Table.Series {
		last := s.Points[len(s.Points)-1]
		fmt.Printf("  %-40s %.4f at %s (%d points)\n", s.Name, last.V, last.T.Format("2006-01-02"), len(s.Points))
	}
	if u.Spider != nil {
		fmt.Println("per-category divergence:")
		for _, poly := range u.Spider.Polygons {
			fmt.Printf("  %s\n", poly.Name)
			for i, ax := range u.Spider.Axes {
				if i < len(poly.Points) {
					fmt.Printf("    %-16s %.4f\n", ax.Label, poly.Points[i].Value)
				}
			}
		}
	}

	if tsvPath != "" {
		f, err := os.Create(tsvPath)
		if err != nil {
			fail(err)
		}
		if err := u.Timeline.Table.WriteTSV(f); err != nil {
			f.Close()
			fail(err)
		}
		if err := f.Close(); err != nil {
			fail(err)
		}
		fmt.Printf("wrote table: %s\n", tsvPath)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
