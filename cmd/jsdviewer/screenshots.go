package main

import (
	"bytes"
	"fmt"
	"image"
	png "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rtomek/MIDRC-Diversity-Calculator/cmd/jsdviewer/uihelpers"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/analysis"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/config"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/divergence"
)

// RunScreenshotsMode renders the full chart set for the configured sources
// and writes them as PNGs under outDir. It runs headlessly without creating
// a UI window.
func RunScreenshotsMode(cfgPath, outDir string) error {
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	store, err := datasource.LoadStore(cfg)
	if err != nil {
		return err
	}
	ctrl, err := analysis.NewController(store, divergence.JensenShannon, analysis.Options{
		Slots:             cfg.NumberOfFiles,
		Palette:           seriesColorHex,
		DivergenceColumns: datasource.DivergenceColumns(cfg),
	})
	if err != nil {
		return err
	}
	u, err := ctrl.Rebuild()
	if err != nil {
		// panels that failed render as placeholders; keep going
		datasource.Warnf("screenshots: %v", err)
	}
	if u == nil {
		return fmt.Errorf("no view produced for %s", cfgPath)
	}

	type shot struct {
		name string
		img  image.Image
	}
	cw, chh := uihelpers.ComputeChartDimensions(1100)
	toWrite := []shot{
		{"timeline.png", renderTimelineChart(u.Timeline, u.Category, cw, chh, 1, false)},
		{"spider.png", renderSpiderChart(u.Spider, 520, 1, false)},
	}
	for i, ac := range u.AreaCharts {
		toWrite = append(toWrite, shot{
			fmt.Sprintf("area_%02d_%s.png", i+1, safeFileName(ac.SourceName)),
			renderAreaChart(ac, cw, chh, false),
		})
	}
	for _, row := range u.PieRows {
		for _, pie := range row.Pies {
			toWrite = append(toWrite, shot{
				fmt.Sprintf("pie_%s_%s.png", safeFileName(row.SourceName), safeFileName(pie.Category)),
				renderPieChart(pie, 300),
			})
		}
	}

	for _, item := range toWrite {
		if item.img == nil {
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, item.img); err != nil {
			return fmt.Errorf("png encode %s: %w", item.name, err)
		}
		outPath := filepath.Join(outDir, item.name)
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	}
	return nil
}

// safeFileName flattens a source or category name into something usable as a
// filename fragment.
func safeFileName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, string(filepath.Separator), "-")
	return s
}
