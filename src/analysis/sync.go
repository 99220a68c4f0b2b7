package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
)

// Options configures a Controller.
type Options struct {
	// Slots is the initial number of comparison slots (minimum 2).
	Slots int
	// Animations is carried through to every ViewUpdate for the viewer.
	Animations bool
	// PieTimepoint is the row pies sample, negative counting from the end.
	// The zero value means latest (-1).
	PieTimepoint int
	// Palette assigns series colors to the grid color map. Nil uses
	// DefaultPalette; the viewer passes its render palette so chart strokes
	// and grid highlights match.
	Palette func(i int) string
	// DivergenceColumns restricts divergence math to a column subset per
	// category, e.g. synthesized custom age columns. Other categories use
	// every loaded column.
	DivergenceColumns map[string][]string
}

// ViewUpdate is one rebuild's complete output. A nil panel means that panel
// has nothing to show and the viewer keeps a placeholder there.
type ViewUpdate struct {
	Category        string
	CategoryOptions []string
	Pairs           []Pair
	Timeline        *Timeline
	AreaCharts      []*AreaChart
	PieRows         []PieRow
	Spider          *SpiderChart
	Animations      bool
}

// Controller owns the source store and the selection, and rebuilds every
// derived structure synchronously whenever either changes. All methods must
// run on one goroutine; the builders share no state across calls.
type Controller struct {
	store     *datasource.Store
	selection *Selection
	div       DivergenceFunc
	opts      Options
	listeners []func(*ViewUpdate)
	last      *ViewUpdate
}

// NewController wires a controller over loaded sources. div supplies the
// divergence statistic and must not be nil.
func NewController(store *datasource.Store, div DivergenceFunc, opts Options) (*Controller, error) {
	if store == nil {
		return nil, errors.New("controller: nil store")
	}
	if div == nil {
		return nil, errors.New("controller: nil divergence func")
	}
	if opts.Slots < 2 {
		opts.Slots = 2
	}
	if opts.PieTimepoint == 0 {
		opts.PieTimepoint = -1
	}
	if opts.Palette == nil {
		opts.Palette = DefaultPalette
	}
	return &Controller{
		store:     store,
		selection: NewSelection(opts.Slots, store.Len()),
		div:       div,
		opts:      opts,
	}, nil
}

// Subscribe registers a listener called after every rebuild, in registration
// order, on the rebuilding goroutine.
func (c *Controller) Subscribe(fn func(*ViewUpdate)) {
	c.listeners = append(c.listeners, fn)
}

// Slots returns the current slot assignments.
func (c *Controller) Slots() []Slot { return c.selection.Slots() }

// Category returns the active category.
func (c *Controller) Category() string { return c.selection.Category() }

// LastUpdate returns the most recent rebuild output, nil before the first.
func (c *Controller) LastUpdate() *ViewUpdate { return c.last }

// SetCategory switches the active category and rebuilds.
func (c *Controller) SetCategory(category string) error {
	return c.changed(c.selection.SetCategory(category))
}

// SetSlot points a slot at another source and rebuilds.
func (c *Controller) SetSlot(slot, source int) error {
	if source < 0 || source >= c.store.Len() {
		return fmt.Errorf("set slot %d: source index %d out of range", slot, source)
	}
	return c.changed(c.selection.SetSlot(slot, source))
}

// SetSlotActive toggles a slot's participation and rebuilds.
func (c *Controller) SetSlotActive(slot int, on bool) error {
	return c.changed(c.selection.SetActive(slot, on))
}

// SetSlotCount resizes the slot list (minimum 2) and rebuilds.
func (c *Controller) SetSlotCount(n int) error {
	if n < 2 {
		n = 2
	}
	return c.changed(c.selection.Resize(n, c.store.Len()))
}

// AddSource registers a newly loaded source and rebuilds so the category
// intersection and selectors pick it up.
func (c *Controller) AddSource(src *datasource.DataSource) error {
	c.store.Add(src)
	_, err := c.Rebuild()
	return err
}

func (c *Controller) changed(did bool) error {
	if !did {
		return nil
	}
	_, err := c.Rebuild()
	return err
}

// Rebuild recomputes every chart structure from the current store and
// selection, in a fixed order: category options, pairs, timeline, area
// charts, pie rows, spider chart. A precondition failure in one structure is
// collected and the remaining structures still build; the joined error is
// returned alongside the update, and listeners always see the update.
func (c *Controller) Rebuild() (*ViewUpdate, error) {
	defer datasource.TimeTrack(time.Now(), "rebuild")

	slots := c.selection.Slots()
	u := &ViewUpdate{Animations: c.opts.Animations}
	u.CategoryOptions = CategoryOptions(c.store, slots)

	category := c.selection.Category()
	if len(u.CategoryOptions) > 0 && !containsString(u.CategoryOptions, category) {
		category = u.CategoryOptions[0]
		c.selection.SetCategory(category)
	}
	u.Category = category
	u.Pairs = ActivePairs(slots)

	var problems []error
	record := func(err error) {
		datasource.Errorf("rebuild: %v", err)
		problems = append(problems, err)
	}

	if tl, err := c.buildTimeline(u.Pairs, category); err != nil {
		record(err)
	} else {
		u.Timeline = tl
	}
	u.AreaCharts = c.buildAreaCharts(slots, category, record)
	u.PieRows = c.buildPieRows(slots, u.CategoryOptions, record)
	u.Spider = c.buildSpider(u.Pairs, u.CategoryOptions, record)

	c.last = u
	for _, fn := range c.listeners {
		fn(u)
	}
	if len(problems) > 0 {
		return u, errors.Join(problems...)
	}
	return u, nil
}

// buildTimeline assembles the table, color map, and shared axes for every
// pair. Any precondition failure aborts the whole timeline: a partially
// filled grid would misalign the color ranges.
func (c *Controller) buildTimeline(pairs []Pair, category string) (*Timeline, error) {
	if len(pairs) == 0 || category == "" {
		return nil, nil
	}
	tl := &Timeline{Colors: NewColorMap(), ValueRange: ValueRange{Min: 0, Max: 1}}
	for idx, pair := range pairs {
		srcA, sheetA, err := c.sheetFor(pair.SourceA, category)
		if err != nil {
			return nil, err
		}
		srcB, sheetB, err := c.sheetFor(pair.SourceB, category)
		if err != nil {
			return nil, err
		}
		series, err := buildTimelineSeries(pair, srcA.Name, srcB.Name, sheetA, sheetB,
			c.divergenceCols(category, sheetA), c.div)
		if err != nil {
			return nil, err
		}
		tl.Table.Series = append(tl.Table.Series, series)
		tl.Table.Infos = append(tl.Table.Infos, ColumnInfo{
			Category: category,
			SlotA:    pair.SlotA, SlotB: pair.SlotB,
			FileA: srcA.Name, FileB: srcB.Name,
		})
		tl.Colors.Add(c.opts.Palette(idx), CellRange{
			Col: 2 * idx, Row: 0,
			Cols: 2, Rows: len(series.Points),
		})
		if len(series.Points) > 0 {
			tl.DateRange.widen(series.Points[0].T)
			tl.DateRange.widen(series.Points[len(series.Points)-1].T)
		}
	}
	return tl, nil
}

func (c *Controller) buildAreaCharts(slots []Slot, category string, record func(error)) []*AreaChart {
	if category == "" {
		return nil
	}
	var out []*AreaChart
	for _, sl := range slots {
		if !sl.Active {
			continue
		}
		src, sheet, err := c.sheetFor(sl.Source, category)
		if err != nil {
			record(err)
			continue
		}
		chart, err := BuildAreaChart(src.Name, sheet, sheet.Columns)
		if err != nil {
			record(err)
			continue
		}
		if chart != nil {
			out = append(out, chart)
		}
	}
	return out
}

func (c *Controller) buildPieRows(slots []Slot, categories []string, record func(error)) []PieRow {
	var out []PieRow
	for _, sl := range slots {
		if !sl.Active {
			continue
		}
		src, err := c.store.ByIndex(sl.Source)
		if err != nil {
			record(err)
			continue
		}
		row := PieRow{SourceName: src.Name, Description: src.Description}
		for _, category := range categories {
			sheet, ok := src.Sheet(category)
			if !ok {
				record(fmt.Errorf("pie charts %s: %w: %s", src.Name, ErrNoCategory, category))
				continue
			}
			pie, err := BuildPieChart(src.Name, sheet, sheet.Columns, c.opts.PieTimepoint)
			if err != nil {
				record(err)
				continue
			}
			if pie != nil {
				row.Pies = append(row.Pies, *pie)
			}
		}
		if len(row.Pies) > 0 {
			out = append(out, row)
		}
	}
	return out
}

// buildSpider samples each pair's divergence per category at the latest data
// date the pair shares. The samples feed BuildSpiderChart; any precondition
// failure drops the whole chart since a missing spoke would skew the rest.
func (c *Controller) buildSpider(pairs []Pair, categories []string, record func(error)) *SpiderChart {
	if len(pairs) == 0 || len(categories) == 0 {
		return nil
	}
	samples := make([]RadialSample, 0, len(pairs))
	var descA, descB string
	for _, pair := range pairs {
		values := make(map[string]float64, len(categories))
		var nameA, nameB string
		for _, category := range categories {
			srcA, sheetA, err := c.sheetFor(pair.SourceA, category)
			if err != nil {
				record(err)
				return nil
			}
			srcB, sheetB, err := c.sheetFor(pair.SourceB, category)
			if err != nil {
				record(err)
				return nil
			}
			nameA, nameB = srcA.Name, srcB.Name
			descA, descB = sourceLabel(srcA), sourceLabel(srcB)
			_, lastA, okA := sheetA.DateRange()
			_, lastB, okB := sheetB.DateRange()
			if !okA || !okB {
				record(fmt.Errorf("spider %s vs %s %s: %w", srcA.Name, srcB.Name, category, ErrNoRows))
				return nil
			}
			at := later(lastA, lastB)
			cols := c.divergenceCols(category, sheetA)
			p, okA := sheetA.DistributionAt(at, cols)
			q, okB := sheetB.DistributionAt(at, cols)
			if !okA || !okB {
				record(fmt.Errorf("spider %s vs %s %s: %w", srcA.Name, srcB.Name, category, ErrUnknownColumn))
				return nil
			}
			values[category] = c.div(p, q)
		}
		samples = append(samples, RadialSample{
			Pair:   pair,
			Name:   fmt.Sprintf("%s vs %s", nameA, nameB),
			Values: values,
		})
	}
	chart := BuildSpiderChart(categories, samples)
	if chart != nil && len(samples) == 1 {
		chart.SetComparisonTitle(descA, descB)
	}
	return chart
}

func (c *Controller) sheetFor(source int, category string) (*datasource.DataSource, *datasource.DataSheet, error) {
	src, err := c.store.ByIndex(source)
	if err != nil {
		return nil, nil, err
	}
	sheet, ok := src.Sheet(category)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w: %s", src.Name, ErrNoCategory, category)
	}
	return src, sheet, nil
}

// divergenceCols picks the column subset divergence math compares for a
// category: the configured override when present, otherwise every loaded
// column of the pair's first sheet.
func (c *Controller) divergenceCols(category string, sheet *datasource.DataSheet) []string {
	if cols, ok := c.opts.DivergenceColumns[category]; ok && len(cols) > 0 {
		return cols
	}
	return sheet.Columns
}

func sourceLabel(src *datasource.DataSource) string {
	if src.Description != "" {
		return src.Description
	}
	return src.Name
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
