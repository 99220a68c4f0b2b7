package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rtomek/MIDRC-Diversity-Calculator/cmd/jsdviewer/uihelpers"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/analysis"
)

// seriesColor returns the render stack's default stroke color for series i.
// The controller's color map uses the hex twin so grid highlights match.
func seriesColor(i int) drawing.Color {
	return chart.GetDefaultColor(i)
}

func seriesColorHex(i int) string {
	c := seriesColor(i)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// lineStyle returns the stroke-plus-dot style shared by the line charts.
// Widths multiply with the render scale so scaled exports keep the on-screen
// proportions.
func lineStyle(col drawing.Color, scale int) chart.Style {
	return chart.Style{
		StrokeWidth: float64(2 * scale),
		StrokeColor: col,
		DotWidth:    float64(3 * scale),
		DotColor:    col,
	}
}

func divergenceTicks() []chart.Tick {
	vals := uihelpers.DivergenceTicks()
	ticks := make([]chart.Tick, 0, len(vals))
	for _, v := range vals {
		ticks = append(ticks, chart.Tick{Value: v, Label: uihelpers.FormatDivergenceTick(v)})
	}
	return ticks
}

func percentTicks() []chart.Tick {
	vals := uihelpers.PercentTicks()
	ticks := make([]chart.Tick, 0, len(vals))
	for _, v := range vals {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}

// dateTicks builds the X ticks for a date range expressed in epoch ms.
func dateTicks(r analysis.TimeRange) []chart.Tick {
	if r.IsZero() {
		return nil
	}
	step, layout := uihelpers.PickDateStep(r.Max.Sub(r.Min))
	minMs := float64(analysis.DateToMillis(r.Min))
	maxMs := float64(analysis.DateToMillis(r.Max))
	positions := uihelpers.BuildDateTicks(minMs, maxMs, step)
	ticks := make([]chart.Tick, 0, len(positions))
	for _, v := range positions {
		ticks = append(ticks, chart.Tick{Value: v, Label: time.UnixMilli(int64(v)).UTC().Format(layout)})
	}
	return ticks
}

// msRange converts a date range to a padded ms axis range so single-date data
// still renders with nonzero width.
func msRange(r analysis.TimeRange) (float64, float64) {
	minMs := float64(analysis.DateToMillis(r.Min))
	maxMs := float64(analysis.DateToMillis(r.Max))
	if analysis.SameDay(r.Min, r.Max) || maxMs <= minMs {
		maxMs = minMs + float64((24 * time.Hour).Milliseconds())
	}
	span := maxMs - minMs
	return minMs - span*0.02, maxMs + span*0.02
}

// pointsToXY flattens time points onto the ms axis, padding single points by
// one second so the render stack always sees a nonzero X span.
func pointsToXY(points []analysis.TimePoint) ([]float64, []float64) {
	xs := make([]float64, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	for _, p := range points {
		xs = append(xs, float64(analysis.DateToMillis(p.T)))
		ys = append(ys, p.V)
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1000)
		ys = append(ys, ys[0])
	}
	return xs, ys
}

// renderTimelineChart draws every pair's divergence series over the merged
// date axis. The Y axis is pinned to the statistic's 0..1 range. scale of 1
// renders at w by h; larger scales multiply both the canvas and the text DPI
// so high resolution exports keep the same composition.
func renderTimelineChart(tl *analysis.Timeline, category string, w, h, scale int, hints bool) image.Image {
	if scale < 1 {
		scale = 1
	}
	w *= scale
	h *= scale
	if tl == nil || len(tl.Table.Series) == 0 {
		return blankWithNote(w, h, "Select at least two active files to compare.", scale)
	}
	series := make([]chart.Series, 0, len(tl.Table.Series))
	for i, s := range tl.Table.Series {
		xs, ys := pointsToXY(s.Points)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(seriesColor(i), scale),
		})
	}
	minX, maxX := msRange(tl.DateRange)
	padBottom := 28
	if hints {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      fmt.Sprintf("JSD over time (%s)", category),
		DPI:        chart.DefaultDPI * float64(scale),
		Background: chart.Style{Padding: chart.Box{Top: 14 * scale, Left: 16 * scale, Right: 12 * scale, Bottom: padBottom * scale}},
		XAxis: chart.XAxis{
			Name:  "Date",
			Ticks: dateTicks(tl.DateRange),
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  "JSD value",
			Range: &chart.ContinuousRange{Min: tl.ValueRange.Min, Max: tl.ValueRange.Max},
			Ticks: divergenceTicks(),
		},
		Series: series,
		Width:  w,
		Height: h,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] timeline render error: %v; showing blank fallback\n", err)
		return blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] timeline decode error: %v; showing blank fallback\n", err)
		return blank(w, h)
	}
	if hints {
		return drawHint(img, "Hint: Lower JSD means the two sources' distributions agree more closely.", scale)
	}
	return img
}

// renderAreaChart draws the stacked cumulative-percent bands for one source.
// Bands render top-down so each lower band overpaints the fill beneath it.
func renderAreaChart(ac *analysis.AreaChart, w, h int, hints bool) image.Image {
	if ac == nil || len(ac.Series) == 0 {
		return blankWithNote(w, h, "No distribution data for this selection.", 1)
	}
	series := make([]chart.Series, 0, len(ac.Series))
	for i := len(ac.Series) - 1; i >= 0; i-- {
		band := ac.Series[i]
		xs, ys := pointsToXY(band.Points)
		col := seriesColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    band.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 1,
				StrokeColor: col,
				FillColor:   col.WithAlpha(200),
			},
		})
	}
	minX, maxX := msRange(ac.DateRange)
	padBottom := 28
	if hints {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      ac.Title,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: padBottom}},
		XAxis: chart.XAxis{
			Name:  "Date",
			Ticks: dateTicks(ac.DateRange),
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  "Percent of total",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: percentTicks(),
		},
		Series: series,
		Width:  w,
		Height: h,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] area render error (%s): %v; showing blank fallback\n", ac.SourceName, err)
		return blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] area decode error (%s): %v; showing blank fallback\n", ac.SourceName, err)
		return blank(w, h)
	}
	if hints {
		return drawHint(img, "Hint: Bands are cumulative percent of each date's total; the top band reaches 100%.", 1)
	}
	return img
}

// renderPieChart draws one category breakdown at the sampled timepoint.
func renderPieChart(p analysis.PieChart, diameter int) image.Image {
	values := make([]chart.Value, 0, len(p.Slices))
	for _, s := range p.Slices {
		values = append(values, chart.Value{Label: s.Label, Value: s.Value})
	}
	pie := chart.PieChart{
		Title:  p.Category,
		Width:  diameter,
		Height: diameter,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] pie render error (%s/%s): %v; showing blank fallback\n", p.SourceName, p.Category, err)
		return blank(diameter, diameter)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] pie decode error (%s/%s): %v; showing blank fallback\n", p.SourceName, p.Category, err)
		return blank(diameter, diameter)
	}
	return img
}

// spiderPad is the fixed background padding of the spider chart; the label
// pass relies on it to map unit coordinates back to pixels.
const spiderPad = 36

// spiderUnitXY maps a spoke angle (degrees, 0 at the top, clockwise) and a
// 0..1 radius to unit plot coordinates.
func spiderUnitXY(angleDeg, radius float64) (float64, float64) {
	rad := (90 - angleDeg) * math.Pi / 180
	return radius * math.Cos(rad), radius * math.Sin(rad)
}

// renderSpiderChart draws the per-category divergence polygons on a polar
// grid. The render stack has no radar type, so the rings, spokes, and
// polygons are plain line series over hidden axes, and the category labels
// and legend are stamped on afterwards. scale multiplies the pixel density
// for high resolution exports.
func renderSpiderChart(sp *analysis.SpiderChart, size, scale int, hints bool) image.Image {
	if scale < 1 {
		scale = 1
	}
	size *= scale
	if sp == nil || len(sp.Axes) == 0 {
		return blankWithNote(size, size, "Select at least two active files to compare.", scale)
	}
	rmax := sp.Max
	if rmax <= 0 {
		rmax = 1
	}

	var series []chart.Series
	gridStyle := chart.Style{StrokeWidth: float64(scale), StrokeColor: chart.ColorLightGray}
	for _, frac := range []float64{0.25, 0.5, 0.75, 1.0} {
		xs := make([]float64, 0, 65)
		ys := make([]float64, 0, 65)
		for i := 0; i <= 64; i++ {
			x, y := spiderUnitXY(float64(i)*360/64, frac)
			xs = append(xs, x)
			ys = append(ys, y)
		}
		series = append(series, chart.ContinuousSeries{XValues: xs, YValues: ys, Style: gridStyle})
	}
	for _, ax := range sp.Axes {
		x, y := spiderUnitXY(ax.Angle, 1)
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{0, x},
			YValues: []float64{0, y},
			Style:   gridStyle,
		})
	}
	for i, poly := range sp.Polygons {
		xs := make([]float64, 0, len(poly.Points))
		ys := make([]float64, 0, len(poly.Points))
		for _, pt := range poly.Points {
			x, y := spiderUnitXY(pt.Angle, pt.Value/rmax)
			xs = append(xs, x)
			ys = append(ys, y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    poly.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(seriesColor(i), scale),
		})
	}

	pad := spiderPad * scale
	ch := chart.Chart{
		Title:      sp.Title,
		DPI:        chart.DefaultDPI * float64(scale),
		Background: chart.Style{Padding: chart.Box{Top: pad, Left: pad, Right: pad, Bottom: pad}},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}, Range: &chart.ContinuousRange{Min: -1.25, Max: 1.25}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}, Range: &chart.ContinuousRange{Min: -1.25, Max: 1.25}},
		// hide the secondary axis too so no axis gutters shift the plot box
		YAxisSecondary: chart.YAxis{Style: chart.Style{Hidden: true}},
		Series:         series,
		Width:          size,
		Height:         size,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] spider render error: %v; showing blank fallback\n", err)
		return blank(size, size)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] spider decode error: %v; showing blank fallback\n", err)
		return blank(size, size)
	}
	out := annotateSpider(img, sp, rmax, scale)
	if hints {
		return drawHint(out, "Hint: Each spoke is one category; smaller polygons mean closer overall agreement.", scale)
	}
	return out
}

// annotateSpider stamps the category labels at the spoke tips, the radial
// maximum, and a small legend for the pair polygons. scale matches the scale
// the chart rendered at so the stamps land on the scaled plot box.
func annotateSpider(img image.Image, sp *analysis.SpiderChart, rmax float64, scale int) image.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	pad := float64(spiderPad * scale)
	w := float64(b.Dx())
	h := float64(b.Dy())
	plotW := w - 2*pad
	plotH := h - 2*pad
	toPixel := func(x, y float64) (int, int) {
		px := pad + (x+1.25)/2.5*plotW
		py := h - pad - (y+1.25)/2.5*plotH
		return int(px), int(py)
	}

	white := color.RGBA{R: 235, G: 235, B: 235, A: 255}
	for _, ax := range sp.Axes {
		x, y := spiderUnitXY(ax.Angle, 1.08)
		px, py := toPixel(x, y)
		// center the label on the spoke tip
		tw := font.MeasureString(basicfont.Face7x13, ax.Label).Ceil() * scale
		drawTextAt(rgba, px-tw/2, py+4*scale, ax.Label, white, scale)
	}
	// radial scale marker at the top ring
	px, py := toPixel(spiderUnitXY(0, 1.0))
	drawTextAt(rgba, px+6*scale, py, fmt.Sprintf("%.2f", rmax), color.RGBA{R: 180, G: 180, B: 180, A: 255}, scale)

	y := b.Min.Y + 18*scale
	for i, poly := range sp.Polygons {
		c := seriesColor(i)
		drawTextAt(rgba, b.Min.X+10*scale, y, "-- "+poly.Name, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}, scale)
		y += 14 * scale
	}
	return rgba
}

// drawTextAt stamps small shadowed text onto an image at pixel coordinates.
// (x, y) is the baseline position. The pixel font comes in one size, so
// scaled stamps draw at 1x and resample up with nearest neighbor to stay
// crisp.
func drawTextAt(dst *image.RGBA, x, y int, text string, col color.Color, scale int) {
	face := basicfont.Face7x13
	if scale <= 1 {
		shadow := &font.Drawer{
			Dst: dst, Src: image.NewUniform(color.RGBA{A: 180}), Face: face,
			Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)},
		}
		shadow.DrawString(text)
		dr := &font.Drawer{
			Dst: dst, Src: image.NewUniform(col), Face: face,
			Dot: fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
		}
		dr.DrawString(text)
		return
	}

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	tw := font.MeasureString(face, text).Ceil()
	// 1px slack on each axis keeps the shadow offset inside the stamp
	tmp := image.NewRGBA(image.Rect(0, 0, tw+2, m.Height.Ceil()+2))
	shadow := &font.Drawer{
		Dst: tmp, Src: image.NewUniform(color.RGBA{A: 180}), Face: face,
		Dot: fixed.Point26_6{X: fixed.I(1), Y: fixed.I(ascent + 1)},
	}
	shadow.DrawString(text)
	dr := &font.Drawer{
		Dst: tmp, Src: image.NewUniform(col), Face: face,
		Dot: fixed.Point26_6{X: fixed.I(0), Y: fixed.I(ascent)},
	}
	dr.DrawString(text)
	tb := tmp.Bounds()
	target := image.Rect(x, y-ascent*scale, x+tb.Dx()*scale, y+(tb.Dy()-ascent)*scale)
	xdraw.NearestNeighbor.Scale(dst, target, tmp, tb, xdraw.Over, nil)
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	// subtle background
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}

func blankWithNote(w, h int, note string, scale int) image.Image {
	return drawHint(blank(w, h), note, scale)
}

// drawHint draws a small hint string onto the provided image near the bottom-left.
func drawHint(img image.Image, text string, scale int) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6 * scale
	face := basicfont.Face7x13
	tw := font.MeasureString(face, text).Ceil() * scale
	x := b.Min.X + 8*scale
	y := b.Max.Y - 6*scale
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()*scale-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drawTextAt(rgba, x, y, text, color.RGBA{R: 255, G: 255, B: 255, A: 255}, scale)
	return rgba
}
