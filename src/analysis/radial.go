package analysis

import (
	"fmt"
	"math"
)

// RadialAxis is one category spoke of the spider chart.
type RadialAxis struct {
	Label string
	Angle float64 // degrees
}

// RadialPoint is one polygon vertex in polar form.
type RadialPoint struct {
	Angle float64
	Value float64
}

// RadialSample carries one pair's latest divergence per category into the
// spider chart build.
type RadialSample struct {
	Pair   Pair
	Name   string
	Values map[string]float64
}

// RadialPolygon is one pair's closed sample loop: one vertex per category
// plus a closing vertex at 360 degrees that repeats the first value.
type RadialPolygon struct {
	Pair   Pair
	Name   string
	Points []RadialPoint
}

// SpiderChart is the per-category divergence comparison across all pairs.
// Max spans every polygon so they share one radial axis starting at zero.
type SpiderChart struct {
	Title    string
	Axes     []RadialAxis
	Polygons []RadialPolygon
	Max      float64
}

// BuildSpiderChart lays the categories out at equal angular steps and builds
// one closed polygon per sample. Categories missing from a sample count as
// zero, as do NaN values. No samples or no categories means nothing to
// chart, so it returns nil.
func BuildSpiderChart(categories []string, samples []RadialSample) *SpiderChart {
	if len(categories) == 0 || len(samples) == 0 {
		return nil
	}

	step := 360.0 / float64(len(categories))
	out := &SpiderChart{Title: "JSD per category"}
	for i, cat := range categories {
		out.Axes = append(out.Axes, RadialAxis{Label: cat, Angle: float64(i) * step})
	}

	for _, sample := range samples {
		points := make([]RadialPoint, 0, len(categories)+1)
		for i, cat := range categories {
			v := sample.Values[cat]
			if math.IsNaN(v) {
				v = 0
			}
			points = append(points, RadialPoint{Angle: float64(i) * step, Value: v})
			if v > out.Max {
				out.Max = v
			}
		}
		points = append(points, RadialPoint{Angle: 360, Value: points[0].Value})
		out.Polygons = append(out.Polygons, RadialPolygon{Pair: sample.Pair, Name: sample.Name, Points: points})
	}
	return out
}

// SetComparisonTitle switches to the long single-comparison title used when
// only one pair is charted.
func (s *SpiderChart) SetComparisonTitle(descA, descB string) {
	s.Title = fmt.Sprintf("Comparison of %s and %s - JSD per category", descA, descB)
}
