// Package analysis turns loaded source tables and the current selection into
// chart-ready structures: the divergence timeline and its backing grid, the
// stacked distribution areas, the per-source pie breakdowns, and the
// per-category spider chart. Everything is rebuilt from scratch on every
// selection change; nothing here touches widgets or rendering.
package analysis

import (
	"errors"
	"time"
)

// DivergenceFunc scores the distance between two aligned distribution
// vectors. The builders treat it as an opaque statistic.
type DivergenceFunc func(p, q []float64) float64

// Precondition errors. Builders wrap these so callers can errors.Is them.
var (
	ErrNoRows        = errors.New("no data rows")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoCategory    = errors.New("category not loaded")
)

// TimePoint is one dated sample of a series.
type TimePoint struct {
	T time.Time
	V float64
}

// TimeRange is an inclusive horizontal axis span.
type TimeRange struct {
	Min, Max time.Time
}

// IsZero reports whether the range was never widened.
func (r TimeRange) IsZero() bool { return r.Min.IsZero() && r.Max.IsZero() }

func (r *TimeRange) widen(t time.Time) {
	if r.Min.IsZero() || t.Before(r.Min) {
		r.Min = t
	}
	if r.Max.IsZero() || t.After(r.Max) {
		r.Max = t
	}
}

// ValueRange is an inclusive vertical axis span.
type ValueRange struct {
	Min, Max float64
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
