package uihelpers

import (
	"testing"
	"time"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 800},
		{799, 800},
		{800, 800},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 280 || h > 520 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestComputePieDiameter(t *testing.T) {
	if d := ComputePieDiameter(400, 4); d != 220 {
		t.Fatalf("narrow window pie diameter %d want clamp 220", d)
	}
	if d := ComputePieDiameter(4000, 2); d != 320 {
		t.Fatalf("wide window pie diameter %d want clamp 320", d)
	}
	if d := ComputePieDiameter(1200, 4); d != 280 {
		t.Fatalf("mid window pie diameter %d want 280", d)
	}
	if d := ComputePieDiameter(1200, 0); d != 320 {
		t.Fatalf("zero count should behave as one pie, got %d", d)
	}
}

func TestComputeTableColumnWidths(t *testing.T) {
	dw, vw := ComputeTableColumnWidths(1200)
	if dw != 110 || vw != 90 {
		t.Fatalf("full widths (%d,%d)", dw, vw)
	}
	dw, vw = ComputeTableColumnWidths(759)
	if dw != 90 || vw != 70 {
		t.Fatalf("compact widths (%d,%d)", dw, vw)
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b, err := ParseHexColor("#0074d9")
	if err != nil {
		t.Fatalf("ParseHexColor: %v", err)
	}
	if r != 0x00 || g != 0x74 || b != 0xd9 {
		t.Fatalf("channels = %02x %02x %02x", r, g, b)
	}
	for _, bad := range []string{"", "#fff", "0074d9", "#zzzzzz"} {
		if _, _, _, err := ParseHexColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDivergenceTicks(t *testing.T) {
	ticks := DivergenceTicks()
	if len(ticks) != 11 || ticks[0] != 0 || ticks[10] != 1 {
		t.Fatalf("ticks = %v", ticks)
	}
	if got := FormatDivergenceTick(ticks[5]); got != "0.5" {
		t.Fatalf("format 0.5 => %q", got)
	}
	if got := FormatDivergenceTick(ticks[10]); got != "1.0" {
		t.Fatalf("format 1.0 => %q", got)
	}
}

func TestPickDateStep(t *testing.T) {
	day := 24 * time.Hour
	cases := []struct {
		span time.Duration
		want time.Duration
	}{
		{10 * day, day},
		{60 * day, 7 * day},
		{300 * day, 30 * day},
		{2 * 365 * day, 91 * day},
		{5 * 365 * day, 365 * day},
	}
	for _, c := range cases {
		step, layout := PickDateStep(c.span)
		if step != c.want {
			t.Fatalf("span %v => step %v want %v", c.span, step, c.want)
		}
		if layout == "" {
			t.Fatalf("span %v => empty layout", c.span)
		}
	}
}

func TestBuildDateTicks(t *testing.T) {
	day := 24 * time.Hour
	min := float64(time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC).UnixMilli())
	max := float64(time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC).UnixMilli())
	ticks := BuildDateTicks(min, max, day)
	if len(ticks) < 2 {
		t.Fatalf("expected at least 2 ticks got %v", ticks)
	}
	if ticks[0] > min {
		t.Fatalf("first tick %v should align at or before min %v", ticks[0], min)
	}
	stepMs := float64(day.Milliseconds())
	for i := 1; i < len(ticks); i++ {
		if ticks[i]-ticks[i-1] != stepMs {
			t.Fatalf("uneven step at %d: %v", i, ticks[i]-ticks[i-1])
		}
	}
	if got := BuildDateTicks(min, max, 0); got != nil {
		t.Fatalf("zero step should yield nil, got %v", got)
	}
	// cap: huge span with tiny step stays bounded
	if got := BuildDateTicks(0, 1e12, time.Hour); len(got) > 21 {
		t.Fatalf("tick cap exceeded: %d", len(got))
	}
}
