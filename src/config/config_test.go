package config

import (
	"math"
	"testing"
)

const sampleYAML = `
data sources:
  - name: MIDRC
    description: MIDRC Excel File
    data type: file
    filename: MIDRC.xlsx
    remove column name text: [' (CUSUM)']
  - name: CDC
    description: CDC Excel File
    filename: CDC.xlsx
custom age ranges:
  Age at Index:
    - [0, 17]
    - [18, 49]
    - [90, .inf]
number of files: 3
`

func TestParseConfig(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.DataSources) != 2 {
		t.Fatalf("data sources = %d, want 2", len(cfg.DataSources))
	}
	if got := cfg.DataSources[0].RemoveColumnText; len(got) != 1 || got[0] != " (CUSUM)" {
		t.Fatalf("remove column name text = %q", got)
	}
	// omitted data type defaults to file
	if cfg.DataSources[1].DataType != "file" {
		t.Fatalf("data type = %q, want file", cfg.DataSources[1].DataType)
	}
	if cfg.NumberOfFiles != 3 {
		t.Fatalf("number of files = %d, want 3", cfg.NumberOfFiles)
	}
	ranges := cfg.RangesFor("Age at Index")
	if len(ranges) != 3 {
		t.Fatalf("ranges = %d, want 3", len(ranges))
	}
	if !math.IsInf(ranges[2].High, 1) {
		t.Fatalf("last range high = %v, want +Inf", ranges[2].High)
	}
}

func TestAgeRangeLabel(t *testing.T) {
	cases := []struct {
		r    AgeRange
		want string
	}{
		{AgeRange{0, 17}, "0-17 Custom"},
		{AgeRange{18, 49}, "18-49 Custom"},
		{AgeRange{90, math.Inf(1)}, "90-inf Custom"},
	}
	for _, c := range cases {
		if got := c.r.Label(); got != c.want {
			t.Fatalf("Label(%v) = %q, want %q", c.r, got, c.want)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("data sources: []\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.NumberOfFiles != 2 {
		t.Fatalf("default number of files = %d, want 2", cfg.NumberOfFiles)
	}
	if !cfg.ChartAnimations {
		t.Fatalf("chart animations should default to true")
	}
	if cfg.RangesFor("Age at Index") != nil {
		t.Fatalf("RangesFor on empty config should be nil")
	}
}

func TestParseRejectsBadRange(t *testing.T) {
	_, err := Parse([]byte("custom age ranges:\n  Age at Index:\n    - [1]\n"))
	if err == nil {
		t.Fatalf("expected error for one-element range")
	}
}

func TestParseRejectsMissingName(t *testing.T) {
	_, err := Parse([]byte("data sources:\n  - description: no name\n"))
	if err == nil {
		t.Fatalf("expected error for missing name")
	}
}
