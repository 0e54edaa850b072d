package plot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/trapstat-cli/internal/trap"
)

func sampleInput() Input {
	long := []trap.LongRecord{
		{Odor: "Ethyl acetate", Trap: trap.TrapOdor, Pct: 60},
		{Odor: "Ethyl acetate", Trap: trap.TrapOdor, Pct: 70},
		{Odor: "Ethyl acetate", Trap: trap.TrapSolvent, Pct: 20},
		{Odor: "Ethyl acetate", Trap: trap.TrapSolvent, Pct: 25},
		{Odor: "Water", Trap: trap.TrapOdor, Pct: 40},
		{Odor: "Water", Trap: trap.TrapSolvent, Pct: 45},
	}
	opt := DefaultOptions()
	opt.Width, opt.Height = 640, 400
	opt.Abbreviations = map[string]string{"ethyl acetate": "EA"}
	return Input{
		Categories: []string{"Ethyl acetate", "Water"},
		Long:       long,
		Counts: []trap.CategoryCount{
			{Category: "Ethyl acetate", Count: 4},
			{Category: "Water", Count: 2},
		},
		Annotations: []Annotation{
			{Category: "Ethyl acetate", PValue: 0.02, OK: true},
			{Category: "Water"},
		},
		Options: opt,
	}
}

func TestFormatP(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.0004, "p<0.001 *"},
		{0.0213, "p=0.021 *"},
		{0.5, "p=0.500"},
		{0.05, "p=0.050"},
	}
	for _, c := range cases {
		if got := FormatP(c.p, 0.05); got != c.want {
			t.Fatalf("FormatP(%v) = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestAbbreviate(t *testing.T) {
	m := map[string]string{"ethyl acetate": "EA", "water": ""}
	if got := Abbreviate(m, "Ethyl Acetate"); got != "EA" {
		t.Fatalf("case-insensitive lookup failed: %q", got)
	}
	if got := Abbreviate(m, "Water"); got != "Water" {
		t.Fatalf("empty abbreviation should fall back to name: %q", got)
	}
	if got := Abbreviate(nil, "Vinegar"); got != "Vinegar" {
		t.Fatalf("nil map: %q", got)
	}
}

func TestRenderWritesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleInput()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("output is not a PNG (%d bytes)", buf.Len())
	}
}

func TestRenderNoCategories(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Input{}); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "funneltrap_bar.png")
	if err := SaveFile(path, sampleInput()); err != nil {
		t.Fatalf("save: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		t.Fatalf("figure not written: %v", err)
	}
}

func TestSaveFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figures", "out.png")
	err := SaveFile(path, sampleInput())
	if !errors.Is(err, ErrOutputDir) {
		t.Fatalf("expected ErrOutputDir, got %v", err)
	}
	var oe *OutputError
	if !errors.As(err, &oe) || oe.Path != path {
		t.Fatalf("expected OutputError for %s, got %v", path, err)
	}
	if _, serr := os.Stat(filepath.Dir(path)); !os.IsNotExist(serr) {
		t.Fatalf("output directory must not be created")
	}
}

func TestBuildChartAxes(t *testing.T) {
	ch, err := buildChart(sampleInput())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Two pinned extremes plus one tick per category.
	if len(ch.XAxis.Ticks) != 4 {
		t.Fatalf("x ticks = %d", len(ch.XAxis.Ticks))
	}
	if got := ch.XAxis.Ticks[1].Label; got != "EA (n=4)" {
		t.Fatalf("first label = %q", got)
	}
	if got := ch.XAxis.Ticks[2].Label; got != "Water (n=2)" {
		t.Fatalf("second label = %q", got)
	}
}

func TestNiceMaxAndTicks(t *testing.T) {
	if niceMax(0) != 10 || niceMax(84) != 90 || niceMax(120) != 120 {
		t.Fatalf("niceMax: %v %v %v", niceMax(0), niceMax(84), niceMax(120))
	}
	ticks := yTicks(90)
	if ticks[0].Value != 0 || ticks[len(ticks)-1].Value != 90 {
		t.Fatalf("ticks must span 0..90: %+v", ticks)
	}
	if len(yTicks(400)) > 12 {
		t.Fatalf("too many ticks for 400")
	}
}
