// Package plot renders the grouped trap bar chart with strip points and
// per-odor significance annotations.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/trapstat-cli/internal/stats"
	"github.com/KaramelBytes/trapstat-cli/internal/trap"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrOutputDir indicates the figure directory does not exist. It is never created.
var ErrOutputDir = errors.New("output directory does not exist")

// OutputError wraps a failed figure write.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string { return fmt.Sprintf("write figure %s: %v", e.Path, e.Err) }
func (e *OutputError) Unwrap() error { return e.Err }

// Annotation is the test outcome shown above one odor group.
type Annotation struct {
	Category string
	PValue   float64
	// OK is false when the test could not run; the label then reads n/a.
	OK bool
}

// Options controls presentation only. Palette maps trap type to a hex color;
// Alpha is the significance threshold for the marker.
type Options struct {
	Width         int
	Height        int
	Title         string
	YLabel        string
	Palette       map[trap.TrapType]string
	BarAlpha      float64
	Alpha         float64
	Confidence    float64
	Abbreviations map[string]string
	Seed          int64
}

// DefaultOptions is a 1.6 aspect figure with muted blue/orange bars at alpha 0.6.
func DefaultOptions() Options {
	return Options{
		Width:  1280,
		Height: 800,
		YLabel: "Trap %",
		Palette: map[trap.TrapType]string{
			trap.TrapOdor:    "#4c72b0",
			trap.TrapSolvent: "#dd8452",
		},
		BarAlpha:   0.6,
		Alpha:      0.05,
		Confidence: 0.95,
		Seed:       1,
	}
}

// Input is everything the renderer consumes.
type Input struct {
	Categories  []string
	Long        []trap.LongRecord
	Counts      []trap.CategoryCount
	Annotations []Annotation
	Options     Options
}

// Abbreviate returns the configured short name for an odor, matching case-insensitively.
func Abbreviate(abbrev map[string]string, name string) string {
	if v, ok := abbrev[name]; ok && v != "" {
		return v
	}
	for k, v := range abbrev {
		if strings.EqualFold(k, name) && v != "" {
			return v
		}
	}
	return name
}

// FormatP renders a p-value label, with a trailing marker when significant.
func FormatP(p, alpha float64) string {
	var s string
	if p < 0.001 {
		s = "p<0.001"
	} else {
		s = fmt.Sprintf("p=%.3f", p)
	}
	if p < alpha {
		s += " *"
	}
	return s
}

// SaveFile renders a PNG to path. A missing parent directory yields ErrOutputDir.
func SaveFile(path string, in Input) error {
	var buf bytes.Buffer
	if err := Render(&buf, in); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &OutputError{Path: path, Err: fmt.Errorf("%w: %s", ErrOutputDir, filepath.Dir(path))}
		}
		return &OutputError{Path: path, Err: err}
	}
	return nil
}

// Render writes the chart as PNG.
func Render(w io.Writer, in Input) error {
	ch, err := buildChart(in)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func buildChart(in Input) (chart.Chart, error) {
	opt := in.Options
	def := DefaultOptions()
	if opt.Width <= 0 {
		opt.Width = def.Width
	}
	if opt.Height <= 0 {
		opt.Height = def.Height
	}
	if opt.BarAlpha <= 0 || opt.BarAlpha > 1 {
		opt.BarAlpha = def.BarAlpha
	}
	if opt.Alpha <= 0 {
		opt.Alpha = def.Alpha
	}
	if opt.YLabel == "" {
		opt.YLabel = def.YLabel
	}
	if len(in.Categories) == 0 {
		return chart.Chart{}, errors.New("nothing to plot: no categories")
	}

	colors := map[trap.TrapType]drawing.Color{}
	for _, tt := range trap.TrapTypes {
		hex := opt.Palette[tt]
		if hex == "" {
			hex = def.Palette[tt]
		}
		c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
		c.A = uint8(math.Round(opt.BarAlpha * 255))
		colors[tt] = c
	}

	counts := map[string]int{}
	for _, c := range in.Counts {
		counts[c.Category] = c.Count
	}
	notes := map[string]Annotation{}
	for _, a := range in.Annotations {
		notes[a.Category] = a
	}

	rng := rand.New(rand.NewSource(opt.Seed))
	bars := &barSeries{width: 0.38, colors: colors}
	strip := &stripSeries{radius: 3}
	labels := &labelSeries{}
	top := 0.0
	groupTop := make([]float64, len(in.Categories))
	for i, cat := range in.Categories {
		x := float64(i)
		for j, tt := range trap.TrapTypes {
			vals := trap.Values(in.Long, cat, tt)
			s := stats.Describe(vals, opt.Confidence)
			cx := x + (float64(j)-0.5)*bars.width
			bars.bars = append(bars.bars, bar{x: cx, trap: tt, summary: s})
			hi := math.Max(s.CIHigh, s.Max)
			if hi > groupTop[i] {
				groupTop[i] = hi
			}
			for _, v := range vals {
				jit := (rng.Float64() - 0.5) * bars.width * 0.5
				strip.points = append(strip.points, point{x: cx + jit, y: v, color: opaque(colors[tt])})
			}
		}
		if groupTop[i] > top {
			top = groupTop[i]
		}
	}
	yMax := niceMax(top * 1.2)
	for i, cat := range in.Categories {
		a, ok := notes[cat]
		if !ok {
			continue
		}
		text := "n/a"
		color := drawing.Color{R: 90, G: 90, B: 90, A: 255}
		if a.OK {
			text = FormatP(a.PValue, opt.Alpha)
			if a.PValue < opt.Alpha {
				color = drawing.Color{R: 200, G: 30, B: 30, A: 255}
			} else {
				color = drawing.Color{R: 20, G: 20, B: 20, A: 255}
			}
		}
		labels.labels = append(labels.labels, label{x: float64(i), y: groupTop[i] + yMax*0.04, text: text, color: color})
	}

	n := float64(len(in.Categories))
	xMin, xMax := -0.6, n-0.4
	xTicks := []chart.Tick{{Value: xMin, Label: ""}}
	for i, cat := range in.Categories {
		xTicks = append(xTicks, chart.Tick{
			Value: float64(i),
			Label: fmt.Sprintf("%s (n=%d)", Abbreviate(opt.Abbreviations, cat), counts[cat]),
		})
	}
	xTicks = append(xTicks, chart.Tick{Value: xMax, Label: ""})

	return chart.Chart{
		Title:      opt.Title,
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 24, Bottom: 20}},
		XAxis: chart.XAxis{
			Range:        &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks:        xTicks,
			TickPosition: chart.TickPositionUnderTick,
		},
		YAxis: chart.YAxis{
			Name:  opt.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks: yTicks(yMax),
		},
		Series: []chart.Series{bars, strip, labels},
	}, nil
}

// niceMax rounds v up to a multiple of 10 (at least 10).
func niceMax(v float64) float64 {
	if v <= 10 || math.IsNaN(v) {
		return 10
	}
	return math.Ceil(v/10) * 10
}

func yTicks(yMax float64) []chart.Tick {
	step := 10.0
	for yMax/step > 10 {
		step *= 2
	}
	var ticks []chart.Tick
	for v := 0.0; v < yMax; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return append(ticks, chart.Tick{Value: yMax, Label: fmt.Sprintf("%g", yMax)})
}

func opaque(c drawing.Color) drawing.Color {
	c.A = 255
	return c
}
