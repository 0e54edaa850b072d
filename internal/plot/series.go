package plot

import (
	"errors"

	"github.com/KaramelBytes/trapstat-cli/internal/stats"
	"github.com/KaramelBytes/trapstat-cli/internal/trap"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// The series below draw in data space through the ranges the chart hands to
// Render, so they share axes with the ticks configured in buildChart.

type bar struct {
	x       float64
	trap    trap.TrapType
	summary stats.Summary
}

type barSeries struct {
	width  float64
	colors map[trap.TrapType]drawing.Color
	bars   []bar
}

func (s *barSeries) GetName() string           { return "bars" }
func (s *barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s *barSeries) GetStyle() chart.Style     { return chart.Style{} }
func (s *barSeries) Validate() error {
	if len(s.bars) == 0 {
		return errors.New("bar series has no bars")
	}
	return nil
}

func (s *barSeries) Render(r chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, b := range s.bars {
		if b.summary.N == 0 {
			continue
		}
		c := s.colors[b.trap]
		left, top := toCanvas(box, xr, yr, b.x-s.width/2, b.summary.Mean)
		right, bottom := toCanvas(box, xr, yr, b.x+s.width/2, 0)
		r.SetFillColor(c)
		r.SetStrokeColor(c)
		r.SetStrokeWidth(1)
		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, bottom)
		r.LineTo(left, bottom)
		r.LineTo(left, top)
		r.Close()
		r.FillStroke()

		if !b.summary.HasCI() {
			continue
		}
		cx, lo := toCanvas(box, xr, yr, b.x, b.summary.CILow)
		_, hi := toCanvas(box, xr, yr, b.x, b.summary.CIHigh)
		capHalf := (right - left) / 8
		r.SetStrokeColor(drawing.Color{R: 40, G: 40, B: 40, A: 255})
		r.SetStrokeWidth(1.5)
		r.MoveTo(cx, lo)
		r.LineTo(cx, hi)
		r.MoveTo(cx-capHalf, lo)
		r.LineTo(cx+capHalf, lo)
		r.MoveTo(cx-capHalf, hi)
		r.LineTo(cx+capHalf, hi)
		r.Stroke()
	}
	s.renderLegend(r, box)
}

// renderLegend draws one swatch per trap type in the top-right corner.
func (s *barSeries) renderLegend(r chart.Renderer, box chart.Box) {
	setFont(r, 12, drawing.Color{R: 20, G: 20, B: 20, A: 255})
	const sw = 12
	y := box.Top + 10
	for _, tt := range trap.TrapTypes {
		name := string(tt)
		tb := r.MeasureText(name)
		x := box.Right - 16 - tb.Width() - sw - 6
		c := s.colors[tt]
		r.SetFillColor(c)
		r.SetStrokeColor(c)
		r.SetStrokeWidth(1)
		r.MoveTo(x, y)
		r.LineTo(x+sw, y)
		r.LineTo(x+sw, y+sw)
		r.LineTo(x, y+sw)
		r.LineTo(x, y)
		r.Close()
		r.FillStroke()
		setFont(r, 12, drawing.Color{R: 20, G: 20, B: 20, A: 255})
		r.Text(name, x+sw+6, y+sw-1)
		y += sw + 8
	}
}

type point struct {
	x, y  float64
	color drawing.Color
}

type stripSeries struct {
	radius float64
	points []point
}

func (s *stripSeries) GetName() string           { return "observations" }
func (s *stripSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s *stripSeries) GetStyle() chart.Style     { return chart.Style{} }
func (s *stripSeries) Validate() error           { return nil }

func (s *stripSeries) Render(r chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, p := range s.points {
		x, y := toCanvas(box, xr, yr, p.x, p.y)
		r.SetFillColor(p.color)
		r.SetStrokeColor(drawing.Color{R: 255, G: 255, B: 255, A: 255})
		r.SetStrokeWidth(0.5)
		r.Circle(s.radius, x, y)
		r.FillStroke()
	}
}

type label struct {
	x, y  float64
	text  string
	color drawing.Color
}

type labelSeries struct {
	labels []label
}

func (s *labelSeries) GetName() string           { return "annotations" }
func (s *labelSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s *labelSeries) GetStyle() chart.Style     { return chart.Style{} }
func (s *labelSeries) Validate() error           { return nil }

func (s *labelSeries) Render(r chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, l := range s.labels {
		setFont(r, 13, l.color)
		x, y := toCanvas(box, xr, yr, l.x, l.y)
		tb := r.MeasureText(l.text)
		r.Text(l.text, x-tb.Width()/2, y)
	}
}

func toCanvas(box chart.Box, xr, yr chart.Range, x, y float64) (int, int) {
	return box.Left + xr.Translate(x), box.Bottom - yr.Translate(y)
}

func setFont(r chart.Renderer, size float64, c drawing.Color) {
	if f, err := chart.GetDefaultFont(); err == nil {
		r.SetFont(f)
	}
	r.SetFontSize(size)
	r.SetFontColor(c)
}
