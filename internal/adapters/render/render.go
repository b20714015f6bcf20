// Package render draws dashboard charts as SVG.
package render

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/okian/acadash/pkg/metrics"
)

// Chart kinds used in metrics labels.
const (
	KindBar     = "bar"
	KindStacked = "stacked"
)

const (
	defaultWidth  = 640
	defaultHeight = 400
	// Room taken by axes, ticks and title around the plotting area.
	canvasMargin = 96
)

// Bar is one category and its height.
type Bar struct {
	Label string
	Value float64
}

// BarSpec describes a single-series bar chart. Horizontal specs lay the
// categories along the Y axis.
type BarSpec struct {
	Title      string
	Bars       []Bar
	Horizontal bool
}

// Segment is one part of a stacked bar.
type Segment struct {
	Label string
	Value float64
}

// Stack is one category of a stacked bar chart.
type Stack struct {
	Label    string
	Segments []Segment
}

// StackedSpec describes a stacked bar chart. Segment labels share colors
// across stacks and every stack is drawn on the same count scale.
type StackedSpec struct {
	Title      string
	Stacks     []Stack
	Horizontal bool
}

// LegendEntry pairs a segment label with its hex color.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Renderer draws charts with a fixed canvas size and palette.
type Renderer struct {
	width   int
	height  int
	palette []color.RGBA
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the canvas size; non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithPalette replaces the segment palette.
func WithPalette(colors ...color.RGBA) Option {
	return func(r *Renderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  defaultWidth,
		height: defaultHeight,
		palette: []color.RGBA{
			{R: 0x4c, G: 0x78, B: 0xa8, A: 0xff},
			{R: 0xf5, G: 0x85, B: 0x18, A: 0xff},
			{R: 0x54, G: 0xa2, B: 0x4b, A: 0xff},
			{R: 0xe4, G: 0x57, B: 0x56, A: 0xff},
			{R: 0x72, G: 0xb7, B: 0xb2, A: 0xff},
			{R: 0xb2, G: 0x79, B: 0xa2, A: 0xff},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size returns the canvas size.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Color returns the palette color for the i-th label.
func (r *Renderer) Color(i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return r.palette[i%len(r.palette)]
}

// Legend maps segment labels to palette colors in order.
func (r *Renderer) Legend(labels []string) []LegendEntry {
	out := make([]LegendEntry, len(labels))
	for i, l := range labels {
		out[i] = LegendEntry{Label: l, Color: hex(r.Color(i))}
	}
	return out
}

// Bar writes a bar chart as SVG. An empty spec yields a placeholder.
func (r *Renderer) Bar(w io.Writer, spec BarSpec) error {
	start := time.Now()
	if len(spec.Bars) == 0 {
		return r.placeholder(w, spec.Title, KindBar)
	}
	p, err := r.barPlot(spec)
	if err != nil {
		metrics.RecordChartRenderError(KindBar)
		return fmt.Errorf("%w: %s: %w", ErrRender, KindBar, err)
	}
	return r.write(w, KindBar, start, p)
}

// Stacked writes a stacked bar chart as SVG. An empty spec, or one whose
// stacks are all zero, yields a placeholder.
func (r *Renderer) Stacked(w io.Writer, spec StackedSpec, legend []string) error {
	start := time.Now()
	p, layers, err := r.stackedPlot(spec, legend)
	if err != nil {
		metrics.RecordChartRenderError(KindStacked)
		return fmt.Errorf("%w: %s: %w", ErrRender, KindStacked, err)
	}
	if len(layers) == 0 {
		return r.placeholder(w, spec.Title, KindStacked)
	}
	return r.write(w, KindStacked, start, p)
}

func (r *Renderer) barPlot(spec BarSpec) (*plot.Plot, error) {
	values := make(plotter.Values, len(spec.Bars))
	labels := make([]string, len(spec.Bars))
	for i, b := range spec.Bars {
		values[i] = max(b.Value, 0)
		labels[i] = b.Label
	}
	bars, err := plotter.NewBarChart(values, r.barWidth(len(values), spec.Horizontal))
	if err != nil {
		return nil, err
	}
	bars.Color = r.Color(0)
	bars.LineStyle.Width = 0
	bars.Horizontal = spec.Horizontal

	p := r.newPlot(spec.Title)
	p.Add(bars)
	r.categories(p, labels, spec.Horizontal)
	return p, nil
}

// stackedPlot builds one bar layer per segment label, each stacked on the
// previous one. Layer values are raw counts so stack heights share a scale.
func (r *Renderer) stackedPlot(spec StackedSpec, legend []string) (*plot.Plot, []*plotter.BarChart, error) {
	colorOf := make(map[string]color.RGBA, len(legend))
	order := make([]string, 0, len(legend))
	for i, l := range legend {
		if _, dup := colorOf[l]; dup {
			continue
		}
		colorOf[l] = r.Color(i)
		order = append(order, l)
	}

	stacks := make([]Stack, 0, len(spec.Stacks))
	for _, s := range spec.Stacks {
		total := 0.0
		for _, seg := range s.Segments {
			total += max(seg.Value, 0)
			if _, ok := colorOf[seg.Label]; !ok {
				colorOf[seg.Label] = r.Color(len(colorOf))
				order = append(order, seg.Label)
			}
		}
		if total > 0 {
			stacks = append(stacks, s)
		}
	}

	p := r.newPlot(spec.Title)
	if len(stacks) == 0 {
		return p, nil, nil
	}

	labels := make([]string, len(stacks))
	for i, s := range stacks {
		labels[i] = s.Label
	}

	width := r.barWidth(len(stacks), spec.Horizontal)
	layers := make([]*plotter.BarChart, 0, len(order))
	for _, label := range order {
		values := make(plotter.Values, len(stacks))
		seen := false
		for i, s := range stacks {
			for _, seg := range s.Segments {
				if seg.Label == label && seg.Value > 0 {
					values[i] += seg.Value
					seen = true
				}
			}
		}
		if !seen {
			continue
		}
		layer, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, nil, err
		}
		layer.Color = colorOf[label]
		layer.LineStyle.Width = 0
		layer.Horizontal = spec.Horizontal
		if n := len(layers); n > 0 {
			layer.StackOn(layers[n-1])
		}
		layers = append(layers, layer)
		p.Add(layer)
		p.Legend.Add(label, layer)
	}
	r.categories(p, labels, spec.Horizontal)
	return p, layers, nil
}

func (r *Renderer) newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Legend.Top = true
	return p
}

// categories names the category axis and pins the count axis at zero.
func (r *Renderer) categories(p *plot.Plot, labels []string, horizontal bool) {
	count := &p.Y
	if horizontal {
		p.NominalY(labels...)
		count = &p.X
	} else {
		p.NominalX(labels...)
	}
	count.Min = 0
	if count.Max <= 0 {
		count.Max = 1
	}
}

func (r *Renderer) write(w io.Writer, kind string, start time.Time, p *plot.Plot) error {
	wt, err := p.WriterTo(vg.Points(float64(r.width)), vg.Points(float64(r.height)), "svg")
	if err != nil {
		metrics.RecordChartRenderError(kind)
		return fmt.Errorf("%w: %s: %w", ErrRender, kind, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		metrics.RecordChartRenderError(kind)
		return fmt.Errorf("%w: %s: %w", ErrRender, kind, err)
	}
	metrics.RecordChartRender(kind, time.Since(start))
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// barWidth spreads n bars over the category axis.
func (r *Renderer) barWidth(n int, horizontal bool) vg.Length {
	span := r.width
	if horizontal {
		span = r.height
	}
	return vg.Points(float64(max(4, min(60, (span-canvasMargin)/max(1, n)-8))))
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// placeholder writes an SVG stating there is nothing to draw.
func (r *Renderer) placeholder(w io.Writer, title, kind string) error {
	metrics.RecordChartRender(kind, 0)
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
			`<text x="50%%" y="24" text-anchor="middle" font-family="sans-serif" font-size="14">%s</text>`+
			`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="13" fill="#777777">%s</text>`+
			`</svg>`,
		r.width, r.height, r.width, r.height, html.EscapeString(title), NoDataMessage)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// NoDataMessage is drawn when a chart has no rows.
const NoDataMessage = "Sem dados para os filtros selecionados"
