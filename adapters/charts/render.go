package charts

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"agroprod/domain/production"
	"agroprod/internal/format"
)

// Image formats accepted by Render.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ContentType returns the MIME type of an image format.
func ContentType(imageFormat string) string {
	if imageFormat == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

var palette = map[Kind]color.RGBA{
	KindMeanArea:     {R: 49, G: 130, B: 189, A: 255},
	KindMeanYield:    {R: 49, G: 163, B: 84, A: 255},
	KindTopValue:     {R: 188, G: 55, B: 84, A: 255},
	KindProductivity: {R: 126, G: 3, B: 168, A: 255},
	KindEfficiency:   {R: 230, G: 126, B: 34, A: 255},
}

// NewPlot builds the bar chart of a series.
func NewPlot(s Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel

	if len(s.Values) == 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: 0, Y: 0}},
			Labels: []string{"Sem valores definidos"},
		})
		if err != nil {
			return nil, err
		}
		p.Add(labels)
		p.HideAxes()
		p.X.Min, p.X.Max = -1, 1
		p.Y.Min, p.Y.Max = -1, 1
		return p, nil
	}

	bars, err := plotter.NewBarChart(plotter.Values(s.Values), vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s bars: %w", s.Kind, err)
	}
	bars.Color = palette[s.Kind]
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Add(plotter.NewGrid())

	p.NominalX(s.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	minV, maxV := extent(s.Values)
	p.Y.Min = math.Min(0, minV*1.15)
	p.Y.Max = math.Max(0, maxV*1.15)

	valueLabels := make([]string, len(s.Values))
	xys := make([]plotter.XY, len(s.Values))
	for i, v := range s.Values {
		xys[i] = plotter.XY{X: float64(i), Y: v + maxV*0.02}
		valueLabels[i] = format.Number(v, 2)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: valueLabels})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)

	return p, nil
}

func extent(values []float64) (minV, maxV float64) {
	minV, maxV = values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return minV, maxV
}

// Render writes the chart of s to w as SVG or PNG. The width grows with the
// number of bars so long municipality lists stay readable.
func Render(w io.Writer, s Series, imageFormat string) error {
	if imageFormat != FormatSVG && imageFormat != FormatPNG {
		return fmt.Errorf("unsupported image format %q", imageFormat)
	}
	p, err := NewPlot(s)
	if err != nil {
		return err
	}

	width := vg.Length(math.Max(8, 0.45*float64(len(s.Values)))) * vg.Inch
	wt, err := p.WriterTo(width, 5*vg.Inch, imageFormat)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", s.Kind, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Rendered is one chart image plus the keys left out of it.
type Rendered struct {
	Series Series
	Image  []byte
}

// RenderAll renders every chart of s concurrently. The result follows
// Kinds order.
func RenderAll(ctx context.Context, s *production.Summaries, imageFormat string) ([]Rendered, error) {
	kinds := Kinds()
	out := make([]Rendered, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			series, err := BuildSeries(s, kind)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := Render(&buf, series, imageFormat); err != nil {
				return err
			}
			out[i] = Rendered{Series: series, Image: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
