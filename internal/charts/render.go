package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultChartWidth  = 400
	DefaultChartHeight = 320
	minChartSide       = 100
)

// Renderer draws chart descriptors as PNG images.
type Renderer struct {
	width  int
	height int
}

func NewRenderer(width, height int) *Renderer {
	if width < minChartSide {
		width = DefaultChartWidth
	}
	if height < minChartSide {
		height = DefaultChartHeight
	}
	return &Renderer{
		width:  width,
		height: height,
	}
}

func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// RenderPNG writes the chart as PNG. A chart that fails to render is
// replaced by the "No Data" placeholder, so only write errors are returned.
func (r *Renderer) RenderPNG(c Chart, w io.Writer) error {
	var buf bytes.Buffer
	var err error
	switch c.Kind {
	case KindGauge:
		err = r.renderGauge(c.Gauge, &buf)
	case KindTrend:
		err = r.renderTrend(c.Trend, &buf)
	default:
		err = r.renderPlaceholder(placeholderText(c), &buf)
	}

	if err != nil {
		log.Errorf("render chart [%s]: %s, using placeholder", c.Slot, err)
		buf.Reset()
		if err := r.renderPlaceholder(NoDataText, &buf); err != nil {
			return fmt.Errorf("render placeholder: %w", err)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write chart png: %w", err)
	}
	return nil
}

func placeholderText(c Chart) string {
	if strings.TrimSpace(c.Placeholder) == "" {
		return NoDataText
	}
	return c.Placeholder
}

func (r *Renderer) renderGauge(g *GaugeData, w io.Writer) error {
	if g == nil {
		return errors.New("gauge data missing")
	}

	donut := chart.DonutChart{
		Width:  r.width,
		Height: r.height,
		Values: []chart.Value{
			{
				Value: g.Achieved.Value,
				Label: g.Achieved.Label,
				Style: chart.Style{FillColor: hexColor(g.Achieved.Color)},
			},
			{
				Value: g.Remaining.Value,
				Label: g.Remaining.Label,
				Style: chart.Style{
					FillColor: hexColor(g.Remaining.Color),
					FontColor: drawing.ColorFromHex("555555"),
				},
			},
		},
	}
	return donut.Render(chart.PNG, w)
}

func (r *Renderer) renderTrend(t *TrendData, w io.Writer) error {
	if t == nil {
		return errors.New("trend data missing")
	}
	if len(t.Points) == 0 {
		return errors.New("trend has no points")
	}

	xs := make([]float64, len(t.Points))
	ys := make([]float64, len(t.Points))
	ticks := make([]chart.Tick, len(t.Points))
	for i, p := range t.Points {
		xs[i] = float64(i + 1)
		ys[i] = p.Value
		ticks[i] = chart.Tick{Value: xs[i], Label: p.Day}
	}

	yMin, yMax := t.YMin, t.YMax
	// negative values can push max below the fixed 0 floor
	if yMax <= yMin {
		yMax = yMin + 1
	}

	lineColor := hexColor(t.Color)
	ch := chart.Chart{
		Title:  t.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  t.XLabel,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(t.Points)) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  t.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    t.Legend,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

// renderPlaceholder draws the text centered on a plain background.
func (r *Renderer) renderPlaceholder(text string, w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 60, G: 60, B: 60, A: 255}),
		Face: face,
	}
	textWidth := dr.MeasureString(text).Ceil()
	x := (r.width - textWidth) / 2
	y := (r.height + face.Metrics().Ascent.Ceil()) / 2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)

	return png.Encode(w, img)
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
