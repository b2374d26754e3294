package internal

import (
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderOptions holds the size of rendered images.
type RenderOptions struct {
	Width  int
	Height int
}

func (c Config) GetRenderOptions() RenderOptions {
	return RenderOptions(c.Render)
}

var (
	backgroundColor = drawing.ColorFromHex("0a0a0a")
	gridColor       = drawing.ColorFromHex("262626")
	mutedColor      = drawing.ColorFromHex("a3a3a3")
)

// WritePNG draws c as a PNG image. Gaps in line datasets break the line.
func WritePNG(w io.Writer, c Chart, width, height int) error {
	if !c.Valid() {
		return ErrNoData
	}
	if c.Options.Top <= 0 || c.Options.Step <= 0 {
		return fmt.Errorf("invalid y-axis: top %d, step %d", c.Options.Top, c.Options.Step)
	}

	var series []chart.Series
	for _, d := range c.Datasets {
		switch d.Kind {
		case DatasetBar:
			series = append(series, barSeries(d)...)
		default:
			series = append(series, lineSeries(d)...)
		}
	}

	ticks := make([]chart.Tick, len(c.Labels))
	for i, label := range c.Labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	var yTicks []chart.Tick
	for v := 0; v <= c.Options.Top; v += c.Options.Step {
		yTicks = append(yTicks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d%%", v)})
	}

	axisStyle := chart.Style{
		FontColor:   mutedColor,
		StrokeColor: gridColor,
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: backgroundColor},
		XAxis: chart.XAxis{
			Style: axisStyle,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(c.Labels)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style: axisStyle,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(c.Options.Top)},
			Ticks: yTicks,
			GridMajorStyle: chart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1,
			},
		},
		Series: series,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func hexColor(color string) drawing.Color {
	if color == "transparent" {
		return drawing.ColorTransparent
	}
	return drawing.ColorFromHex(strings.TrimPrefix(color, "#"))
}

// lineSeries splits a dataset into one series per run of consecutive points, so gaps stay gaps.
func lineSeries(d Dataset) []chart.Series {
	color := hexColor(d.Color)
	style := chart.Style{
		StrokeColor: color,
		StrokeWidth: 2.5,
		DotColor:    color,
		DotWidth:    4,
	}
	if d.Dashed {
		style.StrokeWidth = 1.5
		style.StrokeDashArray = []float64{5, 5}
	}
	if d.Hidden {
		style.DotWidth = 0
	}

	var series []chart.Series
	for _, run := range runs(d.Data) {
		// go-chart needs two values per series; an isolated point becomes a zero-length line.
		if len(run.x) == 1 {
			run.x = append(run.x, run.x[0])
			run.y = append(run.y, run.y[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    d.Label,
			Style:   style,
			XValues: run.x,
			YValues: run.y,
		})
	}
	return series
}

// barSeries draws each bar as a thick vertical stroke from zero.
func barSeries(d Dataset) []chart.Series {
	var series []chart.Series
	for i, v := range d.Data {
		if v == nil {
			continue
		}
		color := hexColor(d.Color)
		if i < len(d.BarColors) {
			color = hexColor(d.BarColors[i])
		}
		series = append(series, chart.ContinuousSeries{
			Name: d.Label,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 24,
			},
			XValues: []float64{float64(i), float64(i)},
			YValues: []float64{0, *v},
		})
	}
	return series
}

type run struct {
	x, y []float64
}

// runs groups the present values of data into consecutive stretches.
func runs(data []*float64) []run {
	var out []run
	var current run
	for i, v := range data {
		if v == nil {
			if len(current.x) > 0 {
				out = append(out, current)
				current = run{}
			}
			continue
		}
		current.x = append(current.x, float64(i))
		current.y = append(current.y, *v)
	}
	if len(current.x) > 0 {
		out = append(out, current)
	}
	return out
}
