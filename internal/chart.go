package internal

import (
	"github.com/goccy/go-json"
)

// DatasetKind is how a Dataset is drawn.
type DatasetKind string

const (
	DatasetLine DatasetKind = "line"
	DatasetBar  DatasetKind = "bar"
)

// Dataset is one series on a Chart. Nil values are gaps.
type Dataset struct {
	Label  string      `json:"label"`
	Kind   DatasetKind `json:"kind"`
	Data   []*float64  `json:"data"`
	Color  string      `json:"color"`
	Square bool        `json:"square,omitempty"` // Square points instead of round ones.
	Dashed bool        `json:"dashed,omitempty"`
	Hidden bool        `json:"hidden,omitempty"` // Drawn without points or tooltips, e.g. the goal line.

	// Per-point bar colors, only for bar datasets.
	BarColors []string `json:"barColors,omitempty"`
}

// Empty returns whether the dataset has nothing to draw.
func (d Dataset) Empty() bool {
	for _, v := range d.Data {
		if v != nil {
			return false
		}
	}
	return true
}

// Chart is a category chart: Labels along the x-axis, percentages up the y-axis.
type Chart struct {
	Labels   []string     `json:"labels"`
	Datasets []Dataset    `json:"datasets"`
	Options  ChartOptions `json:"options"`
}

// ChartOptions holds the y-axis layout.
type ChartOptions struct {
	Top    int  `json:"top"`
	Step   int  `json:"step"`
	Legend bool `json:"legend"`
	Small  bool `json:"small,omitempty"` // Smaller fonts and points, for the task grid.
}

func (c ChartConfig) ToChartOptions() ChartOptions {
	return ChartOptions{Top: c.Top, Step: c.Step}
}

// Valid returns whether the chart has at least one dataset with a point to draw.
func (c Chart) Valid() bool {
	if len(c.Labels) == 0 {
		return false
	}
	for _, d := range c.Datasets {
		if !d.Hidden && !d.Empty() {
			return true
		}
	}
	return false
}

// JSON returns the chart for the page script.
func (c Chart) JSON() string {
	buf, err := json.Marshal(c)
	if err != nil {
		return "null"
	}
	return string(buf)
}

// Colors of the two score categories and their measure shades, darkest first.
var (
	gymPalette      = palette{Line: "#3b82f6", Shades: [4]string{"#3b82f6", "#60a5fa", "#93c5fd", "#dbeafe"}}
	businessPalette = palette{Line: "#ef4444", Shades: [4]string{"#ef4444", "#f87171", "#fca5a5", "#fee2e2"}}
)

const goalColor = "#525252"

type palette struct {
	Line   string
	Shades [4]string
}

// barColor shades a measure by how close it is to the goal.
func (p palette) barColor(score *float64) string {
	switch {
	case score == nil || *score == 0:
		return "transparent"
	case *score >= 100:
		return p.Shades[0]
	case *score >= 80:
		return p.Shades[1]
	case *score >= 50:
		return p.Shades[2]
	}
	return p.Shades[3]
}

func lineDataset(label string, p palette, data []*float64) Dataset {
	return Dataset{
		Label: label,
		Kind:  DatasetLine,
		Data:  data,
		Color: p.Line,
	}
}

func barDataset(label string, p palette, data []*float64) Dataset {
	colors := make([]string, len(data))
	for i, v := range data {
		colors[i] = p.barColor(v)
	}
	return Dataset{
		Label:     label,
		Kind:      DatasetBar,
		Data:      data,
		Color:     p.Line,
		BarColors: colors,
	}
}

// appendNonEmpty adds the datasets that have something to draw.
func appendNonEmpty(datasets []Dataset, more ...Dataset) []Dataset {
	for _, d := range more {
		if !d.Empty() {
			datasets = append(datasets, d)
		}
	}
	return datasets
}
