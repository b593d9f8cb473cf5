// Package chart renders dashboard tables and derived views as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrEmptySeries = errors.New("chart has no data")
	ErrUnknownView = errors.New("unknown chart view")
)

type Kind int

const (
	KindBar Kind = iota
	KindLine
	// KindBox carries one Box per label; PNG output draws Values (the medians) as bars.
	KindBox
	// KindHeatmap carries Cells; PNG output draws Labels and Values as bars.
	KindHeatmap
)

// Series is one labelled sequence of values ready to draw.
type Series struct {
	Title  string
	YName  string
	Kind   Kind
	Labels []string
	Values []float64

	Boxes    []Box
	Outliers []Point
	Cells    []Cell
}

// Box is the five-number summary of one box plot column.
type Box struct {
	Min, Q1, Median, Q3, Max float64
}

// Point is a single value plotted against a category label.
type Point struct {
	Label string
	Value float64
}

// Cell is one heatmap square.
type Cell struct {
	X, Y  string
	Value float64
}

const (
	height     = 768
	minWidth   = 1024
	barWidth   = 30
	barSpacing = 12
	maxTicks   = 24
)

// Render draws s as a PNG.
func Render(s Series) ([]byte, error) {
	if len(s.Values) == 0 {
		return nil, ErrEmptySeries
	}
	if len(s.Labels) != len(s.Values) {
		return nil, fmt.Errorf("chart %q: %d labels for %d values", s.Title, len(s.Labels), len(s.Values))
	}
	if s.Kind == KindLine {
		return Line(s.Title, s.YName, s.Labels, s.Values)
	}
	return Bar(s.Title, s.YName, s.Labels, s.Values)
}

// Bar renders one bar per label.
func Bar(title, yName string, labels []string, values []float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}

	bars := make([]gochart.Value, len(values))
	for i, v := range values {
		bars[i] = gochart.Value{Value: v, Label: labels[i]}
	}

	graph := gochart.BarChart{
		Title: title,
		Background: gochart.Style{
			Padding:     gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorFromHex("efefef"),
			StrokeWidth: 1,
		},
		Height:     height,
		Width:      max(minWidth, len(bars)*(barWidth+barSpacing)+200),
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Bars:       bars,
		YAxis: gochart.YAxis{
			Name:  yName,
			Range: valueRange(values),
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(gochart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render bar chart %q: %w", title, err)
	}
	return buffer.Bytes(), nil
}

// Line renders values in label order as a single line.
func Line(title, yName string, labels []string, values []float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}

	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}

	step := max(1, len(labels)/maxTicks)
	ticks := make([]gochart.Tick, 0, len(labels)/step+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: labels[i]})
	}

	graph := gochart.Chart{
		Title: title,
		Background: gochart.Style{
			Padding:     gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorFromHex("efefef"),
			StrokeWidth: 1,
		},
		Width:  minWidth * 2,
		Height: height,
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(max(1, len(values)-1))},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  yName,
			Range: valueRange(values),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: values,
				Style: gochart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(gochart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render line chart %q: %w", title, err)
	}
	return buffer.Bytes(), nil
}

// valueRange anchors the y axis at zero so a flat series still has a usable range.
func valueRange(values []float64) *gochart.ContinuousRange {
	top := slices.Max(values)
	if top <= 0 {
		top = 1
	}
	bottom := min(0, slices.Min(values))
	return &gochart.ContinuousRange{Min: bottom, Max: top * 1.1}
}
