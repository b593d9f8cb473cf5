package chart

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type page interface {
	Render(w io.Writer) error
}

// HTML renders s as a standalone interactive page.
func HTML(s Series) ([]byte, error) {
	if len(s.Values) == 0 && len(s.Cells) == 0 {
		return nil, ErrEmptySeries
	}
	if len(s.Labels) != len(s.Values) {
		return nil, fmt.Errorf("chart %q: %d labels for %d values", s.Title, len(s.Labels), len(s.Values))
	}

	global := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
	}

	var p page
	switch s.Kind {
	case KindLine:
		p = lineHTML(s, global)
	case KindBox:
		if len(s.Boxes) != len(s.Labels) {
			return nil, fmt.Errorf("chart %q: %d boxes for %d labels", s.Title, len(s.Boxes), len(s.Labels))
		}
		p = boxHTML(s, global)
	case KindHeatmap:
		if len(s.Cells) == 0 {
			return nil, ErrEmptySeries
		}
		p = heatmapHTML(s, global)
	default:
		p = barHTML(s, global)
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := p.Render(buffer); err != nil {
		return nil, fmt.Errorf("render html chart %q: %w", s.Title, err)
	}
	return buffer.Bytes(), nil
}

func lineHTML(s Series, global []charts.GlobalOpts) page {
	items := make([]opts.LineData, len(s.Values))
	for i, v := range s.Values {
		items[i] = opts.LineData{Value: v}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(append(global, charts.WithYAxisOpts(opts.YAxis{Name: s.YName}))...)
	line.SetXAxis(s.Labels).AddSeries(s.YName, items)
	return line
}

func barHTML(s Series, global []charts.GlobalOpts) page {
	items := make([]opts.BarData, len(s.Values))
	for i, v := range s.Values {
		items[i] = opts.BarData{Value: v}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(global, charts.WithYAxisOpts(opts.YAxis{Name: s.YName}))...)
	bar.SetXAxis(s.Labels).AddSeries(s.YName, items)
	return bar
}

// boxHTML draws one box per label with its outliers as scatter points on top.
func boxHTML(s Series, global []charts.GlobalOpts) page {
	items := make([]opts.BoxPlotData, len(s.Boxes))
	for i, b := range s.Boxes {
		items[i] = opts.BoxPlotData{Name: s.Labels[i], Value: []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}}
	}
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(append(global, charts.WithYAxisOpts(opts.YAxis{Name: s.YName}))...)
	box.SetXAxis(s.Labels).AddSeries(s.YName, items)

	if len(s.Outliers) > 0 {
		points := make([]opts.ScatterData, len(s.Outliers))
		for i, p := range s.Outliers {
			points[i] = opts.ScatterData{Value: []any{p.Label, p.Value}}
		}
		scatter := charts.NewScatter()
		scatter.SetXAxis(s.Labels).AddSeries("Outliers", points)
		box.Overlap(scatter)
	}
	return box
}

// heatmapHTML lays Cells out on category axes in order of first appearance.
func heatmapHTML(s Series, global []charts.GlobalOpts) page {
	var xs, ys []string
	top := 0.0
	for _, c := range s.Cells {
		if !slices.Contains(xs, c.X) {
			xs = append(xs, c.X)
		}
		if !slices.Contains(ys, c.Y) {
			ys = append(ys, c.Y)
		}
		top = max(top, c.Value)
	}

	items := make([]opts.HeatMapData, len(s.Cells))
	for i, c := range s.Cells {
		items[i] = opts.HeatMapData{Value: [3]any{slices.Index(xs, c.X), slices.Index(ys, c.Y), c.Value}}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(append(global,
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: ys}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: 0,
			Max: float32(top),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#f7fbff", "#6baed6", "#08306b"},
			},
		}),
	)...)
	hm.SetXAxis(xs).AddSeries(s.YName, items)
	return hm
}
