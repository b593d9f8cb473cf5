// Package report renders a dashboard as plain-text tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/MichaelF102/Uber-Analytics/internal/service"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatMarkdown, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

type section struct {
	title  string
	header table.Row
	rows   []table.Row
}

// Write renders every dashboard table followed by the derived views.
func Write(w io.Writer, d *service.Dashboard, format Format) error {
	for _, s := range sections(d) {
		t := table.NewWriter()
		t.SetTitle(s.title)
		t.AppendHeader(s.header)
		t.AppendRows(s.rows)
		t.SetStyle(table.StyleLight)
		t.SetColumnConfigs([]table.ColumnConfig{{Number: len(s.header), Align: text.AlignRight}})

		var out string
		switch format {
		case FormatMarkdown:
			out = t.RenderMarkdown()
		case FormatCSV:
			out = t.RenderCSV()
		default:
			out = t.Render()
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", out); err != nil {
			return fmt.Errorf("write %s: %w", s.title, err)
		}
	}
	return nil
}

func metricRows(metrics []service.Metric) []table.Row {
	rows := make([]table.Row, len(metrics))
	for i, m := range metrics {
		rows[i] = table.Row{m.Name, formatNumber(m.Value)}
	}
	return rows
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sections(d *service.Dashboard) []section {
	out := []section{
		{"Summary Metrics", table.Row{"Metric", "Value"}, metricRows(d.Summary)},
		{"Ride Status Distribution", table.Row{"Status", "Count"}, metricRows(d.RideStatus)},
		{"Vehicle Type Demand", table.Row{"Vehicle Type", "Count"}, metricRows(d.VehicleDemand)},
		{"Top Pickup Locations", table.Row{"Location", "Count"}, metricRows(d.TopPickups)},
		{"Top Drop Locations", table.Row{"Location", "Count"}, metricRows(d.TopDrops)},
		{"Payment Methods", table.Row{"Method", "Count"}, metricRows(d.PaymentMethods)},
		{"Cancellations", table.Row{"Type", "Total"}, metricRows(d.Cancellations)},
	}

	v := d.Views

	weekday := section{title: "Rides by Day of Week", header: table.Row{"Weekday", "Rides"}}
	for _, c := range v.Weekday {
		weekday.rows = append(weekday.rows, table.Row{orUnknown(c.Weekday), c.Rides})
	}

	hourly := section{title: "Rides by Hour", header: table.Row{"Hour", "Rides"}}
	for _, c := range v.Hourly {
		hour := "unknown"
		if c.Hour != nil {
			hour = strconv.Itoa(*c.Hour)
		}
		hourly.rows = append(hourly.rows, table.Row{hour, c.Rides})
	}

	values := section{
		title:  "Booking Value by Vehicle Type",
		header: table.Row{"Vehicle Type", "Min", "Q1", "Median", "Q3", "Max", "Mean", "Outliers", "Missing"},
	}
	for _, dist := range v.VehicleValues {
		if dist.Summary == nil {
			values.rows = append(values.rows, table.Row{orUnknown(dist.VehicleType), "-", "-", "-", "-", "-", "-", 0, dist.Missing})
			continue
		}
		s := dist.Summary
		values.rows = append(values.rows, table.Row{
			orUnknown(dist.VehicleType),
			formatNumber(s.Min), formatNumber(s.Q1), formatNumber(s.Median),
			formatNumber(s.Q3), formatNumber(s.Max), fmt.Sprintf("%.2f", s.Mean),
			len(dist.Outliers), dist.Missing,
		})
	}

	routes := section{title: "Top Pickup-Drop Routes", header: table.Row{"Pickup", "Drop", "Rides"}}
	for _, r := range v.TopRoutes {
		routes.rows = append(routes.rows, table.Row{r.Pickup, r.Drop, r.Rides})
	}

	status := section{title: "Booking Status", header: table.Row{"Status", "Rides"}}
	for _, c := range v.StatusCounts {
		status.rows = append(status.rows, table.Row{orUnknown(c.Name), c.Count})
	}

	return append(out, weekday, hourly, values, routes, status)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
