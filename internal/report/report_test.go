package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelF102/Uber-Analytics/internal/analytics"
	"github.com/MichaelF102/Uber-Analytics/internal/service"
)

func intPtr(v int) *int { return &v }

func dashboard() *service.Dashboard {
	return &service.Dashboard{
		Summary:    []service.Metric{{Name: "Total Bookings", Value: 150000}, {Name: "Average Driver Rating", Value: 4.23}},
		RideStatus: []service.Metric{{Name: "Completed", Value: 93000}},
		Views: analytics.Views{
			Weekday: []analytics.WeekdayCount{{Weekday: "Monday", Rides: 2}},
			Hourly:  []analytics.HourCount{{Hour: intPtr(9), Rides: 2}, {Hour: nil, Rides: 1}},
			VehicleValues: []analytics.ValueDistribution{
				{VehicleType: "Auto", Summary: &analytics.Summary{Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 100, Mean: 22}, Outliers: []float64{100}},
				{VehicleType: "Bike", Missing: 2},
			},
			TopRoutes:    []analytics.RoutePair{{Pickup: "Saket", Drop: "Ashram", Rides: 2}},
			StatusCounts: []analytics.CategoryCount{{Name: "Completed", Count: 2}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "markdown", "csv"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}

	_, err := ParseFormat("html")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, dashboard(), FormatText))

		out := buf.String()
		for _, want := range []string{
			"Summary Metrics", "Total Bookings", "150000", "4.23",
			"Rides by Hour", "unknown", "Booking Value by Vehicle Type", "22.00",
			"Saket", "Ashram",
		} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, dashboard(), FormatMarkdown))
		assert.Contains(t, buf.String(), "| Completed |")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, dashboard(), FormatCSV))
		assert.Contains(t, buf.String(), "Pickup,Drop,Rides")
	})

	t.Run("empty dashboard still writes headers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, &service.Dashboard{}, FormatText))
		assert.Contains(t, buf.String(), "Booking Status")
	})

	t.Run("writer error", func(t *testing.T) {
		err := Write(failingWriter{}, dashboard(), FormatText)
		assert.Error(t, err)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
