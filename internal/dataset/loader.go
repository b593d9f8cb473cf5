package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CSV column names of the cleaned bookings file.
const (
	ColBookingID      = "Booking ID"
	ColCustomerID     = "Customer ID"
	ColDate           = "Date"
	ColTime           = "Time"
	ColStatus         = "Booking Status"
	ColVehicleType    = "Vehicle Type"
	ColPickup         = "Pickup Location"
	ColDrop           = "Drop Location"
	ColPaymentMethod  = "Payment Method"
	ColBookingValue   = "Booking Value"
	ColRideDistance   = "Ride Distance"
	ColDriverRating   = "Driver Ratings"
	ColCustomerRating = "Customer Rating"
)

var ErrMissingColumn = errors.New("required column missing")

var requiredColumns = []string{
	ColDate, ColTime, ColStatus, ColVehicleType, ColPickup, ColDrop,
	ColBookingValue, ColDriverRating, ColCustomerRating,
}

var numericColumns = []string{ColBookingValue, ColRideDistance, ColDriverRating, ColCustomerRating}

// nanMarkers are the spellings of "missing" left behind by the cleaning stage.
var nanMarkers = []string{"", "NULL", "null", "NaN", "nan", "NA", "<nil>"}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

var timeLayouts = []string{
	time.TimeOnly,
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"15:04:05.000",
}

// Load parses a cleaned bookings CSV. Rows with unparseable dates or times are kept
// with Date or Hour left nil.
func Load(r io.Reader) ([]Booking, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read bookings csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read bookings csv: %w: file has no header", ErrMissingColumn)
	}

	header := records[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	if len(records) == 1 {
		return []Booking{}, nil
	}

	types := make(map[string]series.Type, len(numericColumns))
	for _, col := range numericColumns {
		if present[col] {
			types[col] = series.Float
		}
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues(nanMarkers),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load bookings dataframe: %w", df.Err)
	}

	return fromFrame(df, present)
}

func fromFrame(df dataframe.DataFrame, present map[string]bool) ([]Booking, error) {
	n := df.Nrow()

	text := func(col string) ([]string, error) {
		if !present[col] {
			return make([]string, n), nil
		}
		s := df.Col(col)
		if s.Err != nil {
			return nil, fmt.Errorf("column %q: %w", col, s.Err)
		}
		values := s.Records()
		for i, v := range values {
			values[i] = cleanText(v)
		}
		return values, nil
	}

	numeric := func(col string) ([]*float64, error) {
		out := make([]*float64, n)
		if !present[col] {
			return out, nil
		}
		s := df.Col(col)
		if s.Err != nil {
			return nil, fmt.Errorf("column %q: %w", col, s.Err)
		}
		for i, f := range s.Float() {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			v := f
			out[i] = &v
		}
		return out, nil
	}

	var err error
	cols := map[string][]string{}
	for _, col := range []string{ColBookingID, ColCustomerID, ColDate, ColTime, ColStatus, ColVehicleType, ColPickup, ColDrop, ColPaymentMethod} {
		if cols[col], err = text(col); err != nil {
			return nil, err
		}
	}
	nums := map[string][]*float64{}
	for _, col := range numericColumns {
		if nums[col], err = numeric(col); err != nil {
			return nil, err
		}
	}

	bookings := make([]Booking, n)
	for i := 0; i < n; i++ {
		bookings[i] = Booking{
			ID:             cols[ColBookingID][i],
			CustomerID:     cols[ColCustomerID][i],
			Date:           ParseDate(cols[ColDate][i]),
			Time:           cols[ColTime][i],
			Hour:           ParseHour(cols[ColTime][i]),
			Status:         cols[ColStatus][i],
			VehicleType:    cols[ColVehicleType][i],
			Pickup:         cols[ColPickup][i],
			Drop:           cols[ColDrop][i],
			PaymentMethod:  cols[ColPaymentMethod][i],
			BookingValue:   nums[ColBookingValue][i],
			RideDistance:   nums[ColRideDistance][i],
			DriverRating:   nums[ColDriverRating][i],
			CustomerRating: nums[ColCustomerRating][i],
		}
	}
	return bookings, nil
}

// ParseDate returns the calendar date of s, or nil when no known layout matches.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// ParseHour returns the hour of day (0-23) of s, or nil when it cannot be parsed.
func ParseHour(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			h := t.Hour()
			return &h
		}
	}
	return nil
}

func cleanText(v string) string {
	v = strings.TrimSpace(strings.Trim(v, `"`))
	if v == "NaN" {
		return ""
	}
	return v
}
