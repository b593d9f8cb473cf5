// Package analytics computes the derived views over raw booking records. Every
// function is pure: the input is never modified and equal inputs give equal outputs.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/samber/lo"

	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
)

const (
	DefaultTopPairs = 50
	DefaultBins     = 20
)

type RatingField string

const (
	DriverRating   RatingField = "driver"
	CustomerRating RatingField = "customer"
)

type DateCount struct {
	Date  string `json:"date"`
	Rides int    `json:"rides"`
}

type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Rides   int    `json:"rides"`
}

// HourCount is one hourly bucket. Hour is nil for rows whose time could not be parsed.
type HourCount struct {
	Hour  *int `json:"hour"`
	Rides int  `json:"rides"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Summary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// ValueDistribution keeps every present booking value of one vehicle type so that a
// renderer can draw its own box plot.
type ValueDistribution struct {
	VehicleType string    `json:"vehicle_type"`
	Values      []float64 `json:"values"`
	Missing     int       `json:"missing"`
	Summary     *Summary  `json:"summary,omitempty"`
	Outliers    []float64 `json:"outliers"`
}

type RoutePair struct {
	Pickup string `json:"pickup"`
	Drop   string `json:"drop"`
	Rides  int    `json:"rides"`
}

type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type Histogram struct {
	Field   RatingField `json:"field"`
	Bins    []Bin       `json:"bins"`
	Missing int         `json:"missing"`
}

// Views bundles every derived view of one dataset.
type Views struct {
	Total           int                 `json:"total"`
	Daily           []DateCount         `json:"daily"`
	Weekday         []WeekdayCount      `json:"weekday"`
	Hourly          []HourCount         `json:"hourly"`
	VehicleBookings []CategoryCount     `json:"vehicle_bookings"`
	VehicleValues   []ValueDistribution `json:"vehicle_values"`
	TopRoutes       []RoutePair         `json:"top_routes"`
	DriverRatings   Histogram           `json:"driver_ratings"`
	CustomerRatings Histogram           `json:"customer_ratings"`
	StatusCounts    []CategoryCount     `json:"status_counts"`
}

func Derive(bookings []dataset.Booking) Views {
	return Views{
		Total:           len(bookings),
		Daily:           DailyCounts(bookings),
		Weekday:         WeekdayCounts(bookings),
		Hourly:          HourlyCounts(bookings),
		VehicleBookings: VehicleBookingCounts(bookings),
		VehicleValues:   VehicleValueDistributions(bookings),
		TopRoutes:       TopRoutePairs(bookings, DefaultTopPairs),
		DriverRatings:   RatingHistogram(bookings, DriverRating, DefaultBins),
		CustomerRatings: RatingHistogram(bookings, CustomerRating, DefaultBins),
		StatusCounts:    StatusCounts(bookings),
	}
}

// DailyCounts counts rides per calendar date in chronological order. Undated rows are
// reported last under an empty date.
func DailyCounts(bookings []dataset.Booking) []DateCount {
	counts := lo.CountValuesBy(bookings, dataset.Booking.Day)

	days := lo.Keys(counts)
	slices.SortFunc(days, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "":
			return 1
		case b == "":
			return -1
		}
		return cmp.Compare(a, b)
	})

	out := make([]DateCount, 0, len(days))
	for _, d := range days {
		out = append(out, DateCount{Date: d, Rides: counts[d]})
	}
	return out
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdayCounts counts rides per weekday, Monday first. Weekdays without rides are
// omitted; undated rows are reported last under an empty name.
func WeekdayCounts(bookings []dataset.Booking) []WeekdayCount {
	counts := lo.CountValuesBy(bookings, dataset.Booking.Weekday)

	out := make([]WeekdayCount, 0, len(counts))
	for _, wd := range weekOrder {
		if n, ok := counts[wd.String()]; ok {
			out = append(out, WeekdayCount{Weekday: wd.String(), Rides: n})
		}
	}
	if n, ok := counts[""]; ok {
		out = append(out, WeekdayCount{Rides: n})
	}
	return out
}

// HourlyCounts counts rides per hour of day ascending, followed by the bucket of rows
// with an unknown hour.
func HourlyCounts(bookings []dataset.Booking) []HourCount {
	var perHour [24]int
	missing := 0
	for _, b := range bookings {
		if b.Hour == nil || *b.Hour < 0 || *b.Hour > 23 {
			missing++
			continue
		}
		perHour[*b.Hour]++
	}

	out := make([]HourCount, 0, 25)
	for h, n := range perHour {
		if n == 0 {
			continue
		}
		out = append(out, HourCount{Hour: lo.ToPtr(h), Rides: n})
	}
	if missing > 0 {
		out = append(out, HourCount{Rides: missing})
	}
	return out
}

func VehicleBookingCounts(bookings []dataset.Booking) []CategoryCount {
	return categoryCounts(bookings, func(b dataset.Booking) string { return b.VehicleType })
}

// StatusCounts is the booking status distribution over raw records.
func StatusCounts(bookings []dataset.Booking) []CategoryCount {
	return categoryCounts(bookings, func(b dataset.Booking) string { return b.Status })
}

func categoryCounts(bookings []dataset.Booking, key func(dataset.Booking) string) []CategoryCount {
	counts := lo.CountValuesBy(bookings, key)

	names := lo.Keys(counts)
	slices.Sort(names)

	return lo.Map(names, func(name string, _ int) CategoryCount {
		return CategoryCount{Name: name, Count: counts[name]}
	})
}

// VehicleValueDistributions groups booking values by vehicle type (ascending). Values
// keep input order; missing values are only counted.
func VehicleValueDistributions(bookings []dataset.Booking) []ValueDistribution {
	groups := lo.GroupBy(bookings, func(b dataset.Booking) string { return b.VehicleType })

	names := lo.Keys(groups)
	slices.Sort(names)

	out := make([]ValueDistribution, 0, len(names))
	for _, name := range names {
		rows := groups[name]
		values := lo.FilterMap(rows, func(b dataset.Booking, _ int) (float64, bool) {
			if b.BookingValue == nil {
				return 0, false
			}
			return *b.BookingValue, true
		})

		d := ValueDistribution{
			VehicleType: name,
			Values:      values,
			Missing:     len(rows) - len(values),
			Outliers:    []float64{},
		}
		if s, ok := Summarize(values); ok {
			d.Summary = &s
			iqr := s.Q3 - s.Q1
			low, high := s.Q1-1.5*iqr, s.Q3+1.5*iqr
			for _, v := range values {
				if v < low || v > high {
					d.Outliers = append(d.Outliers, v)
				}
			}
		}
		out = append(out, d)
	}
	return out
}

// Summarize returns the five-number summary and mean of values. It reports false for
// an empty input.
func Summarize(values []float64) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	s := series.Floats(values)
	return Summary{
		Min:    s.Min(),
		Q1:     s.Quantile(0.25),
		Median: s.Median(),
		Q3:     s.Quantile(0.75),
		Max:    s.Max(),
		Mean:   s.Mean(),
	}, true
}

// TopRoutePairs counts (pickup, drop) pairs and returns at most n of them by count
// descending. Equal counts are ordered by pickup then drop, ascending.
func TopRoutePairs(bookings []dataset.Booking, n int) []RoutePair {
	if n <= 0 {
		return []RoutePair{}
	}

	type route struct{ pickup, drop string }
	counts := lo.CountValuesBy(bookings, func(b dataset.Booking) route {
		return route{pickup: b.Pickup, drop: b.Drop}
	})

	pairs := make([]RoutePair, 0, len(counts))
	for r, c := range counts {
		pairs = append(pairs, RoutePair{Pickup: r.pickup, Drop: r.drop, Rides: c})
	}
	slices.SortFunc(pairs, func(a, b RoutePair) int {
		return cmp.Or(
			cmp.Compare(b.Rides, a.Rides),
			cmp.Compare(a.Pickup, b.Pickup),
			cmp.Compare(a.Drop, b.Drop),
		)
	})

	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// RatingHistogram bins the present ratings of field into equal-width bins spanning the
// observed range. Rows without a rating only add to Missing.
func RatingHistogram(bookings []dataset.Booking, field RatingField, bins int) Histogram {
	h := Histogram{Field: field, Bins: []Bin{}}
	if bins <= 0 {
		bins = DefaultBins
	}

	values := make([]float64, 0, len(bookings))
	for _, b := range bookings {
		v := rating(b, field)
		if v == nil || math.IsNaN(*v) {
			h.Missing++
			continue
		}
		values = append(values, *v)
	}
	if len(values) == 0 {
		return h
	}

	lower, upper := slices.Min(values), slices.Max(values)
	if lower == upper {
		h.Bins = append(h.Bins, Bin{Lower: lower, Upper: upper, Count: len(values)})
		return h
	}

	width := (upper - lower) / float64(bins)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i].Lower = lower + float64(i)*width
		h.Bins[i].Upper = lower + float64(i+1)*width
	}
	h.Bins[bins-1].Upper = upper

	for _, v := range values {
		i := int((v - lower) / width)
		if i >= bins {
			i = bins - 1
		}
		h.Bins[i].Count++
	}
	return h
}

func rating(b dataset.Booking, field RatingField) *float64 {
	switch field {
	case DriverRating:
		return b.DriverRating
	case CustomerRating:
		return b.CustomerRating
	default:
		return nil
	}
}
