package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
)

func day(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ptr[T any](v T) *T { return &v }

func sampleBookings() []dataset.Booking {
	return []dataset.Booking{
		{Date: day("2024-03-04"), Hour: ptr(8), Status: "Completed", VehicleType: "Auto", Pickup: "Khandsa", Drop: "Saket", BookingValue: ptr(120.0), DriverRating: ptr(4.5), CustomerRating: ptr(4.9)},
		{Date: day("2024-03-02"), Hour: ptr(18), Status: "Cancelled by Driver", VehicleType: "Go Mini", Pickup: "Saket", Drop: "Khandsa"},
		{Date: day("2024-03-04"), Hour: ptr(8), Status: "Completed", VehicleType: "Auto", Pickup: "Khandsa", Drop: "Saket", BookingValue: ptr(140.0), DriverRating: ptr(3.0), CustomerRating: ptr(4.1)},
		{Date: nil, Hour: nil, Status: "Incomplete", VehicleType: "Bike", Pickup: "Rohini", Drop: "Saket", BookingValue: ptr(60.0)},
		{Date: day("2024-03-10"), Hour: ptr(0), Status: "Completed", VehicleType: "Auto", Pickup: "Rohini", Drop: "Saket", BookingValue: ptr(900.0), DriverRating: ptr(5.0), CustomerRating: ptr(5.0)},
		{Date: day("2024-03-05"), Hour: ptr(23), Status: "Completed", VehicleType: "Go Mini", Pickup: "Saket", Drop: "Khandsa", BookingValue: ptr(310.0), DriverRating: ptr(4.0)},
	}
}

func TestDailyCounts(t *testing.T) {
	got := DailyCounts(sampleBookings())
	assert.Equal(t, []DateCount{
		{Date: "2024-03-02", Rides: 1},
		{Date: "2024-03-04", Rides: 2},
		{Date: "2024-03-05", Rides: 1},
		{Date: "2024-03-10", Rides: 1},
		{Date: "", Rides: 1},
	}, got)
}

func TestWeekdayCounts(t *testing.T) {
	got := WeekdayCounts(sampleBookings())
	assert.Equal(t, []WeekdayCount{
		{Weekday: "Monday", Rides: 2},
		{Weekday: "Tuesday", Rides: 1},
		{Weekday: "Saturday", Rides: 1},
		{Weekday: "Sunday", Rides: 1},
		{Weekday: "", Rides: 1},
	}, got)
}

func TestHourlyCounts(t *testing.T) {
	got := HourlyCounts(sampleBookings())
	require.Len(t, got, 5)

	hours := make([]any, 0, len(got))
	for _, h := range got {
		if h.Hour == nil {
			hours = append(hours, nil)
			continue
		}
		hours = append(hours, *h.Hour)
	}
	assert.Equal(t, []any{0, 8, 18, 23, nil}, hours)
	assert.Equal(t, 2, got[1].Rides)
	assert.Equal(t, 1, got[4].Rides)
}

func TestCountsCoverEveryRow(t *testing.T) {
	bookings := sampleBookings()

	sum := func(counts []int) int {
		total := 0
		for _, c := range counts {
			total += c
		}
		return total
	}

	var daily, weekday, hourly, vehicle, status []int
	for _, c := range DailyCounts(bookings) {
		daily = append(daily, c.Rides)
	}
	for _, c := range WeekdayCounts(bookings) {
		weekday = append(weekday, c.Rides)
	}
	for _, c := range HourlyCounts(bookings) {
		hourly = append(hourly, c.Rides)
	}
	for _, c := range VehicleBookingCounts(bookings) {
		vehicle = append(vehicle, c.Count)
	}
	for _, c := range StatusCounts(bookings) {
		status = append(status, c.Count)
	}

	for name, counts := range map[string][]int{
		"daily": daily, "weekday": weekday, "hourly": hourly, "vehicle": vehicle, "status": status,
	} {
		assert.Equal(t, len(bookings), sum(counts), name)
	}
}

func TestVehicleBookingCounts(t *testing.T) {
	assert.Equal(t, []CategoryCount{
		{Name: "Auto", Count: 3},
		{Name: "Bike", Count: 1},
		{Name: "Go Mini", Count: 2},
	}, VehicleBookingCounts(sampleBookings()))
}

func TestVehicleValueDistributions(t *testing.T) {
	got := VehicleValueDistributions(sampleBookings())
	require.Len(t, got, 3)

	auto := got[0]
	assert.Equal(t, "Auto", auto.VehicleType)
	assert.Equal(t, []float64{120, 140, 900}, auto.Values)
	assert.Equal(t, 0, auto.Missing)
	require.NotNil(t, auto.Summary)
	assert.Equal(t, 120.0, auto.Summary.Min)
	assert.Equal(t, 140.0, auto.Summary.Median)
	assert.Equal(t, 900.0, auto.Summary.Max)
	assert.InDelta(t, 386.67, auto.Summary.Mean, 0.01)

	mini := got[2]
	assert.Equal(t, "Go Mini", mini.VehicleType)
	assert.Equal(t, []float64{310}, mini.Values)
	assert.Equal(t, 1, mini.Missing)
	assert.Empty(t, mini.Outliers)
}

func TestVehicleValueDistributions_Outliers(t *testing.T) {
	var bookings []dataset.Booking
	for _, v := range []float64{1, 2, 3, 4, 100} {
		bookings = append(bookings, dataset.Booking{VehicleType: "Auto", BookingValue: ptr(v)})
	}
	bookings = append(bookings, dataset.Booking{VehicleType: "eBike"})

	got := VehicleValueDistributions(bookings)
	require.Len(t, got, 2)
	assert.Equal(t, []float64{100}, got[0].Outliers)
	assert.Equal(t, 3.0, got[0].Summary.Median)
	assert.Equal(t, 22.0, got[0].Summary.Mean)

	assert.Equal(t, "eBike", got[1].VehicleType)
	assert.Nil(t, got[1].Summary)
	assert.Empty(t, got[1].Values)
	assert.Equal(t, 1, got[1].Missing)
}

func TestTopRoutePairs(t *testing.T) {
	t.Run("ordering and tie break", func(t *testing.T) {
		got := TopRoutePairs(sampleBookings(), DefaultTopPairs)
		assert.Equal(t, []RoutePair{
			{Pickup: "Khandsa", Drop: "Saket", Rides: 2},
			{Pickup: "Rohini", Drop: "Saket", Rides: 2},
			{Pickup: "Saket", Drop: "Khandsa", Rides: 2},
		}, got)
	})

	t.Run("never more than n and nothing left out beats the cut", func(t *testing.T) {
		var bookings []dataset.Booking
		for i := range 80 {
			for range i%7 + 1 {
				bookings = append(bookings, dataset.Booking{
					Pickup: fmt.Sprintf("P%02d", i),
					Drop:   fmt.Sprintf("D%02d", i%13),
				})
			}
		}

		got := TopRoutePairs(bookings, DefaultTopPairs)
		require.Len(t, got, DefaultTopPairs)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Rides, got[i].Rides)
		}

		kept := map[RoutePair]bool{}
		for _, p := range got {
			kept[RoutePair{Pickup: p.Pickup, Drop: p.Drop}] = true
		}
		smallest := got[len(got)-1].Rides
		for _, p := range TopRoutePairs(bookings, 1000) {
			if !kept[RoutePair{Pickup: p.Pickup, Drop: p.Drop}] {
				assert.LessOrEqual(t, p.Rides, smallest)
			}
		}
	})

	t.Run("non positive n", func(t *testing.T) {
		assert.Empty(t, TopRoutePairs(sampleBookings(), 0))
	})
}

func TestRatingHistogram(t *testing.T) {
	bookings := sampleBookings()

	t.Run("driver", func(t *testing.T) {
		h := RatingHistogram(bookings, DriverRating, DefaultBins)
		require.Len(t, h.Bins, DefaultBins)
		assert.Equal(t, DriverRating, h.Field)
		assert.Equal(t, 3.0, h.Bins[0].Lower)
		assert.Equal(t, 5.0, h.Bins[DefaultBins-1].Upper)
		assert.Equal(t, 1, h.Bins[0].Count)
		assert.Equal(t, 1, h.Bins[DefaultBins-1].Count)
		assert.Equal(t, 2, h.Missing)
		assert.Equal(t, len(bookings), binTotal(h)+h.Missing)
	})

	t.Run("customer", func(t *testing.T) {
		h := RatingHistogram(bookings, CustomerRating, 4)
		require.Len(t, h.Bins, 4)
		assert.Equal(t, 3, h.Missing)
		assert.Equal(t, len(bookings), binTotal(h)+h.Missing)
	})

	t.Run("single value", func(t *testing.T) {
		h := RatingHistogram([]dataset.Booking{{DriverRating: ptr(4.0)}, {DriverRating: ptr(4.0)}}, DriverRating, DefaultBins)
		assert.Equal(t, []Bin{{Lower: 4, Upper: 4, Count: 2}}, h.Bins)
	})

	t.Run("no ratings", func(t *testing.T) {
		h := RatingHistogram([]dataset.Booking{{}, {}}, CustomerRating, DefaultBins)
		assert.Empty(t, h.Bins)
		assert.Equal(t, 2, h.Missing)
	})
}

func binTotal(h Histogram) int {
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	return total
}

func TestStatusCounts(t *testing.T) {
	bookings := []dataset.Booking{
		{Status: "Completed", BookingValue: ptr(100.0)},
		{Status: "Cancelled", BookingValue: ptr(50.0)},
		{Status: "Completed", BookingValue: ptr(200.0)},
	}
	assert.Equal(t, []CategoryCount{
		{Name: "Cancelled", Count: 1},
		{Name: "Completed", Count: 2},
	}, StatusCounts(bookings))
}

func TestDerive(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		bookings := sampleBookings()
		assert.Equal(t, Derive(bookings), Derive(bookings))
	})

	t.Run("empty input gives empty views", func(t *testing.T) {
		for _, in := range [][]dataset.Booking{nil, {}} {
			v := Derive(in)
			assert.Equal(t, 0, v.Total)
			assert.NotNil(t, v.Daily)
			assert.Empty(t, v.Daily)
			assert.NotNil(t, v.Weekday)
			assert.Empty(t, v.Weekday)
			assert.NotNil(t, v.Hourly)
			assert.Empty(t, v.Hourly)
			assert.NotNil(t, v.VehicleBookings)
			assert.Empty(t, v.VehicleBookings)
			assert.NotNil(t, v.VehicleValues)
			assert.Empty(t, v.VehicleValues)
			assert.NotNil(t, v.TopRoutes)
			assert.Empty(t, v.TopRoutes)
			assert.NotNil(t, v.DriverRatings.Bins)
			assert.Empty(t, v.DriverRatings.Bins)
			assert.Equal(t, 0, v.CustomerRatings.Missing)
			assert.NotNil(t, v.StatusCounts)
		}
	})
}

func BenchmarkDerive(b *testing.B) {
	bookings := make([]dataset.Booking, 0, 10000)
	vehicles := []string{"Auto", "Bike", "Go Mini", "Go Sedan", "Premier Sedan", "Uber XL", "eBike"}
	for i := range 10000 {
		bookings = append(bookings, dataset.Booking{
			Date:         day(fmt.Sprintf("2024-%02d-%02d", i%12+1, i%28+1)),
			Hour:         ptr(i % 24),
			Status:       "Completed",
			VehicleType:  vehicles[i%len(vehicles)],
			Pickup:       fmt.Sprintf("P%03d", i%150),
			Drop:         fmt.Sprintf("D%03d", i%170),
			BookingValue: ptr(float64(50 + i%900)),
			DriverRating: ptr(3 + float64(i%21)/10),
		})
	}

	for b.Loop() {
		_ = Derive(bookings)
	}
}
