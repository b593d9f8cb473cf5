package chart

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/MichaelF102/Uber-Analytics/internal/analytics"
	"github.com/MichaelF102/Uber-Analytics/internal/service"
)

const unknownLabel = "unknown"

type viewFunc func(d *service.Dashboard) Series

var views = map[string]viewFunc{
	"ride_status":      metricsView("Ride Status Distribution", "Rides", func(d *service.Dashboard) []service.Metric { return d.RideStatus }),
	"vehicle_demand":   metricsView("Vehicle Type Demand", "Rides", func(d *service.Dashboard) []service.Metric { return d.VehicleDemand }),
	"top_pickups":      metricsView("Top Pickup Locations", "Rides", func(d *service.Dashboard) []service.Metric { return d.TopPickups }),
	"top_drops":        metricsView("Top Drop Locations", "Rides", func(d *service.Dashboard) []service.Metric { return d.TopDrops }),
	"payment_methods":  metricsView("Payment Methods", "Rides", func(d *service.Dashboard) []service.Metric { return d.PaymentMethods }),
	"cancellations":    metricsView("Cancellations", "Total", func(d *service.Dashboard) []service.Metric { return d.Cancellations }),
	"booking_status":   categoryView("Booking Status", func(v analytics.Views) []analytics.CategoryCount { return v.StatusCounts }),
	"vehicle_bookings": categoryView("Bookings per Vehicle Type", func(v analytics.Views) []analytics.CategoryCount { return v.VehicleBookings }),
	"daily":            dailyView,
	"weekday":          weekdayView,
	"hourly":           hourlyView,
	"vehicle_values":   vehicleValuesView,
	"routes":           routesView,
	"driver_ratings":   histogramView("Driver Ratings", func(v analytics.Views) analytics.Histogram { return v.DriverRatings }),
	"customer_ratings": histogramView("Customer Ratings", func(v analytics.Views) analytics.Histogram { return v.CustomerRatings }),
}

// ViewNames lists every chartable view.
func ViewNames() []string {
	return []string{
		"ride_status", "vehicle_demand", "top_pickups", "top_drops", "payment_methods",
		"cancellations", "booking_status", "vehicle_bookings", "daily", "weekday", "hourly",
		"vehicle_values", "routes", "driver_ratings", "customer_ratings",
	}
}

// ForView extracts the series of the named view from a rendered dashboard.
func ForView(name string, d *service.Dashboard) (Series, error) {
	fn, ok := views[name]
	if !ok {
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return fn(d), nil
}

func metricsView(title, yName string, pick func(*service.Dashboard) []service.Metric) viewFunc {
	return func(d *service.Dashboard) Series {
		rows := pick(d)
		return Series{
			Title:  title,
			YName:  yName,
			Labels: lo.Map(rows, func(m service.Metric, _ int) string { return m.Name }),
			Values: lo.Map(rows, func(m service.Metric, _ int) float64 { return m.Value }),
		}
	}
}

func categoryView(title string, pick func(analytics.Views) []analytics.CategoryCount) viewFunc {
	return func(d *service.Dashboard) Series {
		rows := pick(d.Views)
		return Series{
			Title:  title,
			YName:  "Rides",
			Labels: lo.Map(rows, func(c analytics.CategoryCount, _ int) string { return orUnknown(c.Name) }),
			Values: lo.Map(rows, func(c analytics.CategoryCount, _ int) float64 { return float64(c.Count) }),
		}
	}
}

func dailyView(d *service.Dashboard) Series {
	rows := d.Views.Daily
	return Series{
		Title:  "Daily Ride Count",
		YName:  "Rides",
		Kind:   KindLine,
		Labels: lo.Map(rows, func(c analytics.DateCount, _ int) string { return orUnknown(c.Date) }),
		Values: lo.Map(rows, func(c analytics.DateCount, _ int) float64 { return float64(c.Rides) }),
	}
}

func weekdayView(d *service.Dashboard) Series {
	rows := d.Views.Weekday
	return Series{
		Title:  "Rides by Day of Week",
		YName:  "Rides",
		Labels: lo.Map(rows, func(c analytics.WeekdayCount, _ int) string { return orUnknown(c.Weekday) }),
		Values: lo.Map(rows, func(c analytics.WeekdayCount, _ int) float64 { return float64(c.Rides) }),
	}
}

func hourlyView(d *service.Dashboard) Series {
	rows := d.Views.Hourly
	return Series{
		Title: "Rides by Hour",
		YName: "Rides",
		Labels: lo.Map(rows, func(c analytics.HourCount, _ int) string {
			if c.Hour == nil {
				return unknownLabel
			}
			return strconv.Itoa(*c.Hour)
		}),
		Values: lo.Map(rows, func(c analytics.HourCount, _ int) float64 { return float64(c.Rides) }),
	}
}

// vehicleValuesView is a box plot of booking value per vehicle type. The bar
// fallback shows the medians.
func vehicleValuesView(d *service.Dashboard) Series {
	rows := lo.Filter(d.Views.VehicleValues, func(v analytics.ValueDistribution, _ int) bool {
		return v.Summary != nil
	})
	s := Series{
		Title:  "Booking Value by Vehicle Type",
		YName:  "Booking Value",
		Kind:   KindBox,
		Labels: lo.Map(rows, func(v analytics.ValueDistribution, _ int) string { return orUnknown(v.VehicleType) }),
		Values: lo.Map(rows, func(v analytics.ValueDistribution, _ int) float64 { return v.Summary.Median }),
		Boxes: lo.Map(rows, func(v analytics.ValueDistribution, _ int) Box {
			return Box{Min: v.Summary.Min, Q1: v.Summary.Q1, Median: v.Summary.Median, Q3: v.Summary.Q3, Max: v.Summary.Max}
		}),
	}
	for _, v := range rows {
		for _, o := range v.Outliers {
			s.Outliers = append(s.Outliers, Point{Label: orUnknown(v.VehicleType), Value: o})
		}
	}
	return s
}

// routesView is a pickup by drop heatmap of the top routes.
func routesView(d *service.Dashboard) Series {
	rows := d.Views.TopRoutes
	return Series{
		Title:  "Top Pickup-Drop Routes",
		YName:  "Rides",
		Kind:   KindHeatmap,
		Labels: lo.Map(rows, func(r analytics.RoutePair, _ int) string { return r.Pickup + " / " + r.Drop }),
		Values: lo.Map(rows, func(r analytics.RoutePair, _ int) float64 { return float64(r.Rides) }),
		Cells: lo.Map(rows, func(r analytics.RoutePair, _ int) Cell {
			return Cell{X: orUnknown(r.Pickup), Y: orUnknown(r.Drop), Value: float64(r.Rides)}
		}),
	}
}

func histogramView(title string, pick func(analytics.Views) analytics.Histogram) viewFunc {
	return func(d *service.Dashboard) Series {
		h := pick(d.Views)
		return Series{
			Title: title,
			YName: "Rides",
			Labels: lo.Map(h.Bins, func(b analytics.Bin, _ int) string {
				return fmt.Sprintf("%.2f-%.2f", b.Lower, b.Upper)
			}),
			Values: lo.Map(h.Bins, func(b analytics.Bin, _ int) float64 { return float64(b.Count) }),
		}
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
