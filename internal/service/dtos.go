package service

import (
	"github.com/MichaelF102/Uber-Analytics/internal/analytics"
	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
)

// FilterDomain holds every known value per dimension; it is the default selection.
type FilterDomain map[Dimension][]string

type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type Dashboard struct {
	Filters        Selection       `json:"filters"`
	Summary        []Metric        `json:"summary"`
	RideStatus     []Metric        `json:"ride_status"`
	VehicleDemand  []Metric        `json:"vehicle_demand"`
	TopPickups     []Metric        `json:"top_pickups"`
	TopDrops       []Metric        `json:"top_drops"`
	PaymentMethods []Metric        `json:"payment_methods"`
	Cancellations  []Metric        `json:"cancellations"`
	Views          analytics.Views `json:"views"`
}

type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type BookingPage struct {
	Total      int               `json:"total"`
	TotalValue float64           `json:"total_value"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
	Bookings   []dataset.Booking `json:"bookings"`
}
