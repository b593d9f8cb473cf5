package dataset

import "time"

// Booking is one cleaned ride booking. Optional numeric fields are nil when missing.
type Booking struct {
	ID             string     `json:"booking_id,omitempty"`
	CustomerID     string     `json:"customer_id,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	Time           string     `json:"time"`
	Hour           *int       `json:"hour,omitempty"`
	Status         string     `json:"booking_status"`
	VehicleType    string     `json:"vehicle_type"`
	Pickup         string     `json:"pickup_location"`
	Drop           string     `json:"drop_location"`
	PaymentMethod  string     `json:"payment_method,omitempty"`
	BookingValue   *float64   `json:"booking_value,omitempty"`
	RideDistance   *float64   `json:"ride_distance,omitempty"`
	DriverRating   *float64   `json:"driver_rating,omitempty"`
	CustomerRating *float64   `json:"customer_rating,omitempty"`
}

// Day returns the calendar date as YYYY-MM-DD, or "" when the date is unknown.
func (b Booking) Day() string {
	if b.Date == nil {
		return ""
	}
	return b.Date.Format(time.DateOnly)
}

// Weekday returns the English weekday name, or "" when the date is unknown.
func (b Booking) Weekday() string {
	if b.Date == nil {
		return ""
	}
	return b.Date.Weekday().String()
}
