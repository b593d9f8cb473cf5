package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
	"github.com/MichaelF102/Uber-Analytics/internal/repository"
)

// Dimension is a categorical filter axis.
type Dimension string

const (
	DimStatus        Dimension = "status"
	DimVehicleType   Dimension = "vehicle_type"
	DimPickup        Dimension = "pickup"
	DimDrop          Dimension = "drop"
	DimPaymentMethod Dimension = "payment_method"
)

var dimensionTables = map[Dimension]string{
	DimStatus:        repository.TableRideStatus,
	DimVehicleType:   repository.TableVehicleDemand,
	DimPickup:        repository.TableTopPickups,
	DimDrop:          repository.TableTopDrops,
	DimPaymentMethod: repository.TablePaymentMethods,
}

// Dimensions lists every filter dimension in display order.
func Dimensions() []Dimension {
	return []Dimension{DimStatus, DimVehicleType, DimPickup, DimDrop, DimPaymentMethod}
}

func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.TrimSpace(s))
	if _, ok := dimensionTables[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
	}
	return d, nil
}

// Table returns the aggregate table filtered by d.
func (d Dimension) Table() string {
	return dimensionTables[d]
}

func (d Dimension) valueOf(b dataset.Booking) string {
	switch d {
	case DimStatus:
		return b.Status
	case DimVehicleType:
		return b.VehicleType
	case DimPickup:
		return b.Pickup
	case DimDrop:
		return b.Drop
	case DimPaymentMethod:
		return b.PaymentMethod
	default:
		return ""
	}
}

// Selection maps a dimension to its selected values. A missing key selects the whole
// domain of that dimension; a present key with no values selects nothing.
type Selection map[Dimension][]string

// Validate rejects dimensions that are not filter axes.
func (s Selection) Validate() error {
	for d := range s {
		if _, ok := dimensionTables[d]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDimension, string(d))
		}
	}
	return nil
}

// Resolve returns a copy of s where every missing dimension is filled from domain.
func (s Selection) Resolve(domain FilterDomain) Selection {
	out := make(Selection, len(dimensionTables))
	for _, d := range Dimensions() {
		values, ok := s[d]
		if !ok {
			values = domain[d]
		}
		out[d] = append(make([]string, 0, len(values)), values...)
	}
	return out
}

// Complete reports whether every dimension is present.
func (s Selection) Complete() bool {
	for _, d := range Dimensions() {
		if _, ok := s[d]; !ok {
			return false
		}
	}
	return true
}

// Key returns a canonical encoding of s: dimensions and values sorted, duplicates
// dropped. Equal selections always have equal keys.
func (s Selection) Key() string {
	var b strings.Builder
	for _, d := range Dimensions() {
		values, ok := s[d]
		if !ok {
			continue
		}
		uniq := lo.Uniq(values)
		slices.Sort(uniq)

		b.WriteString(string(d))
		b.WriteByte('=')
		for i, v := range uniq {
			if i > 0 {
				b.WriteByte(0x1f)
			}
			b.WriteString(v)
		}
		b.WriteByte(0x1e)
	}
	return b.String()
}

// Matches reports whether b falls inside s. Dimensions missing from s do not restrict.
func (s Selection) Matches(b dataset.Booking) bool {
	for d, values := range s {
		if !slices.Contains(values, d.valueOf(b)) {
			return false
		}
	}
	return true
}

// FilterBookings returns the bookings that match s, preserving input order.
func FilterBookings(bookings []dataset.Booking, s Selection) []dataset.Booking {
	return lo.Filter(bookings, func(b dataset.Booking, _ int) bool {
		return s.Matches(b)
	})
}
