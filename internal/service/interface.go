package service

import (
	"context"

	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
	"github.com/MichaelF102/Uber-Analytics/internal/repository/models"
)

// AggregateRepository defines the read operations the service needs from the aggregate tables.
type AggregateRepository interface {
	Aggregate(ctx context.Context, table string, values []string, unfiltered bool) ([]models.AggregateRow, error)
	Distinct(ctx context.Context, table string) ([]string, error)
}

// BookingSource provides the raw booking records of the current session.
type BookingSource interface {
	Bookings(ctx context.Context) ([]dataset.Booking, error)
}
