package mocks

import (
	"context"
	"errors"

	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
	"github.com/MichaelF102/Uber-Analytics/internal/repository/models"
)

// MockAggregateRepository is a mock implementation of the AggregateRepository interface
// for testing the service layer.
type MockAggregateRepository struct {
	AggregateFunc func(ctx context.Context, table string, values []string, unfiltered bool) ([]models.AggregateRow, error)
	DistinctFunc  func(ctx context.Context, table string) ([]string, error)
}

// Aggregate implements the AggregateRepository interface
func (m *MockAggregateRepository) Aggregate(ctx context.Context, table string, values []string, unfiltered bool) ([]models.AggregateRow, error) {
	if m.AggregateFunc != nil {
		return m.AggregateFunc(ctx, table, values, unfiltered)
	}
	return nil, errors.New("AggregateFunc not implemented")
}

// Distinct implements the AggregateRepository interface
func (m *MockAggregateRepository) Distinct(ctx context.Context, table string) ([]string, error) {
	if m.DistinctFunc != nil {
		return m.DistinctFunc(ctx, table)
	}
	return nil, errors.New("DistinctFunc not implemented")
}

// MockBookingSource is a mock implementation of the BookingSource interface.
type MockBookingSource struct {
	BookingsFunc func(ctx context.Context) ([]dataset.Booking, error)
}

// Bookings implements the BookingSource interface
func (m *MockBookingSource) Bookings(ctx context.Context) ([]dataset.Booking, error) {
	if m.BookingsFunc != nil {
		return m.BookingsFunc(ctx)
	}
	return nil, errors.New("BookingsFunc not implemented")
}
