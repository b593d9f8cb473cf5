package mocks

import (
	"context"
	"errors"

	"github.com/MichaelF102/Uber-Analytics/internal/service"
)

// MockDashboardService is a mock implementation of the DashboardService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockDashboardService struct {
	DomainFunc       func(ctx context.Context) (service.FilterDomain, error)
	RenderFunc       func(ctx context.Context, sel service.Selection) (*service.Dashboard, error)
	ListBookingsFunc func(ctx context.Context, sel service.Selection, page service.Page) (*service.BookingPage, error)
}

// Domain implements the DashboardService interface
func (m *MockDashboardService) Domain(ctx context.Context) (service.FilterDomain, error) {
	if m.DomainFunc != nil {
		return m.DomainFunc(ctx)
	}
	return nil, errors.New("DomainFunc not implemented")
}

// Render implements the DashboardService interface
func (m *MockDashboardService) Render(ctx context.Context, sel service.Selection) (*service.Dashboard, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, sel)
	}
	return nil, errors.New("RenderFunc not implemented")
}

// ListBookings implements the DashboardService interface
func (m *MockDashboardService) ListBookings(ctx context.Context, sel service.Selection, page service.Page) (*service.BookingPage, error) {
	if m.ListBookingsFunc != nil {
		return m.ListBookingsFunc(ctx, sel, page)
	}
	return nil, errors.New("ListBookingsFunc not implemented")
}
