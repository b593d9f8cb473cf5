package grpc

import (
	"context"

	"github.com/MichaelF102/Uber-Analytics/internal/service"
)

type DashboardService interface {
	Domain(ctx context.Context) (service.FilterDomain, error)
	Render(ctx context.Context, sel service.Selection) (*service.Dashboard, error)
	ListBookings(ctx context.Context, sel service.Selection, page service.Page) (*service.BookingPage, error)
}
