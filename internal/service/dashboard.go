package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/MichaelF102/Uber-Analytics/internal/analytics"
	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
	"github.com/MichaelF102/Uber-Analytics/internal/repository"
	"github.com/MichaelF102/Uber-Analytics/internal/repository/models"
)

const (
	dbTimeout = 2 * time.Second

	DefaultPageSize = 50
	MaxPageSize     = 1000
)

var (
	ErrStorageFailure     = errors.New("storage failure")
	ErrDatasetUnavailable = errors.New("booking dataset unavailable")
	ErrUnknownDimension   = errors.New("unknown filter dimension")
	ErrInvalidPage        = errors.New("invalid page")
)

// DashboardService composes the filtered aggregate tables and the derived views.
type DashboardService struct {
	storage  AggregateRepository
	bookings BookingSource
	logger   *zap.Logger
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(storage AggregateRepository, bookings BookingSource, logger *zap.Logger) *DashboardService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if bookings == nil {
		panic("bookings must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &DashboardService{
		storage:  storage,
		bookings: bookings,
		logger:   logger,
	}
}

// Domain lists the known values of every dimension.
func (s *DashboardService) Domain(ctx context.Context) (FilterDomain, error) {
	domain := make(FilterDomain, len(dimensionTables))
	for _, d := range Dimensions() {
		values, err := s.distinct(ctx, d.Table())
		if err != nil {
			return nil, err
		}
		domain[d] = values
	}
	return domain, nil
}

func (s *DashboardService) distinct(ctx context.Context, table string) ([]string, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	values, err := s.storage.Distinct(dbCtx, table)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return values, nil
}

func (s *DashboardService) aggregate(ctx context.Context, table string, values []string, unfiltered bool) ([]Metric, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.Aggregate(dbCtx, table, values, unfiltered)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return lo.Map(rows, func(r models.AggregateRow, _ int) Metric {
		return Metric{Name: r.Dimension, Value: r.Metric}
	}), nil
}

// Render builds the dashboard for one filter selection. Dimensions missing from sel
// default to their full domain. Derived views are computed on the full dataset.
func (s *DashboardService) Render(ctx context.Context, sel Selection) (*Dashboard, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	var domain FilterDomain
	if !sel.Complete() {
		var err error
		if domain, err = s.Domain(ctx); err != nil {
			return nil, err
		}
	}
	resolved := sel.Resolve(domain)

	dash := &Dashboard{Filters: resolved}

	filtered := []struct {
		dim Dimension
		out *[]Metric
	}{
		{DimStatus, &dash.RideStatus},
		{DimVehicleType, &dash.VehicleDemand},
		{DimPickup, &dash.TopPickups},
		{DimDrop, &dash.TopDrops},
		{DimPaymentMethod, &dash.PaymentMethods},
	}
	for _, f := range filtered {
		metrics, err := s.aggregate(ctx, f.dim.Table(), resolved[f.dim], false)
		if err != nil {
			return nil, err
		}
		*f.out = metrics
	}

	var err error
	if dash.Summary, err = s.aggregate(ctx, repository.TableSummaryMetrics, nil, true); err != nil {
		return nil, err
	}
	if dash.Cancellations, err = s.aggregate(ctx, repository.TableCancellations, nil, true); err != nil {
		return nil, err
	}

	bookings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	dash.Views = analytics.Derive(bookings)

	s.logger.Info("rendered dashboard",
		zap.Int("ride_status_rows", len(dash.RideStatus)),
		zap.Int("vehicle_rows", len(dash.VehicleDemand)),
		zap.Int("bookings", len(bookings)),
		zap.Duration("took", time.Since(start)))

	return dash, nil
}

// ListBookings returns one page of the raw bookings matching sel, with the match
// count and total booking value over every matching row.
func (s *DashboardService) ListBookings(ctx context.Context, sel Selection, page Page) (*BookingPage, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}

	bookings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	matched := FilterBookings(bookings, sel)
	total := lo.SumBy(matched, func(b dataset.Booking) float64 {
		return lo.FromPtr(b.BookingValue)
	})

	lower := min(page.Offset, len(matched))
	upper := lower + min(page.Limit, len(matched)-lower)

	s.logger.Debug("listed bookings",
		zap.Int("matched", len(matched)),
		zap.Int("offset", page.Offset),
		zap.Int("limit", page.Limit))

	return &BookingPage{
		Total:      len(matched),
		TotalValue: total,
		Limit:      page.Limit,
		Offset:     page.Offset,
		Bookings:   matched[lower:upper],
	}, nil
}

func normalizePage(p Page) (Page, error) {
	if p.Offset < 0 || p.Limit < 0 {
		return Page{}, fmt.Errorf("%w: limit %d offset %d", ErrInvalidPage, p.Limit, p.Offset)
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	p.Limit = min(p.Limit, MaxPageSize)
	return p, nil
}

func (s *DashboardService) load(ctx context.Context) ([]dataset.Booking, error) {
	bookings, err := s.bookings.Bookings(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Error("failed to load bookings", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	return bookings, nil
}

func storageError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}
