package grpc

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/MichaelF102/Uber-Analytics/api/v1"
	"github.com/MichaelF102/Uber-Analytics/internal/service"
	"github.com/MichaelF102/Uber-Analytics/pkg/cache"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyFilterDomain CacheKeyType = "grpc:filter_domain"
	cacheKeyRender       CacheKeyType = "grpc:render"
	cacheKeyBookings     CacheKeyType = "grpc:bookings"
)

type GRPCHandlers struct {
	pb.UnimplementedDashboardServer
	dashboard DashboardService
	cache     cache.Cacher
	logger    *zap.Logger
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
}

// NewGRPCHandlers initializes the gRPC handlers. A nil cache disables caching.
func NewGRPCHandlers(dashboard DashboardService, c cache.Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if dashboard == nil {
		panic("nil DashboardService provided to NewGRPCHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandlers{
		dashboard: dashboard,
		cache:     c,
		logger:    logger.Named("grpc-handler"),
		cacheTTL:  ttl,
	}
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrUnknownDimension), errors.Is(err, service.ErrInvalidPage):
		s.logger.Info("invalid request", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrDatasetUnavailable):
		s.logger.Error("dataset unavailable", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Unavailable, "booking dataset unavailable")
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) GetFilterDomain(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	domain, err := cache.FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeyFilterDomain), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.FilterDomain, error) {
		return s.dashboard.Domain(fetchCtx)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetFilterDomain", err)
	}

	return s.encode(ctx, "GetFilterDomain", domain)
}

func (s *GRPCHandlers) Render(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sel, err := parseSelection(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	cacheKey := cache.Key(string(cacheKeyRender), sel.Key())

	dash, err := cache.FindAndCache(ctx, s.cache, &s.sfGroup, cacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) (*service.Dashboard, error) {
		return s.dashboard.Render(fetchCtx, sel)
	})
	if err != nil {
		return nil, s.handleError(ctx, "Render", err)
	}

	return s.encode(ctx, "Render", dash)
}

func (s *GRPCHandlers) ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sel, err := parseSelection(req)
	if err != nil {
		return nil, err
	}
	page, err := parsePage(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	cacheKey := cache.Key(string(cacheKeyBookings), sel.Key(), strconv.Itoa(page.Limit), strconv.Itoa(page.Offset))

	result, err := cache.FindAndCache(ctx, s.cache, &s.sfGroup, cacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) (*service.BookingPage, error) {
		return s.dashboard.ListBookings(fetchCtx, sel, page)
	})
	if err != nil {
		return nil, s.handleError(ctx, "ListBookings", err)
	}

	return s.encode(ctx, "ListBookings", result)
}

func (s *GRPCHandlers) encode(ctx context.Context, op string, v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, s.handleError(ctx, op, err)
	}
	return out, nil
}
