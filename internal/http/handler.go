package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/MichaelF102/Uber-Analytics/internal/chart"
	"github.com/MichaelF102/Uber-Analytics/internal/service"
	"github.com/MichaelF102/Uber-Analytics/pkg/cache"
)

const (
	defaultCacheDuration = 10 * time.Minute
	requestTimeout       = 15 * time.Second
)

const (
	cacheKeyFilterDomain = "http:filter_domain"
	cacheKeyRender       = "http:render"
	cacheKeyBookings     = "http:bookings"
)

var errInvalidQuery = errors.New("invalid query parameter")

type DashboardService interface {
	Domain(ctx context.Context) (service.FilterDomain, error)
	Render(ctx context.Context, sel service.Selection) (*service.Dashboard, error)
	ListBookings(ctx context.Context, sel service.Selection, page service.Page) (*service.BookingPage, error)
}

type Handler struct {
	dashboard DashboardService
	cache     cache.Cacher
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
	log       *zap.Logger
}

func NewHandler(dashboard DashboardService, c cache.Cacher, log *zap.Logger, ttl time.Duration) *Handler {
	if dashboard == nil {
		panic("nil DashboardService provided to NewHandler")
	}
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handler{dashboard: dashboard, cache: c, cacheTTL: ttl, log: log.Named("http")}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	api := r.Group("/api/v1")
	api.GET("/filters", h.getFilters)
	api.GET("/dashboard", h.getDashboard)
	api.GET("/bookings", h.listBookings)
	api.GET("/charts", h.listCharts)
	api.GET("/charts/:view", h.getChart)
	api.GET("/charts/:view/html", h.getChartHTML)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getFilters(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	domain, err := cache.FindAndCache(ctx, h.cache, &h.sfGroup, cacheKeyFilterDomain, h.cacheTTL, h.log, func(fetchCtx context.Context) (service.FilterDomain, error) {
		return h.dashboard.Domain(fetchCtx)
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(domain))
}

func (h *Handler) getDashboard(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	dash, err := h.render(c, sel)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(dash))
}

func (h *Handler) listBookings(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	page, err := parsePage(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	key := cache.Key(cacheKeyBookings, sel.Key(), strconv.Itoa(page.Limit), strconv.Itoa(page.Offset))
	result, err := cache.FindAndCache(ctx, h.cache, &h.sfGroup, key, h.cacheTTL, h.log, func(fetchCtx context.Context) (*service.BookingPage, error) {
		return h.dashboard.ListBookings(fetchCtx, sel, page)
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) listCharts(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(chart.ViewNames()))
}

func (h *Handler) getChart(c *gin.Context) {
	series, ok := h.chartSeries(c)
	if !ok {
		return
	}
	img, err := chart.Render(series)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", img)
}

func (h *Handler) getChartHTML(c *gin.Context) {
	series, ok := h.chartSeries(c)
	if !ok {
		return
	}
	page, err := chart.HTML(series)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// chartSeries writes the error response itself and reports false on failure.
func (h *Handler) chartSeries(c *gin.Context) (chart.Series, bool) {
	view := strings.TrimSpace(c.Param("view"))
	if !lo.Contains(chart.ViewNames(), view) {
		c.JSON(http.StatusNotFound, errorResponse("unknown chart view"))
		return chart.Series{}, false
	}

	sel, err := parseSelection(c)
	if err != nil {
		h.handleError(c, err)
		return chart.Series{}, false
	}

	dash, err := h.render(c, sel)
	if err != nil {
		h.handleError(c, err)
		return chart.Series{}, false
	}

	series, err := chart.ForView(view, dash)
	if err != nil {
		h.handleError(c, err)
		return chart.Series{}, false
	}
	return series, true
}

func (h *Handler) render(c *gin.Context, sel service.Selection) (*service.Dashboard, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	return cache.FindAndCache(ctx, h.cache, &h.sfGroup, cache.Key(cacheKeyRender, sel.Key()), h.cacheTTL, h.log, func(fetchCtx context.Context) (*service.Dashboard, error) {
		return h.dashboard.Render(fetchCtx, sel)
	})
}

// parseSelection reads one query key per dimension. Repeated keys add values;
// a key present with only blank values selects nothing.
func parseSelection(c *gin.Context) (service.Selection, error) {
	sel := service.Selection{}
	for key, values := range c.Request.URL.Query() {
		if key == "limit" || key == "offset" {
			continue
		}
		dim, err := service.ParseDimension(key)
		if err != nil {
			return nil, err
		}
		sel[dim] = lo.Filter(values, func(v string, _ int) bool {
			return strings.TrimSpace(v) != ""
		})
	}
	return sel, nil
}

func parsePage(c *gin.Context) (service.Page, error) {
	var page service.Page
	for name, dst := range map[string]*int{"limit": &page.Limit, "offset": &page.Offset} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return service.Page{}, fmt.Errorf("%w: %s must be an integer", errInvalidQuery, name)
		}
		*dst = n
	}
	return page, nil
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidQuery),
		errors.Is(err, service.ErrUnknownDimension),
		errors.Is(err, service.ErrInvalidPage):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, chart.ErrUnknownView), errors.Is(err, chart.ErrEmptySeries):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrDatasetUnavailable):
		h.log.Error("dataset unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorResponse("booking dataset unavailable"))
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorResponse("request timed out"))
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		h.log.Error("handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data any) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
