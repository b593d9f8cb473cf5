package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("bookings dataset unavailable")

// Handle is a lazily loaded, read-only view of one bookings CSV. The first call to
// Bookings reads the file; the records (or the load error) are kept for the life of
// the handle.
type Handle struct {
	path   string
	logger *zap.Logger

	mu       sync.Mutex
	loaded   bool
	bookings []Booking
	err      error
}

// NewHandle creates a handle over path. Nothing is read until Bookings is called.
func NewHandle(path string, logger *zap.Logger) *Handle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handle{
		path:   path,
		logger: logger.Named("dataset"),
	}
}

// Path returns the CSV path the handle reads.
func (h *Handle) Path() string {
	return h.path
}

// Bookings returns the loaded records. Callers must treat the slice as read-only.
func (h *Handle) Bookings(ctx context.Context) ([]Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return h.bookings, h.err
	}

	start := time.Now()
	h.bookings, h.err = h.load()
	h.loaded = true

	if h.err != nil {
		h.logger.Error("bookings load failed", zap.String("path", h.path), zap.Error(h.err))
	} else {
		h.logger.Info("bookings loaded",
			zap.String("path", h.path),
			zap.Int("rows", len(h.bookings)),
			zap.Duration("took", time.Since(start)))
	}

	return h.bookings, h.err
}

func (h *Handle) load() ([]Booking, error) {
	f, err := os.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer f.Close()

	bookings, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return bookings, nil
}

// Static returns a handle pre-populated with bookings, for callers that already hold
// the records in memory.
func Static(bookings []Booking) *Handle {
	if bookings == nil {
		bookings = []Booking{}
	}
	return &Handle{
		logger:   zap.NewNop(),
		loaded:   true,
		bookings: bookings,
	}
}
