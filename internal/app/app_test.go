package app

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MichaelF102/Uber-Analytics/internal/config"
	"github.com/MichaelF102/Uber-Analytics/internal/repository/repotest"
)

const bookingsCSV = `Date,Time,Booking ID,Booking Status,Customer ID,Vehicle Type,Pickup Location,Drop Location,Booking Value,Ride Distance,Driver Ratings,Customer Rating,Payment Method
2024-11-29,18:01:39,"""CNR1326809""",Incomplete,"""CID4604802""",Go Sedan,Shastri Nagar,Gurgaon Sector 56,237,5.73,NULL,NULL,UPI
2024-08-23,08:56:10,"""CNR8494506""",Completed,"""CID9202816""",Auto,Khandsa,Malviya Nagar,627,13.58,4.9,4.9,Debit Card
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	csvPath := filepath.Join(t.TempDir(), "bookings.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(bookingsCSV), 0o600))

	return &config.Config{
		AppEnv:             "test",
		DBDriver:           "sqlite3",
		DBPath:             repotest.Path(t),
		CSVPath:            csvPath,
		CacheTTL:           time.Minute,
		GRPCPort:           0,
		HTTPPort:           0,
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestNewApp(t *testing.T) {
	ctx := context.Background()

	t.Run("wires every component", func(t *testing.T) {
		a, err := NewApp(ctx, testConfig(t), zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, a.httpServer.Handler)

		shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		a.shutdown(shutdownCtx)
	})

	t.Run("missing dataset", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.CSVPath = filepath.Join(t.TempDir(), "missing.csv")

		_, err := NewApp(ctx, cfg, zaptest.NewLogger(t))
		assert.ErrorContains(t, err, "dataset load failed")
	})

	t.Run("database without aggregate tables", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.DBPath = filepath.Join(t.TempDir(), "empty.db")
		db, err := sql.Open("sqlite3", cfg.DBPath)
		require.NoError(t, err)
		_, err = db.Exec(`CREATE TABLE unrelated (id INTEGER)`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = NewApp(ctx, cfg, zaptest.NewLogger(t))
		assert.ErrorContains(t, err, "schema check failed")
	})

	t.Run("invalid cors origin", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.CORSAllowedOrigins = []string{"dashboard.local"}

		_, err := NewApp(ctx, cfg, zaptest.NewLogger(t))
		assert.ErrorContains(t, err, "HTTP router")
	})
}
