package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelF102/Uber-Analytics/internal/repository"
	"github.com/MichaelF102/Uber-Analytics/internal/repository/models"
	"github.com/MichaelF102/Uber-Analytics/internal/repository/repotest"
)

func TestAggregateRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := repotest.Open(t)
	repo := repository.NewAggregateRepository(db)

	t.Run("Verify", func(t *testing.T) {
		require.NoError(t, repo.Verify(ctx))
	})

	t.Run("Filter - full domain returns every row in storage order", func(t *testing.T) {
		domain, err := repo.Distinct(ctx, repository.TableRideStatus)
		require.NoError(t, err)

		rows, err := repo.Filter(ctx, repository.FilterQuery{
			Table:   repository.TableRideStatus,
			Columns: []string{"status", "count"},
			Values:  domain,
		})
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, "Completed", rows[0]["status"])
		assert.EqualValues(t, 93000, rows[0]["count"])
		assert.Equal(t, "Incomplete", rows[4]["status"])
	})

	t.Run("Filter - subset", func(t *testing.T) {
		rows, err := repo.Filter(ctx, repository.FilterQuery{
			Table:   repository.TableVehicleDemand,
			Columns: []string{"vehicle_type"},
			Values:  []string{"Bike", "Auto", "Hovercraft"},
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, models.Row{"vehicle_type": "Auto"}, rows[0])
		assert.Equal(t, models.Row{"vehicle_type": "Bike"}, rows[1])
	})

	t.Run("Filter - empty selection yields empty result", func(t *testing.T) {
		rows, err := repo.Filter(ctx, repository.FilterQuery{
			Table:   repository.TablePaymentMethods,
			Columns: []string{"method", "count"},
			Values:  []string{},
		})
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("Filter - quote characters are bound, not interpolated", func(t *testing.T) {
		rows, err := repo.Filter(ctx, repository.FilterQuery{
			Table:   repository.TableTopPickups,
			Columns: []string{"location"},
			Values:  []string{"Saket') OR ('1'='1", "O'Brien Nagar"},
		})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("Filter - rejects unknown columns and tables", func(t *testing.T) {
		_, err := repo.Filter(ctx, repository.FilterQuery{
			Table:   repository.TableTopDrops,
			Columns: []string{"location", "password"},
			Values:  []string{"Ashram"},
		})
		assert.ErrorIs(t, err, repository.ErrUnknownColumn)

		_, err = repo.Filter(ctx, repository.FilterQuery{
			Table:   "sqlite_master",
			Columns: []string{"name"},
		})
		assert.ErrorIs(t, err, repository.ErrUnknownTable)

		_, err = repo.Filter(ctx, repository.FilterQuery{Table: repository.TableTopDrops})
		assert.ErrorIs(t, err, repository.ErrNoColumns)
	})

	t.Run("Aggregate - unfiltered summary", func(t *testing.T) {
		rows, err := repo.Aggregate(ctx, repository.TableSummaryMetrics, nil, true)
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, models.AggregateRow{Dimension: "Total Bookings", Metric: 150000}, rows[0])
		assert.InDelta(t, 4.23, rows[4].Metric, 1e-9)
	})

	t.Run("Aggregate - filtered", func(t *testing.T) {
		rows, err := repo.Aggregate(ctx, repository.TableRideStatus, []string{"Completed", "Incomplete"}, false)
		require.NoError(t, err)
		assert.Equal(t, []models.AggregateRow{
			{Dimension: "Completed", Metric: 93000},
			{Dimension: "Incomplete", Metric: 9000},
		}, rows)
	})

	t.Run("Distinct", func(t *testing.T) {
		values, err := repo.Distinct(ctx, repository.TablePaymentMethods)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"UPI", "Cash", "Uber Wallet", "Credit Card", "Debit Card"}, values)
	})
}

func TestAggregateRepository_VerifyMissingTable(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "partial.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE summary_metrics (metric TEXT, value REAL);`)
	require.NoError(t, err)

	repo := repository.NewAggregateRepository(db)
	err = repo.Verify(context.Background())
	assert.ErrorIs(t, err, repository.ErrMissingTable)
	assert.Contains(t, err.Error(), repository.TableRideStatus)
}
