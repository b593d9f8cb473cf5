// Package repotest builds SQLite fixtures shaped like the batch pipeline output.
package repotest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Schema mirrors the tables created by the analytics-to-sqlite pipeline stage.
const Schema = `
CREATE TABLE summary_metrics (metric TEXT, value REAL);
CREATE TABLE ride_status_distribution (status TEXT, count INTEGER);
CREATE TABLE top_pickup_locations (location TEXT, count INTEGER);
CREATE TABLE top_drop_locations (location TEXT, count INTEGER);
CREATE TABLE vehicle_demand (vehicle_type TEXT, count INTEGER);
CREATE TABLE cancellations (type TEXT, total INTEGER);
CREATE TABLE payment_methods (method TEXT, count INTEGER);
`

// Seed is a small, realistic pipeline output.
const Seed = `
INSERT INTO summary_metrics VALUES
	('Total Bookings', 150000),
	('Total Revenue (Completed)', 47260000.5),
	('Average Booking Value', 508.3),
	('Average Ride Distance', 24.6),
	('Average Driver Rating', 4.23);
INSERT INTO ride_status_distribution VALUES
	('Completed', 93000),
	('Cancelled by Driver', 27000),
	('Cancelled by Customer', 10500),
	('No Driver Found', 10500),
	('Incomplete', 9000);
INSERT INTO top_pickup_locations VALUES
	('Khandsa', 949),
	('Barakhamba Road', 946),
	('Saket', 931),
	('Badarpur', 921),
	('Pragati Maidan', 920);
INSERT INTO top_drop_locations VALUES
	('Ashram', 936),
	('Basai Dhankot', 917),
	('Lok Kalyan Marg', 916),
	('Narsinghpur', 913),
	('Cyber Hub', 912);
INSERT INTO vehicle_demand VALUES
	('Auto', 37419),
	('Go Mini', 29806),
	('Go Sedan', 27141),
	('Bike', 22517),
	('Premier Sedan', 18111),
	('eBike', 10557),
	('Uber XL', 4449);
INSERT INTO cancellations VALUES
	('Customer', 10500),
	('Driver', 27000);
INSERT INTO payment_methods VALUES
	('UPI', 45909),
	('Cash', 25367),
	('Uber Wallet', 12276),
	('Credit Card', 10209),
	('Debit Card', 8239);
`

// Path creates a seeded database file under t.TempDir and returns its path.
func Path(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ncr_ride_analytics.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(Schema)
	require.NoError(t, err)
	_, err = db.Exec(Seed)
	require.NoError(t, err)

	return path
}

// Open returns a seeded database that is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", Path(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}
