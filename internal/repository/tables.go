package repository

import (
	"fmt"

	"github.com/MichaelF102/Uber-Analytics/internal/repository/models"
)

// Aggregate table names produced by the batch pipeline.
const (
	TableSummaryMetrics = "summary_metrics"
	TableRideStatus     = "ride_status_distribution"
	TableVehicleDemand  = "vehicle_demand"
	TableTopPickups     = "top_pickup_locations"
	TableTopDrops       = "top_drop_locations"
	TablePaymentMethods = "payment_methods"
	TableCancellations  = "cancellations"
)

var tables = map[string]models.TableSpec{
	TableSummaryMetrics: {Name: TableSummaryMetrics, Dimension: "metric", Metric: "value"},
	TableRideStatus:     {Name: TableRideStatus, Dimension: "status", Metric: "count"},
	TableVehicleDemand:  {Name: TableVehicleDemand, Dimension: "vehicle_type", Metric: "count"},
	TableTopPickups:     {Name: TableTopPickups, Dimension: "location", Metric: "count"},
	TableTopDrops:       {Name: TableTopDrops, Dimension: "location", Metric: "count"},
	TablePaymentMethods: {Name: TablePaymentMethods, Dimension: "method", Metric: "count"},
	TableCancellations:  {Name: TableCancellations, Dimension: "type", Metric: "total"},
}

// TableNames lists every aggregate table in a fixed order.
func TableNames() []string {
	return []string{
		TableSummaryMetrics,
		TableRideStatus,
		TableVehicleDemand,
		TableTopPickups,
		TableTopDrops,
		TablePaymentMethods,
		TableCancellations,
	}
}

// Lookup returns the schema of a registered aggregate table.
func Lookup(name string) (models.TableSpec, error) {
	spec, ok := tables[name]
	if !ok {
		return models.TableSpec{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return spec, nil
}
