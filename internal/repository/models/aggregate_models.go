package models

// Row is one result row keyed by column name.
type Row map[string]any

// AggregateRow is a (dimension, metric) pair from a precomputed aggregate table.
type AggregateRow struct {
	Dimension string
	Metric    float64
}

// TableSpec describes the fixed two-column schema of an aggregate table.
type TableSpec struct {
	Name      string
	Dimension string
	Metric    string
}

// Columns returns the table's columns in storage order.
func (t TableSpec) Columns() []string {
	return []string{t.Dimension, t.Metric}
}

// HasColumn reports whether col belongs to the table.
func (t TableSpec) HasColumn(col string) bool {
	return col == t.Dimension || col == t.Metric
}
