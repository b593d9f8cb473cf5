package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MichaelF102/Uber-Analytics/internal/repository/models"
)

var (
	ErrUnknownTable  = errors.New("unknown aggregate table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoColumns     = errors.New("at least one column is required")
	ErrMissingTable  = errors.New("aggregate table missing from database")
)

// FilterQuery selects rows of one aggregate table whose dimension value is in Values.
type FilterQuery struct {
	Table      string
	Columns    []string
	Values     []string
	Unfiltered bool
}

type AggregateRepository struct {
	db *sql.DB
}

func NewAggregateRepository(db *sql.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// Filter returns the rows of q.Table whose dimension is a member of q.Values, in storage order.
// An empty Values set yields no rows.
func (r *AggregateRepository) Filter(ctx context.Context, q FilterQuery) ([]models.Row, error) {
	query, args, err := buildFilterQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query Filter %s: %w", q.Table, err)
	}
	defer rows.Close()

	results := make([]models.Row, 0)
	for rows.Next() {
		values := make([]any, len(q.Columns))
		ptrs := make([]any, len(q.Columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan Filter %s row: %w", q.Table, err)
		}

		row := make(models.Row, len(q.Columns))
		for i, col := range q.Columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate Filter %s: %w", q.Table, err)
	}
	return results, nil
}

// Aggregate fetches the (dimension, metric) pairs of a table restricted to values. It is
// Filter projected onto the table's dimension and metric columns.
func (r *AggregateRepository) Aggregate(ctx context.Context, table string, values []string, unfiltered bool) ([]models.AggregateRow, error) {
	spec, err := Lookup(table)
	if err != nil {
		return nil, err
	}

	rows, err := r.Filter(ctx, FilterQuery{
		Table:      table,
		Columns:    spec.Columns(),
		Values:     values,
		Unfiltered: unfiltered,
	})
	if err != nil {
		return nil, err
	}

	results := make([]models.AggregateRow, 0, len(rows))
	for _, row := range rows {
		metric, err := toFloat(row[spec.Metric])
		if err != nil {
			return nil, fmt.Errorf("scan Aggregate %s row: %w", table, err)
		}
		results = append(results, models.AggregateRow{Dimension: toText(row[spec.Dimension]), Metric: metric})
	}
	return results, nil
}

// toFloat converts a metric cell as returned by the SQLite driver. NULL reads as zero.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric metric %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported metric type %T", v)
	}
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Distinct lists the distinct dimension values of a table.
func (r *AggregateRepository) Distinct(ctx context.Context, table string) ([]string, error) {
	spec, err := Lookup(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL`,
		quoteIdent(spec.Dimension), quoteIdent(spec.Name), quoteIdent(spec.Dimension))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query Distinct %s: %w", table, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan Distinct %s row: %w", table, err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate Distinct %s: %w", table, err)
	}
	return values, nil
}

// Verify checks that every registered aggregate table exists.
func (r *AggregateRepository) Verify(ctx context.Context) error {
	const query = `SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`

	for _, name := range TableNames() {
		var n int
		if err := r.db.QueryRowContext(ctx, query, name).Scan(&n); err != nil {
			return fmt.Errorf("query Verify %s: %w", name, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrMissingTable, name)
		}
	}
	return nil
}

func buildFilterQuery(q FilterQuery) (string, []any, error) {
	spec, err := Lookup(q.Table)
	if err != nil {
		return "", nil, err
	}
	if len(q.Columns) == 0 {
		return "", nil, ErrNoColumns
	}

	cols := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		if !spec.HasColumn(col) {
			return "", nil, fmt.Errorf("%w: %q in %s", ErrUnknownColumn, col, spec.Name)
		}
		cols[i] = quoteIdent(col)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(spec.Name))

	if q.Unfiltered {
		return b.String(), nil, nil
	}

	if len(q.Values) == 0 {
		b.WriteString(" WHERE 1 = 0")
		return b.String(), nil, nil
	}

	args := make([]any, len(q.Values))
	for i, v := range q.Values {
		args[i] = v
	}

	b.WriteString(" WHERE ")
	b.WriteString(quoteIdent(spec.Dimension))
	b.WriteString(" IN (")
	b.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(q.Values)), ", "))
	b.WriteString(")")

	return b.String(), args, nil
}

// quoteIdent only ever sees names from the table registry.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
