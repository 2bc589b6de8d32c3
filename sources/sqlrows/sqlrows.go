// Package sqlrows reads the result of a database/sql query into records
// that expressions and field setters can work on.
package sqlrows

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/prosuite/evaluation/env"
	"github.com/prosuite/evaluation/object"
)

// Option configures Collect.
type Option func(*options)

type options struct {
	caseSensitive bool
	limit         int
}

// WithCaseSensitive makes the field names of the collected records match
// exactly.
func WithCaseSensitive() Option {
	return func(o *options) {
		o.caseSensitive = true
	}
}

// WithLimit stops collecting after n rows. Zero means no limit.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// Collect reads all remaining rows into records, one field per column in
// column order. It does not close rows.
func Collect(rows *sql.Rows, opts ...Option) ([]*env.Record, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	var records []*env.Record
	for rows.Next() {
		if o.limit > 0 && len(records) >= o.limit {
			break
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", len(records)+1, err)
		}
		record := env.NewRecord()
		if o.caseSensitive {
			record = env.NewCaseSensitiveRecord()
		}
		for i, column := range columns {
			record.Set(column, Value(values[i]))
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Value converts a value produced by a database/sql driver. Byte slices
// become strings and times become RFC 3339 strings.
func Value(v any) object.Value {
	switch v := v.(type) {
	case []byte:
		return object.NewString(string(v))
	case time.Time:
		return object.NewString(v.Format(time.RFC3339Nano))
	case sql.NullString:
		if !v.Valid {
			return object.Null
		}
		return object.NewString(v.String)
	case sql.NullInt64:
		if !v.Valid {
			return object.Null
		}
		return object.NewNumber(float64(v.Int64))
	case sql.NullFloat64:
		if !v.Valid {
			return object.Null
		}
		return object.NewNumber(v.Float64)
	case sql.NullBool:
		if !v.Valid {
			return object.Null
		}
		return object.NewBool(v.Bool)
	default:
		return object.FromGo(v)
	}
}
