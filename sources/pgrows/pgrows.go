// Package pgrows reads the result of a pgx query into records.
package pgrows

import (
	"fmt"
	"math/big"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/prosuite/evaluation/env"
	"github.com/prosuite/evaluation/object"
)

// Collect reads all rows into records, one field per result column, and
// closes rows.
func Collect(rows pgx.Rows) ([]*env.Record, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var records []*env.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(records)+1, err)
		}
		record := env.NewRecord()
		for i, field := range fields {
			value, err := Value(values[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", field.Name, err)
			}
			record.Set(field.Name, value)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Value converts a value decoded by pgx. Numerics become numbers, UUIDs
// and times become strings. Types without a counterpart in the expression
// language are kept as opaque objects.
func Value(v any) (object.Value, error) {
	switch v := v.(type) {
	case pgtype.Numeric:
		if !v.Valid || v.NaN {
			return object.Null, nil
		}
		f, err := v.Float64Value()
		if err != nil {
			return object.Null, err
		}
		if !f.Valid {
			return object.Null, nil
		}
		return object.NewNumber(f.Float64), nil
	case pgtype.Text:
		if !v.Valid {
			return object.Null, nil
		}
		return object.NewString(v.String), nil
	case pgtype.Int8:
		if !v.Valid {
			return object.Null, nil
		}
		return object.NewNumber(float64(v.Int64)), nil
	case pgtype.Bool:
		if !v.Valid {
			return object.Null, nil
		}
		return object.NewBool(v.Bool), nil
	case [16]byte:
		return object.NewString(uuid.UUID(v).String()), nil
	case pgtype.UUID:
		if !v.Valid {
			return object.Null, nil
		}
		return object.NewString(uuid.UUID(v.Bytes).String()), nil
	case *big.Int:
		if v == nil {
			return object.Null, nil
		}
		f, _ := new(big.Float).SetInt(v).Float64()
		return object.NewNumber(f), nil
	case time.Time:
		return object.NewString(v.Format(time.RFC3339Nano)), nil
	case []byte:
		return object.NewString(string(v)), nil
	default:
		return object.FromGo(v), nil
	}
}
