// Package repository holds the hand-written pgx data access layer. Every
// store takes a DBTX so callers can pass a pool or a transaction.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DBTX is the subset of pgx that the stores use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// numericToFloat converts a nullable NUMERIC column into a float64, with
// zero standing in for NULL.
func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	value, err := n.Value()
	if err != nil {
		return 0
	}
	str, ok := value.(string)
	if !ok {
		return 0
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// numericFromFloat converts a float64 into a NUMERIC parameter, NULL when
// absent is signalled by passing a nil pointer to numericFromPtr instead.
func numericFromFloat(f float64) pgtype.Numeric {
	num := new(pgtype.Numeric)
	_ = num.Scan(decimal.NewFromFloat(f).String())
	return *num
}

func numericFromPtr(f *float64) pgtype.Numeric {
	if f == nil {
		return pgtype.Numeric{Valid: false}
	}
	return numericFromFloat(*f)
}

// unmarshalJSONB decodes a nullable jsonb column into dst, leaving dst
// untouched for NULL.
func unmarshalJSONB(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode jsonb column: %w", err)
	}
	return nil
}
