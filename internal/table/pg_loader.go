package table

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGSource reads a result table from a SQL query. Every value is rendered to text
// so that normalization treats database and CSV input the same way.
type PGSource struct {
	DB    Querier
	Query string
	Args  []any
}

func (s PGSource) Load(ctx context.Context) (*Table, error) {
	rows, err := s.DB.Query(ctx, s.Query, s.Args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	headers := make([]string, len(fds))
	for i, fd := range fds {
		headers[i] = fd.Name
	}
	columns, err := parseHeader(headers)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: columns}
	line := 1
	for rows.Next() {
		line++
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", line-1, err)
		}
		record := make(map[string]string, len(columns))
		for i, col := range columns {
			record[col] = formatValue(values[i])
		}
		t.Rows = append(t.Rows, NewRow(line, record))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return t, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case time.Duration:
		return strconv.FormatFloat(val.Seconds(), 'g', -1, 64)
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
