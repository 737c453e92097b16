package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Querier is the subset of pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the catalog from a Postgres table.
type PostgresSource struct {
	db      Querier
	table   string
	closeFn func()
}

// NewPostgresSource connects a pool to connString.
func NewPostgresSource(ctx context.Context, connString, table string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresSource{db: pool, table: table, closeFn: pool.Close}, nil
}

// NewPostgresSourceWithQuerier wraps an existing pool or mock.
func NewPostgresSourceWithQuerier(db Querier, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres:" + s.table }

// Close releases the pool if this source opened it.
func (s *PostgresSource) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Read implements Source.
func (s *PostgresSource) Read(ctx context.Context) (*Table, error) {
	query := "SELECT * FROM " + pgx.Identifier{s.table}.Sanitize()
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: select %s", s.table)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := &Table{Header: make([]string, len(fields))}
	hasJSON := false
	for i, f := range fields {
		t.Header[i] = f.Name
		hasJSON = hasJSON || isJSONType(f.DataTypeOID)
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "postgres: read row")
		}
		var raw [][]byte
		if hasJSON {
			raw = rows.RawValues()
		}
		cells := make([]string, len(vals))
		for i, v := range vals {
			if i < len(raw) && isJSONType(fields[i].DataTypeOID) {
				cells[i] = jsonText(fields[i], raw[i])
				continue
			}
			cells[i] = cellString(v)
		}
		t.Rows = append(t.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}
	return t, nil
}

func isJSONType(oid uint32) bool {
	return oid == pgtype.JSONOID || oid == pgtype.JSONBOID
}

// jsonText returns a json/jsonb cell as the text the server sent, so
// age-factor bands keep their document order. jsonb is stored with its keys
// already reordered; only json columns (or text) preserve authoring order.
func jsonText(fd pgconn.FieldDescription, raw []byte) string {
	if fd.DataTypeOID == pgtype.JSONBOID && fd.Format == pgtype.BinaryFormatCode && len(raw) > 0 {
		raw = raw[1:] // jsonb binary version byte
	}
	return string(raw)
}

// cellString renders a decoded Postgres value the way a CSV export would.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case map[string]any:
		// Decoded JSON has lost key order; Read prefers jsonText for json columns.
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
