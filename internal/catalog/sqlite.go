package catalog

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads the catalog from a table in a SQLite database.
type SQLiteSource struct {
	db    *sql.DB
	path  string
	table string
}

// NewSQLiteSource opens the SQLite database at path.
func NewSQLiteSource(path, table string) (*SQLiteSource, error) {
	if !tableNameRE.MatchString(table) {
		return nil, eris.Errorf("sqlite: invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	return &SQLiteSource{db: db, path: path, table: table}, nil
}

// Name implements Source.
func (s *SQLiteSource) Name() string { return "sqlite:" + s.path + "#" + s.table }

// Close releases the database handle.
func (s *SQLiteSource) Close() {
	_ = s.db.Close()
}

// Read implements Source.
func (s *SQLiteSource) Read(ctx context.Context) (*Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM "`+s.table+`"`)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: select %s", s.table)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}

	t := &Table{Header: cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}
		values := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				values[i] = c.String
			}
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rows")
	}
	return t, nil
}
