package catalog

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter rune // default ','
	TrimSpace bool
}

// StreamCSV reads CSV rows and sends them to a channel. A leading UTF-8 byte
// order mark, as written by spreadsheet exports, is stripped.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.FieldsPerRecord = -1 // allow variable fields

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCSVTable collects a CSV stream into a Table; the first row is the header.
func ReadCSVTable(ctx context.Context, r io.Reader, opts CSVOptions) (*Table, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	t := &Table{}
	first := true
	for rec := range rowCh {
		if first {
			t.Header = rec
			first = false
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if first {
		return nil, eris.New("csv: empty file")
	}
	return t, nil
}

// CSVSource reads the catalog from a CSV file.
type CSVSource struct {
	path string
	opts CSVOptions
}

// NewCSVSource creates a CSVSource for path. A zero delimiter means ','.
func NewCSVSource(path string, delimiter rune) *CSVSource {
	return &CSVSource{path: path, opts: CSVOptions{Delimiter: delimiter, TrimSpace: true}}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv:" + s.path }

// Read implements Source.
func (s *CSVSource) Read(ctx context.Context) (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", s.path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSVTable(ctx, f, s.opts)
}
