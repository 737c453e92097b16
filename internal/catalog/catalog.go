// Package catalog loads the insurance product catalog from CSV, XLSX, SQLite,
// or Postgres into typed product records and caches it for the process.
package catalog

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policy-cli/internal/config"
	"github.com/sells-group/policy-cli/internal/model"
)

// ErrUnsupportedSource is returned by Open for an unknown catalog.source.
var ErrUnsupportedSource = eris.New("catalog: unsupported source")

// Source reads a raw catalog table.
type Source interface {
	Read(ctx context.Context) (*Table, error)
	Name() string
}

// Catalog is the loaded, read-only product table. It is safe to share across
// concurrent pipeline runs because nothing mutates it after Load.
type Catalog struct {
	Source     string                `json:"source"`
	Products   []model.ProductRecord `json:"-"`
	PayTerms   []int                 `json:"pay_terms"`
	Currencies []string              `json:"currencies"`
	Dropped    int                   `json:"dropped"`
}

// Load reads and decodes a catalog from src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	table, err := src.Read(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", src.Name())
	}

	products, dropped, err := Decode(table)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: decode %s", src.Name())
	}

	c := &Catalog{
		Source:     src.Name(),
		Products:   products,
		PayTerms:   distinctPayTerms(products),
		Currencies: distinctCurrencies(products),
		Dropped:    dropped,
	}

	zap.L().Info("catalog: loaded",
		zap.String("source", c.Source),
		zap.Int("products", len(products)),
		zap.Int("dropped", dropped),
	)
	return c, nil
}

// Open builds the Source named by cfg. Database sources hold a connection
// that callers release with CloseSource.
func Open(ctx context.Context, cfg config.CatalogConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceCSV:
		delim, _ := utf8.DecodeRuneInString(cfg.Delimiter)
		if delim == utf8.RuneError {
			delim = 0
		}
		return NewCSVSource(cfg.Path, delim), nil
	case config.SourceXLSX:
		return NewXLSXSource(cfg.Path, cfg.Sheet), nil
	case config.SourceSQLite:
		return NewSQLiteSource(cfg.Path, cfg.Table)
	case config.SourcePostgres:
		return NewPostgresSource(ctx, cfg.DatabaseURL, cfg.Table)
	default:
		return nil, eris.Wrapf(ErrUnsupportedSource, "source %q", cfg.Source)
	}
}

// CloseSource releases any connection held by src.
func CloseSource(src Source) {
	if c, ok := src.(interface{ Close() }); ok {
		c.Close()
	}
}

func distinctPayTerms(products []model.ProductRecord) []int {
	var terms []int
	for _, p := range products {
		if !slices.Contains(terms, p.PayTermYears) {
			terms = append(terms, p.PayTermYears)
		}
	}
	slices.Sort(terms)
	return terms
}

func distinctCurrencies(products []model.ProductRecord) []string {
	var out []string
	for _, p := range products {
		cur := strings.ToUpper(p.Currency)
		if cur != "" && !slices.Contains(out, cur) {
			out = append(out, cur)
		}
	}
	slices.Sort(out)
	return out
}
