package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/policy-cli/internal/catalog"
	"github.com/sells-group/policy-cli/internal/recommend"
)

// recommendEnv holds the catalog cache and pipeline shared by the
// recommend, catalog, and serve commands.
type recommendEnv struct {
	Source   catalog.Source
	Catalog  *catalog.Cache
	Pipeline *recommend.Pipeline
}

// Close releases the catalog source.
func (e *recommendEnv) Close() {
	if e.Source != nil {
		catalog.CloseSource(e.Source)
	}
}

// initEnv validates the config for mode, opens the catalog source, loads the
// fit vocabulary, and builds the pipeline. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string, opts ...recommend.Option) (*recommendEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	if err := recommend.ValidateConfig(cfg.Scoring); err != nil {
		return nil, err
	}

	vocab, err := recommend.LoadVocabulary(cfg.Scoring.VocabularyPath)
	if err != nil {
		return nil, err
	}

	src, err := catalog.Open(ctx, cfg.Catalog)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("catalog source opened", zap.String("source", src.Name()))

	policy := catalog.DefaultRetryPolicy()
	if cfg.Catalog.LoadAttempts > 0 {
		policy.MaxAttempts = cfg.Catalog.LoadAttempts
	}

	return &recommendEnv{
		Source: src,
		Catalog: catalog.NewCache(func(ctx context.Context) (*catalog.Catalog, error) {
			return catalog.LoadWithRetry(ctx, src, policy)
		}),
		Pipeline: recommend.New(cfg.Scoring, vocab, opts...),
	}, nil
}
