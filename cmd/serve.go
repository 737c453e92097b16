package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/policy-cli/internal/catalog"
	"github.com/sells-group/policy-cli/internal/config"
	"github.com/sells-group/policy-cli/internal/export"
	"github.com/sells-group/policy-cli/internal/model"
	"github.com/sells-group/policy-cli/internal/monitoring"
	"github.com/sells-group/policy-cli/internal/recommend"
)

const (
	requestIDHeader = "X-Request-ID"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	shutdownTimeout = 10 * time.Second
	maxRequestBytes = 1 << 20
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		collector, err := monitoring.NewCollector(reg)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, "serve", recommend.WithObserver(collector))
		if err != nil {
			return err
		}
		defer env.Close()

		// Catalog load errors are fatal at startup.
		if _, err := loadCatalog(ctx, env); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(newServeEnv(env, collector, reg, cfg.Scoring), cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return eris.Wrap(srv.Shutdown(shutdownCtx), "server shutdown")
		})

		if watchPath, ok := catalogWatchPath(cfg.Catalog); ok {
			g.Go(func() error {
				zap.L().Info("watching catalog for changes", zap.String("path", watchPath))
				return env.Catalog.Watch(gctx, watchPath)
			})
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// catalogWatchPath returns the file to watch for file-backed catalogs when
// watching is enabled.
func catalogWatchPath(c config.CatalogConfig) (string, bool) {
	if !c.Watch || c.Path == "" {
		return "", false
	}
	switch c.Source {
	case config.SourceCSV, config.SourceXLSX, config.SourceSQLite:
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			return c.Path, true
		}
		return abs, true
	default:
		return "", false
	}
}

// serveEnv holds the handler dependencies.
type serveEnv struct {
	catalog     *catalog.Cache
	pipeline    *recommend.Pipeline
	collector   *monitoring.Collector
	metrics     http.Handler
	scoring     config.ScoringConfig
	writeReport func(io.Writer, *recommend.Result, export.ReportOptions) error
	now         func() time.Time
}

func newServeEnv(env *recommendEnv, collector *monitoring.Collector, reg *prometheus.Registry, scoring config.ScoringConfig) *serveEnv {
	return &serveEnv{
		catalog:     env.Catalog,
		pipeline:    env.Pipeline,
		collector:   collector,
		metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		scoring:     scoring,
		writeReport: export.WriteReport,
		now:         time.Now,
	}
}

// buildRouter wires the HTTP API.
func buildRouter(s *serveEnv, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: sc.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", s.metrics.ServeHTTP)
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.collector.Collect())
	})

	r.Group(func(r chi.Router) {
		if sc.RateLimit > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(sc.RateLimit), sc.RateBurst)))
		}
		r.Get("/catalog/terms", s.handleTerms)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/recommend/csv", s.handleRecommendCSV)
		r.Post("/recommend/report", s.handleRecommendReport)
	})

	return r
}

func (s *serveEnv) handleTerms(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Get(r.Context())
	if err != nil {
		zap.L().Error("catalog unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, termsBody(cat))
}

func (s *serveEnv) handleRecommend(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, export.NewResponse(res, s.scoring.TopN))
}

func (s *serveEnv) handleRecommendCSV(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res.Records); err != nil {
		zap.L().Error("csv export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "csv export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(export.DefaultCSVName))
	_, _ = w.Write(buf.Bytes())
}

func (s *serveEnv) handleRecommendReport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	now := s.now()
	opts := export.ReportOptions{TopN: s.scoring.TopN, Rows: s.scoring.ReportRows, GeneratedAt: now}

	var buf bytes.Buffer
	if err := s.writeReport(&buf, res, opts); err != nil {
		zap.L().Error("report generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment(export.ReportName(now)))
	_, _ = w.Write(buf.Bytes())
}

// run decodes the query and runs the pipeline, writing the error response
// itself when it cannot produce a result.
func (s *serveEnv) run(w http.ResponseWriter, r *http.Request) (*recommend.Result, bool) {
	q := defaultQuery(s.scoring)
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&q); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	cat, err := s.catalog.Get(r.Context())
	if err != nil {
		zap.L().Error("catalog unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return nil, false
	}

	res, err := s.pipeline.Run(cat.Products, q)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		zap.L().Error("recommendation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "recommendation failed")
		return nil, false
	}
	return res, true
}

// defaultQuery pre-fills the fields a request may omit.
func defaultQuery(scoring config.ScoringConfig) model.ClientQuery {
	return model.ClientQuery{
		BudgetMode: model.BudgetAnnual,
		Scenario:   model.ScenarioOptimistic,
		Weights:    recommend.DefaultWeights(scoring),
	}
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

// writeJSON encodes v before committing the status so an unencodable value
// still yields a 500 with a body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
		buf.Reset()
		buf.WriteString(`{"error":"response encoding failed"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
