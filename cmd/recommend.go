package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/policy-cli/internal/catalog"
	"github.com/sells-group/policy-cli/internal/config"
	"github.com/sells-group/policy-cli/internal/export"
	"github.com/sells-group/policy-cli/internal/model"
	"github.com/sells-group/policy-cli/internal/recommend"
)

// Default budgets by mode, used when --budget is not given.
const (
	defaultAnnualBudget  = 500000
	defaultMonthlyBudget = 40000
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank catalog products for a client",
	Long: `Filter the product catalog by currency, pay term, age, budget, and
gender, then score and rank the eligible products.

The composite score is fit*w_fit + ratio*w_ratio + cash*w_cash + irr*w_irr
using the raw 0-100 weights. Weights that do not sum to 100 produce a warning
but are used as given.

Examples:
  # Top 3 for a 45 year old woman, USD, 6-year pay term
  recommend --gender female --age 45 --currency USD --pay-term 6

  # Monthly budget, declared-rate scenario, IRR of at least 2%
  recommend --budget-mode monthly --budget 40000 --scenario declared --irr-floor 2

  # Export the full ranked table and a report workbook
  recommend --format csv --output recommendations.csv --report auto`,
	RunE: runRecommend,
}

func init() {
	addRecommendFlags(recommendCmd.Flags())
	rootCmd.AddCommand(recommendCmd)
}

func addRecommendFlags(f *pflag.FlagSet) {
	f.String("gender", string(model.GenderMale), "client gender: male or female")
	f.Int("age", 45, "client age (0-100)")
	f.String("currency", "TWD", "policy currency")
	f.Int("pay-term", 0, "pay term in years (0=shortest term in the catalog)")
	f.String("budget-mode", string(model.BudgetAnnual), "budget mode: annual or monthly")
	f.Float64("budget", 0, "budget amount (default 500000 annual or 40000 monthly)")
	f.StringSlice("purpose", []string{"legacy", "high cash value"}, "insurance purposes (repeatable)")
	f.Bool("prefer-big-brand", false, "prefer large insurers")
	f.Bool("need-high-cash", true, "need high cash value")
	f.String("scenario", string(model.ScenarioOptimistic), "rate scenario: optimistic or declared")
	f.Float64("irr-floor", 0, "minimum IRR to age 90 in percent (0=no floor)")
	f.Float64("coverage-ceiling", 0, "maximum coverage/premium ratio (0=no ceiling)")
	f.Int("w-fit", -1, "goal fit weight (-1=use config)")
	f.Int("w-ratio", -1, "coverage ratio weight (-1=use config)")
	f.Int("w-cash", -1, "cash value weight (-1=use config)")
	f.Int("w-irr", -1, "IRR weight (-1=use config)")
	f.Int("top", 0, "number of highlighted recommendations (0=use config)")
	f.String("format", "table", "output format: table, csv, or json")
	f.String("output", "", "output file path (default: stdout)")
	f.String("report", "", `write an XLSX report to this path ("auto" for a timestamped name)`)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := initEnv(ctx, "recommend")
	if err != nil {
		return err
	}
	defer env.Close()

	cat, err := loadCatalog(ctx, env)
	if err != nil {
		return err
	}

	q, err := queryFromFlags(cmd, cfg.Scoring, cat)
	if err != nil {
		return err
	}

	res, err := env.Pipeline.Run(cat.Products, q)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = cfg.Scoring.TopN
	}
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if err := outputRecommendations(res, format, outputPath, topN); err != nil {
		return err
	}

	reportPath, _ := cmd.Flags().GetString("report")
	if reportPath == "" {
		return nil
	}
	if res.Outcome == recommend.OutcomeNoMatch {
		fmt.Fprintln(os.Stderr, "No report written: no matching products.")
		return nil
	}
	return writeReportFile(res, reportPath, topN, time.Now())
}

// queryFromFlags builds the client query from flags, falling back to the
// configured weights and the catalog's shortest pay term.
func queryFromFlags(cmd *cobra.Command, scoring config.ScoringConfig, cat *catalog.Catalog) (model.ClientQuery, error) {
	f := cmd.Flags()

	gender, _ := f.GetString("gender")
	age, _ := f.GetInt("age")
	currency, _ := f.GetString("currency")
	payTerm, _ := f.GetInt("pay-term")
	budgetMode, _ := f.GetString("budget-mode")
	budget, _ := f.GetFloat64("budget")
	purposes, _ := f.GetStringSlice("purpose")
	bigBrand, _ := f.GetBool("prefer-big-brand")
	highCash, _ := f.GetBool("need-high-cash")
	scenario, _ := f.GetString("scenario")
	irrFloor, _ := f.GetFloat64("irr-floor")
	ceiling, _ := f.GetFloat64("coverage-ceiling")

	if payTerm == 0 {
		if cat == nil || len(cat.PayTerms) == 0 {
			return model.ClientQuery{}, eris.New("recommend: --pay-term is required when the catalog has no pay terms")
		}
		payTerm = cat.PayTerms[0]
	}

	mode := model.BudgetMode(strings.ToLower(budgetMode))
	if !f.Changed("budget") {
		budget = defaultAnnualBudget
		if mode == model.BudgetMonthly {
			budget = defaultMonthlyBudget
		}
	}

	weights := recommend.DefaultWeights(scoring)
	for flag, w := range map[string]*int{
		"w-fit":   &weights.Fit,
		"w-ratio": &weights.Ratio,
		"w-cash":  &weights.Cash,
		"w-irr":   &weights.IRR,
	} {
		if v, _ := f.GetInt(flag); v >= 0 {
			*w = v
		}
	}

	return model.ClientQuery{
		Gender:          model.Gender(strings.ToLower(gender)),
		Age:             age,
		Currency:        strings.ToUpper(currency),
		PayTerm:         payTerm,
		BudgetMode:      mode,
		BudgetAmount:    budget,
		Purposes:        purposes,
		PreferBigBrand:  bigBrand,
		NeedHighCash:    highCash,
		Scenario:        model.Scenario(strings.ToLower(scenario)),
		IRRFloor:        irrFloor,
		CoverageCeiling: ceiling,
		Weights:         weights,
	}, nil
}

func outputRecommendations(res *recommend.Result, format, outputPath string, topN int) error {
	if format == "csv" && outputPath != "" {
		return export.ExportCSV(res.Records, outputPath)
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "recommend: create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}
	return writeRecommendations(w, res, format, topN)
}

func writeRecommendations(w io.Writer, res *recommend.Result, format string, topN int) error {
	switch format {
	case "table":
		return eris.Wrap(export.WriteTable(w, res, topN), "recommend: write table")
	case "csv":
		return export.WriteCSV(w, res.Records)
	case "json":
		return export.WriteJSON(w, res, topN)
	default:
		return eris.Errorf("recommend: unsupported format %q", format)
	}
}

// writeReportFile renders the report next to an already-written table. Its
// errors are report errors and leave the ranked output intact.
func writeReportFile(res *recommend.Result, path string, topN int, now time.Time) error {
	if path == "auto" {
		path = export.ReportName(now)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create file %s", path)
	}
	defer f.Close() //nolint:errcheck

	opts := export.ReportOptions{TopN: topN, Rows: cfg.Scoring.ReportRows, GeneratedAt: now}
	if err := export.WriteReport(f, res, opts); err != nil {
		zap.L().Error("report generation failed", zap.String("path", path), zap.Error(err))
		return err
	}
	zap.L().Info("report written", zap.String("path", path))
	return nil
}

// loadCatalog is shared by commands that only need the product table.
func loadCatalog(ctx context.Context, env *recommendEnv) (*catalog.Catalog, error) {
	cat, err := env.Catalog.Get(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load catalog")
	}
	return cat, nil
}
