package recommend

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policy-cli/internal/config"
	"github.com/sells-group/policy-cli/internal/model"
)

// ErrInvalidQuery is returned by Run when the client query fails validation.
var ErrInvalidQuery = eris.New("recommend: invalid query")

// Outcome is the terminal state of a pipeline run.
type Outcome string

const (
	OutcomeRanked  Outcome = "ranked"
	OutcomeNoMatch Outcome = "no_match"
)

// Filter stages that can empty the working table.
const (
	StageEligibility = "eligibility"
	StageBudget      = "budget"
	StageGender      = "gender"
	StageAdvanced    = "advanced"
)

// NoMatchMessage is the guidance shown when no product survives filtering.
const NoMatchMessage = "No products match these conditions. Try relaxing the budget, switching currency, or adjusting the pay term and weights."

// StageCount records how many records remained after a filter stage.
type StageCount struct {
	Stage     string `json:"stage"`
	Remaining int    `json:"remaining"`
}

// Result is the output of one pipeline run. It carries no timestamps or run
// identifiers, so identical inputs produce identical results.
type Result struct {
	Query     model.ClientQuery     `json:"query"`
	Columns   ScenarioColumns       `json:"columns"`
	Records   []model.WorkingRecord `json:"records"`
	Stages    []StageCount          `json:"stages"`
	Outcome   Outcome               `json:"outcome"`
	EmptiedAt string                `json:"emptied_at,omitempty"`
	Message   string                `json:"message,omitempty"`
	Warnings  []string              `json:"warnings,omitempty"`
}

// Recommendation is a top-ranked record with the reasons it stands out.
type Recommendation struct {
	Record  model.WorkingRecord `json:"record"`
	Reasons []string            `json:"reasons"`
}

// Top returns the first n ranked records with their reasons.
func (r *Result) Top(n int) []Recommendation {
	if n <= 0 || len(r.Records) == 0 {
		return nil
	}
	n = min(n, len(r.Records))
	out := make([]Recommendation, n)
	for i := range n {
		out[i] = Recommendation{Record: r.Records[i], Reasons: Reasons(r.Records[i])}
	}
	return out
}

// RunStats summarizes a completed run for observers.
type RunStats struct {
	Outcome           Outcome
	EmptiedAt         string
	Candidates        int
	Ranked            int
	TopScore          float64
	Duration          time.Duration
	WeightSumMismatch bool
}

// Observer receives stats for every completed run.
type Observer interface {
	ObserveRun(RunStats)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver reports every completed run to o.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// Pipeline runs recommendation queries against a catalog. It holds no
// per-run state and is safe for concurrent use.
type Pipeline struct {
	cfg      config.ScoringConfig
	vocab    Vocabulary
	validate *validator.Validate
	observer Observer
}

// New creates a Pipeline.
func New(cfg config.ScoringConfig, vocab Vocabulary, opts ...Option) *Pipeline {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	p := &Pipeline{cfg: cfg, vocab: vocab, validate: v}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run filters, prices, scores, and ranks products for q. An empty result
// is reported through Result.Outcome, not as an error.
func (p *Pipeline) Run(products []model.ProductRecord, q model.ClientQuery) (*Result, error) {
	start := time.Now()

	if err := p.validateQuery(q); err != nil {
		return nil, err
	}

	res := &Result{
		Query:   q,
		Columns: SelectColumns(q.Scenario),
		Records: []model.WorkingRecord{},
	}
	mismatch := p.checkQuery(q, res)

	recs := filterEligibility(products, q)
	if p.stage(res, StageEligibility, len(recs)) {
		return p.finish(res, len(products), mismatch, start), nil
	}

	applyPremium(recs, q)
	recs = filterBudget(recs, q.BudgetYearly(), p.cfg.BudgetTolerance)
	if p.stage(res, StageBudget, len(recs)) {
		return p.finish(res, len(products), mismatch, start), nil
	}

	recs = filterGender(recs, q.Gender)
	if p.stage(res, StageGender, len(recs)) {
		return p.finish(res, len(products), mismatch, start), nil
	}

	deriveMetrics(recs, q.Scenario)
	recs = filterAdvanced(recs, q.IRRFloor, q.CoverageCeiling)
	if p.stage(res, StageAdvanced, len(recs)) {
		return p.finish(res, len(products), mismatch, start), nil
	}

	p.score(recs, q)
	rankRecords(recs)

	res.Records = recs
	res.Outcome = OutcomeRanked
	return p.finish(res, len(products), mismatch, start), nil
}

// score fills the fit and normalized columns and the composite score. The
// min-max ranges span the records that survived every filter.
func (p *Pipeline) score(recs []model.WorkingRecord, q model.ClientQuery) {
	ratios := make([]*float64, len(recs))
	cash := make([]*float64, len(recs))
	for i := range recs {
		ratios[i] = recs[i].CoveragePremiumRatio
		cash[i] = recs[i].CashValue90
	}
	ratioNorm := normalizeMinMax(ratios)
	cashNorm := normalizeMinMax(cash)

	for i := range recs {
		r := &recs[i]
		r.FitNorm = fitScore(r.ProductRecord, q, p.vocab, p.cfg.FitCap)
		r.RatioNorm = ratioNorm[i]
		r.CashNorm = cashNorm[i]
		r.IRRNorm = normalizeIRR(r.IRRPct, p.cfg.IRRScaleMin, p.cfg.IRRScaleMax)
		r.Score = scoreRecord(*r, q.Weights)
	}
}

// stage records a filter's remaining count and reports whether it emptied
// the table.
func (p *Pipeline) stage(res *Result, name string, remaining int) bool {
	res.Stages = append(res.Stages, StageCount{Stage: name, Remaining: remaining})
	zap.L().Debug("recommend: stage complete",
		zap.String("stage", name),
		zap.Int("remaining", remaining),
	)
	if remaining > 0 {
		return false
	}
	res.Outcome = OutcomeNoMatch
	res.EmptiedAt = name
	res.Message = NoMatchMessage
	return true
}

func (p *Pipeline) finish(res *Result, candidates int, mismatch bool, start time.Time) *Result {
	stats := RunStats{
		Outcome:           res.Outcome,
		EmptiedAt:         res.EmptiedAt,
		Candidates:        candidates,
		Ranked:            len(res.Records),
		Duration:          time.Since(start),
		WeightSumMismatch: mismatch,
	}
	if len(res.Records) > 0 {
		stats.TopScore = res.Records[0].Score
	}

	if res.Outcome == OutcomeNoMatch {
		zap.L().Info("recommend: no matching products",
			zap.String("emptied_at", res.EmptiedAt),
			zap.Int("candidates", candidates),
		)
	} else {
		zap.L().Info("recommend: ranked products",
			zap.Int("ranked", stats.Ranked),
			zap.Float64("top_score", stats.TopScore),
		)
	}

	if p.observer != nil {
		p.observer.ObserveRun(stats)
	}
	return res
}

// checkQuery collects non-fatal query warnings and reports whether the
// weights miss 100.
func (p *Pipeline) checkQuery(q model.ClientQuery, res *Result) bool {
	mismatch := false
	if sum := q.Weights.Sum(); sum != 100 {
		mismatch = true
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("weights sum to %d, not 100; scores are not on a 0-100 scale", sum))
		zap.L().Warn("recommend: weight sum mismatch", zap.Int("sum", sum))
	}
	for _, purpose := range q.Purposes {
		if !p.vocab.Known(purpose) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown purpose %q", purpose))
			zap.L().Warn("recommend: unknown purpose", zap.String("purpose", purpose))
		}
	}
	return mismatch
}

func (p *Pipeline) validateQuery(q model.ClientQuery) error {
	err := p.validate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return eris.Wrap(ErrInvalidQuery, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return eris.Wrap(ErrInvalidQuery, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "ClientQuery.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
