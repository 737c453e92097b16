// Package monitoring tracks recommendation runs in process and exports them
// as Prometheus metrics.
package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"github.com/sells-group/policy-cli/internal/recommend"
)

// MetricsSnapshot holds a point-in-time view of recommendation activity
// since the collector started.
type MetricsSnapshot struct {
	RunsTotal      int            `json:"runs_total"`
	RunsRanked     int            `json:"runs_ranked"`
	RunsNoMatch    int            `json:"runs_no_match"`
	NoMatchRate    float64        `json:"no_match_rate"`
	NoMatchByStage map[string]int `json:"no_match_by_stage"`
	WeightWarnings int            `json:"weight_warnings"`
	AvgCandidates  float64        `json:"avg_candidates"`
	AvgRanked      float64        `json:"avg_ranked"`
	AvgTopScore    float64        `json:"avg_top_score"`
	AvgDurationMs  float64        `json:"avg_duration_ms"`

	StartedAt   time.Time `json:"started_at"`
	CollectedAt time.Time `json:"collected_at"`
}

// Collector observes pipeline runs. It implements recommend.Observer and is
// safe for concurrent use.
type Collector struct {
	mu             sync.Mutex
	startedAt      time.Time
	runs           int
	ranked         int
	noMatch        int
	noMatchByStage map[string]int
	weightWarnings int
	candidates     int
	rankedRecords  int
	topScoreSum    float64
	duration       time.Duration

	runsTotal      *prometheus.CounterVec
	noMatchTotal   *prometheus.CounterVec
	weightMismatch prometheus.Counter
	runDuration    prometheus.Histogram
	rankedProducts prometheus.Histogram
}

var _ recommend.Observer = (*Collector)(nil)

// NewCollector creates a collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		startedAt:      time.Now().UTC(),
		noMatchByStage: make(map[string]int),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "policy_recommend_runs_total",
			Help: "Completed recommendation runs by outcome",
		}, []string{"outcome"}),
		noMatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "policy_recommend_no_match_total",
			Help: "Runs that ended without matches, by the filter stage that emptied them",
		}, []string{"stage"}),
		weightMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "policy_recommend_weight_mismatch_total",
			Help: "Runs whose scoring weights did not sum to 100",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "policy_recommend_duration_seconds",
			Help:    "Latency of recommendation pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		rankedProducts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "policy_recommend_ranked_products",
			Help:    "Number of products ranked per run",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
	}

	if reg != nil {
		for _, m := range []prometheus.Collector{
			c.runsTotal, c.noMatchTotal, c.weightMismatch, c.runDuration, c.rankedProducts,
		} {
			if err := reg.Register(m); err != nil {
				return nil, eris.Wrap(err, "monitoring: register metrics")
			}
		}
	}
	return c, nil
}

// ObserveRun records one completed run.
func (c *Collector) ObserveRun(s recommend.RunStats) {
	c.runsTotal.WithLabelValues(string(s.Outcome)).Inc()
	c.runDuration.Observe(s.Duration.Seconds())
	c.rankedProducts.Observe(float64(s.Ranked))
	if s.WeightSumMismatch {
		c.weightMismatch.Inc()
	}
	if s.Outcome == recommend.OutcomeNoMatch {
		c.noMatchTotal.WithLabelValues(s.EmptiedAt).Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.runs++
	c.candidates += s.Candidates
	c.rankedRecords += s.Ranked
	c.duration += s.Duration
	if s.WeightSumMismatch {
		c.weightWarnings++
	}
	switch s.Outcome {
	case recommend.OutcomeRanked:
		c.ranked++
		c.topScoreSum += s.TopScore
	case recommend.OutcomeNoMatch:
		c.noMatch++
		c.noMatchByStage[s.EmptiedAt]++
	}
}

// Collect returns a snapshot of the runs observed so far.
func (c *Collector) Collect() *MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := &MetricsSnapshot{
		RunsTotal:      c.runs,
		RunsRanked:     c.ranked,
		RunsNoMatch:    c.noMatch,
		NoMatchByStage: make(map[string]int, len(c.noMatchByStage)),
		WeightWarnings: c.weightWarnings,
		StartedAt:      c.startedAt,
		CollectedAt:    time.Now().UTC(),
	}
	for stage, n := range c.noMatchByStage {
		snap.NoMatchByStage[stage] = n
	}

	if c.runs > 0 {
		snap.NoMatchRate = float64(c.noMatch) / float64(c.runs)
		snap.AvgCandidates = float64(c.candidates) / float64(c.runs)
		snap.AvgRanked = float64(c.rankedRecords) / float64(c.runs)
		snap.AvgDurationMs = float64(c.duration.Microseconds()) / 1000 / float64(c.runs)
	}
	if c.ranked > 0 {
		snap.AvgTopScore = c.topScoreSum / float64(c.ranked)
	}
	return snap
}
