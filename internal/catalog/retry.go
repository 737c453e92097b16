package catalog

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy controls how catalog reads are retried with exponential
// backoff and jitter.
type RetryPolicy struct {
	// MaxAttempts includes the first try. 1 disables retries.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	// JitterFraction spreads each delay by +/- this fraction.
	JitterFraction float64
}

// DefaultRetryPolicy returns the policy used when catalog.load_attempts is unset.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// LoadWithRetry calls Load until it succeeds, the error is not transient, the
// attempts run out, or ctx is done. Decode failures such as missing columns
// are never retried.
func LoadWithRetry(ctx context.Context, src Source, policy RetryPolicy) (*Catalog, error) {
	policy = policy.withDefaults()

	var lastErr error
	for attempt := range policy.MaxAttempts {
		cat, err := Load(ctx, src)
		if err == nil {
			return cat, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) || attempt == policy.MaxAttempts-1 {
			break
		}

		zap.L().Warn("catalog: retrying load",
			zap.String("source", src.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(policy.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lastErr
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = def.MaxBackoff
	}
	if p.Multiplier <= 0 {
		p.Multiplier = def.Multiplier
	}
	if p.JitterFraction < 0 {
		p.JitterFraction = 0
	}
	return p
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(attempt))
	delay = min(delay, float64(p.MaxBackoff))

	if p.JitterFraction > 0 {
		spread := delay * p.JitterFraction
		delay += (rand.Float64()*2 - 1) * spread
	}
	return time.Duration(max(delay, 0))
}

// transientMessages are substrings of driver errors worth another attempt.
var transientMessages = []string{
	"connection reset by peer",
	"broken pipe",
	"i/o timeout",
	"no such host",
	"database is locked",
	"database table is locked",
	"the database system is starting up",
	"too many clients",
}

// IsTransient reports whether a catalog read error is likely to clear on its
// own: network timeouts, refused or reset connections, and busy databases.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrMissingColumns) || errors.Is(err, ErrUnsupportedSource) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
