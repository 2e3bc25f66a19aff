// Package resilience wraps record store calls with retry, a circuit breaker
// and a bulkhead.
package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/sony/gobreaker"
)

// Config holds resilience parameters.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying. RetryWithBackoff returns the
// wrapped error immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// maxBackoff caps a single wait between store attempts.
const maxBackoff = 2 * time.Second

// RetryWithBackoff executes fn with exponential backoff + jitter.
// It respects context cancellation and stops on a Permanent error.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = fn(); err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= cfg.MaxRetries {
			return err
		}

		timer := time.NewTimer(backoff(cfg.InitialBackoff, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff doubles base per attempt up to maxBackoff and adds up to 50% jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	d = min(d, maxBackoff)
	if half := int64(d / 2); half > 0 {
		d += time.Duration(rand.Int63n(half))
	}
	return d
}

// NewCircuitBreaker creates a circuit breaker with sensible defaults.
// Not-found and validation outcomes count as successes: the store answered.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,                // half-open: allow 3 requests
		Interval:    30 * time.Second, // closed: reset counters every 30s
		Timeout:     10 * time.Second, // open -> half-open after 10s
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var nf *domain.ErrNotFound
			var ve *domain.ErrValidation
			return errors.As(err, &nf) || errors.As(err, &ve)
		},
	})
}

// Bulkhead limits concurrent access to a resource.
type Bulkhead struct {
	sem chan struct{}
}

// NewBulkhead creates a bulkhead with the given max concurrency.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Bulkhead{sem: make(chan struct{}, maxConcurrency)}
}

// Acquire blocks until a slot is available or context is cancelled.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (b *Bulkhead) Release() {
	<-b.sem
}

// Guard combines the three patterns for one downstream service.
type Guard struct {
	service string
	cfg     Config
	cb      *gobreaker.CircuitBreaker
	bh      *Bulkhead
}

// NewGuard builds a Guard named after the service it protects.
func NewGuard(service string, cfg Config) *Guard {
	return &Guard{
		service: service,
		cfg:     cfg,
		cb:      NewCircuitBreaker(service),
		bh:      NewBulkhead(cfg.MaxConcurrency),
	}
}

// Read runs an idempotent call: bulkhead, breaker, then retry inside.
func (g *Guard) Read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return g.run(ctx, op, func() error {
		return RetryWithBackoff(ctx, g.cfg, func() error { return fn(ctx) })
	})
}

// Write runs a mutating call exactly once. Writes are never retried so a
// lost response cannot turn into a duplicate row.
func (g *Guard) Write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return g.run(ctx, op, func() error { return fn(ctx) })
}

func (g *Guard) run(ctx context.Context, op string, call func() error) error {
	if err := g.bh.Acquire(ctx); err != nil {
		return g.classify(op, err)
	}
	defer g.bh.Release()

	_, err := g.cb.Execute(func() (any, error) { return nil, call() })
	return g.classify(op, err)
}

// classify maps low-level failures onto the domain error types. Not-found
// and validation errors pass through untouched.
func (g *Guard) classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *domain.ErrNotFound
	var ve *domain.ErrValidation
	switch {
	case errors.As(err, &nf), errors.As(err, &ve):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &domain.ErrCircuitOpen{Service: g.service}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.ErrTimeout{Operation: g.service + "." + op}
	default:
		return &domain.ErrExternalService{Service: g.service + "/" + op, Err: err}
	}
}

// State reports the breaker state, for health checks.
func (g *Guard) State() gobreaker.State {
	return g.cb.State()
}
