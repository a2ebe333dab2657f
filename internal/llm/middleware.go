package llm

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, logging, etc.).
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit limits request rate with a token bucket.
// If rps <= 0, the limiter is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		return &rateLimited{next: next, rl: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	next Client
	rl   *rate.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }

func (c *rateLimited) CallFunction(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.CallFunction(ctx, req)
}

func (c *rateLimited) Transcribe(ctx context.Context, media Media) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	return c.next.Transcribe(ctx, media)
}

// -------- Logging --------

// WithLogging logs request size, latency and errors. Media payloads are
// never logged. Provide a custom logger or nil to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) CallFunction(ctx context.Context, req Request) (json.RawMessage, error) {
	start := time.Now()
	l.log.Printf("LLM request (%s): %s fn=%s parts=%s", PhaseFrom(ctx), l.next.Name(), req.Function.Name, DescribeParts(req.Parts))
	raw, err := l.next.CallFunction(ctx, req)
	if err != nil {
		l.log.Printf("LLM error (%s): %v (%s)", PhaseFrom(ctx), err, time.Since(start).Round(time.Millisecond))
		return nil, err
	}
	l.log.Printf("LLM response (%s): %d bytes (%s)", PhaseFrom(ctx), len(raw), time.Since(start).Round(time.Millisecond))
	return raw, nil
}

func (l *logging) Transcribe(ctx context.Context, media Media) (string, error) {
	start := time.Now()
	l.log.Printf("LLM transcribe (%s): %s", PhaseFrom(ctx), DescribeParts([]Part{{Media: &media}}))
	text, err := l.next.Transcribe(ctx, media)
	if err != nil {
		l.log.Printf("LLM transcribe error (%s): %v (%s)", PhaseFrom(ctx), err, time.Since(start).Round(time.Millisecond))
		return "", err
	}
	l.log.Printf("LLM transcript (%s): %d chars (%s)", PhaseFrom(ctx), len(text), time.Since(start).Round(time.Millisecond))
	return text, nil
}

type ctxKeyPhase struct{}

// WithPhase labels the context so log lines can tell extraction steps apart.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase string stored in the context.
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
