package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pfstats.lib.ratelimit")

type Options struct {
	// MaxRequests is the hard cap on acquisitions within any trailing Window.
	MaxRequests int
	Window      time.Duration
	// MinInterval spaces out consecutive acquisitions even when the window
	// budget would allow a burst. Zero disables smoothing.
	MinInterval time.Duration
}

// Limiter enforces a request budget over a rolling window. Acquire blocks
// the calling goroutine until one more request fits the budget, it never
// fails and a wait in progress always runs to completion.
type Limiter struct {
	maxRequests int
	window      time.Duration
	minInterval time.Duration

	mu     sync.Mutex
	stamps []time.Time
	last   time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func NewLimiter(opts Options) *Limiter {
	return &Limiter{
		maxRequests: opts.MaxRequests,
		window:      opts.Window,
		minInterval: opts.MinInterval,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// stamps older than the window no longer count against the budget
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	idx := 0
	for idx < len(l.stamps) && !l.stamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[idx:]...)
	}
}

func (l *Limiter) delay(now time.Time) time.Duration {
	var wait time.Duration
	if !l.last.IsZero() && l.minInterval > 0 {
		if d := l.last.Add(l.minInterval).Sub(now); d > wait {
			wait = d
		}
	}
	if l.maxRequests > 0 && len(l.stamps) >= l.maxRequests {
		oldest := l.stamps[len(l.stamps)-l.maxRequests]
		if d := oldest.Add(l.window).Sub(now); d > wait {
			wait = d
		}
	}
	return wait
}

func (l *Limiter) Acquire(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		now := l.now()
		l.prune(now)

		wait := l.delay(now)
		if wait <= 0 {
			l.stamps = append(l.stamps, now)
			l.last = now
			return
		}

		_, span := tracer.Start(ctx, "ratelimit:wait", trace.WithAttributes(
			attribute.Int64("wait_ms", wait.Milliseconds()),
			attribute.Int("recorded", len(l.stamps)),
		))
		l.sleep(wait)
		span.End()
	}
}
