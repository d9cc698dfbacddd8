// Package ratelimit paces outbound fetches.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the pause between consecutive transcript fetches.
const DefaultInterval = 5 * time.Second

// Limiter blocks until the next fetch may start or ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Clock abstracts time so pacing can be tested without sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Fixed sleeps a constant interval on every Wait, regardless of how long the
// previous fetch took.
type Fixed struct {
	Interval time.Duration
	Clock    Clock
}

// NewFixed returns a Fixed limiter on the wall clock.
func NewFixed(interval time.Duration) *Fixed {
	return &Fixed{Interval: interval, Clock: RealClock}
}

// Wait implements Limiter.
func (f *Fixed) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Interval <= 0 {
		return nil
	}
	clock := f.Clock
	if clock == nil {
		clock = RealClock
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(f.Interval):
		return nil
	}
}

// Token enforces a minimum interval between fetch starts: time already spent
// on the previous fetch counts toward the interval.
type Token struct {
	lim *rate.Limiter
}

// NewToken returns a Token limiter allowing one fetch per interval. The
// bucket starts empty: the caller's first fetch happens before the first
// Wait, so that Wait still spans a full interval.
func NewToken(interval time.Duration) *Token {
	if interval <= 0 {
		return &Token{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	lim := rate.NewLimiter(rate.Every(interval), 1)
	lim.Allow()
	return &Token{lim: lim}
}

// Wait implements Limiter.
func (t *Token) Wait(ctx context.Context) error {
	return t.lim.Wait(ctx)
}

// Pacing names a limiter policy.
type Pacing string

const (
	PacingFixed Pacing = "fixed"
	PacingToken Pacing = "token"
)

// ParsePacing accepts "fixed", "token" or "" (fixed).
func ParsePacing(s string) (Pacing, error) {
	switch Pacing(strings.ToLower(strings.TrimSpace(s))) {
	case "", PacingFixed:
		return PacingFixed, nil
	case PacingToken:
		return PacingToken, nil
	default:
		return PacingFixed, fmt.Errorf("unknown pacing %q (want fixed or token)", s)
	}
}

// ForPacing builds the limiter for policy p with the given interval.
func ForPacing(p Pacing, interval time.Duration) Limiter {
	if p == PacingToken {
		return NewToken(interval)
	}
	return NewFixed(interval)
}

// None never waits.
type None struct{}

// Wait implements Limiter.
func (None) Wait(ctx context.Context) error { return ctx.Err() }
