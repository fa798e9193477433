package limiter

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is the abstraction honored at the fetch boundary. The
// Limiter from golang.org/x/time/rate satisfies it directly.
type RateLimiter interface {
	Wait(ctx context.Context) error
	Limit() rate.Limit
}

// MultiLimiter chains several tiers (e.g. per-second and per-minute
// budgets); a fetch proceeds only once every tier admits it.
type MultiLimiter struct {
	limiters []RateLimiter
}

func NewMultiLimiter(limiters ...RateLimiter) *MultiLimiter {
	byLimit := func(i, j int) bool {
		return limiters[i].Limit() < limiters[j].Limit()
	}
	sort.Slice(limiters, byLimit)
	return &MultiLimiter{
		limiters: limiters,
	}
}

func (l *MultiLimiter) Wait(ctx context.Context) error {
	for _, l := range l.limiters {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Limit returns the most restrictive tier's rate.
func (l *MultiLimiter) Limit() rate.Limit {
	return l.limiters[0].Limit()
}

// Per converts "eventCount events per duration" into a rate.
func Per(eventCount int, duration time.Duration) rate.Limit {
	return rate.Every(duration / time.Duration(eventCount))
}
