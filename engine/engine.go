// Package engine drives the walks: one strictly sequential walker per
// target (each page fetch depends on the previous page's cursor),
// independent targets in parallel, everything funneled through the shared
// aggregator and drained into the sink once all walkers stop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/dedup"
	"github.com/marketpulse/crawler/record"
	"go.uber.org/zap"
)

type Crawler struct {
	options
}

func NewEngine(opts ...Option) *Crawler {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	c := &Crawler{}
	c.options = options
	return c
}

// Run walks every seed target to completion and persists the drained
// record set. Cancelling ctx stops each walker after its in-flight fetch;
// records admitted up to that point remain valid output and are still
// persisted. A sink failure is returned as the run error but does not
// invalidate the summary.
func (c *Crawler) Run(ctx context.Context) (*Summary, error) {
	var wg sync.WaitGroup
	summaries := make([]TargetSummary, len(c.Seeds))

	for i, task := range c.Seeds {
		i, task := i, task
		wg.Add(1)
		go func() {
			defer wg.Done()
			summaries[i] = c.walk(ctx, task)
		}()
	}
	wg.Wait()

	conflicts := c.Aggregator.Conflicts()
	records := c.Aggregator.Drain()
	summary := &Summary{
		Targets:   summaries,
		Records:   len(records),
		Conflicts: conflicts,
	}
	c.logSummary(summary)

	if len(records) > 0 && c.Storage != nil {
		if err := c.Storage.Save(records...); err != nil {
			summary.SinkErr = err
			return summary, fmt.Errorf("persist %d records: %w", len(records), err)
		}
	}
	return summary, nil
}

// walk is the per-target state machine: Fetching -> Parsing -> next
// cursor or terminal. It terminates on: no next cursor, maxPages, the
// empty-page threshold, a cursor cycle, cancellation, or a failure with
// no derivable next page.
func (c *Crawler) walk(ctx context.Context, t *collect.Task) TargetSummary {
	s := TargetSummary{Name: t.Name, Status: StatusDone}
	logger := c.Logger.With(zap.String("target", t.Name))

	parser, err := c.Registry.Dispatch(t.PageType)
	if err != nil {
		// Registry miss is a configuration error: fail loudly and at once.
		logger.Error("dispatch failed", zap.String("pageType", string(t.PageType)), zap.Error(err))
		s.Status, s.Err = StatusFailed, err
		return s
	}

	var (
		cursor string
		offset int
		seen   = map[string]bool{"": true}
	)

	for page := 1; page <= t.MaxPages; page++ {
		if ctx.Err() != nil {
			s.Status = StatusCancelled
			return s
		}

		raw, err := c.fetchWithRetry(ctx, t, cursor, page)
		if err == nil {
			var result *collect.ParseResult
			result, err = parser.Parse(raw)
			if err != nil {
				logger.Warn("parse failed", zap.String("cursor", cursor), zap.Error(err))
			} else {
				s.Pages++
				c.admit(logger, &s, result.Records)

				if len(result.Records) == 0 {
					s.Empty++
					if s.Empty >= t.EmptyPageThreshold {
						logger.Info("empty page threshold reached", zap.Int("threshold", t.EmptyPageThreshold))
						return s
					}
				} else {
					s.Empty = 0
				}

				next, ok := c.nextCursor(t, result, &offset)
				if !ok {
					return s
				}
				if seen[next] {
					logger.Warn("cursor cycle detected", zap.String("cursor", next))
					return s
				}
				seen[next] = true
				cursor = next
				continue
			}
		}

		if errors.Is(err, context.Canceled) {
			s.Status = StatusCancelled
			return s
		}

		// The page is lost. Only targets with derivable pagination know
		// the next cursor without the payload; anything else is done for.
		s.Skipped++
		logger.Warn("page skipped", zap.String("cursor", cursor), zap.Error(err))
		if !t.Derivable() {
			s.Status, s.Err = StatusFailed, err
			return s
		}
		offset += t.PageIncrement
		cursor = strconv.Itoa(offset)
		if seen[cursor] {
			return s
		}
		seen[cursor] = true
	}

	logger.Info("max pages reached", zap.Int("maxPages", t.MaxPages))
	return s
}

// nextCursor picks the cursor for the following page. Offset-style
// targets advance arithmetically; everything else follows the payload.
func (c *Crawler) nextCursor(t *collect.Task, result *collect.ParseResult, offset *int) (string, bool) {
	if t.Derivable() {
		*offset += t.PageIncrement
		return strconv.Itoa(*offset), true
	}
	if result.NextCursor == "" {
		return "", false
	}
	return result.NextCursor, true
}

func (c *Crawler) admit(logger *zap.Logger, s *TargetSummary, candidates []*record.Record) {
	for _, cand := range candidates {
		res, err := c.Aggregator.Admit(cand)
		if err != nil {
			var vErr *record.ValidationError
			if errors.As(err, &vErr) {
				s.Dropped++
				logger.Debug("candidate dropped", zap.String("reason", vErr.Reason))
				continue
			}
			logger.Error("admit failed", zap.Error(err))
			continue
		}
		if res == dedup.Inserted {
			s.Inserted++
		} else {
			s.Merged++
		}
	}
}

// fetchWithRetry re-fetches one (target, cursor) pair up to the retry
// limit with linear backoff. Timeouts surface as fetch errors and share
// the same policy.
func (c *Crawler) fetchWithRetry(ctx context.Context, t *collect.Task, cursor string, pageNum int) (*collect.RawPage, error) {
	url, err := t.ResolveURL(cursor)
	if err != nil {
		return nil, err
	}
	req := &collect.Request{Task: t, URL: url, Cursor: cursor, PageNum: pageNum}

	fetcher := c.Fetcher
	if t.Fetcher != nil {
		fetcher = t.Fetcher
	}

	var lastErr error
	for attempt := 1; attempt <= t.RetryLimit; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * t.RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		raw, err := fetcher.Get(ctx, req)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.Logger.Debug("fetch attempt failed",
			zap.String("target", t.Name),
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return nil, fmt.Errorf("retries exhausted for %s: %w", url, lastErr)
}

func (c *Crawler) logSummary(s *Summary) {
	for _, t := range s.Targets {
		c.Logger.Info("target finished",
			zap.String("target", t.Name),
			zap.String("status", string(t.Status)),
			zap.Int("pages", t.Pages),
			zap.Int("inserted", t.Inserted),
			zap.Int("merged", t.Merged),
			zap.Int("dropped", t.Dropped),
			zap.Int("skipped", t.Skipped))
	}
	inserted, merged := s.totals()
	c.Logger.Info("run finished",
		zap.Int("records", s.Records),
		zap.Int("inserted", inserted),
		zap.Int("merged", merged))
}
