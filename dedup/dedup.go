// Package dedup owns the run-scoped record set: candidates are admitted
// through a single mutex-guarded aggregator so concurrent walkers never
// merge into the same record at once.
package dedup

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/marketpulse/crawler/record"
	"go.uber.org/zap"
)

// AdmissionResult tells the walker what happened to a candidate.
type AdmissionResult int

const (
	Inserted AdmissionResult = iota
	Merged
)

func (r AdmissionResult) String() string {
	if r == Merged {
		return "merged"
	}
	return "inserted"
}

// Conflict records a non-null disagreement between two observations of
// the same record. The existing value wins; the run keeps going.
type Conflict struct {
	Key     string
	Field   string
	Kept    string
	Dropped string
}

// Aggregator merges candidates by identity key for the lifetime of one
// run. Admission order is preserved for drain.
type Aggregator struct {
	mu        sync.Mutex
	records   map[string]*record.Record
	order     []string
	conflicts []Conflict
	node      *snowflake.Node
	logger    *zap.Logger
}

func NewAggregator(opts ...Option) (*Aggregator, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	node, err := snowflake.NewNode(options.nodeID)
	if err != nil {
		return nil, fmt.Errorf("dedup: snowflake node: %w", err)
	}
	return &Aggregator{
		records: make(map[string]*record.Record),
		node:    node,
		logger:  options.logger,
	}, nil
}

// Admit validates a candidate and either inserts it or merges it into the
// record sharing its identity key. The candidate is cloned on insert, so
// callers may reuse it.
func (a *Aggregator) Admit(cand *record.Record) (AdmissionResult, error) {
	if err := record.Validate(cand); err != nil {
		return 0, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := cand.Key()
	existing, ok := a.records[key]
	if !ok {
		kept := cand.Clone()
		kept.ID = a.node.Generate().Int64()
		a.records[key] = kept
		a.order = append(a.order, key)
		return Inserted, nil
	}

	a.merge(key, existing, cand)
	return Merged, nil
}

// merge applies the field-by-field policy: incoming values fill gaps,
// true conflicts keep the existing value and leave a note, likes take the
// maximum observed count.
func (a *Aggregator) merge(key string, dst, src *record.Record) {
	mergeString(a, key, "stock_name", &dst.StockName, src.StockName)
	mergeString(a, key, "ticker", &dst.Ticker, src.Ticker)
	mergeString(a, key, "investor_name", &dst.InvestorName, src.InvestorName)
	mergeString(a, key, "post_content", &dst.PostContent, src.PostContent)
	mergeString(a, key, "comment_text", &dst.CommentText, src.CommentText)
	mergeString(a, key, "category", &dst.Category, src.Category)

	// Pages show the same post with counts scraped at different times;
	// the highest observation is the most current.
	if src.LikesCount > dst.LikesCount {
		dst.LikesCount = src.LikesCount
	}

	if dst.PostDate.IsZero() {
		dst.PostDate = src.PostDate
	} else if !src.PostDate.IsZero() && !src.PostDate.Equal(dst.PostDate) {
		a.note(key, "post_date", dst.PostDate.String(), src.PostDate.String())
	}

	for k, v := range src.InvestorStats {
		old, ok := dst.InvestorStats[k]
		if !ok {
			if dst.InvestorStats == nil {
				dst.InvestorStats = make(map[string]float64, len(src.InvestorStats))
			}
			dst.InvestorStats[k] = v
		} else if old != v {
			a.note(key, "investor_stats."+k, fmt.Sprint(old), fmt.Sprint(v))
		}
	}
}

func mergeString(a *Aggregator, key, field string, dst *string, src string) {
	switch {
	case src == "" || src == *dst:
	case *dst == "":
		*dst = src
	default:
		a.note(key, field, *dst, src)
	}
}

func (a *Aggregator) note(key, field, kept, dropped string) {
	a.conflicts = append(a.conflicts, Conflict{Key: key, Field: field, Kept: kept, Dropped: dropped})
	a.logger.Debug("merge conflict",
		zap.String("key", key),
		zap.String("field", field),
		zap.String("kept", kept),
		zap.String("dropped", dropped))
}

// Len reports how many distinct records are held.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Conflicts returns a copy of the conflict notes recorded so far.
func (a *Aggregator) Conflicts() []Conflict {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Conflict, len(a.conflicts))
	copy(out, a.conflicts)
	return out
}

// Drain returns all accumulated records in insertion order and resets the
// aggregator. One-shot per run: records handed out are no longer tracked
// and must be treated as immutable.
func (a *Aggregator) Drain() []*record.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*record.Record, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.records[key])
	}
	a.records = make(map[string]*record.Record)
	a.order = nil
	a.conflicts = nil
	return out
}
