package engine

import "github.com/marketpulse/crawler/dedup"

// TargetStatus is the terminal state of one walk.
type TargetStatus string

const (
	StatusDone      TargetStatus = "done"
	StatusFailed    TargetStatus = "failed"
	StatusCancelled TargetStatus = "cancelled"
)

// TargetSummary reports one target's walk. Err is set only for failed
// targets; skipped pages are logged, not fatal.
type TargetSummary struct {
	Name     string
	Status   TargetStatus
	Pages    int
	Inserted int
	Merged   int
	Dropped  int // candidates that failed validation
	Skipped  int
	Empty    int
	Err      error
}

// Summary is the user-visible result of a run.
type Summary struct {
	Targets   []TargetSummary
	Records   int
	Conflicts []dedup.Conflict
	SinkErr   error
}

func (s *Summary) totals() (inserted, merged int) {
	for _, t := range s.Targets {
		inserted += t.Inserted
		merged += t.Merged
	}
	return inserted, merged
}
