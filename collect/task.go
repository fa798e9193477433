package collect

import (
	"fmt"
	"net/url"
)

// PageType drives registry dispatch. Every target declares exactly one.
type PageType string

const (
	PageDiscoveryStock  PageType = "discovery_stock"
	PageScreener        PageType = "screener"
	PageInvestorProfile PageType = "investor_profile"
	PagePostFeed        PageType = "post_feed"
	PageCommentThread   PageType = "comment_thread"
)

// ScriptPage returns the dynamic tag for a script-defined parser variant.
func ScriptPage(name string) PageType {
	return PageType("script:" + name)
}

// Task is one logical traversal unit: a discovery feed or a screener
// query. All requests of a walk share its parameters.
type Task struct {
	options
}

// NewTask builds a task from functional options.
func NewTask(opts ...Option) *Task {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	t := &Task{}
	t.options = options
	return t
}

// Derivable reports whether the next-page cursor can be computed without a
// payload (offset-style pagination). Only such targets can keep walking
// past a skipped page.
func (t *Task) Derivable() bool {
	return t.PageParam != ""
}

// ResolveURL turns a cursor into the concrete URL to fetch. An empty
// cursor means the first page. Offset-style targets put the cursor into
// the configured query parameter; otherwise the cursor is resolved as a
// URL reference against the target URL.
func (t *Task) ResolveURL(cursor string) (string, error) {
	if cursor == "" {
		return t.URL, nil
	}
	base, err := url.Parse(t.URL)
	if err != nil {
		return "", fmt.Errorf("task %s: bad target url: %w", t.Name, err)
	}
	if t.PageParam != "" {
		q := base.Query()
		q.Set(t.PageParam, cursor)
		base.RawQuery = q.Encode()
		return base.String(), nil
	}
	ref, err := url.Parse(cursor)
	if err != nil {
		return "", fmt.Errorf("task %s: bad cursor %q: %w", t.Name, cursor, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// TaskConfig mirrors one [[Tasks]] block of the config file.
type TaskConfig struct {
	Name               string
	URL                string
	PageType           string
	Category           string
	Cookie             string
	WaitTime           int64 // milliseconds between requests
	MaxPages           int
	EmptyPageThreshold int
	RetryLimit         int
	RetryBackoffMs     int64
	PageParam          string
	PageIncrement      int
	Limits             []LimitConfig
}

type LimitConfig struct {
	EventCount int
	EventDur   int // seconds
	Bucket     int
}
