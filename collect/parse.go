package collect

import "github.com/marketpulse/crawler/record"

// ParseResult is what a parser variant extracts from one raw page:
// candidate records plus, when the page links onward, the cursor for the
// next page. An empty cursor means the payload declared no continuation.
type ParseResult struct {
	Records    []*record.Record
	NextCursor string
}

// Parser turns one raw page payload into candidate records. Parse must be
// pure: each call re-parses from the payload with no hidden state, so a
// page can be re-parsed after a retry without side effects.
type Parser interface {
	Name() string
	Parse(page *RawPage) (*ParseResult, error)
}
