package collect

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Request identifies one page fetch within a walk. Re-fetching the same
// (task, cursor) pair must be safe; retries rely on it.
type Request struct {
	Task    *Task
	URL     string // cursor-resolved fetch URL
	Cursor  string
	PageNum int
}

// Unique returns a stable identifier for the (url, cursor) pair.
func (r *Request) Unique() string {
	block := md5.Sum([]byte(r.URL + "\x00" + r.Cursor))
	return hex.EncodeToString(block[:])
}

// RawPage is one fetched payload handed to a parser variant.
//
// URL is the target's page URL (the logical origin every extracted record
// is traced to); FetchedURL is the concrete cursor-resolved address. They
// differ only while paginating, and identity keys are built from URL so
// the same post seen on page 1 and page 3 of a feed merges.
type RawPage struct {
	Tag        PageType
	URL        string
	FetchedURL string
	Cursor     string
	Category   string // target-level fallback when the page yields none
	Body       []byte
	FetchedAt  time.Time
}
