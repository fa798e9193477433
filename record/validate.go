package record

import "strings"

// ValidationError reports a record that violates the content-presence
// invariant. It is the only hard admission failure: all other fields are
// nullable because source pages are heterogeneous.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid record: " + e.Reason
}

// Validate checks a candidate before admission. A malformed likes count is
// coerced to zero rather than rejected; a missing source URL or a record
// with no content at all fails.
func Validate(r *Record) error {
	if strings.TrimSpace(r.SourceURL) == "" {
		return &ValidationError{Reason: "empty source_url"}
	}
	if r.LikesCount < 0 {
		r.LikesCount = 0
	}
	if !r.HasContent() {
		return &ValidationError{Reason: "no content field set"}
	}
	return nil
}
