// Package storage defines the sink contract the engine drains into.
package storage

import "github.com/marketpulse/crawler/record"

// Storage persists the drained record sequence. Implementations receive
// records already validated and deduplicated; they must either persist
// the whole batch or return an error.
type Storage interface {
	Save(records ...*record.Record) error
}
