package sqlstorage

import (
	"github.com/marketpulse/crawler/sqldb"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	sqlURL     string
	table      string
	batchCount int
	db         sqldb.DBer
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	table:      "market_records",
	batchCount: 100,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithSQLURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

func WithTable(table string) Option {
	return func(opts *options) {
		if table != "" {
			opts.table = table
		}
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		if batchCount > 0 {
			opts.batchCount = batchCount
		}
	}
}

// WithDB injects a DBer directly; tests use it to avoid a live MySQL.
func WithDB(db sqldb.DBer) Option {
	return func(opts *options) {
		opts.db = db
	}
}
