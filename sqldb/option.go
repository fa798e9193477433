package sqldb

import "go.uber.org/zap"

type options struct {
	logger       *zap.Logger
	sqlURL       string
	maxOpenConns int
}

var defaultOptions = options{
	logger:       zap.NewNop(),
	maxOpenConns: 128,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithConnURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

func WithMaxOpenConns(n int) Option {
	return func(opts *options) {
		if n > 0 {
			opts.maxOpenConns = n
		}
	}
}
