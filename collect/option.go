package collect

import (
	"time"

	"github.com/marketpulse/crawler/limiter"
	"go.uber.org/zap"
)

type options struct {
	Name               string
	URL                string
	PageType           PageType
	Category           string
	Cookie             string
	WaitTime           time.Duration
	MaxPages           int
	EmptyPageThreshold int
	RetryLimit         int
	RetryBackoff       time.Duration
	PageParam          string
	PageIncrement      int
	Fetcher            Fetcher
	Limit              limiter.RateLimiter
	Logger             *zap.Logger
}

var defaultOptions = options{
	Logger:             zap.NewNop(),
	MaxPages:           50,
	EmptyPageThreshold: 2,
	RetryLimit:         3,
	RetryBackoff:       500 * time.Millisecond,
	PageIncrement:      1,
}

type Option func(opts *options)

func WithName(name string) Option {
	return func(opts *options) {
		opts.Name = name
	}
}

func WithURL(url string) Option {
	return func(opts *options) {
		opts.URL = url
	}
}

func WithPageType(tag PageType) Option {
	return func(opts *options) {
		opts.PageType = tag
	}
}

func WithCategory(category string) Option {
	return func(opts *options) {
		opts.Category = category
	}
}

func WithCookie(cookie string) Option {
	return func(opts *options) {
		opts.Cookie = cookie
	}
}

func WithWaitTime(d time.Duration) Option {
	return func(opts *options) {
		opts.WaitTime = d
	}
}

func WithMaxPages(n int) Option {
	return func(opts *options) {
		if n > 0 {
			opts.MaxPages = n
		}
	}
}

func WithEmptyPageThreshold(n int) Option {
	return func(opts *options) {
		if n > 0 {
			opts.EmptyPageThreshold = n
		}
	}
}

func WithRetryLimit(n int) Option {
	return func(opts *options) {
		if n > 0 {
			opts.RetryLimit = n
		}
	}
}

func WithRetryBackoff(d time.Duration) Option {
	return func(opts *options) {
		if d > 0 {
			opts.RetryBackoff = d
		}
	}
}

func WithPageParam(param string, increment int) Option {
	return func(opts *options) {
		opts.PageParam = param
		if increment > 0 {
			opts.PageIncrement = increment
		}
	}
}

func WithFetcher(fetcher Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

func WithLimit(limit limiter.RateLimiter) Option {
	return func(opts *options) {
		opts.Limit = limit
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}
