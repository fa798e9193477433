package engine

import (
	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/dedup"
	"github.com/marketpulse/crawler/parse"
	"github.com/marketpulse/crawler/storage"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	Logger     *zap.Logger
	Fetcher    collect.Fetcher
	Registry   *parse.Registry
	Aggregator *dedup.Aggregator
	Storage    storage.Storage
	Seeds      []*collect.Task
}

var defaultOptions = options{
	Logger: zap.NewNop(),
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

func WithFetcher(fetcher collect.Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

func WithRegistry(registry *parse.Registry) Option {
	return func(opts *options) {
		opts.Registry = registry
	}
}

func WithAggregator(agg *dedup.Aggregator) Option {
	return func(opts *options) {
		opts.Aggregator = agg
	}
}

func WithStorage(s storage.Storage) Option {
	return func(opts *options) {
		opts.Storage = s
	}
}

func WithSeeds(seeds []*collect.Task) Option {
	return func(opts *options) {
		opts.Seeds = seeds
	}
}
