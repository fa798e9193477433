package dedup

import "go.uber.org/zap"

type options struct {
	nodeID int64
	logger *zap.Logger
}

var defaultOptions = options{
	nodeID: 1,
	logger: zap.NewNop(),
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithNodeID sets the snowflake worker id stamped into record IDs; runs
// on different machines writing to one store should not share it.
func WithNodeID(id int64) Option {
	return func(opts *options) {
		opts.nodeID = id
	}
}
