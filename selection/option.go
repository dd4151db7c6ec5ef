package selection

import "github.com/rs/zerolog"

// DefaultMinPressure is the lowest pointer pressure treated as an active drag
const DefaultMinPressure = 0.5

type options struct {
	exclude     func(node Node) bool
	logger      zerolog.Logger
	minPressure float64
}

func newOptions(opts []Option) *options {
	ret := &options{
		exclude:     func(Node) bool { return false },
		logger:      zerolog.Nop(),
		minPressure: DefaultMinPressure,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Option configures registry, controller and watcher
type Option func(*options)

// WithExclusion sets a predicate for nodes inside excluded regions (the tool own UI)
func WithExclusion(exclude func(node Node) bool) Option {
	return func(o *options) {
		if exclude != nil {
			o.exclude = exclude
		}
	}
}

// WithLogger sets a logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMinPressure sets minimal pointer pressure for drag moves
func WithMinPressure(pressure float64) Option {
	return func(o *options) {
		o.minPressure = pressure
	}
}
