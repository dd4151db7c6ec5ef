package index

import "github.com/rs/zerolog"

// Option configures an Index
type Option func(*Index)

// WithLogger sets a logger reporting dropped tokens
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Index) {
		i.logger = logger
	}
}
