package session

import (
	"github.com/rs/zerolog"
	"github.com/viant/i18nlens/selection"
)

// Option configures a session
type Option func(*Session)

// WithLanguage sets initial language
func WithLanguage(language string) Option {
	return func(s *Session) {
		s.language = language
	}
}

// WithLogger sets a logger shared with index and selection components
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSelectionOptions sets options applied to registry, controller and watcher on Attach
func WithSelectionOptions(options ...selection.Option) Option {
	return func(s *Session) {
		s.selectionOptions = append(s.selectionOptions, options...)
	}
}
