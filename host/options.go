package host

import (
	"log/slog"

	"github.com/klawr-dev/klawr-sdk/go/application/binder"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/ports"
	"github.com/klawr-dev/klawr-sdk/go/log"
)

// Option defines a functional option for configuring a Session.
type Option func(*Session)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig sets the session configuration. Empty fields take their
// defaults.
func WithConfig(cfg entities.BridgeConfig) Option {
	return func(s *Session) {
		cfg.ApplyDefaults()
		s.config = cfg
	}
}

// WithDocumentStore persists metadata exports to store instead of the
// configured export path.
func WithDocumentStore(store ports.DocumentStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithBinder shares a class binding cache between sessions.
func WithBinder(b *binder.Binder) Option {
	return func(s *Session) {
		s.binder = b
	}
}

// WithLogSink routes the session's log records to the native host as
// log.LogMessageWire JSON. The configured LogLevel applies. It takes
// precedence over WithLogger.
func WithLogSink(sink log.Sink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}
