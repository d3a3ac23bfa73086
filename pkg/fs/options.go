package fs

import (
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/chunker"
)

type settings struct {
	l     *zap.Logger
	chunk chunker.Factory
}

func defaultSettings() settings {
	return settings{
		l:     zap.NewNop(),
		chunk: chunker.Default(),
	}
}

// Option configures entity construction. Children created through a
// directory inherit the directory's settings.
type Option func(*settings)

// WithLogger sets the zap logger used by the engine
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.l = l
		}
	}
}

// WithChunker sets the chunk boundary policy applied to file content
// at checkpoint time
func WithChunker(factory chunker.Factory) Option {
	return func(s *settings) {
		if factory != nil {
			s.chunk = factory
		}
	}
}

func applyOptions(opts []Option) settings {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}
	return s
}
