package cas

import "go.uber.org/zap"

// Option configures a Store at construction time
type Option func(*Store, *int)

// WithLogger sets the zap logger used by the store
func WithLogger(l *zap.Logger) Option {
	return func(s *Store, _ *int) {
		if l != nil {
			s.l = l
		}
	}
}

// WithPrefix namespaces all backend keys written by this store
func WithPrefix(prefix string) Option {
	return func(s *Store, _ *int) {
		s.prefix = prefix
	}
}

// WithCacheSize sets the number of blocks kept in the in-memory cache.
// A size of 0 disables caching.
func WithCacheSize(size int) Option {
	return func(_ *Store, cacheSize *int) {
		*cacheSize = size
	}
}

// WithoutVerify disables hash verification on Get.
//
// Only meant for trusted backends where the read path is already
// integrity-checked.
func WithoutVerify() Option {
	return func(s *Store, _ *int) {
		s.verify = false
	}
}
