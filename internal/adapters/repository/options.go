package repository

import "github.com/okian/brandhealth/pkg/logger"

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithSource sets where Load reads the dataset from. The embedded wave is
// used when no source is given.
func WithSource(src Source) Option {
	return func(r *Repository) {
		if src != nil {
			r.source = src
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l
		}
	}
}
