package decode

import "mavbin/internal/options"

// scannerConfig holds the mutable state Option functions act on.
type scannerConfig struct {
	logger logger
}

// Option configures a Scanner at construction time.
type Option = options.Option[*scannerConfig]

// WithLogger installs a logger used for debug-level tracing of resyncs and
// malformed records. A nil logger (the default) discards everything.
func WithLogger(l logger) Option {
	return options.NoError(func(c *scannerConfig) {
		c.logger = l
	})
}

func newScannerConfig(opts ...Option) (*scannerConfig, error) {
	c := &scannerConfig{logger: nopLogger{}}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}
	if c.logger == nil {
		c.logger = nopLogger{}
	}

	return c, nil
}
