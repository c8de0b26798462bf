package parallel

import (
	"mavbin/cache"
	"mavbin/config"
	"mavbin/internal/options"
)

// logger is the minimal surface the coordinator needs for debug-level
// tracing of worker lifecycle and cache hits/misses.
type logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

// coordinatorConfig holds the mutable state Option functions act on.
type coordinatorConfig struct {
	logger       logger
	cfg          *config.Config
	cacheEnabled bool
	cacheDir     string
	cacheCodec   cache.CodecType
}

// Option configures ProcessAll at call time.
type Option = options.Option[*coordinatorConfig]

// WithLogger installs a logger for worker-lifecycle and cache tracing. Nil
// (the default) discards everything.
func WithLogger(l logger) Option {
	return options.NoError(func(c *coordinatorConfig) {
		c.logger = l
	})
}

// WithConfig supplies a configuration document other than
// config.Default(), for callers whose magic constants differ from the
// pymavlink defaults.
func WithConfig(cfg *config.Config) Option {
	return options.NoError(func(c *coordinatorConfig) {
		c.cfg = cfg
	})
}

// WithCache opts into the FMT-table prescan cache, persisted under dir
// (default: alongside the input file) using codec for compression. The
// cache is strictly an optimization: disabled by default so the core
// contract holds with zero ambient filesystem side effects unless asked
// for.
func WithCache(dir string, codec cache.CodecType) Option {
	return options.NoError(func(c *coordinatorConfig) {
		c.cacheEnabled = true
		c.cacheDir = dir
		c.cacheCodec = codec
	})
}

func newCoordinatorConfig(opts ...Option) (*coordinatorConfig, error) {
	c := &coordinatorConfig{logger: nopLogger{}, cacheCodec: cache.CodecZstd, cfg: config.Default()}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}
	if c.logger == nil {
		c.logger = nopLogger{}
	}
	if c.cfg == nil {
		c.cfg = config.Default()
	}

	return c, nil
}
