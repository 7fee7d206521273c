package archive

import (
	"github.com/dargueta/bundlepack"
	"github.com/dargueta/bundlepack/utilities/compression"
	"go.uber.org/zap"
)

type config struct {
	logger        *zap.SugaredLogger
	minCopyLength int
	assetPaths    bool
	transform     compression.Options
}

func defaultConfig() config {
	return config{
		logger:        zap.NewNop().Sugar(),
		minCopyLength: bundlepack.MinCopyLength,
	}
}

// Option changes how [Compress] and [Decompress] behave.
type Option func(*config)

// WithLogger sets the logger used to report sizes and match statistics. A nil
// logger disables logging.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *config) {
		if logger == nil {
			logger = zap.NewNop().Sugar()
		}
		c.logger = logger
	}
}

// WithMinCopyLength overrides [bundlepack.MinCopyLength]. Values below 1 are
// rejected when compressing.
func WithMinCopyLength(length int) Option {
	return func(c *config) {
		c.minCopyLength = length
	}
}

// WithAssetPaths treats the marker names as asset paths and reduces each one
// to the bare name bundles store for it (see [dedup.AssetName]).
func WithAssetPaths(enabled bool) Option {
	return func(c *config) {
		c.assetPaths = enabled
	}
}

// WithDeflateLevel sets the DEFLATE compression level. Ignored by other modes.
func WithDeflateLevel(level int) Option {
	return func(c *config) {
		c.transform.DeflateLevel = level
	}
}

// WithLzmaDictSize sets the LZMA dictionary capacity. Ignored by other modes.
func WithLzmaDictSize(size int) Option {
	return func(c *config) {
		c.transform.LzmaDictSize = size
	}
}

func buildConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
