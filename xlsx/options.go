package xlsx

import (
	"compress/flate"
	"log/slog"
)

type config struct {
	logger *slog.Logger
	level  int
}

func defaultConfig() config {
	return config{
		logger: slog.New(slog.DiscardHandler),
		level:  flate.BestCompression,
	}
}

type Option func(*config)

// WithLogger traces the parts materialized and written by the workbook.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCompression sets the deflate level used when the workbook is
// written.
func WithCompression(level int) Option {
	return func(c *config) {
		c.level = level
	}
}
