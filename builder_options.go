package qbluff

import "github.com/sirupsen/logrus"

// BuildOption is a functional option for configuring table construction and
// snapshot loading.
type BuildOption func(*buildConfig)

type buildConfig struct {
	workers int // 0 uses GOMAXPROCS
	omaha   bool
	logger  logrus.FieldLogger
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		omaha:  true,
		logger: logrus.StandardLogger(),
	}
}

// WithWorkers sets the number of goroutines used to build the Omaha tables.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		c.workers = n
	}
}

// WithoutOmaha skips the Omaha tables. EvaluatePlo4 stays available and
// searches the 60 legal board/hole selections through the 5-card tables
// instead.
//
// Snapshots opened with this option drop their Omaha sections.
func WithoutOmaha() BuildOption {
	return func(c *buildConfig) {
		c.omaha = false
	}
}

// WithLogger sets the logger that receives construction and load events.
func WithLogger(l logrus.FieldLogger) BuildOption {
	return func(c *buildConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions(opts []BuildOption) *buildConfig {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
