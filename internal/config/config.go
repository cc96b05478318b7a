// Package config loads settings for the table loader and the commands.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix of every environment override, e.g. PHEVAL_WORKERS.
const envPrefix = "pheval"

// Config provides configuration for the hand evaluator
type Config struct {
	loaded bool

	// TablesPath names a table snapshot to load instead of building tables.
	TablesPath string `yaml:"tablesPath" envconfig:"tables_path"`

	// Workers bounds table construction goroutines; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers" envconfig:"workers"`

	// Omaha enables the Omaha tables.
	Omaha bool `yaml:"omaha" envconfig:"omaha"`

	Log struct {
		Level  string `yaml:"level" envconfig:"level"`
		Format string `yaml:"format" envconfig:"format"`
	} `yaml:"log" envconfig:"log"`
}

var (
	mu     sync.Mutex
	config Config
)

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	cfg := Config{Omaha: true}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	mu.Lock()
	defer mu.Unlock()
	if !config.loaded {
		if err := load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration, replacing any previously loaded one.
func Load() error {
	mu.Lock()
	defer mu.Unlock()
	return load()
}

func load() error {
	// A missing .env is fine; variables already set take precedence.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	configFile := getenv("PHEVAL_CONFIG_FILE", "pheval.yaml")
	file, err := os.Open(configFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	default:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// SetupLogger applies the log level and format to the standard logrus logger.
func (c Config) SetupLogger() error {
	if lvl := c.Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
	}

	if strings.ToLower(c.Log.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}

	return defaultValue
}
