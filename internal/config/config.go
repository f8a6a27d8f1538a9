// Package config layers quiver's settings: built-in defaults, then
// quiver.yml at the project root, then environment variables (with an
// optional .env file), then command-line flags. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a quiver invocation.
type Config struct {
	// Reporter selects the output backend: text, json, dot or junit.
	Reporter string `yaml:"reporter"`

	// Verbosity adjusts the text reporter: -1 quiet, 0 normal, 1 verbose.
	Verbosity int `yaml:"verbosity"`

	// Workers caps concurrent file analysis. Zero means one per CPU.
	Workers int `yaml:"workers"`

	// Exclude holds glob patterns skipped during file collection.
	Exclude []string `yaml:"exclude"`

	// Patterns restricts discovery to matching files when non-empty.
	Patterns []string `yaml:"patterns"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Reporter: DefaultReporter,
		Workers:  DefaultWorkers,
	}
}

// Load builds the config for a project rooted at root. A missing
// quiver.yml or .env is not an error; a malformed quiver.yml is.
func Load(root string) (*Config, error) {
	cfg := New()

	if err := cfg.loadFile(filepath.Join(root, ConfigFileName)); err != nil {
		return nil, err
	}

	// Populate the environment from .env without overriding variables
	// the caller already exported.
	_ = godotenv.Load(filepath.Join(root, EnvFileName))

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v, ok := os.LookupEnv(EnvPrefix + "REPORTER"); ok {
		c.Reporter = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "EXCLUDE"); ok {
		c.Exclude = splitList(v)
	}
	return nil
}

// Validate reports configuration a command could not act on.
func (c *Config) Validate() error {
	switch c.Reporter {
	case "text", "json", "dot", "junit":
	default:
		return fmt.Errorf("unknown reporter %q (want text, json, dot or junit)", c.Reporter)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
