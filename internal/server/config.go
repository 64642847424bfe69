package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAddr is the listen address used when neither the flag, the config
// file, nor SCHEMAGENIUS_ADDR says otherwise.
const DefaultAddr = ":8080"

// DefaultMaxBodyBytes caps request bodies at 4 MiB.
const DefaultMaxBodyBytes = 4 << 20

// Duration decodes YAML values like "15s" or "2m" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config controls the HTTP server.
type Config struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64    `yaml:"max_body_bytes"`
	LogRequests     bool     `yaml:"log_requests"`
}

// Default returns the built-in configuration. SCHEMAGENIUS_ADDR overrides
// the default listen address when set.
func Default() Config {
	addr := DefaultAddr
	if env := os.Getenv("SCHEMAGENIUS_ADDR"); env != "" {
		addr = env
	}
	return Config{
		Addr:            addr,
		ReadTimeout:     Duration(10 * time.Second),
		WriteTimeout:    Duration(30 * time.Second),
		ShutdownTimeout: Duration(10 * time.Second),
		MaxBodyBytes:    DefaultMaxBodyBytes,
		LogRequests:     true,
	}
}

// LoadConfig reads a YAML config file over the defaults, so keys the file
// omits keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
