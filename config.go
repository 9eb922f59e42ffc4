package sway

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/sway/internal/logging"
)

// Config is the file form of bridge settings.
type Config struct {
	// Batching selects the flattened instruction encoding.
	Batching bool `yaml:"batching" json:"batching"`
	// Debounce defers flushes to the next frame of the scheduler.
	Debounce bool `yaml:"debounce" json:"debounce"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel" json:"logLevel"`
	// Allow extends the remote allow-lists.
	Allow AllowConfig `yaml:"allow" json:"allow"`
}

// AllowConfig lists extra keys the remote executor understands.
type AllowConfig struct {
	Style         []string `yaml:"style" json:"style"`
	Transform     []string `yaml:"transform" json:"transform"`
	Interpolation []string `yaml:"interpolation" json:"interpolation"`
}

// LoadConfig parses YAML. JSON documents parse too, YAML being a superset.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("sway: parse config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, fmt.Errorf("sway: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML or JSON config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sway: read config: %w", err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}

// BridgeOptions converts the config into bridge options. sched is used only
// when Debounce is set.
func (c Config) BridgeOptions(sched Scheduler) []BridgeOption {
	var opts []BridgeOption
	if c.Batching {
		opts = append(opts, WithBatching())
	}
	if c.Debounce && sched != nil {
		opts = append(opts, WithScheduler(sched))
	}
	if len(c.Allow.Style)+len(c.Allow.Transform)+len(c.Allow.Interpolation) > 0 {
		allow := c.Allow
		opts = append(opts, func(b *Bridge) {
			b.AllowStyleProps(allow.Style...)
			b.AllowTransformProps(allow.Transform...)
			b.AllowInterpolationParams(allow.Interpolation...)
		})
	}
	return opts
}
