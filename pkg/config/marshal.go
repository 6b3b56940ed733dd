package config

import (
	"strings"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Marshal renders the configuration as "toml" or "yaml". The output can be
// loaded back as a config file.
func (c *Config) Marshal(format string) ([]byte, error) {
	m := c.toMap()

	switch strings.ToLower(format) {
	case "toml", "":
		return toml.Marshal(m)
	case "yaml", "yml":
		return yaml.Marshal(m)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown config format: %q", format)
	}
}

// toMap mirrors the koanf layout, with durations as strings
func (c *Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"run": map[string]interface{}{
			"throw": c.Run.Throw,
		},
		"effect": map[string]interface{}{
			"automatic_cleanup": c.Effect.AutomaticCleanup,
		},
		"retry": map[string]interface{}{
			"max_attempts": c.Retry.MaxAttempts,
			"delay":        c.Retry.Delay.String(),
			"backoff":      c.Retry.Backoff,
			"should_retry": c.Retry.ShouldRetry,
		},
		"timeout": map[string]interface{}{
			"duration": c.Timeout.Duration.String(),
		},
		"debounce": map[string]interface{}{
			"delay": c.Debounce.Delay.String(),
		},
		"log": map[string]interface{}{
			"verbosity": c.Log.Verbosity,
		},
	}
}
