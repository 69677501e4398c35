package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

// FileConfig is the declarative form of a client configuration, loaded by
// [LoadConfig]. Hooks, transports and loggers cannot be expressed here and
// are added as regular options.
type FileConfig struct {
	BaseURL string            `koanf:"baseurl"`
	Timeout time.Duration     `koanf:"timeout"`
	Headers map[string]string `koanf:"headers"`
	Retry   RetryFileConfig   `koanf:"retry"`
}

type RetryFileConfig struct {
	// Count is the retry ceiling; 0 means a single attempt.
	Count int `koanf:"count"`
	// Delay is the constant delay, or the base of the exponential backoff.
	Delay time.Duration `koanf:"delay"`
	// Backoff is either "constant" or "exponential".
	Backoff string `koanf:"backoff"`
	// MaxDelay caps the exponential backoff. Zero means no cap.
	MaxDelay time.Duration `koanf:"maxdelay"`
	// StatusCodes restricts retries to these codes. Empty means every failure.
	StatusCodes []int `koanf:"statuscodes"`
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"retry.count":   0,
		"retry.delay":   defaultRetryDelay.String(),
		"retry.backoff": BackoffConstant,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// LoadConfig loads a [FileConfig] with the following priority:
//  1. Environment variables starting with envPrefix (highest priority)
//  2. The YAML file at path
//  3. Default values (lowest priority)
//
// An empty path or envPrefix skips that source. Environment variable names
// map to keys by dropping the prefix and one separating "_", lowercasing and
// turning "_" into ".", so MYAPI_RETRY_COUNT sets retry.count whether the
// prefix is "MYAPI" or "MYAPI_".
func LoadConfig(path, envPrefix string) (*FileConfig, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if envPrefix != "" {
		if err := k.Load(env.Provider(".", env.Opt{
			Prefix: envPrefix,
			TransformFunc: func(key, value string) (string, any) {
				key = strings.TrimPrefix(strings.TrimPrefix(key, envPrefix), "_")
				return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
			},
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment variables: %w", err)
		}
	}

	var cfg FileConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the values that options would otherwise silently ignore.
func (c *FileConfig) Validate() error {
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	if c.Retry.Count < 0 {
		return errors.New("retry.count must not be negative")
	}

	if c.Retry.Delay < 0 || c.Retry.MaxDelay < 0 {
		return errors.New("retry delays must not be negative")
	}

	switch c.Retry.Backoff {
	case "", BackoffConstant, BackoffExponential:
	default:
		return fmt.Errorf("unknown retry.backoff %q", c.Retry.Backoff)
	}

	for _, code := range c.Retry.StatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("invalid retry status code %d", code)
		}
	}

	return nil
}

// Options converts the configuration into client options.
func (c *FileConfig) Options() []Option {
	opts := []Option{
		WithRetries(c.Retry.Count),
	}

	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}

	for k, v := range c.Headers {
		opts = append(opts, WithRequestHeader(k, v))
	}

	switch c.Retry.Backoff {
	case BackoffExponential:
		opts = append(opts, WithRetryDelay(ExponentialBackoffMax(c.Retry.Delay, c.Retry.MaxDelay)))
	default:
		opts = append(opts, WithRetryDelay(ConstantDelay(c.Retry.Delay)))
	}

	if len(c.Retry.StatusCodes) > 0 {
		opts = append(opts, WithRetryOn(RetryOnStatus(c.Retry.StatusCodes...)))
	}

	return opts
}

// NewFromConfig creates a client from cfg. Extra options are applied after
// the configured ones and win on conflict.
func NewFromConfig(cfg *FileConfig, extra ...Option) *Client {
	return New(cfg.BaseURL, append(cfg.Options(), extra...)...)
}
