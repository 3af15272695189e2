// Package config loads the treemap configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/treemap/config.toml unless
// TREEMAP_CONFIG names another path. A missing file is not an error: every
// field has a default, and command-line flags override file values.
//
//	[render]
//	width = 1200
//	height = 800
//	color_range = ["#1b9e77", "#d95f02", "#7570b3"]
//	value_format = "$#,##0.00"
//	formats = ["svg", "html"]
//
//	[cache]
//	backend = "redis"          # file | redis | none
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[server]
//	addr = "localhost:8080"
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

const (
	appName  = "treemap"
	fileName = "config.toml"

	// EnvPath overrides the config file location.
	EnvPath = "TREEMAP_CONFIG"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the HTTP listen address used by "treemap serve".
const DefaultAddr = "localhost:8080"

// Config is the full configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds defaults for chart size, colours and output formats.
type RenderConfig struct {
	Width       float64  `toml:"width" validate:"gte=0,lte=16384"`
	Height      float64  `toml:"height" validate:"gte=0,lte=16384"`
	ColorRange  []string `toml:"color_range" validate:"dive,hexcolor"`
	ValueFormat string   `toml:"value_format" validate:"max=64"`
	Formats     []string `toml:"formats" validate:"dive,oneof=svg html json png pdf"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend  string        `toml:"backend" validate:"oneof=file redis none"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string        `toml:"prefix" validate:"max=64"`
	TTL      time.Duration `toml:"ttl" validate:"gte=0"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Formats: []string{pipeline.FormatSVG},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     DefaultCacheDir(),
			Prefix:  cache.DefaultRedisPrefix,
			TTL:     cache.DefaultTTL,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, appName, fileName), nil
}

// DefaultCacheDir returns the file cache directory (~/.cache/treemap/).
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", appName)
	}
	return filepath.Join(os.TempDir(), appName)
}

// Load reads the config file at Path. A missing file yields Default.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config file at path. Values absent from
// the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML text into a validated configuration.
func Decode(text string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", describe(err))
	}
	return nil
}

// Options converts the render section into pipeline options.
func (r RenderConfig) Options() pipeline.Options {
	return pipeline.Options{
		Width:       r.Width,
		Height:      r.Height,
		ColorRange:  append([]string(nil), r.ColorRange...),
		ValueFormat: r.ValueFormat,
		Formats:     append([]string(nil), r.Formats...),
	}
}

// OpenCache builds the configured cache backend, instrumented with the
// registered observability hooks.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.Instrument(cache.NewNullCache()), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.RedisURL, c.Prefix)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			dir = DefaultCacheDir()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return cache.Instrument(fc), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		case "lte", "max":
			msgs = append(msgs, field+" must be at most "+fe.Param())
		case "gte":
			msgs = append(msgs, field+" must be at least "+fe.Param())
		case "hexcolor":
			msgs = append(msgs, fmt.Sprintf("%s: %v is not a hex color", field, fe.Value()))
		case "required", "required_if":
			msgs = append(msgs, field+" is required")
		case "hostname_port":
			msgs = append(msgs, field+" must be host:port")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// fieldPath drops the root struct name: "Config.cache.backend" -> "cache.backend".
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}
