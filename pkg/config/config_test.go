package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Render.Width != 800 || cfg.Render.Height != 600 {
		t.Errorf("size = %gx%g, want 800x600", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != cache.DefaultTTL {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[render]
width = 1200
color_range = ["#111111", "#abc"]
formats = ["svg", "html"]

[cache]
backend = "none"
ttl = "90m"
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Render.Width != 1200 {
		t.Errorf("width = %g, want 1200", cfg.Render.Width)
	}
	if cfg.Render.Height != 600 {
		t.Errorf("height = %g, want default 600", cfg.Render.Height)
	}
	if len(cfg.Render.ColorRange) != 2 {
		t.Errorf("color_range = %v", cfg.Render.ColorRange)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("ttl = %v, want 90m", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}

	opts := cfg.Render.Options()
	if opts.Width != 1200 || len(opts.Formats) != 2 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", `[render`, "parse config"},
		{"negative width", "[render]\nwidth = -1", "width must be at least 0"},
		{"bad color", "[render]\ncolor_range = [\"red\"]", "is not a hex color"},
		{"bad format", "[render]\nformats = [\"gif\"]", "must be one of"},
		{"bad backend", "[cache]\nbackend = \"memcached\"", "cache.backend must be one of"},
		{"redis without url", "[cache]\nbackend = \"redis\"", "cache.redis_url is required"},
		{"bad addr", "[server]\naddr = \"nowhere\"", "server.addr must be host:port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %q, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nwidht = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
	if !strings.Contains(err.Error(), "render.widht") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "absent.toml"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "treemap", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/cache")
	if got := DefaultCacheDir(); got != filepath.Join("/cache", "treemap") {
		t.Errorf("DefaultCacheDir() = %q", got)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, err := CacheConfig{Backend: BackendNone}.OpenCache(ctx)
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("null cache reported a hit")
	}

	dir := t.TempDir()
	c, err = CacheConfig{Backend: BackendFile, Dir: dir}.OpenCache(ctx)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	defer c.Close()
	if err := c.Set(ctx, "frame:abc", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "frame:abc")
	if err != nil || !hit || string(data) != "x" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if _, ok := c.(cache.Clearer); !ok {
		t.Error("instrumented file cache should still be a Clearer")
	}

	if _, err := (CacheConfig{Backend: "tape"}).OpenCache(ctx); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend err = %v", err)
	}
}
