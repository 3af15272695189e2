package cli

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/config"
)

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.CacheConfig
		want string
	}{
		{"disabled", config.CacheConfig{Backend: config.BackendNone}, "disabled"},
		{"file", config.CacheConfig{Backend: config.BackendFile, Dir: "/tmp/tm"}, "/tmp/tm"},
		{"redis", config.CacheConfig{Backend: config.BackendRedis, RedisURL: "redis://localhost:6379/0", Prefix: "tm:"}, `redis://localhost:6379/0 (prefix "tm:")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheLocation(tt.cfg); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	got := cacheLocation(config.CacheConfig{Backend: config.BackendFile})
	if got != config.DefaultCacheDir() || !strings.HasSuffix(got, appName) {
		t.Errorf("default location = %q, want %q", got, config.DefaultCacheDir())
	}
}

func TestRenderCachesAndClear(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfg := writeFile(t, dir, "config.toml", "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")
	input := writeFile(t, dir, "sales.json", salesJSON)

	if _, err := run(t, "--config", cfg, "render", input, "-f", "svg"); err != nil {
		t.Fatal(err)
	}
	if countFiles(t, cacheDir) == 0 {
		t.Fatal("render should populate the cache")
	}

	if _, err := run(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if n := countFiles(t, cacheDir); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.toml", "[cache]\nbackend = \"none\"\n")
	if _, err := run(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Errorf("clear with caching disabled = %v", err)
	}
}
