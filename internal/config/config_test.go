package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/relocator/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[solver]
time_limit_seconds = 2.5

[cache]
backend = "redis"
redis_addr = "cache:6379"
prefix = "staging"

[bench]
workers = 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.TimeLimit(); got != 2500*time.Millisecond {
		t.Errorf("TimeLimit() = %v", got)
	}
	if cfg.Solver.TimerCycle != 100000 {
		t.Errorf("TimerCycle = %d, want default", cfg.Solver.TimerCycle)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.Prefix != "staging" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Bench.Workers != 8 {
		t.Errorf("Workers = %d", cfg.Bench.Workers)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[solver\n"},
		{"unknown key", "[solver]\ndepth = 3\n"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n"},
		{"negative limit", "[solver]\ntime_limit_seconds = -1\n"},
		{"negative workers", "[bench]\nworkers = -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: error = %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("default location: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/xdg", "relocator", "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/cache"); got != filepath.Join(home, "cache") {
		t.Errorf("ExpandHome(~/cache) = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome(/abs/path) = %q", got)
	}
}
