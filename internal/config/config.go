// Package config loads the relocator configuration file.
//
// The file is TOML. Every key is optional; missing keys keep their defaults
// and unknown keys are rejected. A complete file:
//
//	[solver]
//	time_limit_seconds = 1800
//	timer_cycle = 100000
//
//	[cache]
//	disabled = false
//	backend = "file"          # file, badger or redis
//	dir = "~/.cache/relocator"
//	ttl_hours = 720
//	redis_addr = "localhost:6379"
//	redis_password = ""
//	redis_db = 0
//	prefix = ""
//
//	[server]
//	addr = ":8080"
//	default_time_limit_seconds = 10
//	max_time_limit_seconds = 60
//	rate_limit = 5
//	burst = 10
//
//	[bench]
//	workers = 4
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/relocator/pkg/errors"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config is the parsed configuration file.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Bench  BenchConfig  `toml:"bench"`
}

type SolverConfig struct {
	TimeLimitSeconds float64 `toml:"time_limit_seconds"`
	TimerCycle       int64   `toml:"timer_cycle"`
}

type CacheConfig struct {
	Disabled      bool    `toml:"disabled"`
	Backend       string  `toml:"backend"`
	Dir           string  `toml:"dir"`
	TTLHours      float64 `toml:"ttl_hours"`
	RedisAddr     string  `toml:"redis_addr"`
	RedisPassword string  `toml:"redis_password"`
	RedisDB       int     `toml:"redis_db"`
	// Prefix scopes every key, for deployments sharing one store.
	Prefix string `toml:"prefix"`
}

type ServerConfig struct {
	Addr                    string  `toml:"addr"`
	DefaultTimeLimitSeconds float64 `toml:"default_time_limit_seconds"`
	MaxTimeLimitSeconds     float64 `toml:"max_time_limit_seconds"`
	RateLimit               float64 `toml:"rate_limit"`
	Burst                   int     `toml:"burst"`
}

type BenchConfig struct {
	Workers int `toml:"workers"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Solver: SolverConfig{TimeLimitSeconds: 1800, TimerCycle: 100000},
		Cache:  CacheConfig{Backend: BackendFile, TTLHours: 720, RedisAddr: "localhost:6379"},
		Server: ServerConfig{
			Addr:                    ":8080",
			DefaultTimeLimitSeconds: 10,
			MaxTimeLimitSeconds:     60,
		},
		Bench: BenchConfig{Workers: 4},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/relocator/config.toml, falling back
// to the platform's user configuration directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "relocator", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "relocator", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path loads the
// default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Solver.TimeLimitSeconds <= 0:
		return invalid("solver.time_limit_seconds must be positive")
	case c.Solver.TimerCycle < 0:
		return invalid("solver.timer_cycle must not be negative")
	case c.Cache.TTLHours < 0:
		return invalid("cache.ttl_hours must not be negative")
	case c.Server.DefaultTimeLimitSeconds < 0 || c.Server.MaxTimeLimitSeconds < 0:
		return invalid("server time limits must not be negative")
	case c.Server.RateLimit < 0 || c.Server.Burst < 0:
		return invalid("server.rate_limit and server.burst must not be negative")
	case c.Bench.Workers < 0:
		return invalid("bench.workers must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendBadger, BackendRedis:
	default:
		return invalid("cache.backend must be one of file, badger, redis; got %q", c.Cache.Backend)
	}
	return errors.ValidateTimeLimit(c.TimeLimit())
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// TimeLimit returns the solver time limit.
func (c Config) TimeLimit() time.Duration { return seconds(c.Solver.TimeLimitSeconds) }

// TTL returns the lifetime of cached reports.
func (c Config) TTL() time.Duration { return time.Duration(c.Cache.TTLHours * float64(time.Hour)) }

// DefaultTimeLimit returns the server's time limit for requests without one.
func (c Config) DefaultTimeLimit() time.Duration {
	return seconds(c.Server.DefaultTimeLimitSeconds)
}

// MaxTimeLimit returns the largest time limit a request may ask for.
func (c Config) MaxTimeLimit() time.Duration { return seconds(c.Server.MaxTimeLimitSeconds) }

func seconds(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

// ExpandHome replaces a leading "~" in path with the home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
