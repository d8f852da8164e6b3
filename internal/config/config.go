// Package config resolves LightCull's settings from defaults, an optional TOML file and
// LIGHTCULL_* environment variables. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	appErrors "lightcull/internal/errors"
	"lightcull/internal/journal"
)

const (
	AppName           = "lightcull"
	ConfigFile        = "config.toml"
	DefaultDebounceMS = 300

	// StateDirName must differ from the thumbnail root even on case-insensitive filesystems.
	StateDirName = "lightcull-state"
)

type Config struct {
	// CacheDir holds the LightCull thumbnail folder and the journal. Empty means the
	// platform's user cache directory.
	CacheDir         string `toml:"cache_dir"`
	ThumbnailWorkers int    `toml:"thumbnail_workers"`
	Verbose          bool   `toml:"verbose"`
	WatchDebounceMS  int    `toml:"watch_debounce_ms"`
}

func Default() Config {
	return Config{WatchDebounceMS: DefaultDebounceMS}
}

// DefaultPath is $XDG_CONFIG_HOME/lightcull/config.toml or the platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, ConfigFile), nil
}

// Load reads path, or the default location when path is empty, and applies the environment.
// A missing file at the default location is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			path = ""
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, appErrors.Wrap(appErrors.InvalidConfig, "load config", path, fmt.Errorf("failed to parse config: %w", err))
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, appErrors.Wrap(appErrors.InvalidConfig, "load config", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if dir := envOrEmpty("LIGHTCULL_CACHE_DIR"); dir != "" {
		c.CacheDir = dir
	}
	if envTruthy("LIGHTCULL_VERBOSE") {
		c.Verbose = true
	}
	if raw := envOrEmpty("LIGHTCULL_WORKERS"); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil {
			return appErrors.Wrap(appErrors.InvalidConfig, "load config", "LIGHTCULL_WORKERS", err)
		}
		c.ThumbnailWorkers = workers
	}
	return nil
}

func (c Config) Validate() error {
	if c.ThumbnailWorkers < 0 {
		return appErrors.New(appErrors.InvalidConfig, "validate config", "thumbnail_workers", "must not be negative")
	}
	if c.WatchDebounceMS < 0 {
		return appErrors.New(appErrors.InvalidConfig, "validate config", "watch_debounce_ms", "must not be negative")
	}
	return nil
}

// CacheRoot is the directory the thumbnail cache and the journal live in.
func (c Config) CacheRoot() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", appErrors.Wrap(appErrors.InvalidConfig, "cache root", "", err)
	}
	return dir, nil
}

// JournalPath lives in its own folder next to the LightCull cache folder so clearing thumbnails
// keeps history.
func (c Config) JournalPath() (string, error) {
	root, err := c.CacheRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, StateDirName, journal.FileName), nil
}

func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
