package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the client.
type Config struct {
	API     APIConfig
	Store   StoreConfig
	Log     LogConfig
	Generic GenericConfig
}

// APIConfig configures access to the HejVi content API.
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://api.hejvi.se/api".
	BaseURL string

	// Token is the bearer token issued by the login flow (PIN or QR).
	Token string

	// MediaHost is the asset host whose URLs must be routed through the API.
	MediaHost string

	// MediaPrefix is the API path segment media is served under.
	MediaPrefix string

	// Timeout bounds a single API call. Default: 15s.
	Timeout time.Duration
}

// StoreConfig configures local persistence.
type StoreConfig struct {
	Path string
}

// LogConfig configures the structured log file.
type LogConfig struct {
	Path  string // empty discards logs
	Level string // debug, info, warn, error
}

// GenericConfig lists the fallback reaction elements used when authored
// response media cannot be found.
type GenericConfig struct {
	SuccessIDs []int64
	FailureIDs []int64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:     "https://api.hejvi.se/api",
			MediaHost:   "media.hejvi.se",
			MediaPrefix: "/api/media",
			Timeout:     15 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Generic: GenericConfig{
			SuccessIDs: []int64{9001, 9002, 9003},
			FailureIDs: []int64{9101, 9102, 9103},
		},
	}
}

// FromEnv builds a Config from HEJVI_* environment variables, falling back
// to defaults for unset values.
func FromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("HEJVI_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HEJVI_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("HEJVI_MEDIA_HOST"); v != "" {
		cfg.API.MediaHost = v
	}
	if v := os.Getenv("HEJVI_MEDIA_PREFIX"); v != "" {
		cfg.API.MediaPrefix = v
	}
	if v := os.Getenv("HEJVI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}

	if v := os.Getenv("HEJVI_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("HEJVI_LOG"); v != "" {
		cfg.Log.Path = v
	}
	if v := os.Getenv("HEJVI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("HEJVI_GENERIC_SUCCESS_IDS"); v != "" {
		if ids, err := ParseIDList(v); err == nil {
			cfg.Generic.SuccessIDs = ids
		}
	}
	if v := os.Getenv("HEJVI_GENERIC_FAILURE_IDS"); v != "" {
		if ids, err := ParseIDList(v); err == nil {
			cfg.Generic.FailureIDs = ids
		}
	}

	return cfg
}

// Validate checks the configuration and fills derived defaults.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("invalid API URL %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API URL %q: missing host", c.API.BaseURL)
	}

	if c.API.MediaPrefix != "" && !strings.HasPrefix(c.API.MediaPrefix, "/") {
		c.API.MediaPrefix = "/" + c.API.MediaPrefix
	}
	c.API.MediaPrefix = strings.TrimRight(c.API.MediaPrefix, "/")

	if c.API.Timeout <= 0 {
		c.API.Timeout = 15 * time.Second
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if len(c.Generic.SuccessIDs) == 0 || len(c.Generic.FailureIDs) == 0 {
		return errors.New("generic reaction pools must not be empty")
	}

	return nil
}

// ParseIDList parses a comma separated list of numeric element ids.
func ParseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid element id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. HEJVI_DB environment variable
// 2. $XDG_DATA_HOME/hejvi/hejvi.db
// 3. ~/.local/share/hejvi/hejvi.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("HEJVI_DB"); p != "" {
		return p, EnsureDir(p)
	}
	return xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), "hejvi.db")
}

// DefaultLogPath returns $XDG_STATE_HOME/hejvi/hejvi.log (or ~/.local/state/...).
func DefaultLogPath() (string, error) {
	return xdgPath("XDG_STATE_HOME", filepath.Join(".local", "state"), "hejvi.log")
}

func xdgPath(envVar, homeRel, file string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, homeRel)
	}

	p := filepath.Join(base, "hejvi", file)
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
