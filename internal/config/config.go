// Package config resolves opsboard settings from built-in defaults, an
// optional YAML file and OPSBOARD_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/palette"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Backend names the store implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Config holds all runtime settings.
type Config struct {
	Backend     Backend `yaml:"backend"`
	DBPath      string  `yaml:"db_path"`
	PostgresDSN string  `yaml:"postgres_dsn"`

	Scope       string   `yaml:"scope"`
	Zoom        string   `yaml:"zoom"`
	MinBarWidth float64  `yaml:"min_bar_width"`
	Palette     []string `yaml:"palette"`
	DoneColor   string   `yaml:"done_color"`

	WriteTimeoutMs int `yaml:"write_timeout_ms"`
	BackoffMinMs   int `yaml:"backoff_min_ms"`
	BackoffMaxMs   int `yaml:"backoff_max_ms"`
	DebounceMs     int `yaml:"debounce_ms"`
	PollIntervalMs int `yaml:"poll_interval_ms"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// DefaultConfig returns the built-in settings: a SQLite store under
// ~/.opsboard and the month view.
func DefaultConfig() Config {
	dbPath := "opsboard.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".opsboard", "opsboard.db")
	}
	return Config{
		Backend:        BackendSQLite,
		DBPath:         dbPath,
		Zoom:           string(domain.ZoomMonth),
		MinBarWidth:    1.0,
		WriteTimeoutMs: 10000,
		BackoffMinMs:   500,
		BackoffMaxMs:   30000,
		DebounceMs:     100,
		PollIntervalMs: 250,
		LogLevel:       "info",
	}
}

// DefaultPath is the config file read when none is given explicitly.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".opsboard", "config.yaml")
}

// Load resolves the configuration. path may be empty, in which case
// OPSBOARD_CONFIG and then DefaultPath are tried; a missing default file is
// not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if v := os.Getenv("OPSBOARD_CONFIG"); v != "" {
			path, explicit = v, true
		} else {
			path = DefaultPath()
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPSBOARD_BACKEND"); v != "" {
		c.Backend = Backend(strings.ToLower(v))
	}
	if v := os.Getenv("OPSBOARD_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("OPSBOARD_PG_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("OPSBOARD_SCOPE"); v != "" {
		c.Scope = v
	}
	if v := os.Getenv("OPSBOARD_ZOOM"); v != "" {
		c.Zoom = v
	}
	if v := os.Getenv("OPSBOARD_MIN_BAR_WIDTH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.MinBarWidth = f
		}
	}
	if v := os.Getenv("OPSBOARD_PALETTE"); v != "" {
		c.Palette = splitList(v)
	}
	if v := os.Getenv("OPSBOARD_DONE_COLOR"); v != "" {
		c.DoneColor = v
	}
	applyPositiveIntEnv(&c.WriteTimeoutMs, "OPSBOARD_WRITE_TIMEOUT_MS")
	applyPositiveIntEnv(&c.BackoffMinMs, "OPSBOARD_BACKOFF_MIN_MS")
	applyPositiveIntEnv(&c.BackoffMaxMs, "OPSBOARD_BACKOFF_MAX_MS")
	applyPositiveIntEnv(&c.DebounceMs, "OPSBOARD_DEBOUNCE_MS")
	applyPositiveIntEnv(&c.PollIntervalMs, "OPSBOARD_POLL_INTERVAL_MS")
	if v := os.Getenv("OPSBOARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OPSBOARD_LOG_FILE"); v != "" {
		c.LogFile = v
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (expected sqlite or postgres)", c.Backend)
	}
	if _, err := domain.ParseZoomMode(c.Zoom); err != nil {
		return err
	}
	if c.MinBarWidth <= 0 || c.MinBarWidth > 100 {
		return fmt.Errorf("min_bar_width must be in (0, 100], got %v", c.MinBarWidth)
	}
	if c.BackoffMaxMs < c.BackoffMinMs {
		return fmt.Errorf("backoff_max_ms (%d) must be >= backoff_min_ms (%d)", c.BackoffMaxMs, c.BackoffMinMs)
	}
	if _, err := c.BuildPalette(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ZoomMode returns the parsed default zoom, month when invalid.
func (c Config) ZoomMode() domain.ZoomMode {
	z, err := domain.ParseZoomMode(c.Zoom)
	if err != nil {
		return domain.ZoomMonth
	}
	return z
}

// BuildPalette returns the configured palette, or the default one when no
// colors are configured.
func (c Config) BuildPalette() (*palette.Palette, error) {
	if len(c.Palette) == 0 && c.DoneColor == "" {
		return palette.Default(), nil
	}
	colors := palette.DefaultColors
	if len(c.Palette) > 0 {
		colors = make([]lipgloss.Color, 0, len(c.Palette))
		for _, s := range c.Palette {
			colors = append(colors, lipgloss.Color(s))
		}
	}
	p, err := palette.New(colors, lipgloss.Color(c.DoneColor))
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return p, nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

func (c Config) WriteTimeout() time.Duration { return ms(c.WriteTimeoutMs) }
func (c Config) BackoffMin() time.Duration   { return ms(c.BackoffMinMs) }
func (c Config) BackoffMax() time.Duration   { return ms(c.BackoffMaxMs) }
func (c Config) Debounce() time.Duration     { return ms(c.DebounceMs) }
func (c Config) PollInterval() time.Duration { return ms(c.PollIntervalMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func applyPositiveIntEnv(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
