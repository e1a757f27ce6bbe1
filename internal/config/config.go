package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/treykane/ward-roster/internal/virtual"
)

const (
	configDirName  = ".ward-roster"
	configFileName = "config.json"

	// configPathEnv overrides the config file location.
	configPathEnv = "WARD_ROSTER_CONFIG"
)

var (
	// ErrNotConfigured is returned by Load when no config file exists. The
	// returned Config still carries the defaults.
	ErrNotConfigured = errors.New("ward-roster is not configured")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid config")
)

// Config stores user-defined ward-roster settings.
//
// Row heights and thresholds are in terminal rows.
type Config struct {
	// FixedRowHeight renders every roster row at this height when > 0.
	// Zero measures each row.
	FixedRowHeight int `json:"fixed_row_height"`
	// EstimatedRowHeight is assumed for rows that have not been measured.
	EstimatedRowHeight int `json:"estimated_row_height"`
	// Overscan is the number of extra rows rendered past each edge.
	Overscan int `json:"overscan"`
	// EndThreshold is how close to the bottom the next page is requested.
	EndThreshold int `json:"end_threshold"`
	// DedupeEndReached requests each page once per approach to the bottom.
	DedupeEndReached bool `json:"dedupe_end_reached"`

	// PageSize is the number of patients fetched per page.
	PageSize int `json:"page_size"`
	// PatientCount is the size of the mock census.
	PatientCount int `json:"patient_count"`
	// Seed makes the mock census reproducible.
	Seed uint64 `json:"seed"`

	// GlamourStyle selects the chart rendering style (dark, light, notty, auto).
	GlamourStyle string `json:"glamour_style,omitempty"`
	// Keybindings maps action names to keys, replacing the defaults.
	Keybindings map[string]string `json:"keybindings,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		EstimatedRowHeight: 3,
		Overscan:           4,
		EndThreshold:       10,
		DedupeEndReached:   true,
		PageSize:           50,
		PatientCount:       2000,
		Seed:               1,
		GlamourStyle:       "dark",
	}
}

// List converts the row settings to an engine configuration.
func (c Config) List() virtual.Config {
	return virtual.Config{
		FixedItemHeight:     float64(c.FixedRowHeight),
		EstimatedItemHeight: float64(c.EstimatedRowHeight),
		Overscan:            c.Overscan,
		EndThreshold:        float64(c.EndThreshold),
		DedupeEndReached:    c.DedupeEndReached,
	}
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if err := c.List().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be > 0, got %d", ErrInvalid, c.PageSize)
	}
	if c.PatientCount < 0 {
		return fmt.Errorf("%w: patient_count must be >= 0, got %d", ErrInvalid, c.PatientCount)
	}
	switch c.GlamourStyle {
	case "", "dark", "light", "notty", "auto":
	default:
		return fmt.Errorf("%w: unknown glamour_style %q", ErrInvalid, c.GlamourStyle)
	}
	return nil
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Exists reports whether the config file exists.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Load reads and validates the saved configuration.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads a JSONC config file. Fields missing from the file keep
// their defaults. A missing file returns the defaults with ErrNotConfigured.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), ErrNotConfigured
		}
		return Default(), err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes JSONC (JSON with comments and trailing commas) on top of
// the defaults, then normalizes and validates the result.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	cfg = normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes configuration to the default path.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile validates cfg and writes it atomically to path.
func SaveFile(path string, cfg Config) error {
	cfg = normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

func normalize(cfg Config) Config {
	cfg.GlamourStyle = strings.ToLower(strings.TrimSpace(cfg.GlamourStyle))
	if len(cfg.Keybindings) == 0 {
		cfg.Keybindings = nil
	}
	return cfg
}
