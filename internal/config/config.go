package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// dateLayout is the human-facing semester boundary format (DD.MM.YYYY).
const dateLayout = "02.01.2006"

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone the semester lives in; all produced
	// timestamps are local to it.
	Timezone string `yaml:"timezone"`

	// SemesterStart / SemesterEnd bound open-ended recurrences,
	// DD.MM.YYYY. The start's year doubles as the implied year for
	// DD.MM date fragments in the input.
	SemesterStart string `yaml:"semester_start"`
	SemesterEnd   string `yaml:"semester_end"`

	// Input is the path of the raw schedule JSON, Output the path the
	// ICS document is written to.
	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	// RefreshCron is a cron-style schedule (e.g. "0 6 * * *") used by
	// watch mode to regenerate the output.
	RefreshCron string `yaml:"refresh"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:      "Europe/Moscow",
		SemesterStart: "01.09.2025",
		SemesterEnd:   "31.12.2025",
		Input:         "schedule.json",
		Output:        "schedule.ics",
		RefreshCron:   "0 6 * * *",
	}
}

// Normalize fills in missing values with defaults so partially-filled
// config files still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.SemesterStart == "" {
		c.SemesterStart = def.SemesterStart
	}
	if c.SemesterEnd == "" {
		c.SemesterEnd = def.SemesterEnd
	}
	if c.Input == "" {
		c.Input = def.Input
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
}

// Semester resolves the configured window into timezone-aware
// timestamps at local midnight, plus the implied year for DD.MM
// fragments.
func (c *Config) Semester() (start, end time.Time, year int, err error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("config: load timezone %q: %w", c.Timezone, err)
	}
	start, err = time.ParseInLocation(dateLayout, c.SemesterStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("config: semester_start %q: %w", c.SemesterStart, err)
	}
	end, err = time.ParseInLocation(dateLayout, c.SemesterEnd, loc)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("config: semester_end %q: %w", c.SemesterEnd, err)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("config: semester end %s is not after start %s", c.SemesterEnd, c.SemesterStart)
	}
	return start, end, start.Year(), nil
}

// Load loads configuration from the given YAML path. A missing file is
// treated as a first run: a default config is written (0600, parent
// 0700) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically via a temp file + rename,
// with final 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".kaical-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
