package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"papercal/internal/ics"
	"papercal/internal/layout"
	"papercal/internal/pdf"
)

// ICSConfig describes one ICS feed.
type ICSConfig struct {
	ID  string `yaml:"id" json:"id"`
	URL string `yaml:"url" json:"url"`
	// Kind is "events" (default) or "holidays".
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// Source converts the entry for the ics package.
func (c ICSConfig) Source() ics.Source {
	return ics.Source{ID: c.ID, URL: c.URL, Kind: ics.Kind(c.Kind)}
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the web server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// HolidaysConfig toggles the built-in holiday set. Enabled is a pointer so
// an absent key keeps the default of true.
type HolidaysConfig struct {
	Enabled  *bool    `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Disabled []string `yaml:"disabled" json:"disabled"`
}

// LayoutConfig carries the page layout knobs.
type LayoutConfig struct {
	MinRows          int     `yaml:"min_rows" json:"min_rows"`
	TitleFontSize    float64 `yaml:"title_font_size" json:"title_font_size"`
	MinTitleFontSize float64 `yaml:"min_title_font_size" json:"min_title_font_size"`
	// OverflowPolicy is "drop" or "stack".
	OverflowPolicy string `yaml:"overflow_policy" json:"overflow_policy"`
	// TitlePolicy is "skip" or "floor".
	TitlePolicy string `yaml:"title_policy" json:"title_policy"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for `papercal serve`.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// OutputDir receives rendered PDFs.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// CacheDir holds the ICS download cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Schedule is a standard five-field cron expression for `papercal watch`.
	Schedule string `yaml:"schedule" json:"schedule"`

	// Title is an optional custom heading placed before the month name.
	Title string `yaml:"title" json:"title"`

	// Groups limits the calendar to these event groups; empty means all.
	Groups []string `yaml:"groups" json:"groups"`

	// Events lists CSV event files.
	Events []string `yaml:"events" json:"events"`

	ICS []ICSConfig `yaml:"ics" json:"ics"`

	Holidays   HolidaysConfig `yaml:"holidays" json:"holidays"`
	MoonPhases *bool          `yaml:"moon_phases,omitempty" json:"moon_phases,omitempty"`

	Layout LayoutConfig `yaml:"layout" json:"layout"`

	// BasicAuth, if non-nil, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{
		Events:     []string{"./events.csv"},
		Holidays:   HolidaysConfig{Enabled: boolPtr(true)},
		MoonPhases: boolPtr(true),
	}
	c.Normalize()
	return c
}

// Normalize fills in missing values so partially written files behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./out"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/ics-cache"
	}
	if c.Schedule == "" {
		c.Schedule = "0 6 1 * *"
	}
	if c.Groups == nil {
		c.Groups = []string{}
	}
	if c.Events == nil {
		c.Events = []string{}
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	for i := range c.ICS {
		if c.ICS[i].Kind == "" {
			c.ICS[i].Kind = string(ics.KindEvents)
		}
	}
	if c.Holidays.Enabled == nil {
		c.Holidays.Enabled = boolPtr(true)
	}
	if c.Holidays.Disabled == nil {
		c.Holidays.Disabled = []string{}
	}
	if c.MoonPhases == nil {
		c.MoonPhases = boolPtr(true)
	}

	l := &c.Layout
	if l.MinRows <= 0 {
		l.MinRows = 5
	}
	if l.TitleFontSize <= 0 {
		l.TitleFontSize = pdf.DefaultTitleFontSize
	}
	if l.MinTitleFontSize <= 0 {
		l.MinTitleFontSize = pdf.DefaultMinFontSize
	}
	if l.OverflowPolicy == "" {
		l.OverflowPolicy = string(layout.OverflowDrop)
	}
	if l.TitlePolicy == "" {
		l.TitlePolicy = string(pdf.TitleSkip)
	}
}

// Validate reports the first setting that cannot be used. It expects a
// normalized config.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("config: schedule %q: %w", c.Schedule, err)
	}
	if c.Layout.MinRows > 6 {
		return fmt.Errorf("config: layout.min_rows %d exceeds 6", c.Layout.MinRows)
	}
	if _, err := layout.ParseOverflowPolicy(c.Layout.OverflowPolicy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := pdf.ParseTitlePolicy(c.Layout.TitlePolicy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	seen := make(map[string]bool)
	for i, src := range c.ICS {
		if src.ID == "" || src.URL == "" {
			return fmt.Errorf("config: ics[%d] needs both id and url", i)
		}
		if seen[src.ID] {
			return fmt.Errorf("config: duplicate ics id %q", src.ID)
		}
		seen[src.ID] = true
		switch ics.Kind(src.Kind) {
		case ics.KindEvents, ics.KindHolidays:
		default:
			return fmt.Errorf("config: ics %q: unknown kind %q", src.ID, src.Kind)
		}
	}
	if c.BasicAuth != nil && c.BasicAuth.Username == "" {
		return errors.New("config: basic_auth.username is empty")
	}
	return nil
}

// HolidaysEnabled reports whether the built-in holidays are drawn.
func (c *Config) HolidaysEnabled() bool {
	return c.Holidays.Enabled == nil || *c.Holidays.Enabled
}

// MoonPhasesEnabled reports whether moon phases are drawn.
func (c *Config) MoonPhasesEnabled() bool {
	return c.MoonPhases == nil || *c.MoonPhases
}

// PDFOptions maps the layout section onto renderer options. title is the
// already formatted heading.
func (c *Config) PDFOptions(title string) (pdf.Options, error) {
	overflow, err := layout.ParseOverflowPolicy(c.Layout.OverflowPolicy)
	if err != nil {
		return pdf.Options{}, err
	}
	titlePolicy, err := pdf.ParseTitlePolicy(c.Layout.TitlePolicy)
	if err != nil {
		return pdf.Options{}, err
	}
	return pdf.Options{
		Title:            title,
		MinRows:          c.Layout.MinRows,
		TitleFontSize:    c.Layout.TitleFontSize,
		MinTitleFontSize: c.Layout.MinTitleFontSize,
		OverflowPolicy:   overflow,
		TitlePolicy:      titlePolicy,
	}, nil
}

// Load reads the YAML config at path. A missing file is created with the
// defaults (0600) and those defaults are returned.
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
			return cfg, cfg.ExpandPaths()
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExpandPaths replaces a leading "~" in the events files, the output and
// cache directories and local ICS paths with the user's home directory.
func (c *Config) ExpandPaths() error {
	expand := func(p *string) error {
		v, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
	for i := range c.Events {
		if err := expand(&c.Events[i]); err != nil {
			return err
		}
	}
	if err := expand(&c.OutputDir); err != nil {
		return err
	}
	if err := expand(&c.CacheDir); err != nil {
		return err
	}
	for i := range c.ICS {
		if strings.Contains(c.ICS[i].URL, "://") {
			continue
		}
		if err := expand(&c.ICS[i].URL); err != nil {
			return err
		}
	}
	return nil
}

// Save writes cfg to path atomically through a temp file in the same
// directory, leaving the final file at 0600.
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

	tmp, err := os.CreateTemp(dir, ".papercal-config-*.tmp")
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

func (c *Config) Save(path string) error {
	return Save(path, c)
}
