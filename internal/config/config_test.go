package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"

	"papercal/internal/layout"
	"papercal/internal/pdf"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "papercal.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "127.0.0.1:8080" || cfg.Layout.MinRows != 5 || !cfg.HolidaysEnabled() || !cfg.MoonPhasesEnabled() {
		t.Errorf("defaults = %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, again) {
		t.Errorf("reloaded config differs:\n%+v\n%+v", cfg, again)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papercal.yaml")
	yaml := `
title: Smith Family
holidays:
  enabled: false
  disabled: [HALLOWEEN]
moon_phases: false
ics:
  - id: church
    url: https://example.com/church.ics
  - id: town
    url: ./town.ics
    kind: holidays
layout:
  overflow_policy: stack
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HolidaysEnabled() || cfg.MoonPhasesEnabled() {
		t.Error("explicit false was overridden")
	}
	if cfg.ICS[0].Kind != "events" || cfg.ICS[1].Source().Kind != "holidays" {
		t.Errorf("ics = %+v", cfg.ICS)
	}
	if cfg.Schedule != "0 6 1 * *" || cfg.Layout.TitlePolicy != "skip" {
		t.Errorf("defaults not filled: %+v", cfg)
	}

	opts, err := cfg.PDFOptions("SMITH FAMILY — MAY 2026")
	if err != nil {
		t.Fatal(err)
	}
	if opts.OverflowPolicy != layout.OverflowStack || opts.TitlePolicy != pdf.TitleSkip || opts.MinRows != 5 {
		t.Errorf("pdf options = %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad cron", func(c *Config) { c.Schedule = "every day" }, "schedule"},
		{"too many rows", func(c *Config) { c.Layout.MinRows = 7 }, "min_rows"},
		{"bad overflow", func(c *Config) { c.Layout.OverflowPolicy = "evict" }, "overflow"},
		{"bad title", func(c *Config) { c.Layout.TitlePolicy = "shrink" }, "title"},
		{"ics missing url", func(c *Config) { c.ICS = []ICSConfig{{ID: "x", Kind: "events"}} }, "id and url"},
		{"ics duplicate", func(c *Config) {
			c.ICS = []ICSConfig{{ID: "x", URL: "a", Kind: "events"}, {ID: "x", URL: "b", Kind: "events"}}
		}, "duplicate"},
		{"ics kind", func(c *Config) { c.ICS = []ICSConfig{{ID: "x", URL: "a", Kind: "tasks"}} }, "kind"},
		{"auth user", func(c *Config) { c.BasicAuth = &BasicAuthConfig{Password: "p"} }, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate = %v, want error containing %q", err, tt.want)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papercal.yaml")
	if err := os.WriteFile(path, []byte("layout: [not, a, map]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml should fail")
	}
	if _, err := Load(""); err == nil {
		t.Error("empty path should fail")
	}
	if err := Save("x.yaml", nil); err == nil {
		t.Error("nil config should fail")
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	path := filepath.Join(t.TempDir(), "papercal.yaml")
	yaml := `
events: [~/calendar/family.csv, ./local.csv]
output_dir: ~/Calendars
ics:
  - id: remote
    url: https://example.com/~owner/cal.ics
  - id: file
    url: ~/feeds/town.ics
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(home, "calendar", "family.csv"), "./local.csv"}
	if !reflect.DeepEqual(cfg.Events, want) {
		t.Errorf("events = %v, want %v", cfg.Events, want)
	}
	if cfg.OutputDir != filepath.Join(home, "Calendars") || cfg.CacheDir != "./var/ics-cache" {
		t.Errorf("dirs = %q %q", cfg.OutputDir, cfg.CacheDir)
	}
	if cfg.ICS[0].URL != "https://example.com/~owner/cal.ics" || cfg.ICS[1].URL != filepath.Join(home, "feeds", "town.ics") {
		t.Errorf("ics = %+v", cfg.ICS)
	}
}
