package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/hyprcycle/internal/order"
)

// SwitchType selects what the switcher cycles through.
type SwitchType string

const (
	SwitchClient    SwitchType = "client"    // Windows.
	SwitchWorkspace SwitchType = "workspace" // Workspaces, in frame order.
)

// SortMode selects how windows are ordered.
type SortMode string

const (
	SortPosition SortMode = "position" // Reading order of window geometry.
	SortRecent   SortMode = "recent"   // Most recently focused first.
)

// SwitcherConfig controls ordering and grouping.
type SwitcherConfig struct {
	SwitchType SwitchType `yaml:"switch_type"`
	Sort       SortMode   `yaml:"sort"`
	// IgnoreWorkspaces merges all workspaces of a monitor into one group.
	IgnoreWorkspaces bool `yaml:"ignore_workspaces"`
	// IgnoreMonitors pairs workspaces across monitors by rank.
	IgnoreMonitors bool `yaml:"ignore_monitors"`
	// VerticalWorkspaces stacks workspace frames instead of placing them side by side.
	VerticalWorkspaces bool `yaml:"vertical_workspaces"`
}

// GroupMode converts the switcher flags into an order.GroupMode.
func (s SwitcherConfig) GroupMode() order.GroupMode {
	return order.GroupMode{
		CollapseWorkspaces: s.IgnoreWorkspaces,
		CollapseMonitors:   s.IgnoreMonitors,
	}
}

// FilterConfig decides which windows take part in cycling.
type FilterConfig struct {
	SameClass                bool     `yaml:"same_class"`
	CurrentWorkspace         bool     `yaml:"current_workspace"`
	CurrentMonitor           bool     `yaml:"current_monitor"`
	IncludeSpecialWorkspaces bool     `yaml:"include_special_workspaces"`
	ExcludeClasses           []string `yaml:"exclude_classes"`
}

// LabelConfig controls jump labels.
type LabelConfig struct {
	MaxOffset      int  `yaml:"max_offset"` // 0 disables labels
	AllowNegative  bool `yaml:"allow_negative"`
	PreferPositive bool `yaml:"prefer_positive"`
}

// Options converts the label settings into order.LabelOptions.
func (l LabelConfig) Options() order.LabelOptions {
	return order.LabelOptions{
		MaxOffset:      uint8(l.MaxOffset),
		AllowNegative:  l.AllowNegative,
		PreferPositive: l.PreferPositive,
	}
}

// PaletteConfig configures the external menu.
type PaletteConfig struct {
	Backend       string `yaml:"backend"`
	FuzzyMatching bool   `yaml:"fuzzy_matching"`
}

// DaemonConfig configures the background service.
type DaemonConfig struct {
	RefreshIntervalMS int  `yaml:"refresh_interval_ms"`
	DebounceMS        int  `yaml:"debounce_ms"`
	WatchConfig       bool `yaml:"watch_config"`
}

// RefreshInterval returns the periodic refresh interval.
func (d DaemonConfig) RefreshInterval() time.Duration {
	return time.Duration(d.RefreshIntervalMS) * time.Millisecond
}

// Debounce returns how long event bursts are coalesced.
func (d DaemonConfig) Debounce() time.Duration {
	return time.Duration(d.DebounceMS) * time.Millisecond
}

// APIConfig configures the optional HTTP server.
type APIConfig struct {
	Listen string `yaml:"listen"` // empty disables the server
}

// HotkeyConfig holds X11 keybindings. Hyprland users bind the CLI instead.
type HotkeyConfig struct {
	Next    string `yaml:"next"`
	Prev    string `yaml:"prev"`
	Palette string `yaml:"palette"`
}

// Config is the effective configuration.
type Config struct {
	Backend  string         `yaml:"backend"`
	LogLevel string         `yaml:"log_level"`
	Switcher SwitcherConfig `yaml:"switcher"`
	Filter   FilterConfig   `yaml:"filter"`
	Labels   LabelConfig    `yaml:"labels"`
	Palette  PaletteConfig  `yaml:"palette"`
	Daemon   DaemonConfig   `yaml:"daemon"`
	API      APIConfig      `yaml:"api"`
	Hotkeys  HotkeyConfig   `yaml:"hotkeys"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:  "auto",
		LogLevel: "info",
		Switcher: SwitcherConfig{
			SwitchType: SwitchClient,
			Sort:       SortPosition,
		},
		Filter: FilterConfig{
			IncludeSpecialWorkspaces: true,
			ExcludeClasses:           []string{},
		},
		Labels: LabelConfig{
			MaxOffset:      9,
			AllowNegative:  true,
			PreferPositive: true,
		},
		Palette: PaletteConfig{
			Backend: "auto",
		},
		Daemon: DaemonConfig{
			RefreshIntervalMS: 5000,
			DebounceMS:        50,
			WatchConfig:       true,
		},
		Hotkeys: HotkeyConfig{
			Next:    "Mod1-Tab",
			Prev:    "Mod1-Shift-Tab",
			Palette: "Mod4-w",
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Filter.ExcludeClasses = append([]string{}, c.Filter.ExcludeClasses...)
	return &out
}

// IsExcluded reports whether windows of class are never cycled.
func (c *Config) IsExcluded(class string) bool {
	for _, ex := range c.Filter.ExcludeClasses {
		if strings.EqualFold(ex, class) {
			return true
		}
	}
	return false
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case "auto", "hyprland", "x11":
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, hyprland, x11")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	switch c.Switcher.SwitchType {
	case SwitchClient, SwitchWorkspace:
	default:
		return &ValidationError{Path: "switcher.switch_type", Err: fmt.Errorf("switch_type must be one of: client, workspace")}
	}
	switch c.Switcher.Sort {
	case SortPosition, SortRecent:
	default:
		return &ValidationError{Path: "switcher.sort", Err: fmt.Errorf("sort must be one of: position, recent")}
	}
	if err := c.Switcher.GroupMode().Validate(); err != nil {
		return &ValidationError{Path: "switcher.ignore_monitors", Err: err}
	}
	if c.Labels.MaxOffset < 0 || c.Labels.MaxOffset > 255 {
		return &ValidationError{Path: "labels.max_offset", Err: fmt.Errorf("max_offset must be between 0 and 255")}
	}
	switch c.Palette.Backend {
	case "auto", "rofi", "fuzzel", "dmenu", "wofi":
	default:
		return &ValidationError{Path: "palette.backend", Err: fmt.Errorf("palette backend must be one of: auto, rofi, fuzzel, dmenu, wofi")}
	}
	if c.Daemon.RefreshIntervalMS < 0 {
		return &ValidationError{Path: "daemon.refresh_interval_ms", Err: fmt.Errorf("refresh_interval_ms must be >= 0")}
	}
	if c.Daemon.DebounceMS < 0 {
		return &ValidationError{Path: "daemon.debounce_ms", Err: fmt.Errorf("debounce_ms must be >= 0")}
	}
	for i, class := range c.Filter.ExcludeClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "filter.exclude_classes", Err: fmt.Errorf("entry %d is empty", i)}
		}
	}
	return nil
}
