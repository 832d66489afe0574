package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// Raw* types mirror the effective config with pointer fields so that a file
// only overrides the keys it actually sets.

type RawSwitcher struct {
	SwitchType         *SwitchType `yaml:"switch_type"`
	Sort               *SortMode   `yaml:"sort"`
	IgnoreWorkspaces   *bool       `yaml:"ignore_workspaces"`
	IgnoreMonitors     *bool       `yaml:"ignore_monitors"`
	VerticalWorkspaces *bool       `yaml:"vertical_workspaces"`
}

type RawFilter struct {
	SameClass                *bool     `yaml:"same_class"`
	CurrentWorkspace         *bool     `yaml:"current_workspace"`
	CurrentMonitor           *bool     `yaml:"current_monitor"`
	IncludeSpecialWorkspaces *bool     `yaml:"include_special_workspaces"`
	ExcludeClasses           *[]string `yaml:"exclude_classes"`
}

type RawLabels struct {
	MaxOffset      *int  `yaml:"max_offset"`
	AllowNegative  *bool `yaml:"allow_negative"`
	PreferPositive *bool `yaml:"prefer_positive"`
}

type RawPalette struct {
	Backend       *string `yaml:"backend"`
	FuzzyMatching *bool   `yaml:"fuzzy_matching"`
}

type RawDaemon struct {
	RefreshIntervalMS *int  `yaml:"refresh_interval_ms"`
	DebounceMS        *int  `yaml:"debounce_ms"`
	WatchConfig       *bool `yaml:"watch_config"`
}

type RawAPI struct {
	Listen *string `yaml:"listen"`
}

type RawHotkeys struct {
	Next    *string `yaml:"next"`
	Prev    *string `yaml:"prev"`
	Palette *string `yaml:"palette"`
}

type RawConfig struct {
	Include  IncludeList  `yaml:"include"`
	Backend  *string      `yaml:"backend"`
	LogLevel *string      `yaml:"log_level"`
	Switcher *RawSwitcher `yaml:"switcher"`
	Filter   *RawFilter   `yaml:"filter"`
	Labels   *RawLabels   `yaml:"labels"`
	Palette  *RawPalette  `yaml:"palette"`
	Daemon   *RawDaemon   `yaml:"daemon"`
	API      *RawAPI      `yaml:"api"`
	Hotkeys  *RawHotkeys  `yaml:"hotkeys"`
}

// merge returns c with every key set in overlay replaced.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	set(&out.Backend, overlay.Backend)
	set(&out.LogLevel, overlay.LogLevel)

	if o := overlay.Switcher; o != nil {
		s := section(&out.Switcher)
		set(&s.SwitchType, o.SwitchType)
		set(&s.Sort, o.Sort)
		set(&s.IgnoreWorkspaces, o.IgnoreWorkspaces)
		set(&s.IgnoreMonitors, o.IgnoreMonitors)
		set(&s.VerticalWorkspaces, o.VerticalWorkspaces)
	}
	if o := overlay.Filter; o != nil {
		f := section(&out.Filter)
		set(&f.SameClass, o.SameClass)
		set(&f.CurrentWorkspace, o.CurrentWorkspace)
		set(&f.CurrentMonitor, o.CurrentMonitor)
		set(&f.IncludeSpecialWorkspaces, o.IncludeSpecialWorkspaces)
		set(&f.ExcludeClasses, o.ExcludeClasses)
	}
	if o := overlay.Labels; o != nil {
		l := section(&out.Labels)
		set(&l.MaxOffset, o.MaxOffset)
		set(&l.AllowNegative, o.AllowNegative)
		set(&l.PreferPositive, o.PreferPositive)
	}
	if o := overlay.Palette; o != nil {
		p := section(&out.Palette)
		set(&p.Backend, o.Backend)
		set(&p.FuzzyMatching, o.FuzzyMatching)
	}
	if o := overlay.Daemon; o != nil {
		d := section(&out.Daemon)
		set(&d.RefreshIntervalMS, o.RefreshIntervalMS)
		set(&d.DebounceMS, o.DebounceMS)
		set(&d.WatchConfig, o.WatchConfig)
	}
	if o := overlay.API; o != nil {
		set(&section(&out.API).Listen, o.Listen)
	}
	if o := overlay.Hotkeys; o != nil {
		h := section(&out.Hotkeys)
		set(&h.Next, o.Next)
		set(&h.Prev, o.Prev)
		set(&h.Palette, o.Palette)
	}
	return out
}

// section replaces *p with a private copy (allocating one when absent) and
// returns it. Earlier layers must stay untouched.
func section[T any](p **T) *T {
	fresh := new(T)
	if *p != nil {
		*fresh = **p
	}
	*p = fresh
	return fresh
}

func set[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}
