package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	apply(&cfg.Backend, raw.Backend)
	apply(&cfg.LogLevel, raw.LogLevel)
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	if s := raw.Switcher; s != nil {
		apply(&cfg.Switcher.SwitchType, s.SwitchType)
		apply(&cfg.Switcher.Sort, s.Sort)
		apply(&cfg.Switcher.IgnoreWorkspaces, s.IgnoreWorkspaces)
		apply(&cfg.Switcher.IgnoreMonitors, s.IgnoreMonitors)
		apply(&cfg.Switcher.VerticalWorkspaces, s.VerticalWorkspaces)
	}

	if f := raw.Filter; f != nil {
		apply(&cfg.Filter.SameClass, f.SameClass)
		apply(&cfg.Filter.CurrentWorkspace, f.CurrentWorkspace)
		apply(&cfg.Filter.CurrentMonitor, f.CurrentMonitor)
		apply(&cfg.Filter.IncludeSpecialWorkspaces, f.IncludeSpecialWorkspaces)
		if f.ExcludeClasses != nil {
			classes := make([]string, 0, len(*f.ExcludeClasses))
			for _, class := range *f.ExcludeClasses {
				classes = append(classes, strings.TrimSpace(class))
			}
			cfg.Filter.ExcludeClasses = classes
		}
	}

	if l := raw.Labels; l != nil {
		apply(&cfg.Labels.MaxOffset, l.MaxOffset)
		apply(&cfg.Labels.AllowNegative, l.AllowNegative)
		apply(&cfg.Labels.PreferPositive, l.PreferPositive)
	}

	if p := raw.Palette; p != nil {
		apply(&cfg.Palette.Backend, p.Backend)
		apply(&cfg.Palette.FuzzyMatching, p.FuzzyMatching)
	}

	if d := raw.Daemon; d != nil {
		apply(&cfg.Daemon.RefreshIntervalMS, d.RefreshIntervalMS)
		apply(&cfg.Daemon.DebounceMS, d.DebounceMS)
		apply(&cfg.Daemon.WatchConfig, d.WatchConfig)
	}

	if a := raw.API; a != nil {
		apply(&cfg.API.Listen, a.Listen)
	}

	if h := raw.Hotkeys; h != nil {
		apply(&cfg.Hotkeys.Next, h.Next)
		apply(&cfg.Hotkeys.Prev, h.Prev)
		apply(&cfg.Hotkeys.Palette, h.Palette)
	}

	return cfg
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
