package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/hyprcycle/internal/config"
)

// settingsForm edits the switcher and label sections of the config.
type settingsForm struct {
	form *huh.Form

	// Form-bound values (strings for huh inputs, converted on submit)
	fSwitchType       string
	fSort             string
	fGrouping         string
	fVertical         bool
	fMaxOffset        string
	fAllowNegative    bool
	fPreferPositive   bool
	fIncludeSpecial   bool
	fCurrentWorkspace bool
}

const (
	groupPerWorkspace = "per-workspace"
	groupPerMonitor   = "per-monitor"
	groupRank         = "per-workspace-rank"
)

func newSettingsForm(cfg *config.Config, width int) *settingsForm {
	s := &settingsForm{
		fSwitchType:       string(cfg.Switcher.SwitchType),
		fSort:             string(cfg.Switcher.Sort),
		fGrouping:         cfg.Switcher.GroupMode().String(),
		fVertical:         cfg.Switcher.VerticalWorkspaces,
		fMaxOffset:        strconv.Itoa(cfg.Labels.MaxOffset),
		fAllowNegative:    cfg.Labels.AllowNegative,
		fPreferPositive:   cfg.Labels.PreferPositive,
		fIncludeSpecial:   cfg.Filter.IncludeSpecialWorkspaces,
		fCurrentWorkspace: cfg.Filter.CurrentWorkspace,
	}

	w := width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("switch_type").
				Title("Switch Type").
				Description("Cycle through windows or workspaces").
				Options(huh.NewOption("client", "client"), huh.NewOption("workspace", "workspace")).
				Value(&s.fSwitchType),
			huh.NewSelect[string]().
				Key("sort").
				Title("Sort").
				Description("Reading order or most recently used").
				Options(huh.NewOption("position", "position"), huh.NewOption("recent", "recent")).
				Value(&s.fSort),
			huh.NewSelect[string]().
				Key("grouping").
				Title("Grouping").
				Description("How windows are partitioned before sorting").
				Options(
					huh.NewOption("one group per workspace", groupPerWorkspace),
					huh.NewOption("one group per monitor", groupPerMonitor),
					huh.NewOption("pair workspaces across monitors", groupRank),
				).
				Value(&s.fGrouping),
			huh.NewConfirm().
				Key("vertical").
				Title("Vertical Workspaces").
				Value(&s.fVertical),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("max_offset").
				Title("Max Offset").
				Description("Largest jump label, 0 disables labels").
				Validate(validateOffset).
				Value(&s.fMaxOffset),
			huh.NewConfirm().
				Key("allow_negative").
				Title("Allow Negative Labels").
				Value(&s.fAllowNegative),
			huh.NewConfirm().
				Key("prefer_positive").
				Title("Prefer Positive Labels").
				Value(&s.fPreferPositive),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("include_special").
				Title("Include Special Workspaces").
				Value(&s.fIncludeSpecial),
			huh.NewConfirm().
				Key("current_workspace").
				Title("Current Workspace Only").
				Value(&s.fCurrentWorkspace),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	return s
}

func validateOffset(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("enter a number from 0 to 255")
	}
	return nil
}

func (s *settingsForm) Init() tea.Cmd { return s.form.Init() }

func (s *settingsForm) Update(msg tea.Msg) tea.Cmd {
	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	return cmd
}

func (s *settingsForm) Done() bool    { return s.form.State == huh.StateCompleted }
func (s *settingsForm) Aborted() bool { return s.form.State == huh.StateAborted }
func (s *settingsForm) View() string  { return s.form.View() }

// apply returns a copy of cfg with the form values written into it.
func (s *settingsForm) apply(cfg *config.Config) (*config.Config, error) {
	out := cfg.Clone()
	out.Switcher.SwitchType = config.SwitchType(s.fSwitchType)
	out.Switcher.Sort = config.SortMode(s.fSort)
	out.Switcher.IgnoreWorkspaces = s.fGrouping == groupPerMonitor
	out.Switcher.IgnoreMonitors = s.fGrouping == groupRank
	out.Switcher.VerticalWorkspaces = s.fVertical
	out.Filter.IncludeSpecialWorkspaces = s.fIncludeSpecial
	out.Filter.CurrentWorkspace = s.fCurrentWorkspace
	out.Labels.AllowNegative = s.fAllowNegative
	out.Labels.PreferPositive = s.fPreferPositive

	n, err := strconv.Atoi(s.fMaxOffset)
	if err != nil {
		return nil, fmt.Errorf("max offset: %w", err)
	}
	out.Labels.MaxOffset = n

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
