package config

// DefaultYAML is the commented starter file written by `hyprcycle config init`.
const DefaultYAML = `# hyprcycle configuration
#
# Files listed under include are merged first; keys in this file win.
# include:
#   - config.d

backend: auto        # auto, hyprland, x11
log_level: info      # debug, info, warn, error

switcher:
  switch_type: client      # client or workspace
  sort: position           # position (reading order) or recent
  ignore_workspaces: false # one group per monitor
  ignore_monitors: false   # pair workspaces across monitors by rank
  vertical_workspaces: false

filter:
  same_class: false
  current_workspace: false
  current_monitor: false
  include_special_workspaces: true
  exclude_classes: []

labels:
  max_offset: 9        # 0 disables jump labels
  allow_negative: true
  prefer_positive: true

palette:
  backend: auto        # auto, rofi, fuzzel, wofi, dmenu
  fuzzy_matching: false

daemon:
  refresh_interval_ms: 5000
  debounce_ms: 50
  watch_config: true

api:
  listen: ""           # e.g. 127.0.0.1:7878; empty disables

hotkeys:               # X11 only
  next: Mod1-Tab
  prev: Mod1-Shift-Tab
  palette: Mod4-w
`
