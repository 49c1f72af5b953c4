package config

import (
	"fmt"
	"strings"
	"unicode"
)

var knownActions = map[string]bool{
	ActionCapture:       true,
	ActionToggle:        true,
	ActionToggleTopmost: true,
	ActionHistoryPrev:   true,
	ActionHistoryNext:   true,
}

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// ValidationResult separates errors that must stop startup from ones
// that were auto-corrected.
type ValidationResult struct {
	Fatals   []error
	Warnings []error
}

func (r *ValidationResult) HasFatals() bool {
	return len(r.Fatals) > 0
}

func (r *ValidationResult) fatal(format string, args ...any) {
	r.Fatals = append(r.Fatals, fmt.Errorf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Errorf(format, args...))
}

// ValidateTiered checks the config, clamping recoverable values to safe
// defaults (reported as warnings) and reporting unusable values as fatals.
func (c *Config) ValidateTiered() *ValidationResult {
	r := &ValidationResult{}

	for action, binding := range c.Hotkeys {
		if !knownActions[strings.ToLower(action)] {
			r.warn("unknown hotkey action %q", action)
		}
		if strings.TrimSpace(binding) == "" {
			r.fatal("hotkey action %q has an empty binding", action)
		}
	}

	// A binding can only fire one action.
	seen := map[string]string{}
	for action, binding := range c.Hotkeys {
		key := normalizeBinding(binding)
		if key == "" {
			continue
		}
		if prev, dup := seen[key]; dup {
			r.fatal("binding %q is assigned to both %q and %q", binding, prev, action)
		}
		seen[key] = action
	}
	for binding, title := range c.WindowHotkeys {
		key := normalizeBinding(binding)
		if prev, dup := seen[key]; dup {
			r.fatal("window binding %q for %q collides with action %q", binding, title, prev)
		}
		seen[key] = "window:" + title
	}

	for _, r2 := range c.PipeName {
		if unicode.IsControl(r2) {
			r.fatal("pipe_name contains control characters")
			break
		}
	}
	if c.PipeName == "" || !strings.HasPrefix(c.PipeName, `\\.\pipe\`) {
		r.warn(`pipe_name %q is not a named pipe path, using default`, c.PipeName)
		c.PipeName = Default().PipeName
	}

	switch c.JumpMode {
	case JumpModeSwitch, JumpModePull:
	default:
		r.warn("jump_mode %q is not valid (use switch or pull), using switch", c.JumpMode)
		c.JumpMode = JumpModeSwitch
	}

	if c.ScanIntervalSeconds < 1 {
		r.warn("scan_interval_seconds %d is below minimum 1, clamping", c.ScanIntervalSeconds)
		c.ScanIntervalSeconds = 1
	} else if c.ScanIntervalSeconds > 300 {
		r.warn("scan_interval_seconds %d exceeds maximum 300, clamping", c.ScanIntervalSeconds)
		c.ScanIntervalSeconds = 300
	}

	if c.ScanWorkers < 1 {
		r.warn("scan_workers %d is below minimum 1, clamping", c.ScanWorkers)
		c.ScanWorkers = 1
	} else if c.ScanWorkers > 32 {
		r.warn("scan_workers %d exceeds maximum 32, clamping", c.ScanWorkers)
		c.ScanWorkers = 32
	}

	if c.HistoryDepth < 2 {
		r.warn("history_depth %d is below minimum 2, clamping", c.HistoryDepth)
		c.HistoryDepth = 2
	} else if c.HistoryDepth > 500 {
		r.warn("history_depth %d exceeds maximum 500, clamping", c.HistoryDepth)
		c.HistoryDepth = 500
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		r.warn("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel)
		c.LogLevel = "info"
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		r.warn("log_format %q is not valid (use text or json)", c.LogFormat)
		c.LogFormat = "text"
	}

	return r
}

// normalizeBinding canonicalizes a binding string for duplicate detection:
// lowercase, trimmed tokens, modifiers sorted by a fixed order.
func normalizeBinding(binding string) string {
	parts := strings.Split(strings.ToLower(binding), "+")
	mods := make([]string, 0, len(parts))
	key := ""
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "ctrl", "control":
			mods = append(mods, "ctrl")
		case "shift":
			mods = append(mods, "shift")
		case "alt":
			mods = append(mods, "alt")
		case "win", "super":
			mods = append(mods, "win")
		default:
			key = p
		}
	}
	if key == "" {
		return ""
	}
	ordered := make([]string, 0, len(mods)+1)
	for _, m := range []string{"ctrl", "shift", "alt", "win"} {
		for _, have := range mods {
			if have == m {
				ordered = append(ordered, m)
				break
			}
		}
	}
	ordered = append(ordered, key)
	return strings.Join(ordered, "+")
}
