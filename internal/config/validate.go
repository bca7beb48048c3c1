package config

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate performs the structural checks that do not need the module-kind
// registry: value ranges, color shapes, enum membership, and custom module
// completeness. It collects every violation before failing so the user sees
// the full list at once.
func (m *Model) Validate() error {
	var errs []string

	switch m.Global.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log_level: must be 'debug', 'info', 'warn', or 'error', got %q", m.Global.LogLevel))
	}

	errs = append(errs, validateAppearance("appearance", m.Global.Appearance)...)
	errs = append(errs, validateLayout("modules", m.Global.Modules)...)

	for i, bar := range m.Bars {
		if bar.Appearance != nil {
			errs = append(errs, validateAppearance(fmt.Sprintf("bar[%d].appearance", i), *bar.Appearance)...)
		}
		if bar.Modules != nil {
			errs = append(errs, validateLayout(fmt.Sprintf("bar[%d].modules", i), *bar.Modules)...)
		}
	}

	for name, custom := range m.CustomModules {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, "custom_modules: module name must not be empty")
		}
		if strings.TrimSpace(custom.Command) == "" {
			errs = append(errs, fmt.Sprintf("custom_modules.%s: command is required", name))
		}
	}

	if len(errs) > 0 {
		return &ConfigError{Reason: "validation failed:\n- " + strings.Join(errs, "\n- ")}
	}
	return nil
}

func validateAppearance(field string, a Appearance) []string {
	var errs []string

	switch a.Style {
	case StyleIslands, StyleSolid, StyleGradient:
	default:
		errs = append(errs, fmt.Sprintf("%s.style: must be 'islands', 'solid', or 'gradient', got %q", field, a.Style))
	}
	if a.Opacity < 0 || a.Opacity > 1 {
		errs = append(errs, fmt.Sprintf("%s.opacity: must be within [0, 1], got %v", field, a.Opacity))
	}
	if a.Scale <= 0 || a.Scale > 3 {
		errs = append(errs, fmt.Sprintf("%s.scale: must be within (0, 3], got %v", field, a.Scale))
	}
	if a.Menu.Opacity < 0 || a.Menu.Opacity > 1 {
		errs = append(errs, fmt.Sprintf("%s.menu.opacity: must be within [0, 1], got %v", field, a.Menu.Opacity))
	}
	if a.Menu.Backdrop < 0 || a.Menu.Backdrop > 1 {
		errs = append(errs, fmt.Sprintf("%s.menu.backdrop: must be within [0, 1], got %v", field, a.Menu.Backdrop))
	}
	if a.Font.Size <= 0 {
		errs = append(errs, fmt.Sprintf("%s.font.size: must be positive, got %d", field, a.Font.Size))
	}

	colors := map[string]string{
		"palette.background": a.Palette.Background,
		"palette.primary":    a.Palette.Primary,
		"palette.secondary":  a.Palette.Secondary,
		"palette.success":    a.Palette.Success,
		"palette.danger":     a.Palette.Danger,
		"palette.text":       a.Palette.Text,
	}
	for sub, value := range colors {
		if !hexColor.MatchString(value) {
			errs = append(errs, fmt.Sprintf("%s.%s: %q is not a hex color", field, sub, value))
		}
	}

	return errs
}

func validateLayout(field string, layout ModuleLayout) []string {
	var errs []string
	slots := map[string][]ModuleEntry{
		"left":   layout.Left,
		"center": layout.Center,
		"right":  layout.Right,
	}
	for slot, entries := range slots {
		for i, entry := range entries {
			if entry.Single == "" && len(entry.Group) == 0 {
				errs = append(errs, fmt.Sprintf("%s.%s[%d]: empty module entry", field, slot, i))
				continue
			}
			if entry.Single != "" && len(entry.Group) > 0 {
				errs = append(errs, fmt.Sprintf("%s.%s[%d]: entry is both a single module and a group", field, slot, i))
				continue
			}
			for _, id := range entry.Group {
				if strings.TrimSpace(id) == "" {
					errs = append(errs, fmt.Sprintf("%s.%s[%d]: group contains an empty module identifier", field, slot, i))
				}
			}
		}
	}
	return errs
}
