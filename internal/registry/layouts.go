package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/ctxlog"
)

// ValidateLayouts checks every module identifier the configuration
// references against the closed set of registered kinds plus the
// user-declared custom modules. There is no open escape hatch: a name that
// matches neither is a configuration error rather than a silently blank
// spot on the bar. Custom module names may not shadow built-in kinds.
func (r *Registry) ValidateLayouts(ctx context.Context, model *config.Model) error {
	var errs []string

	names := make([]string, 0, len(model.CustomModules))
	for name := range model.CustomModules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, exists := r.KindRegistry[name]; exists {
			errs = append(errs, fmt.Sprintf("custom_modules.%s: name collides with a built-in module kind", name))
		}
	}

	errs = append(errs, r.validateLayout("modules", model.Global.Modules, model)...)
	for i, bar := range model.Bars {
		if bar.Modules != nil {
			errs = append(errs, r.validateLayout(fmt.Sprintf("bar[%d].modules", i), *bar.Modules, model)...)
		}
	}

	if len(errs) > 0 {
		return &config.ConfigError{Reason: "module layout validation failed:\n- " + strings.Join(errs, "\n- ")}
	}

	ctxlog.FromContext(ctx).Debug("Module layouts validated.", "custom_modules", len(model.CustomModules))
	return nil
}

func (r *Registry) validateLayout(field string, layout config.ModuleLayout, model *config.Model) []string {
	var errs []string

	slots := []struct {
		name    string
		entries []config.ModuleEntry
	}{
		{"left", layout.Left},
		{"center", layout.Center},
		{"right", layout.Right},
	}
	for _, slot := range slots {
		for i, entry := range slot.entries {
			for _, id := range entry.Identifiers() {
				if _, ok := r.KindRegistry[id]; ok {
					continue
				}
				if _, ok := model.CustomModules[id]; ok {
					continue
				}
				errs = append(errs, fmt.Sprintf("%s.%s[%d]: unknown module %q", field, slot.name, i, id))
			}
		}
	}
	return errs
}
