package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/ctxlog"
)

// validatable is implemented by settings structs with value domains the
// decoder cannot enforce, such as string enums.
type validatable interface {
	Validate() error
}

// DecodeSettings binds every module settings table in the model through the
// format converter and returns the populated settings structs keyed by kind
// identifier. Kinds without a table keep their compiled-in defaults. A
// table that no kind claims, or that belongs to a kind which accepts no
// settings, is a configuration error, as is a decoded value outside its
// domain.
func (r *Registry) DecodeSettings(ctx context.Context, conv config.Converter, model *config.Model) (map[string]any, error) {
	var errs []string

	tables := make([]string, 0, len(model.ModuleSettings))
	for key := range model.ModuleSettings {
		tables = append(tables, key)
	}
	sort.Strings(tables)
	for _, key := range tables {
		identifier, ok := r.settingsKeys[key]
		if !ok {
			errs = append(errs, fmt.Sprintf("[%s]: no module kind accepts this settings table", key))
			continue
		}
		if r.KindRegistry[identifier].NewSettings == nil {
			errs = append(errs, fmt.Sprintf("[%s]: module kind '%s' accepts no settings", key, identifier))
		}
	}
	if len(errs) > 0 {
		return nil, &config.ConfigError{Reason: "module settings validation failed:\n- " + strings.Join(errs, "\n- ")}
	}

	out := make(map[string]any, len(r.KindRegistry))
	for _, identifier := range r.Identifiers() {
		kind := r.KindRegistry[identifier]
		if kind.NewSettings == nil {
			continue
		}
		settings := kind.NewSettings()
		if err := conv.DecodeSettings(ctx, kind.SettingsKey, settings); err != nil {
			return nil, err
		}
		if v, ok := settings.(validatable); ok {
			if err := v.Validate(); err != nil {
				return nil, &config.ConfigError{Field: kind.SettingsKey, Err: err}
			}
		}
		out[identifier] = settings
	}

	ctxlog.FromContext(ctx).Debug("Module settings bound.", "kinds", len(out), "tables", len(model.ModuleSettings))
	return out, nil
}
