package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/barshell/internal/ctxlog"
)

// ValidateRegistry performs a strict startup sanity check over the
// registered kinds: every settings constructor must be reachable through a
// settings table name and must produce a non-nil struct pointer. A failure
// here is a programming error in a module package, not a user mistake.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string

	for _, identifier := range r.Identifiers() {
		kind := r.KindRegistry[identifier]
		if kind.NewSettings == nil {
			continue
		}
		if kind.SettingsKey == "" {
			errs = append(errs, fmt.Sprintf("module kind '%s': has a settings struct but no settings table name", identifier))
			continue
		}
		settings := kind.NewSettings()
		if settings == nil {
			errs = append(errs, fmt.Sprintf("module kind '%s': NewSettings returned nil", identifier))
			continue
		}
		t := reflect.TypeOf(settings)
		if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("module kind '%s': NewSettings must return a struct pointer, got %s", identifier, t))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	ctxlog.FromContext(ctx).Debug("Registry validated.", "kinds", len(r.KindRegistry))
	return nil
}
