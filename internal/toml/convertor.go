package toml

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/ctxlog"
)

// Converter is the TOML-specific implementation of the config.Converter
// interface. It binds the raw settings tables collected at load time to the
// settings structs the module packages register.
type Converter struct {
	settings map[string]map[string]any
}

// NewConverter creates a converter over the given settings tables.
func NewConverter(settings map[string]map[string]any) *Converter {
	return &Converter{settings: settings}
}

// DecodeSettings binds the table stored under key into target, a struct
// pointer pre-filled with the module's defaults. An absent table leaves the
// defaults untouched; an unknown key inside a present table is an error, a
// misspelled setting must not silently fall back to its default.
func (c *Converter) DecodeSettings(ctx context.Context, key string, target any) error {
	table, ok := c.settings[key]
	if !ok {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Binding module settings table.", "table", key)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building settings decoder for %q: %w", key, err)
	}
	if err := decoder.Decode(table); err != nil {
		return &config.ConfigError{Field: key, Reason: "invalid module settings", Err: err}
	}
	return nil
}
