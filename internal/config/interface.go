package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given path, translates it into the
	// format-agnostic model, and returns a matching Converter. A missing
	// file is not an error: the loader returns the fully-defaulted model.
	Load(ctx context.Context, path string) (*Model, Converter, error)
}

// Converter is the interface for format-specific data binding. It bridges
// the raw per-module settings tables and the Go settings structs the module
// packages register.
type Converter interface {
	// DecodeSettings decodes the settings table stored under key into
	// target, which must be a struct pointer carrying the module's
	// defaults. A table that is absent leaves the defaults untouched; an
	// unknown key inside a present table is an error.
	DecodeSettings(ctx context.Context, key string, target any) error
}
