// Package config defines the format-agnostic configuration model for the
// application, along with the core interfaces (Loader, Converter) for
// loading and interpreting configuration from various sources.
//
// The `config.Model` is the single source of truth for the `engine` and
// `registry` packages: global defaults, declared bar definitions, module
// settings tables, and custom module declarations. The package also owns
// the bar definition merger, which turns the model into fully resolved
// per-bar specifications. Concrete implementations of the interfaces, such
// as for TOML, are provided in separate packages.
package config
