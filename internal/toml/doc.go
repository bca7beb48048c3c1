// Package toml provides the concrete TOML implementation for the
// configuration loading and data conversion interfaces defined in the
// `config` package. It is responsible for file parsing, TOML-to-model
// translation with table-presence tracking, and the binding of raw
// settings tables to module settings structs.
package toml
