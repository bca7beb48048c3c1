// Package registry provides the central glue for the module system.
//
// The Registry stores the mapping between the module identifiers used in
// layout slots (e.g. "Workspaces") and the compiled Go settings types that
// implement them. During application startup the registry is populated by
// the built-in module packages and then validated, so a configuration can
// be checked against the full closed set of kinds (plus the user's own
// custom modules) before any bar is created.
package registry
