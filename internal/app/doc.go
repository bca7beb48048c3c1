// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle: configuration
// loading, registry validation, engine assembly, hot reload, and the status
// endpoint, decoupled from any specific entrypoint like a CLI.
package app
