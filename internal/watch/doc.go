// Package watch delivers debounced change notifications for the
// configuration file, driving hot reload without any polling.
package watch
