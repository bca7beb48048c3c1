package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that all built-in modules implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredKind holds the compiled Go parts of one built-in module kind.
type RegisteredKind struct {
	// SettingsKey names the top-level settings table this kind reads.
	// Kinds that accept no settings leave NewSettings nil; the key stays
	// reserved so a stray table still gets a precise error.
	SettingsKey string

	// NewSettings returns a pointer to a fresh settings struct pre-filled
	// with the kind's defaults. Nil for kinds without settings.
	NewSettings func() any
}

// Registry holds the registered module kinds for a single application
// instance.
type Registry struct {
	KindRegistry map[string]*RegisteredKind
	settingsKeys map[string]string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		KindRegistry: make(map[string]*RegisteredKind),
		settingsKeys: make(map[string]string),
	}
}

// RegisterKind registers a module kind under its layout identifier.
func (r *Registry) RegisterKind(identifier string, kind *RegisteredKind) {
	if _, exists := r.KindRegistry[identifier]; exists {
		panic(fmt.Sprintf("module kind with identifier '%s' already registered", identifier))
	}
	if kind.SettingsKey != "" {
		if owner, exists := r.settingsKeys[kind.SettingsKey]; exists {
			panic(fmt.Sprintf("settings table '%s' already claimed by module kind '%s'", kind.SettingsKey, owner))
		}
		r.settingsKeys[kind.SettingsKey] = identifier
	}
	slog.Debug("Registering module kind.", "identifier", identifier)
	r.KindRegistry[identifier] = kind
}

// Kind retrieves a registered kind by its layout identifier.
func (r *Registry) Kind(identifier string) (*RegisteredKind, bool) {
	kind, ok := r.KindRegistry[identifier]
	return kind, ok
}

// Identifiers returns every registered layout identifier in sorted order.
func (r *Registry) Identifiers() []string {
	out := make([]string, 0, len(r.KindRegistry))
	for identifier := range r.KindRegistry {
		out = append(out, identifier)
	}
	sort.Strings(out)
	return out
}

// KindForSettingsKey resolves a settings table name to the identifier of
// the kind that claims it.
func (r *Registry) KindForSettingsKey(key string) (string, bool) {
	identifier, ok := r.settingsKeys[key]
	return identifier, ok
}
