package config

// Model is the unified, format-agnostic representation of the entire
// application configuration: the global defaults, every declared bar, the
// per-module settings tables, and user-declared custom modules.
type Model struct {
	Global         GlobalConfig
	Bars           []BarDefinition
	ModuleSettings map[string]map[string]any
	CustomModules  map[string]CustomModule
}

// GlobalConfig holds the top-level settings that apply to every bar unless
// a bar definition overrides them. It is immutable once loaded; a reload
// replaces the whole value, never individual fields.
type GlobalConfig struct {
	LogLevel     string
	Outputs      OutputSelector
	Position     Position
	Modules      ModuleLayout
	Appearance   Appearance
	EnableEscKey bool
}

// BarDefinition is one `[[bar]]` entry. Appearance and Modules are pointers
// because table presence is meaningful: a present table replaces the global
// one entirely, an absent table inherits it entirely. Position is a pointer
// because it is mandatory in multi-bar configurations and its absence must
// be detectable as an error rather than defaulted away. Outputs never
// appears here; output selection is global-only.
type BarDefinition struct {
	Position   *Position
	Appearance *Appearance
	Modules    *ModuleLayout
}

// ResolvedBarSpec is the merged, fully-populated description of one bar.
// Index is the declaration index of the source definition (0 for the
// implicit bar); Fingerprint is a stable hash of the definition's own
// content, so identity survives reloads that only touch unrelated globals.
type ResolvedBarSpec struct {
	Index       int
	Fingerprint string
	Position    Position
	Appearance  Appearance
	Modules     ModuleLayout
}

// Position anchors a bar to a screen edge.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// SelectorKind discriminates the OutputSelector variants.
type SelectorKind string

const (
	SelectAll     SelectorKind = "all"
	SelectActive  SelectorKind = "active"
	SelectTargets SelectorKind = "targets"
)

// OutputSelector describes which monitors bars should appear on. Targets is
// populated only when Kind is SelectTargets.
type OutputSelector struct {
	Kind    SelectorKind
	Targets []string
}

// ModuleLayout assigns module entries to the three bar slots.
type ModuleLayout struct {
	Left   []ModuleEntry
	Center []ModuleEntry
	Right  []ModuleEntry
}

// ModuleEntry is either a single module identifier or a group of
// identifiers rendered as one visual unit. Exactly one of the two fields is
// set; the loader guarantees the invariant.
type ModuleEntry struct {
	Single string
	Group  []string
}

// Identifiers returns the module identifiers the entry references, in order.
func (e ModuleEntry) Identifiers() []string {
	if e.Single != "" {
		return []string{e.Single}
	}
	return e.Group
}

// BarStyle selects the overall look of a bar.
type BarStyle string

const (
	StyleIslands  BarStyle = "islands"
	StyleSolid    BarStyle = "solid"
	StyleGradient BarStyle = "gradient"
)

// Appearance is the visual configuration of a bar. It is merged as a single
// unit: a bar either inherits the whole global appearance or replaces it.
type Appearance struct {
	Style   BarStyle
	Opacity float64
	Scale   float64
	Menu    MenuAppearance
	Font    FontAppearance
	Palette Palette
}

// MenuAppearance styles the menus a bar opens.
type MenuAppearance struct {
	Opacity  float64
	Backdrop float64
}

// FontAppearance selects the bar font. An empty Family means the renderer's
// default.
type FontAppearance struct {
	Family string
	Size   int
}

// Palette holds the named colors as hex strings.
type Palette struct {
	Background string
	Primary    string
	Secondary  string
	Success    string
	Danger     string
	Text       string
}

// CustomModule is a user-declared module: a command producing the module's
// text, an optional icon, and an optional long-running listen command whose
// output streams updates.
type CustomModule struct {
	Command       string
	Icon          string
	ListenCommand string
}

// DefaultGlobal returns the GlobalConfig used when the configuration file
// is absent, and the base every loaded configuration is layered onto.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		LogLevel:     "warn",
		Outputs:      OutputSelector{Kind: SelectAll},
		Position:     PositionTop,
		Modules:      DefaultLayout(),
		Appearance:   DefaultAppearance(),
		EnableEscKey: false,
	}
}

// DefaultLayout is the module arrangement used when `[modules]` is absent.
func DefaultLayout() ModuleLayout {
	return ModuleLayout{
		Left:   []ModuleEntry{{Single: "Workspaces"}},
		Center: []ModuleEntry{{Single: "WindowTitle"}},
		Right:  []ModuleEntry{{Group: []string{"Clock", "Privacy", "Settings"}}},
	}
}

// DefaultAppearance returns the stock dark theme.
func DefaultAppearance() Appearance {
	return Appearance{
		Style:   StyleIslands,
		Opacity: 1.0,
		Scale:   1.0,
		Menu:    MenuAppearance{Opacity: 1.0, Backdrop: 0.0},
		Font:    FontAppearance{Family: "", Size: 12},
		Palette: Palette{
			Background: "#1e1e2e",
			Primary:    "#fab387",
			Secondary:  "#11111b",
			Success:    "#a6e3a1",
			Danger:     "#f38ba8",
			Text:       "#cdd6f4",
		},
	}
}

// DefaultModel returns a Model equivalent to an empty configuration file.
func DefaultModel() *Model {
	return &Model{
		Global:         DefaultGlobal(),
		Bars:           nil,
		ModuleSettings: map[string]map[string]any{},
		CustomModules:  map[string]CustomModule{},
	}
}

// UsesActiveSelector reports whether the configuration selects the focused
// monitor, which makes focus changes a reconciliation trigger.
func (m *Model) UsesActiveSelector() bool {
	return m.Global.Outputs.Kind == SelectActive
}
