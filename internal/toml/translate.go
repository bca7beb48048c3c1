package toml

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vk/barshell/internal/config"
)

// rawAppearance mirrors an `[appearance]` table. Every field is a pointer
// because absent values fall back to the stock defaults; the table itself
// is merged as one unit at the bar level, never field by field against the
// global table.
type rawAppearance struct {
	Style   *string     `toml:"style"`
	Opacity *float64    `toml:"opacity"`
	Scale   *float64    `toml:"scale"`
	Menu    *rawMenu    `toml:"menu"`
	Font    *rawFont    `toml:"font"`
	Palette *rawPalette `toml:"palette"`
}

type rawMenu struct {
	Opacity  *float64 `toml:"opacity"`
	Backdrop *float64 `toml:"backdrop"`
}

type rawFont struct {
	Family *string `toml:"family"`
	Size   *int    `toml:"size"`
}

type rawPalette struct {
	Background *string `toml:"background"`
	Primary    *string `toml:"primary"`
	Secondary  *string `toml:"secondary"`
	Success    *string `toml:"success"`
	Danger     *string `toml:"danger"`
	Text       *string `toml:"text"`
}

// rawLayout mirrors a `[modules]` table. Slot entries stay primitives
// because each one is either a bare module name or a group array.
type rawLayout struct {
	Left   []toml.Primitive `toml:"left"`
	Center []toml.Primitive `toml:"center"`
	Right  []toml.Primitive `toml:"right"`
}

// rawCustomModule mirrors one `[custom_modules.<name>]` table.
type rawCustomModule struct {
	Command       string `toml:"command"`
	Icon          string `toml:"icon"`
	ListenCommand string `toml:"listen_command"`
}

// translate walks the decoded top-level keys and builds the agnostic model
// on top of the built-in defaults. Recognized keys get strict typed
// decoding; every remaining table is collected verbatim as a module
// settings table for later binding.
func (l *Loader) translate(md toml.MetaData, raw map[string]toml.Primitive) (*config.Model, error) {
	model := config.DefaultModel()

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prim := raw[key]
		switch key {
		case "log_level":
			if err := md.PrimitiveDecode(prim, &model.Global.LogLevel); err != nil {
				return nil, &config.ConfigError{Field: "log_level", Reason: "must be a string", Err: err}
			}

		case "position":
			var s string
			if err := md.PrimitiveDecode(prim, &s); err != nil {
				return nil, &config.ConfigError{Field: "position", Reason: "must be a string", Err: err}
			}
			pos, err := parsePosition("position", s)
			if err != nil {
				return nil, err
			}
			model.Global.Position = pos

		case "enable_esc_key":
			if err := md.PrimitiveDecode(prim, &model.Global.EnableEscKey); err != nil {
				return nil, &config.ConfigError{Field: "enable_esc_key", Reason: "must be a boolean", Err: err}
			}

		case "outputs":
			sel, err := l.translateOutputs(md, prim)
			if err != nil {
				return nil, err
			}
			model.Global.Outputs = sel

		case "appearance":
			var rawApp rawAppearance
			if err := md.PrimitiveDecode(prim, &rawApp); err != nil {
				return nil, &config.ConfigError{Field: "appearance", Reason: "must be a table", Err: err}
			}
			model.Global.Appearance = overlayAppearance(config.DefaultAppearance(), rawApp)

		case "modules":
			var rawLay rawLayout
			if err := md.PrimitiveDecode(prim, &rawLay); err != nil {
				return nil, &config.ConfigError{Field: "modules", Reason: "must be a table of slot arrays", Err: err}
			}
			layout, err := l.translateLayout(md, "modules", rawLay)
			if err != nil {
				return nil, err
			}
			model.Global.Modules = layout

		case "bar":
			var rawBars []map[string]toml.Primitive
			if err := md.PrimitiveDecode(prim, &rawBars); err != nil {
				return nil, &config.ConfigError{Field: "bar", Reason: "must be an array of tables", Err: err}
			}
			for i, rawBar := range rawBars {
				def, err := l.translateBar(md, i, rawBar)
				if err != nil {
					return nil, err
				}
				model.Bars = append(model.Bars, def)
			}

		case "custom_modules":
			var rawCustom map[string]rawCustomModule
			if err := md.PrimitiveDecode(prim, &rawCustom); err != nil {
				return nil, &config.ConfigError{Field: "custom_modules", Reason: "must be a table of module tables", Err: err}
			}
			for name, rawMod := range rawCustom {
				model.CustomModules[name] = config.CustomModule{
					Command:       rawMod.Command,
					Icon:          rawMod.Icon,
					ListenCommand: rawMod.ListenCommand,
				}
			}

		default:
			// Any other table is a module settings table, bound later
			// through the Converter. A non-table key is a typo.
			var table map[string]any
			if err := md.PrimitiveDecode(prim, &table); err != nil {
				return nil, &config.ConfigError{Field: key, Reason: "unrecognized key; module settings are declared as tables", Err: err}
			}
			model.ModuleSettings[key] = table
		}
	}

	return model, nil
}

// translateOutputs decodes the output selector, which is either the string
// "all", the string "active", or an array of output name fragments.
func (l *Loader) translateOutputs(md toml.MetaData, prim toml.Primitive) (config.OutputSelector, error) {
	var s string
	if err := md.PrimitiveDecode(prim, &s); err == nil {
		// Keyword match is case-insensitive; target entries stay verbatim.
		switch strings.ToLower(s) {
		case "all":
			return config.OutputSelector{Kind: config.SelectAll}, nil
		case "active":
			return config.OutputSelector{Kind: config.SelectActive}, nil
		default:
			return config.OutputSelector{}, &config.ConfigError{
				Field:  "outputs",
				Reason: fmt.Sprintf(`must be "all", "active", or an array of output names, got %q`, s),
			}
		}
	}

	var targets []string
	if err := md.PrimitiveDecode(prim, &targets); err != nil {
		return config.OutputSelector{}, &config.ConfigError{
			Field:  "outputs",
			Reason: `must be "all", "active", or an array of output names`,
			Err:    err,
		}
	}
	return config.OutputSelector{Kind: config.SelectTargets, Targets: targets}, nil
}

// translateBar decodes one `[[bar]]` entry. Keys are swept explicitly so a
// misplaced `outputs` gets its own message instead of a generic unknown-key
// complaint, and table presence maps onto the definition's pointer fields.
func (l *Loader) translateBar(md toml.MetaData, index int, rawBar map[string]toml.Primitive) (config.BarDefinition, error) {
	var def config.BarDefinition

	keys := make([]string, 0, len(rawBar))
	for key := range rawBar {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prim := rawBar[key]
		field := fmt.Sprintf("bar[%d].%s", index, key)
		switch key {
		case "position":
			var s string
			if err := md.PrimitiveDecode(prim, &s); err != nil {
				return def, &config.ConfigError{Field: field, Reason: "must be a string", Err: err}
			}
			pos, err := parsePosition(field, s)
			if err != nil {
				return def, err
			}
			def.Position = &pos

		case "appearance":
			var rawApp rawAppearance
			if err := md.PrimitiveDecode(prim, &rawApp); err != nil {
				return def, &config.ConfigError{Field: field, Reason: "must be a table", Err: err}
			}
			app := overlayAppearance(config.DefaultAppearance(), rawApp)
			def.Appearance = &app

		case "modules":
			var rawLay rawLayout
			if err := md.PrimitiveDecode(prim, &rawLay); err != nil {
				return def, &config.ConfigError{Field: field, Reason: "must be a table of slot arrays", Err: err}
			}
			layout, err := l.translateLayout(md, field, rawLay)
			if err != nil {
				return def, err
			}
			def.Modules = &layout

		case "outputs":
			return def, &config.ConfigError{
				Field:  field,
				Reason: "output selection is global-only and cannot be set per bar",
			}

		default:
			return def, &config.ConfigError{Field: field, Reason: "unknown key"}
		}
	}

	return def, nil
}

// translateLayout decodes the three slot arrays of a modules table. An
// absent slot is an empty slot: the table replaces the inherited layout as
// a whole, it does not merge into it.
func (l *Loader) translateLayout(md toml.MetaData, field string, raw rawLayout) (config.ModuleLayout, error) {
	var layout config.ModuleLayout
	var err error

	if layout.Left, err = l.translateEntries(md, field+".left", raw.Left); err != nil {
		return layout, err
	}
	if layout.Center, err = l.translateEntries(md, field+".center", raw.Center); err != nil {
		return layout, err
	}
	if layout.Right, err = l.translateEntries(md, field+".right", raw.Right); err != nil {
		return layout, err
	}
	return layout, nil
}

// translateEntries decodes one slot array: each element is a module name or
// a group of module names rendered as one visual unit.
func (l *Loader) translateEntries(md toml.MetaData, field string, prims []toml.Primitive) ([]config.ModuleEntry, error) {
	if len(prims) == 0 {
		return nil, nil
	}
	entries := make([]config.ModuleEntry, 0, len(prims))
	for i, prim := range prims {
		var single string
		if err := md.PrimitiveDecode(prim, &single); err == nil {
			entries = append(entries, config.ModuleEntry{Single: single})
			continue
		}
		var group []string
		if err := md.PrimitiveDecode(prim, &group); err != nil {
			return nil, &config.ConfigError{
				Field:  fmt.Sprintf("%s[%d]", field, i),
				Reason: "must be a module name or a group of module names",
				Err:    err,
			}
		}
		entries = append(entries, config.ModuleEntry{Group: group})
	}
	return entries, nil
}

func parsePosition(field, s string) (config.Position, error) {
	switch config.Position(strings.ToLower(s)) {
	case config.PositionTop:
		return config.PositionTop, nil
	case config.PositionBottom:
		return config.PositionBottom, nil
	default:
		return "", &config.ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("must be 'top' or 'bottom', got %q", s),
		}
	}
}

// overlayAppearance completes a partially specified appearance table with
// the stock defaults. Used for the global table and for per-bar tables
// alike: a bar's table is completed from the same stock defaults, so no
// global customization leaks into a bar that chose to restyle itself.
func overlayAppearance(base config.Appearance, raw rawAppearance) config.Appearance {
	if raw.Style != nil {
		base.Style = config.BarStyle(*raw.Style)
	}
	if raw.Opacity != nil {
		base.Opacity = *raw.Opacity
	}
	if raw.Scale != nil {
		base.Scale = *raw.Scale
	}
	if raw.Menu != nil {
		if raw.Menu.Opacity != nil {
			base.Menu.Opacity = *raw.Menu.Opacity
		}
		if raw.Menu.Backdrop != nil {
			base.Menu.Backdrop = *raw.Menu.Backdrop
		}
	}
	if raw.Font != nil {
		if raw.Font.Family != nil {
			base.Font.Family = *raw.Font.Family
		}
		if raw.Font.Size != nil {
			base.Font.Size = *raw.Font.Size
		}
	}
	if raw.Palette != nil {
		if raw.Palette.Background != nil {
			base.Palette.Background = *raw.Palette.Background
		}
		if raw.Palette.Primary != nil {
			base.Palette.Primary = *raw.Palette.Primary
		}
		if raw.Palette.Secondary != nil {
			base.Palette.Secondary = *raw.Palette.Secondary
		}
		if raw.Palette.Success != nil {
			base.Palette.Success = *raw.Palette.Success
		}
		if raw.Palette.Danger != nil {
			base.Palette.Danger = *raw.Palette.Danger
		}
		if raw.Palette.Text != nil {
			base.Palette.Text = *raw.Palette.Text
		}
	}
	return base
}
