package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MergeBars turns the global configuration and the declared bar definitions
// into the fully-resolved list of bar specifications.
//
// With no declared bars it returns the single implicit bar built entirely
// from the global configuration. With declared bars, every definition must
// carry its own position (the global position is never used), while
// appearance and modules fall back to the global tables by whole-field
// substitution: a present table replaces the global one in its entirety, an
// absent one inherits it in its entirety. There is deliberately no deep
// merge between a bar table and the global table.
//
// Output order matches declaration order.
func MergeBars(global *GlobalConfig, bars []BarDefinition) ([]ResolvedBarSpec, error) {
	if len(bars) == 0 {
		implicit := BarDefinition{}
		return []ResolvedBarSpec{{
			Index:       0,
			Fingerprint: implicit.fingerprint(),
			Position:    global.Position,
			Appearance:  global.Appearance,
			Modules:     global.Modules,
		}}, nil
	}

	specs := make([]ResolvedBarSpec, 0, len(bars))
	for i, bar := range bars {
		if bar.Position == nil {
			return nil, newFieldError(
				fmt.Sprintf("bar[%d].position", i),
				"position is mandatory when bars are declared explicitly",
			)
		}

		spec := ResolvedBarSpec{
			Index:       i,
			Fingerprint: bar.fingerprint(),
			Position:    *bar.Position,
			Appearance:  global.Appearance,
			Modules:     global.Modules,
		}
		if bar.Appearance != nil {
			spec.Appearance = *bar.Appearance
		}
		if bar.Modules != nil {
			spec.Modules = *bar.Modules
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// fingerprint hashes the definition's own content. Inherited global values
// are excluded on purpose: a definition that did not change keeps its
// fingerprint across reloads that only touch the global configuration, so
// its live instances are never torn down for an unrelated edit.
func (b BarDefinition) fingerprint() string {
	var sb strings.Builder

	if b.Position != nil {
		fmt.Fprintf(&sb, "pos=%s;", *b.Position)
	} else {
		sb.WriteString("pos=-;")
	}

	if b.Appearance != nil {
		writeAppearance(&sb, *b.Appearance)
	} else {
		sb.WriteString("app=-;")
	}

	if b.Modules != nil {
		writeLayout(&sb, *b.Modules)
	} else {
		sb.WriteString("mod=-;")
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])[:12]
}

func writeAppearance(sb *strings.Builder, a Appearance) {
	fmt.Fprintf(sb, "app=%s,%g,%g,%g,%g,%s,%d,%s,%s,%s,%s,%s,%s;",
		a.Style, a.Opacity, a.Scale,
		a.Menu.Opacity, a.Menu.Backdrop,
		a.Font.Family, a.Font.Size,
		a.Palette.Background, a.Palette.Primary, a.Palette.Secondary,
		a.Palette.Success, a.Palette.Danger, a.Palette.Text,
	)
}

func writeLayout(sb *strings.Builder, layout ModuleLayout) {
	sb.WriteString("mod=")
	for _, slot := range [][]ModuleEntry{layout.Left, layout.Center, layout.Right} {
		for _, entry := range slot {
			if entry.Single != "" {
				sb.WriteString(entry.Single)
			} else {
				sb.WriteString("(" + strings.Join(entry.Group, "+") + ")")
			}
			sb.WriteByte(',')
		}
		sb.WriteByte('|')
	}
	sb.WriteByte(';')
}
