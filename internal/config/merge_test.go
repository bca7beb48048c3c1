package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlobal() GlobalConfig {
	g := DefaultGlobal()
	g.Position = PositionTop
	g.Modules = ModuleLayout{
		Left:   []ModuleEntry{{Single: "Workspaces"}},
		Center: []ModuleEntry{{Single: "WindowTitle"}},
		Right:  []ModuleEntry{{Single: "Clock"}},
	}
	return g
}

func TestMergeBars_NoDeclaredBars_YieldsImplicitBar(t *testing.T) {
	global := testGlobal()

	specs, err := MergeBars(&global, nil)
	require.NoError(t, err)
	require.Len(t, specs, 1)

	spec := specs[0]
	assert.Equal(t, 0, spec.Index)
	assert.Equal(t, global.Position, spec.Position)
	assert.Equal(t, global.Appearance, spec.Appearance)
	assert.Equal(t, global.Modules, spec.Modules)
	assert.NotEmpty(t, spec.Fingerprint)
}

func TestMergeBars_PreservesDeclarationOrder(t *testing.T) {
	global := testGlobal()
	top := PositionTop
	bottom := PositionBottom
	bars := []BarDefinition{
		{Position: &bottom},
		{Position: &top},
		{Position: &bottom},
	}

	specs, err := MergeBars(&global, bars)
	require.NoError(t, err)
	require.Len(t, specs, len(bars))

	assert.Equal(t, PositionBottom, specs[0].Position)
	assert.Equal(t, PositionTop, specs[1].Position)
	assert.Equal(t, PositionBottom, specs[2].Position)
	for i, spec := range specs {
		assert.Equal(t, i, spec.Index)
	}
}

func TestMergeBars_MissingPositionIsConfigError(t *testing.T) {
	global := testGlobal()
	top := PositionTop
	bars := []BarDefinition{
		{Position: &top},
		{}, // no position
	}

	_, err := MergeBars(&global, bars)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bar[1].position", cfgErr.Field)
}

func TestMergeBars_WholeFieldSubstitution(t *testing.T) {
	global := testGlobal()
	bottom := PositionBottom

	override := DefaultAppearance()
	override.Style = StyleSolid
	override.Opacity = 0.5

	// Appearance is overridden, modules are not: the spec must carry the
	// bar-local appearance table verbatim and the global modules verbatim,
	// with no blending between the two appearance tables.
	bars := []BarDefinition{{Position: &bottom, Appearance: &override}}

	specs, err := MergeBars(&global, bars)
	require.NoError(t, err)
	require.Len(t, specs, 1)

	if diff := cmp.Diff(override, specs[0].Appearance); diff != "" {
		t.Errorf("appearance mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(global.Modules, specs[0].Modules); diff != "" {
		t.Errorf("modules mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeBars_DeclaredBarInheritsGlobalModulesAndAppearance(t *testing.T) {
	// A Top bar with its own layout next to a Bottom bar that overrides
	// nothing: the Bottom bar inherits the global modules and appearance
	// wholesale.
	global := testGlobal()
	top := PositionTop
	bottom := PositionBottom
	ownLayout := ModuleLayout{Left: []ModuleEntry{{Single: "Clock"}}}

	bars := []BarDefinition{
		{Position: &top, Modules: &ownLayout},
		{Position: &bottom},
	}

	specs, err := MergeBars(&global, bars)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, ownLayout, specs[0].Modules)
	assert.Equal(t, PositionBottom, specs[1].Position)
	assert.Equal(t, global.Modules, specs[1].Modules)
	assert.Equal(t, global.Appearance, specs[1].Appearance)
}

func TestMergeBars_FingerprintStableAcrossGlobalChanges(t *testing.T) {
	global := testGlobal()
	bottom := PositionBottom
	bars := []BarDefinition{{Position: &bottom}}

	first, err := MergeBars(&global, bars)
	require.NoError(t, err)

	// Change globals the definition inherits from; the definition itself is
	// untouched, so its identity must not move.
	changed := global
	changed.Appearance.Style = StyleGradient
	changed.Modules = ModuleLayout{Left: []ModuleEntry{{Single: "Tray"}}}

	second, err := MergeBars(&changed, bars)
	require.NoError(t, err)

	assert.Equal(t, first[0].Fingerprint, second[0].Fingerprint)
	assert.NotEqual(t, first[0].Modules, second[0].Modules, "inherited content should refresh")
}

func TestMergeBars_FingerprintTracksDefinitionContent(t *testing.T) {
	global := testGlobal()
	top := PositionTop
	bottom := PositionBottom

	before, err := MergeBars(&global, []BarDefinition{{Position: &top}})
	require.NoError(t, err)
	after, err := MergeBars(&global, []BarDefinition{{Position: &bottom}})
	require.NoError(t, err)

	assert.NotEqual(t, before[0].Fingerprint, after[0].Fingerprint)
}

func TestMergeBars_GroupEntriesAffectFingerprint(t *testing.T) {
	global := testGlobal()
	bottom := PositionBottom

	grouped := ModuleLayout{Right: []ModuleEntry{{Group: []string{"Clock", "Privacy"}}}}
	flat := ModuleLayout{Right: []ModuleEntry{{Single: "Clock"}, {Single: "Privacy"}}}

	a, err := MergeBars(&global, []BarDefinition{{Position: &bottom, Modules: &grouped}})
	require.NoError(t, err)
	b, err := MergeBars(&global, []BarDefinition{{Position: &bottom, Modules: &flat}})
	require.NoError(t, err)

	assert.NotEqual(t, a[0].Fingerprint, b[0].Fingerprint)
}
