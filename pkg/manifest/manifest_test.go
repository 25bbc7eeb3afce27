package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope", "delegen.yaml"))
	require.NoError(t, err)
	require.Empty(t, m.Macros)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("macros: {not: a list}"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unmarshal manifest")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := &Manifest{}
	m.AddMacro(Macro{Name: "impl_card", Trait: "Card", File: "gen/impl_card.macro", Dir: ".", Exported: true})
	m.AddMacro(Macro{Name: "inherit_my_trait", Trait: "MyTrait", File: "gen/sub/inherit_my_trait.macro", Dir: "sub"})

	path := filepath.Join(t.TempDir(), "out", "delegen.yaml")
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.EqualValuesf(t, m, got, "diff = %s", cmp.Diff(m, got))
}

func TestAddMacroReplaces(t *testing.T) {
	m := &Manifest{}
	m.AddMacro(Macro{Name: "impl_card", Trait: "Card"})
	m.AddMacro(Macro{Name: "impl_card", Trait: "Card", Exported: true})
	require.Len(t, m.Macros, 1)
	require.True(t, m.Macros[0].Exported)

	entry, ok := m.Lookup("impl_card")
	require.True(t, ok)
	require.Equal(t, "Card", entry.Trait)

	_, ok = m.Lookup("missing")
	require.False(t, ok)
}
