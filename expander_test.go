package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	annotateaction "github.com/delegen/delegen/pkg/action/annotate"
	bindaction "github.com/delegen/delegen/pkg/action/bind"
	expandaction "github.com/delegen/delegen/pkg/action/expand"
	verifyaction "github.com/delegen/delegen/pkg/action/verify"
	"github.com/delegen/delegen/pkg/expander"
)

// copyFixtures stages a fixture tree in a scratch directory so generated
// crate paths resolve against the fixture go.mod instead of this
// repository's.
func copyFixtures(t *testing.T, src string) string {
	t.Helper()
	dst := filepath.Join(t.TempDir(), filepath.Base(src))
	// os.CopyFS needs Go 1.23; this toolchain is older, so walk by hand.
	require.NoError(t, fs.WalkDir(os.DirFS(src), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o777)
		}
		data, err := os.ReadFile(filepath.Join(src, filepath.FromSlash(path)))
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o666)
	}))
	return dst
}

func writeGoMod(t *testing.T, dir string) {
	t.Helper()
	gomod := "module example.com/game\n\ngo 1.24\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644))
}

func requireMatchesExpectations(t *testing.T, expDir, gotDir string) {
	t.Helper()
	entries, err := os.ReadDir(expDir)
	require.NoError(t, err)
	for _, entry := range entries {
		want, err := os.ReadFile(filepath.Join(expDir, entry.Name()))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(gotDir, entry.Name()))
		require.NoError(t, err, "missing output %s", entry.Name())
		diff := cmp.Diff(string(want), string(got))
		require.EqualValuesf(t, string(want), string(got), "%s, diff = %s", entry.Name(), diff)
	}
}

func TestDelegen(ttt *testing.T) {
	traitsDir := copyFixtures(ttt, "test/testdata/traits")
	writeGoMod(ttt, traitsDir)
	implsDir := copyFixtures(ttt, "test/testdata/impls")

	outTraits := filepath.Join(ttt.TempDir(), "gen")
	manifestPath := filepath.Join(outTraits, "delegen.yaml")

	ttt.Run("annotate", func(t *testing.T) {
		err := annotateaction.Generate(
			expander.WithInDir(traitsDir),
			expander.WithOutDir(outTraits),
			expander.WithManifest(manifestPath),
		)
		require.NoError(t, err)
		requireMatchesExpectations(t, "test/testdata/expectations/traits", outTraits)
	})

	ttt.Run("expand", func(t *testing.T) {
		outImpls := filepath.Join(t.TempDir(), "gen")
		err := expandaction.Generate(
			expander.WithInDir(implsDir),
			expander.WithOutDir(outImpls),
			expander.WithManifest(manifestPath),
		)
		require.NoError(t, err)
		requireMatchesExpectations(t, "test/testdata/expectations/impls", outImpls)
	})

	ttt.Run("bind", func(t *testing.T) {
		outBind := t.TempDir()
		err := bindaction.Generate(
			expander.WithInDir(traitsDir),
			expander.WithOutDir(outBind),
			expander.WithBindFile("bindings_gen.go"),
		)
		require.NoError(t, err)

		want, err := os.ReadFile("test/testdata/expectations/bindings/bindings_gen.go.golden")
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(outBind, "bindings_gen.go"))
		require.NoError(t, err)
		require.EqualValuesf(t, string(want), string(got), "diff = %s", cmp.Diff(string(want), string(got)))
	})

	ttt.Run("verify clean", func(t *testing.T) {
		diff, err := verifyaction.Run(
			expander.WithInDir(traitsDir),
			expander.WithManifest(manifestPath),
		)
		require.NoError(t, err)
		require.Empty(t, diff)
	})

	ttt.Run("verify drift", func(t *testing.T) {
		file := filepath.Join(traitsDir, "my_trait.trait")
		src, err := os.ReadFile(file)
		require.NoError(t, err)
		drifted := strings.Replace(string(src), "const A: i32;", "const A: i32;\n    const C: i32;", 1)
		require.NotEqual(t, string(src), drifted)
		require.NoError(t, os.WriteFile(file, []byte(drifted), 0o644))

		diff, err := verifyaction.Run(
			expander.WithInDir(traitsDir),
			expander.WithManifest(manifestPath),
		)
		require.NoError(t, err)
		require.Contains(t, diff, "inherit_my_trait")
	})
}

func TestExpandUnknownMacro(t *testing.T) {
	inDir := t.TempDir()
	src := "nope! {\n    @[item: T]\n    impl MyTrait for X {}\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "x.trait"), []byte(src), 0o644))

	err := expandaction.Generate(
		expander.WithInDir(inDir),
		expander.WithOutDir(filepath.Join(t.TempDir(), "gen")),
		expander.WithManifest(filepath.Join(t.TempDir(), "delegen.yaml")),
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown macro nope!")
}

func TestExpandPrivateMacro(t *testing.T) {
	traitsDir := copyFixtures(t, "test/testdata/traits")
	writeGoMod(t, traitsDir)
	outTraits := filepath.Join(t.TempDir(), "gen")
	manifestPath := filepath.Join(outTraits, "delegen.yaml")
	require.NoError(t, annotateaction.Generate(
		expander.WithInDir(traitsDir),
		expander.WithOutDir(outTraits),
		expander.WithManifest(manifestPath),
	))

	// inherit_my_trait belongs to a private trait; an invocation in a
	// different directory must be rejected
	inDir := t.TempDir()
	sub := filepath.Join(inDir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	src := "inherit_my_trait! {\n    @[item: T]\n    impl<T: MyTrait> MyTrait for Far<T> {}\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(sub, "far.trait"), []byte(src), 0o644))

	err := expandaction.Generate(
		expander.WithInDir(inDir),
		expander.WithOutDir(filepath.Join(t.TempDir(), "gen")),
		expander.WithManifest(manifestPath),
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "private")

	// the exported macro works from anywhere
	src = "impl_card! {\n    @[base: C]\n    impl<C: Card> Card for Far<C> {}\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(sub, "far.trait"), []byte(src), 0o644))
	require.NoError(t, expandaction.Generate(
		expander.WithInDir(inDir),
		expander.WithOutDir(filepath.Join(t.TempDir(), "gen")),
		expander.WithManifest(manifestPath),
	))
}
