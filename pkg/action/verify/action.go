package verify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/delegen/delegen/pkg/expander"
	"github.com/delegen/delegen/pkg/manifest"
)

// Run re-annotates the input traits into a scratch directory and diffs
// the resulting capture documents against the ones the manifest records.
// A non-empty result means the generated macros have drifted from their
// trait definitions and annotation needs to be re-run.
func Run(opts ...expander.Option) (string, error) {
	e, err := expander.New(opts...)
	if err != nil {
		return "", err
	}

	recorded, err := manifest.Load(e.Opts.ManifestPath)
	if err != nil {
		return "", err
	}
	if len(recorded.Macros) == 0 {
		return "", fmt.Errorf("no macros recorded in %s", e.Opts.ManifestPath)
	}

	scratch, err := os.MkdirTemp("", "delegen-verify-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	fresh, err := expander.New(
		expander.WithInDir(e.Opts.InDir),
		expander.WithOutDir(scratch),
		expander.WithManifest(filepath.Join(scratch, "delegen.yaml")),
		expander.WithCrateName(e.Opts.CrateName),
	)
	if err != nil {
		return "", err
	}
	if err := fresh.Annotate(); err != nil {
		return "", err
	}

	diff := ""
	for _, entry := range recorded.Macros {
		current, err := os.ReadFile(entry.File)
		if err != nil {
			return "", fmt.Errorf("read recorded capture: %w", err)
		}
		regenerated, err := os.ReadFile(filepath.Join(scratch, entry.Dir, entry.Name+".macro"))
		if err != nil {
			return "", fmt.Errorf("macro %s is no longer generated: %w", entry.Name, err)
		}
		if d := cmp.Diff(string(current), string(regenerated)); d != "" {
			diff += fmt.Sprintf("macro %s:\n%s\n", entry.Name, d)
		}
	}
	return diff, nil
}
