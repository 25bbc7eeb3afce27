package bind

import (
	"os"
	"path/filepath"

	"github.com/delegen/delegen/pkg/expander"
)

// Generate renders Go binding stubs for every annotated trait and writes
// them to the configured bind file under OutDir.
func Generate(opts ...expander.Option) error {
	e, err := expander.New(opts...)
	if err != nil {
		return err
	}
	f, err := e.GenerateBindFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(e.Opts.OutDir, 0o755); err != nil {
		return err
	}
	outFile := filepath.Join(e.Opts.OutDir, e.Opts.BindFile)
	ff, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := f.Render(ff); err != nil {
		_ = ff.Close()
		return err
	}
	return ff.Close()
}
