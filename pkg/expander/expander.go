// Package expander drives the two delegen stages over directory trees:
// annotating trait files into cleaned traits plus generated macros, and
// expanding macro invocations into completed impl blocks.
package expander

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/dave/jennifer/jen"

	"github.com/delegen/delegen/internal/annotate"
	"github.com/delegen/delegen/internal/bindgen"
	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/parse"
	"github.com/delegen/delegen/internal/rewrite"
	"github.com/delegen/delegen/internal/synth"
	"github.com/delegen/delegen/internal/token"
	"github.com/delegen/delegen/pkg/manifest"
)

// TraitExt is the extension of trait DSL source files.
const TraitExt = ".trait"

// Expander holds options shared by the stages.
type Expander struct {
	Opts *Options
}

// New builds an Expander from options.
func New(opts ...Option) (*Expander, error) {
	o := &Options{}
	for _, fn := range opts {
		fn(o)
	}
	o.Normalize()
	if _, err := os.Stat(o.InDir); err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	return &Expander{Opts: o}, nil
}

// Annotate processes every trait file under InDir: it writes the cleaned
// trait next to a capture document per annotated trait, and records the
// generated macros in the manifest.
func (e *Expander) Annotate() error {
	m, err := manifest.Load(e.Opts.ManifestPath)
	if err != nil {
		return err
	}

	err = e.eachTraitFile(func(file, rel string, src []byte) error {
		traits, err := parse.Traits(rel, src)
		if err != nil {
			return err
		}
		cratePath, err := e.cratePathFor(file)
		if err != nil {
			return err
		}

		var cleaned []string
		for _, pt := range traits {
			if !pt.Deref {
				cleaned = append(cleaned, pt.Decl.Render(true, false))
				continue
			}
			res := annotate.Annotate(pt, cratePath)
			cleaned = append(cleaned, annotate.RenderTrait(res.Trait))

			dir := filepath.Dir(rel)
			captureFile := filepath.Join(e.Opts.OutDir, dir, res.Macro.Name+".macro")
			if err := writeFile(captureFile, annotate.RenderMacro(res.Macro)); err != nil {
				return err
			}
			m.AddMacro(manifest.Macro{
				Name:     res.Macro.Name,
				Trait:    res.Trait.Name,
				File:     captureFile,
				Dir:      dir,
				Exported: res.Macro.Exported,
			})
			slog.Info("generated delegation macro",
				"trait", res.Trait.Name, "macro", res.Macro.Name, "file", captureFile)
		}

		out := filepath.Join(e.Opts.OutDir, rel)
		return writeFile(out, strings.Join(cleaned, "\n"))
	})
	if err != nil {
		return err
	}

	return m.Save(e.Opts.ManifestPath)
}

// Expand rewrites every macro invocation found under InDir into its
// completed impl block, splicing results into the surrounding source.
func (e *Expander) Expand() error {
	m, err := manifest.Load(e.Opts.ManifestPath)
	if err != nil {
		return err
	}

	return e.eachTraitFile(func(file, rel string, src []byte) error {
		invocations, err := parse.Invocations(rel, src)
		if err != nil {
			return err
		}
		if len(invocations) == 0 {
			return nil
		}
		sort.Slice(invocations, func(i, j int) bool {
			return invocations[i].StartOff < invocations[j].StartOff
		})

		var sb strings.Builder
		last := 0
		for i := range invocations {
			inv := &invocations[i]
			expanded, err := e.expandOne(m, filepath.Dir(rel), inv)
			if err != nil {
				return err
			}
			sb.Write(src[last:inv.StartOff])
			sb.WriteString(expanded)
			last = inv.EndOff
		}
		sb.Write(src[last:])

		out := filepath.Join(e.Opts.OutDir, rel)
		slog.Info("expanded invocations", "file", rel, "count", len(invocations))
		return writeFile(out, sb.String())
	})
}

// expandOne resolves one invocation through the manifest and runs the
// delegation synthesizer over it.
func (e *Expander) expandOne(m *manifest.Manifest, dir string, inv *model.Invocation) (string, error) {
	entry, ok := m.Lookup(inv.Macro)
	if !ok {
		return "", fmt.Errorf("%s: unknown macro %s! (not recorded in %s)",
			inv.Span, inv.Macro, e.Opts.ManifestPath)
	}
	if !entry.Exported && entry.Dir != dir {
		return "", fmt.Errorf("%s: macro %s! is private to %s",
			inv.Span, inv.Macro, entry.Dir)
	}

	src, err := os.ReadFile(entry.File)
	if err != nil {
		return "", fmt.Errorf("read capture: %w", err)
	}
	def, err := parse.MacroDef(entry.File, src)
	if err != nil {
		return "", err
	}

	trait := rewrite.ResolveTrait(def.Trait, def.CratePath)
	if inv.Impl.TraitName != trait.Name {
		slog.Warn("impl block names a different trait than the macro captured",
			"macro", inv.Macro, "impl", inv.Impl.TraitName, "trait", trait.Name)
	}
	if err := synth.Fill(&trait, inv.Spec, &inv.Impl); err != nil {
		return "", err
	}

	var sb strings.Builder
	if len(trait.Imports) > 0 {
		// imports stay scoped to a throwaway const block so the
		// expansion does not leak names into the caller's file
		sb.WriteString("const _: () = {")
		for _, imp := range trait.Imports {
			fmt.Fprintf(&sb, " use %s;", imp.Path.String())
		}
		sb.WriteString(" };\n")
	}
	sb.WriteString(inv.Impl.Render())
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// GenerateBindFile renders Go binding stubs for every annotated trait
// under InDir.
func (e *Expander) GenerateBindFile() (*jen.File, error) {
	var decls []*model.TraitDecl
	err := e.eachTraitFile(func(file, rel string, src []byte) error {
		traits, err := parse.Traits(rel, src)
		if err != nil {
			return err
		}
		for _, pt := range traits {
			if pt.Deref {
				decls = append(decls, pt.Decl)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return bindgen.File(e.Opts.BindPackage, decls), nil
}

// eachTraitFile walks InDir and calls fn for every trait source file.
func (e *Expander) eachTraitFile(fn func(file, rel string, src []byte) error) error {
	return filepath.WalkDir(e.Opts.InDir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(file) != TraitExt {
			return nil
		}
		rel, err := filepath.Rel(e.Opts.InDir, file)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		return fn(file, rel, src)
	})
}

// cratePathFor derives the scope-stable path of a trait file's defining
// unit: the enclosing module's name (from go.mod, unless overridden)
// followed by the directory path from the module root.
func (e *Expander) cratePathFor(file string) (token.Stream, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)

	name := e.Opts.CrateName
	root := dir
	for d := dir; ; d = filepath.Dir(d) {
		if data, err := os.ReadFile(filepath.Join(d, "go.mod")); err == nil {
			f, err := modfile.Parse("go.mod", data, nil)
			if err != nil {
				return nil, fmt.Errorf("parse go.mod: %w", err)
			}
			root = d
			if name == "" {
				name = sanitizeIdent(path.Base(f.Module.Mod.Path))
			}
			break
		}
		if filepath.Dir(d) == d {
			break
		}
	}
	if name == "" {
		name = sanitizeIdent(filepath.Base(dir))
	}

	out := token.Stream{token.NewIdent(name)}
	if rel, err := filepath.Rel(root, dir); err == nil && rel != "." {
		for _, comp := range strings.Split(filepath.ToSlash(rel), "/") {
			out = append(out, token.NewPunct("::"), token.NewIdent(sanitizeIdent(comp)))
		}
	}
	return out, nil
}

func sanitizeIdent(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
			out = append(out, c)
		case c >= '0' && c <= '9':
			if len(out) == 0 {
				out = append(out, '_')
			}
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "_"
	}
	return string(out)
}

func writeFile(file, content string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}
