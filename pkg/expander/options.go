package expander

import "path/filepath"

// Options control the annotation, expansion and binding runs. InDir is
// scanned for .trait files and OutDir receives everything generated.
// ManifestPath locates the macro manifest both stages share. CrateName
// overrides the defining-unit name substituted for $crate. BindPackage
// and BindFile shape the generated Go bindings.
type Options struct {
	InDir        string `json:"in_dir,omitempty" yaml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	OutDir       string `json:"out_dir,omitempty" yaml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	ManifestPath string `json:"manifest,omitempty" yaml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
	CrateName    string `json:"crate_name,omitempty" yaml:"crate_name,omitempty" mapstructure:"crate_name,omitempty"`
	BindPackage  string `json:"bind_package,omitempty" yaml:"bind_package,omitempty" mapstructure:"bind_package,omitempty"`
	BindFile     string `json:"bind_file,omitempty" yaml:"bind_file,omitempty" mapstructure:"bind_file,omitempty"`
}

// Option mutates Options.
type Option func(*Options)

func WithInDir(dir string) Option {
	return func(o *Options) { o.InDir = dir }
}

func WithOutDir(dir string) Option {
	return func(o *Options) { o.OutDir = dir }
}

func WithManifest(path string) Option {
	return func(o *Options) { o.ManifestPath = path }
}

func WithCrateName(name string) Option {
	return func(o *Options) { o.CrateName = name }
}

func WithBindPackage(pkg string) Option {
	return func(o *Options) { o.BindPackage = pkg }
}

func WithBindFile(file string) Option {
	return func(o *Options) { o.BindFile = file }
}

// Normalize fills unset options with their defaults.
func (o *Options) Normalize() {
	if o.InDir == "" {
		o.InDir = "."
	}
	if o.OutDir == "" {
		o.OutDir = "gen"
	}
	if o.ManifestPath == "" {
		o.ManifestPath = filepath.Join(o.OutDir, "delegen.yaml")
	}
	if o.BindPackage == "" {
		o.BindPackage = "bindings"
	}
	if o.BindFile == "" {
		o.BindFile = "bindings_gen.go"
	}
}
