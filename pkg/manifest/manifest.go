package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Macro records one generated delegation macro: which trait produced
// it, where its capture document lives, and whether it is exported
// beyond the defining directory.
type Macro struct {
	Name     string `yaml:"name" json:"name"`
	Trait    string `yaml:"trait" json:"trait"`
	File     string `yaml:"file" json:"file"`
	Dir      string `yaml:"dir" json:"dir"`
	Exported bool   `yaml:"exported" json:"exported"`
}

// Manifest tracks every macro produced by the annotation stage.
type Manifest struct {
	Macros []Macro `yaml:"macros" json:"macros"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// AddMacro records a macro, replacing an existing entry with the same name.
func (m *Manifest) AddMacro(entry Macro) {
	for i := range m.Macros {
		if m.Macros[i].Name == entry.Name {
			m.Macros[i] = entry
			return
		}
	}
	m.Macros = append(m.Macros, entry)
}

// Lookup returns the macro with the given name, if recorded.
func (m *Manifest) Lookup(name string) (Macro, bool) {
	for _, entry := range m.Macros {
		if entry.Name == name {
			return entry, true
		}
	}
	return Macro{}, false
}
