// Package manifest loads the optional per-project knfc.yaml file: the
// entry source file, the output C path, and whether (and with which
// compiler) to invoke the system C toolchain. A CLI value that is set wins
// over a manifest value; Load never invents defaults for fields the caller
// didn't ask about. A CLI value counts as set when it is non-zero, so a
// false compile flag cannot override a manifest "compile: true".
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk knfc.yaml shape.
type Manifest struct {
	Entry     string `yaml:"entry"`
	Output    string `yaml:"output"`
	Compile   bool   `yaml:"compile"`
	CC        string `yaml:"cc"`
	ExecAfter string `yaml:"exec"`
}

// Load reads and parses path. A missing file is not an error: callers
// should fall back to CLI-flag defaults in that case.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	return &m, nil
}

// Overrides holds the CLI flag values for a build; Apply fills in its
// zero-valued fields from the manifest and leaves non-zero ones untouched.
type Overrides struct {
	Entry   string
	Output  string
	Compile bool
	CC      string
	Exec    string
}

// Apply returns Overrides with m's values filling in whatever o left at
// its zero value. A nil m returns o unchanged.
func (m *Manifest) Apply(o Overrides) Overrides {
	if m == nil {
		return o
	}
	if o.Entry == "" {
		o.Entry = m.Entry
	}
	if o.Output == "" {
		o.Output = m.Output
	}
	if !o.Compile {
		o.Compile = m.Compile
	}
	if o.CC == "" {
		o.CC = m.CC
	}
	if o.Exec == "" {
		o.Exec = m.ExecAfter
	}
	return o
}
