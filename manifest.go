package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const (
	manifestName = "arrow.yaml"
	defaultEntry = "main.arrow"
)

// Manifest describes a project directory. Entry is relative to the manifest.
type Manifest struct {
	Package  string `yaml:"package"`
	Entry    string `yaml:"entry,omitempty"`
	Language string `yaml:"language,omitempty"`
	MaxDepth int    `yaml:"max-depth,omitempty"`

	dir string
}

func readManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tracerr.Errorf("error reading %s: %s", path, err)
	}

	var m Manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, tracerr.Errorf("error reading %s: %s", path, err)
	}
	if m.Package == "" {
		return nil, tracerr.Errorf("%s: package is not set", path)
	}
	if m.Entry == "" {
		m.Entry = defaultEntry
	}
	if m.MaxDepth < 0 {
		return nil, tracerr.Errorf("%s: max-depth must not be negative", path)
	}
	m.dir = filepath.Dir(path)

	return &m, nil
}

func (m *Manifest) EntryPath() string {
	return filepath.Join(m.dir, m.Entry)
}

// CheckLanguage reports whether version satisfies the manifest's language
// constraint. An unset constraint accepts every version.
func (m *Manifest) CheckLanguage(version string) error {
	if m.Language == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(m.Language)
	if err != nil {
		return tracerr.Errorf("%s: invalid language constraint %q: %s", m.Package, m.Language, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return tracerr.Wrap(err)
	}

	if ok, reasons := constraint.Validate(v); !ok {
		return tracerr.Errorf("%s requires language %s, this is %s: %v", m.Package, m.Language, version, reasons)
	}
	return nil
}

// writeManifest creates dir/arrow.yaml and a starter entry file. Existing
// files are never overwritten.
func writeManifest(dir string, m Manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return tracerr.Wrap(err)
	}

	path := filepath.Join(dir, manifestName)
	if err := createFile(path, out); err != nil {
		return err
	}

	entry := filepath.Join(dir, m.Entry)
	if _, err := os.Stat(entry); err == nil {
		return nil
	}
	return createFile(entry, []byte(fmt.Sprintf("# %s\ndef main[] -> { 0 }\n", m.Package)))
}

func createFile(path string, data []byte) error {
	fi, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return tracerr.Errorf("error creating %s: %s", path, err)
	}
	defer fi.Close()

	if _, err := fi.Write(data); err != nil {
		return tracerr.Errorf("error creating %s: %s", path, err)
	}
	return nil
}
