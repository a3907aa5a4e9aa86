// Package project reads and writes the gigly project manifest.
package project

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const (
	YAMLName = "gigly.yaml"
	TOMLName = "gigly.toml"

	// LanguageVersion is the language version this compiler implements.
	LanguageVersion = "0.1.0"
)

type Manifest struct {
	Package  string   `yaml:"package" toml:"package"`
	Language string   `yaml:"language,omitempty" toml:"language,omitempty"`
	Entry    string   `yaml:"entry,omitempty" toml:"entry,omitempty"`
	Output   string   `yaml:"output,omitempty" toml:"output,omitempty"`
	Link     []string `yaml:"link,omitempty" toml:"link,omitempty"`
}

// Default is the manifest used by `init` and when no manifest exists.
func Default(name string) *Manifest {
	m := &Manifest{Package: name, Language: "^" + LanguageVersion}
	m.fill()
	return m
}

func (m *Manifest) fill() {
	if m.Entry == "" {
		m.Entry = "main"
	}
	if m.Output == "" {
		m.Output = m.Package
	}
}

// Find walks up from dir looking for a manifest. A YAML manifest wins over a
// TOML one in the same directory. It returns "" when there is none.
func Find(dir string) string {
	for {
		for _, name := range []string{YAMLName, TOMLName} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func Load(path string) (*Manifest, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var m Manifest
	if filepath.Ext(path) == ".toml" {
		_, err = toml.Decode(string(data), &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, tracerr.Errorf("reading %s: %w", path, err)
	}

	if m.Package == "" {
		m.Package = filepath.Base(filepath.Dir(path))
	}
	m.fill()
	return &m, nil
}

// FindAndLoad loads the nearest manifest above dir. Without one, a default
// manifest named after dir is returned together with an empty path.
func FindAndLoad(dir string) (*Manifest, string, error) {
	path := Find(dir)
	if path == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, "", tracerr.Wrap(err)
		}
		return Default(filepath.Base(abs)), "", nil
	}

	m, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return m, path, nil
}

// Save writes the manifest as TOML or YAML depending on the extension of
// path.
func (m *Manifest) Save(path string) error {
	var data []byte
	if filepath.Ext(path) == ".toml" {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return tracerr.Wrap(err)
		}
		data = buf.Bytes()
	} else {
		out, err := yaml.Marshal(m)
		if err != nil {
			return tracerr.Wrap(err)
		}
		data = out
	}

	return tracerr.Wrap(ioutil.WriteFile(path, data, 0644))
}

// CheckLanguage reports an error unless version satisfies the manifest's
// language constraint. An empty constraint accepts every version.
func (m *Manifest) CheckLanguage(version string) error {
	if m.Language == "" {
		return nil
	}

	c, err := semver.NewConstraint(m.Language)
	if err != nil {
		return tracerr.Errorf("invalid language constraint %q: %w", m.Language, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return tracerr.Errorf("invalid language version %q: %w", version, err)
	}

	if !c.Check(v) {
		return tracerr.Errorf("%s requires language %s, this compiler implements %s", m.Package, m.Language, version)
	}
	return nil
}
