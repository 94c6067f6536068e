// Package manifest handles bridgegen.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/chazu/bridgegen/bridge"
)

// FileName is the manifest file looked up by FindAndLoad.
const FileName = "bridgegen.toml"

// Manifest represents a bridgegen.toml project configuration.
type Manifest struct {
	Project Project      `toml:"project"`
	Bridge  BridgeConfig `toml:"bridge"`
	Output  Output       `toml:"output"`
	Cache   CacheConfig  `toml:"cache"`

	// Dir is the directory containing the bridgegen.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BridgeConfig selects the bridge descriptions and how they are generated.
type BridgeConfig struct {
	Prefix   string   `toml:"prefix"`
	Modules  []string `toml:"modules"` // globs relative to Dir
	Features []string `toml:"features"`
}

// Output configures where each artifact is written.
type Output struct {
	Rust  string `toml:"rust"`
	Swift string `toml:"swift"`
	C     string `toml:"c"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no manifest exists.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

// Load parses a bridgegen.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	m.applyDefaults()

	if err := bridge.ValidatePrefix(m.Bridge.Prefix); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Bridge.Prefix == "" {
		m.Bridge.Prefix = bridge.DefaultPrefix
	}
	if len(m.Bridge.Modules) == 0 {
		m.Bridge.Modules = []string{"bridge/*.toml"}
	}
	if m.Output.Rust == "" {
		m.Output.Rust = filepath.Join("generated", "rust")
	}
	if m.Output.Swift == "" {
		m.Output.Swift = filepath.Join("generated", "swift")
	}
	if m.Output.C == "" {
		m.Output.C = filepath.Join("generated", "c")
	}
	if m.Cache.Path == "" {
		m.Cache.Path = filepath.Join(".bridgegen", "cache.db")
	}
}

// FindAndLoad walks up from startDir to find a bridgegen.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// CacheEnabled reports whether the artifact cache is on. It defaults to true.
func (m *Manifest) CacheEnabled() bool {
	return m.Cache.Enabled == nil || *m.Cache.Enabled
}

// CachePath returns the absolute path of the cache database.
func (m *Manifest) CachePath() string {
	return m.abs(m.Cache.Path)
}

// RustDir returns the absolute Rust output directory.
func (m *Manifest) RustDir() string { return m.abs(m.Output.Rust) }

// SwiftDir returns the absolute Swift output directory.
func (m *Manifest) SwiftDir() string { return m.abs(m.Output.Swift) }

// CDir returns the absolute C header output directory.
func (m *Manifest) CDir() string { return m.abs(m.Output.C) }

func (m *Manifest) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
