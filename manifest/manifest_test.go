package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/bridgegen/bridge"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "counter-app"
version = "0.1.0"

[bridge]
prefix = "__acme__"
modules = ["ffi/*.toml", "extra.toml"]
features = ["async"]

[output]
rust = "src/generated"
swift = "/abs/swift"
c = "include"

[cache]
enabled = false
path = "tmp/cache.db"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "counter-app" {
		t.Errorf("project name = %q, want counter-app", m.Project.Name)
	}
	if m.Project.Version != "0.1.0" {
		t.Errorf("project version = %q, want 0.1.0", m.Project.Version)
	}
	if m.Bridge.Prefix != "__acme__" {
		t.Errorf("prefix = %q, want __acme__", m.Bridge.Prefix)
	}
	if len(m.Bridge.Modules) != 2 {
		t.Errorf("modules count = %d, want 2", len(m.Bridge.Modules))
	}
	if len(m.Bridge.Features) != 1 || m.Bridge.Features[0] != "async" {
		t.Errorf("features = %v, want [async]", m.Bridge.Features)
	}
	if m.RustDir() != filepath.Join(m.Dir, "src", "generated") {
		t.Errorf("RustDir() = %q", m.RustDir())
	}
	if m.SwiftDir() != "/abs/swift" {
		t.Errorf("SwiftDir() = %q, want /abs/swift", m.SwiftDir())
	}
	if m.CDir() != filepath.Join(m.Dir, "include") {
		t.Errorf("CDir() = %q", m.CDir())
	}
	if m.CacheEnabled() {
		t.Error("cache enabled = true, want false")
	}
	if m.CachePath() != filepath.Join(m.Dir, "tmp", "cache.db") {
		t.Errorf("CachePath() = %q", m.CachePath())
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "minimal"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Bridge.Prefix != bridge.DefaultPrefix {
		t.Errorf("default prefix = %q, want %q", m.Bridge.Prefix, bridge.DefaultPrefix)
	}
	if len(m.Bridge.Modules) != 1 || m.Bridge.Modules[0] != "bridge/*.toml" {
		t.Errorf("default modules = %v, want [bridge/*.toml]", m.Bridge.Modules)
	}
	if m.RustDir() != filepath.Join(m.Dir, "generated", "rust") {
		t.Errorf("default RustDir() = %q", m.RustDir())
	}
	if !m.CacheEnabled() {
		t.Error("cache should be enabled by default")
	}
	if m.CachePath() != filepath.Join(m.Dir, ".bridgegen", "cache.db") {
		t.Errorf("default CachePath() = %q", m.CachePath())
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[bridge]\nprefx = \"x\"\n", "unknown key bridge.prefx"},
		{"bad prefix", "[bridge]\nprefix = \"a$b\"\n", "not a valid identifier"},
		{"bad toml", "[bridge\n", "parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.content)
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	// Create nested directory structure
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, dir, `[project]
name = "found-project"
`)

	// Should find manifest when starting from a deep subdirectory
	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Project.Name != "found-project" {
		t.Errorf("project name = %q, want found-project", m.Project.Name)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no bridgegen.toml exists")
	}
}

func TestModulePaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bridge/b.toml", "bridge/a.toml", "bridge/notes.md", "extra.toml"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	m := Default(dir)
	m.Bridge.Modules = []string{"bridge/*.toml", "extra.toml", "bridge/a.toml", "missing/*.toml"}

	paths, err := m.ModulePaths()
	if err != nil {
		t.Fatalf("ModulePaths failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "bridge", "a.toml"),
		filepath.Join(dir, "bridge", "b.toml"),
		filepath.Join(dir, "extra.toml"),
	}
	if strings.Join(paths, "\n") != strings.Join(want, "\n") {
		t.Errorf("ModulePaths() = %v, want %v", paths, want)
	}

	m.Bridge.Modules = []string{"[bad"}
	if _, err := m.ModulePaths(); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
