package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/bridgegen/bridgefile"
	"golang.org/x/tools/txtar"
)

// Fixtures in testdata/*.txtar hold a bridge.toml plus expectations:
//
//	features                  enabled features, one per line
//	error                     substring of the expected error
//	{rust,swift,header}.contains  snippets separated by "---" lines
//	{rust,swift,header}.absent    snippets that must not appear
//	header.exact              the complete header
//	rust.golden, swift.golden     full output, rewritten with UPDATE_GOLDEN=1
//
// Snippets are compared with all whitespace removed.
func TestFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures in testdata")
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			runFixture(t, path)
		})
	}
}

func runFixture(t *testing.T, path string) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	files := make(map[string]string, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = string(f.Data)
	}
	src, ok := files["bridge.toml"]
	if !ok {
		t.Fatal("fixture has no bridge.toml")
	}

	cfg := Config{FeatureEnabled: Features(strings.Fields(files["features"])...)}
	out, err := generateDocument(path, []byte(src), cfg)

	if want, ok := files["error"]; ok {
		want = strings.TrimSpace(want)
		if err == nil {
			t.Fatalf("expected error containing %q", want)
		}
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %q, want it to contain %q", err, want)
		}
		if out != nil {
			t.Error("artifacts produced despite error")
		}
		return
	}
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	artifacts := map[string]string{"rust": out.Rust, "swift": out.Swift, "header": out.CHeader}
	for _, artifact := range []string{"rust", "swift", "header"} {
		got := artifacts[artifact]
		for _, snippet := range snippets(files[artifact+".contains"]) {
			assertContains(t, artifact, got, snippet)
		}
		for _, snippet := range snippets(files[artifact+".absent"]) {
			assertNotContains(t, artifact, got, snippet)
		}
	}
	if want, ok := files["header.exact"]; ok && out.CHeader != want {
		t.Errorf("header mismatch\n--- got ---\n%s--- want ---\n%s", out.CHeader, want)
	}
	for _, artifact := range []string{"rust", "swift"} {
		golden := filepath.Join("testdata", "golden", strings.TrimSuffix(filepath.Base(path), ".txtar")+"."+artifact)
		if _, listed := files[artifact+".golden"]; !listed {
			continue
		}
		updateGolden(t, golden, artifacts[artifact])
		compareGolden(t, golden, artifacts[artifact])
	}
}

func generateDocument(path string, src []byte, cfg Config) (*Artifacts, error) {
	doc, err := bridgefile.Parse(path, src)
	if err != nil {
		return nil, err
	}
	mod, err := doc.BuildModule()
	if err != nil {
		return nil, err
	}
	return Generate(mod, cfg)
}

func snippets(section string) []string {
	var out []string
	var cur []string
	flush := func() {
		if s := strings.TrimSpace(strings.Join(cur, "\n")); s != "" {
			out = append(out, s)
		}
		cur = cur[:0]
	}
	for _, l := range strings.Split(section, "\n") {
		if strings.TrimSpace(l) == "---" {
			flush()
			continue
		}
		cur = append(cur, l)
	}
	flush()
	return out
}

func updateGolden(t *testing.T, path, content string) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDEN") == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating golden dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("updating golden file: %v", err)
	}
}

func compareGolden(t *testing.T, path, got string) {
	t.Helper()
	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Logf("Golden file %s does not exist. Run with UPDATE_GOLDEN=1 to create.", path)
		return
	}
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if string(expected) != got {
		t.Errorf("output differs from golden file %s.\nRun with UPDATE_GOLDEN=1 to update.", path)
	}
}
