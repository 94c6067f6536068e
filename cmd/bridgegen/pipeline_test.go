package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/bridgegen/bridge"
	"github.com/chazu/bridgegen/bridgefile"
	"github.com/chazu/bridgegen/cache"
	"github.com/chazu/bridgegen/codegen"
	"github.com/fatih/color"
)

const counterBridge = `module = "counter"

[[item]]
kind = "opaque"
name = "Counter"
side = "native"

[[item]]
kind = "function"
name = "incr"
side = "native"
self_type = "Counter"
receiver = "&mut self"
params = [{ name = "by", type = "u32" }]

[[item]]
kind = "function"
name = "reset"
side = "native"
self_type = "Counter"
receiver = "&mut self"
feature = "reset"
`

const brokenBridge = `[[item]]
kind = "function"
name = "some_function"
side = "host"
params = [{ name = "arg", type = "MyTpye" }]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProjectUsesManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bridgegen.toml"), `
[bridge]
modules = ["ffi/*.toml"]
features = ["b", "a"]
prefix = "__acme__"
`)
	writeFile(t, filepath.Join(dir, "ffi", "counter.toml"), counterBridge)
	sub := filepath.Join(dir, "src", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	p, err := loadProject(sub, nil, "", []string{"a", "c"})
	if err != nil {
		t.Fatalf("loadProject: %v", err)
	}
	if len(p.files) != 1 || filepath.Base(p.files[0]) != "counter.toml" {
		t.Errorf("files = %v", p.files)
	}
	if p.prefix != "__acme__" {
		t.Errorf("prefix = %q", p.prefix)
	}
	if strings.Join(p.features, ",") != "a,b,c" {
		t.Errorf("features = %v, want [a b c]", p.features)
	}

	p, err = loadProject(sub, []string{"x.toml"}, "__other__", nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.prefix != "__other__" || len(p.files) != 1 || p.files[0] != "x.toml" {
		t.Errorf("overrides not applied: %+v", p)
	}

	if _, err := loadProject(sub, nil, "bad$prefix", nil); err == nil {
		t.Error("expected error for invalid prefix")
	}
}

func TestLoadProjectWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadProject(dir, nil, "", nil); err == nil || !strings.Contains(err.Error(), "no bridge descriptions") {
		t.Errorf("loadProject = %v, want missing descriptions error", err)
	}
	writeFile(t, filepath.Join(dir, "bridge", "counter.toml"), counterBridge)
	p, err := loadProject(dir, nil, "", nil)
	if err != nil {
		t.Fatalf("loadProject: %v", err)
	}
	if len(p.files) != 1 {
		t.Errorf("default module glob found %v", p.files)
	}
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "bridge", "counter.toml")
	bad := filepath.Join(dir, "bridge", "broken.toml")
	writeFile(t, good, counterBridge)
	writeFile(t, bad, brokenBridge)

	p, err := loadProject(dir, nil, "", []string{"reset"})
	if err != nil {
		t.Fatal(err)
	}
	store, err := cache.Open(filepath.Join(dir, ".bridgegen", "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	results, err := generateAll(ctx, p, store, 2)
	if err != nil {
		t.Fatalf("generateAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	// files are sorted: broken.toml, counter.toml
	if results[0].Err == nil || results[0].Out != nil {
		t.Errorf("broken module: %+v", results[0])
	}
	if !strings.Contains(results[0].Err.Error(), "unresolved type MyTpye") {
		t.Errorf("broken module error = %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Cached {
		t.Fatalf("counter module: %+v", results[1])
	}
	if !strings.Contains(results[1].Out.Swift, "func reset") {
		t.Error("enabled feature missing from Swift output")
	}
	if n, _ := store.Len(ctx); n != 1 {
		t.Errorf("cache holds %d entries, want 1", n)
	}

	again, err := generateAll(ctx, p, store, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !again[1].Cached || *again[1].Out != *results[1].Out {
		t.Error("second run did not serve identical artifacts from the cache")
	}

	p.features = nil
	third, err := generateAll(ctx, p, store, 1)
	if err != nil {
		t.Fatal(err)
	}
	if third[1].Cached || strings.Contains(third[1].Out.Swift, "func reset") {
		t.Error("changing features reused stale artifacts")
	}
}

func TestGenerateAllWithoutCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bridge", "counter.toml"), counterBridge)
	p, err := loadProject(dir, nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	results, err := generateAll(context.Background(), p, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err != nil || results[0].Cached {
		t.Errorf("result = %+v", results[0])
	}
}

func TestDuplicateModuleNamesFail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bridge", "a.toml"), counterBridge)
	writeFile(t, filepath.Join(dir, "bridge", "b.toml"), counterBridge)
	writeFile(t, filepath.Join(dir, "bridge", "c.toml"), strings.Replace(counterBridge, `"counter"`, `"other"`, 1))
	p, err := loadProject(dir, nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	results, err := generateAll(context.Background(), p, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []bool{true, true, false} {
		if failed := results[i].Err != nil; failed != want {
			t.Errorf("%s failed = %v, want %v (%v)", results[i].File, failed, want, results[i].Err)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bridge", "counter.toml"), counterBridge)
	p, err := loadProject(dir, nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	results, err := generateAll(context.Background(), p, nil, 0)
	if err != nil || results[0].Err != nil {
		t.Fatalf("generate: %v %v", err, results[0].Err)
	}

	rust, swift, header := p.outputPaths("counter", "")
	if rust != filepath.Join(dir, "generated", "rust", "counter.rs") {
		t.Errorf("rust path = %s", rust)
	}
	if err := writeArtifacts("counter", results[0].Out, rust, swift, header); err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	h, err := os.ReadFile(header)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"#ifndef COUNTER_H", "typedef struct Counter Counter;", "#endif // COUNTER_H"} {
		if !strings.Contains(string(h), want) {
			t.Errorf("header missing %q", want)
		}
	}
	if _, err := os.Stat(swift); err != nil {
		t.Errorf("swift artifact not written: %v", err)
	}

	out := filepath.Join(dir, "out")
	r2, s2, h2 := p.outputPaths("counter", out)
	if filepath.Dir(r2) != out || filepath.Dir(s2) != out || filepath.Dir(h2) != out {
		t.Errorf("-o not applied: %s %s %s", r2, s2, h2)
	}
}

func TestDescribeModule(t *testing.T) {
	doc, err := bridgefile.Parse("counter.toml", []byte(counterBridge))
	if err != nil {
		t.Fatal(err)
	}
	mod, err := doc.BuildModule()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	describeModule(&buf, mod)
	want := `module counter
types:
  opaque Counter, native-owned
functions:
  native fn Counter::incr -> () (&mut self)
    by: u32  [builtin by value]
  native fn Counter::reset -> () (&mut self, feature reset)
`
	if buf.String() != want {
		t.Errorf("describeModule:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintErrorHighlightsStructuredErrors(t *testing.T) {
	color.NoColor = true
	doc, err := bridgefile.Parse("broken.toml", []byte(brokenBridge))
	if err != nil {
		t.Fatal(err)
	}
	_, err = doc.BuildModule()
	var buf bytes.Buffer
	printError(&buf, err)
	want := "error: broken.toml:item[0]: unresolved type MyTpye in parameter arg of some_function\n" +
		"  neither a builtin nor a declared type\n"
	if buf.String() != want {
		t.Errorf("printError = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	_, err = bridgefile.Parse("bad.toml", []byte("bogus = 1\n"))
	printError(&buf, err)
	if !strings.HasPrefix(buf.String(), "error: bad.toml: invalid bridge description\n  ") {
		t.Errorf("schema error = %q", buf.String())
	}
}

func TestPrintErrorKeepsFirstItemPosition(t *testing.T) {
	color.NoColor = true
	_, err := bridge.NewModule("ffi", []bridge.Item{
		&bridge.FunctionItem{Name: "f", Side: bridge.Native, Params: []bridge.Param{
			{Name: "a", Type: bridge.MustParseTypeExpr("Nope")}}},
	})
	var buf bytes.Buffer
	printError(&buf, err)
	if !strings.HasPrefix(buf.String(), "error: item[0]: unresolved type Nope in parameter a of f\n") {
		t.Errorf("printError = %q", buf.String())
	}

	buf.Reset()
	_, err = bridge.NewModule("my-module", nil)
	printError(&buf, err)
	if want := "error: invalid declaration my-module\n  module name is not an identifier\n"; buf.String() != want {
		t.Errorf("printError = %q, want %q", buf.String(), want)
	}
}

func TestWriteArtifactsIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	out := &codegen.Artifacts{Rust: "// rust\n", Swift: "// swift\n", CHeader: ""}
	rust := filepath.Join(dir, "rust", "counter.rs")
	header := filepath.Join(dir, "c", "counter.h")

	// a regular file where the swift directory should be
	blocked := filepath.Join(dir, "swift")
	writeFile(t, blocked, "not a directory")
	if err := writeArtifacts("counter", out, rust, filepath.Join(blocked, "counter.swift"), header); err == nil {
		t.Fatal("expected error when the swift directory cannot be created")
	}
	for _, p := range []string{rust, header} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s exists after a failed write", p)
		}
	}
	entries, err := os.ReadDir(filepath.Join(dir, "rust"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("staged files left behind: %v", entries)
	}

	swift := filepath.Join(dir, "ok", "counter.swift")
	if err := writeArtifacts("counter", out, rust, swift, header); err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	got, err := os.ReadFile(rust)
	if err != nil || string(got) != out.Rust {
		t.Errorf("rust artifact = %q, %v", got, err)
	}
}
