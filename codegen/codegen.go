// Package codegen emits the three coordinated artifacts of a bridge module:
// native (Rust) glue, host (Swift) glue and the C header both sides agree on.
//
// Every rule branches on bridge.Classify; there is no other dispatch. Output
// is a pure function of the module and the configuration: declarations are
// walked in declaration order and nothing iterates a map.
package codegen

import (
	"fmt"
	"strings"

	"github.com/chazu/bridgegen/bridge"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bridgegen.codegen")

// Config controls generation.
type Config struct {
	// Prefix is the boundary prefix; empty means bridge.DefaultPrefix.
	Prefix string
	// FeatureEnabled is the is_enabled(feature) predicate consulted for
	// feature-gated functions. Nil treats every feature as disabled.
	FeatureEnabled func(feature string) bool
}

// Features returns a predicate enabling exactly the named features.
func Features(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(f string) bool { return set[f] }
}

func (c Config) enabled(feature string) bool {
	if feature == "" {
		return true
	}
	return c.FeatureEnabled != nil && c.FeatureEnabled(feature)
}

// Artifacts holds the generated sources of one module.
type Artifacts struct {
	Rust    string
	Swift   string
	CHeader string // declarations only; see WrapHeader
}

// Generate emits all three artifacts for mod, or none on error.
func Generate(mod *bridge.Module, cfg Config) (*Artifacts, error) {
	if mod == nil {
		return nil, fmt.Errorf("codegen: nil module")
	}
	names := bridge.NewNaming(cfg.Prefix)
	if err := bridge.ValidatePrefix(names.Prefix); err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	g := &generator{mod: mod, cfg: cfg, names: names}
	out := &Artifacts{
		Rust:    g.rust(),
		Swift:   g.swift(),
		CHeader: g.cHeader(),
	}
	log.Debugf("generated module %s: rust %d bytes, swift %d bytes, header %d bytes",
		mod.Name, len(out.Rust), len(out.Swift), len(out.CHeader))
	return out, nil
}

// GenerateItems assembles a module from parsed items and generates it. Any
// registry or resolution error suppresses all three artifacts.
func GenerateItems(moduleName string, items []bridge.Item, cfg Config) (*Artifacts, error) {
	mod, err := bridge.NewModule(moduleName, items)
	if err != nil {
		return nil, err
	}
	return Generate(mod, cfg)
}

// WrapHeader turns the declarations of CHeader into a standalone header file.
func WrapHeader(guard, inner string) string {
	guard = headerGuard(guard)
	var b strings.Builder
	b.WriteString("// Generated by bridgegen. DO NOT EDIT.\n")
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	b.WriteString("#include <stdint.h>\n#include <stdbool.h>\n\n")
	if inner != "" {
		b.WriteString(inner)
		if !strings.HasSuffix(inner, "\n") {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "#endif // %s\n", guard)
	return b.String()
}

func headerGuard(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString("_H")
	return b.String()
}

type generator struct {
	mod   *bridge.Module
	cfg   Config
	names bridge.Naming
}

// usesHostHandles reports whether any host-owned opaque value crosses by
// value, which is when the generic pointer wrapper is needed.
func (g *generator) usesHostHandles() bool {
	byValueHost := func(b bridge.BridgedType) bool {
		c := bridge.Classify(b)
		return c.Category == bridge.CategoryOpaqueHost && c.Passing == bridge.ByValue
	}
	for _, fn := range g.mod.Functions {
		if !g.cfg.enabled(fn.Feature) {
			continue
		}
		if fn.Receiver == bridge.RecvValue && fn.SelfType.Owner == bridge.Host {
			return true
		}
		if byValueHost(fn.Return) {
			return true
		}
		for _, p := range fn.Params {
			if byValueHost(p.Type) {
				return true
			}
		}
	}
	return false
}

func (g *generator) nativeFunctions() []*bridge.Function {
	var out []*bridge.Function
	for _, fn := range g.mod.Functions {
		if fn.Side == bridge.Native {
			out = append(out, fn)
		}
	}
	return out
}

func (g *generator) hostFunctions() []*bridge.Function {
	var out []*bridge.Function
	for _, fn := range g.mod.Functions {
		if fn.Side == bridge.Host {
			out = append(out, fn)
		}
	}
	return out
}
