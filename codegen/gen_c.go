package codegen

import (
	"strings"

	"github.com/chazu/bridgegen/bridge"
)

// cHeader emits the header declarations: declared types in declaration
// order, then prototypes of native-implemented functions. Host-owned types
// and host-implemented functions never appear here.
func (g *generator) cHeader() string {
	w := &writer{}
	for _, decl := range g.mod.Types.Types() {
		if decl.AlreadyDeclared() {
			continue
		}
		switch decl.Kind {
		case bridge.DeclOpaque:
			if decl.Opaque.Owner != bridge.Native {
				continue
			}
			name := decl.Opaque.Name
			w.gap()
			w.line("typedef struct %s %s;", name, name)
			w.line("void %s(void* self);", g.names.FreeLinkName(name))
		case bridge.DeclStruct:
			g.cSharedStruct(w, decl.Struct)
		case bridge.DeclEnum:
			g.cSharedEnum(w, decl.Enum)
		}
	}

	first := true
	for _, fn := range g.nativeFunctions() {
		if !g.cfg.enabled(fn.Feature) {
			continue
		}
		if first {
			w.gap()
			first = false
		}
		w.raw(g.cPrototype(fn))
	}
	return w.String()
}

func (g *generator) cPrototype(fn *bridge.Function) string {
	var params []string
	if fn.Receiver != bridge.NoReceiver {
		params = append(params, "void* self")
	}
	for _, p := range fn.Params {
		params = append(params, g.cType(p.Type)+" "+p.Name)
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	return g.cType(fn.Return) + " " + g.names.FuncLinkName(fn.SelfName(), fn.Name) +
		"(" + strings.Join(params, ", ") + ");"
}

func (g *generator) cSharedStruct(w *writer, s *bridge.SharedStruct) {
	name := g.names.SharedCName(s.Name)
	w.gap()
	w.open("typedef struct %s {", name)
	if len(s.Fields) == 0 {
		w.line("uint8_t _private;")
	}
	for _, f := range s.Fields {
		w.line("%s %s;", g.cType(f.Type), f.Name)
	}
	w.close("} " + name + ";")
}

func (g *generator) cSharedEnum(w *writer, e *bridge.SharedEnum) {
	name := g.names.SharedCName(e.Name)
	tag := g.names.EnumTagName(e.Name)
	w.gap()
	w.open("typedef enum %s {", tag)
	for _, v := range e.Variants {
		w.line("%s,", g.names.EnumVariantName(e.Name, v))
	}
	w.close("} " + tag + ";")
	w.open("typedef struct %s {", name)
	w.line("%s tag;", tag)
	w.close("} " + name + ";")
}
