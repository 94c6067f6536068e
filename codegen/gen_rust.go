package codegen

import (
	"strings"

	"github.com/chazu/bridgegen/bridge"
)

// rust emits the native glue: one module holding type declarations, exported
// trampolines for native-implemented functions, safe wrappers for
// host-implemented functions and the extern block they call through.
func (g *generator) rust() string {
	w := &writer{}
	w.line("// Generated by bridgegen. DO NOT EDIT.")
	w.gap()
	w.line("#[allow(non_snake_case, non_camel_case_types, unused_unsafe)]")
	w.open("pub mod %s {", g.mod.Name)

	for _, decl := range g.mod.Types.Types() {
		if decl.AlreadyDeclared() {
			continue
		}
		switch decl.Kind {
		case bridge.DeclOpaque:
			if decl.Opaque.Owner == bridge.Native {
				g.rustNativeOpaque(w, decl.Opaque)
			} else {
				g.rustHostOpaque(w, decl.Opaque)
			}
		case bridge.DeclStruct:
			g.rustSharedStruct(w, decl.Struct)
		case bridge.DeclEnum:
			g.rustSharedEnum(w, decl.Enum)
		}
	}

	for _, fn := range g.nativeFunctions() {
		w.gap()
		g.rustExport(w, fn)
	}

	host := g.hostFunctions()
	for _, fn := range host {
		if fn.SelfType == nil {
			w.gap()
			g.rustHostWrapper(w, fn)
		}
	}
	for _, decl := range g.mod.Types.Types() {
		if decl.Kind != bridge.DeclOpaque || decl.Opaque.Owner != bridge.Host {
			continue
		}
		var methods []*bridge.Function
		for _, fn := range host {
			if fn.SelfType == decl.Opaque {
				methods = append(methods, fn)
			}
		}
		if len(methods) == 0 {
			continue
		}
		w.gap()
		w.open("impl %s {", g.rustOpaquePath(decl.Opaque))
		for i, fn := range methods {
			if i > 0 {
				w.gap()
			}
			g.rustHostWrapper(w, fn)
		}
		w.close("}")
	}

	g.rustExternBlock(w, host)

	w.close("}")
	return w.String()
}

func rustCfg(w *writer, fn *bridge.Function) {
	if fn.Feature != "" {
		w.line(`#[cfg(feature = "%s")]`, fn.Feature)
	}
}

func rustRet(t string) string {
	if t == "()" {
		return ""
	}
	return " -> " + t
}

func (g *generator) rustNativeOpaque(w *writer, t *bridge.OpaqueType) {
	w.gap()
	w.line(`#[export_name = "%s"]`, g.names.FreeLinkName(t.Name))
	w.open("pub extern \"C\" fn %s (this: *mut super::%s) {", g.names.FreeFuncName(t.Name), t.Name)
	w.line("let this = unsafe { Box::from_raw(this) };")
	w.line("drop(this);")
	w.close("}")
}

func (g *generator) rustHostOpaque(w *writer, t *bridge.OpaqueType) {
	w.gap()
	w.doc("///", t.Doc)
	w.line("#[repr(C)]")
	w.line("pub struct %s(%s);", t.Name, rustVoidPtr)
	w.gap()
	w.open("impl Drop for %s {", t.Name)
	w.open("fn drop (&mut self) {")
	w.line("unsafe { %s(self.0) }", g.names.FreeFuncName(t.Name))
	w.close("}")
	w.close("}")
}

func (g *generator) rustSharedStruct(w *writer, s *bridge.SharedStruct) {
	ffi := g.names.SharedRustName(s.Name)

	w.gap()
	w.doc("///", s.Doc)
	w.open("pub struct %s {", s.Name)
	for _, f := range s.Fields {
		w.line("pub %s: %s,", f.Name, g.rustType(f.Type))
	}
	w.close("}")

	w.gap()
	w.line("#[repr(C)]")
	w.line("#[doc(hidden)]")
	w.open("pub struct %s {", ffi)
	if len(s.Fields) == 0 {
		w.line("_private: u8,")
	}
	for _, f := range s.Fields {
		w.line("%s: %s,", f.Name, g.rustFfiType(f.Type))
	}
	w.close("}")

	w.gap()
	w.open("impl %s {", s.Name)
	w.line("#[doc(hidden)]")
	w.line("#[inline(always)]")
	w.open("pub fn into_ffi_repr(self) -> %s {", ffi)
	w.open("%s {", ffi)
	if len(s.Fields) == 0 {
		w.line("_private: 123,")
	}
	for _, f := range s.Fields {
		w.line("%s: %s,", f.Name, g.rustToFfi(f.Type, "self."+f.Name))
	}
	w.close("}")
	w.close("}")
	w.close("}")

	unsafeFields := false
	for _, f := range s.Fields {
		unsafeFields = unsafeFields || rustFromFfiUnsafe(f.Type)
	}
	w.gap()
	w.open("impl %s {", ffi)
	w.line("#[doc(hidden)]")
	w.line("#[inline(always)]")
	w.open("pub fn into_rust_repr(self) -> %s {", s.Name)
	if unsafeFields {
		w.open("unsafe {")
	}
	w.open("%s {", s.Name)
	for _, f := range s.Fields {
		w.line("%s: %s,", f.Name, g.rustFromFfi(f.Type, "self."+f.Name))
	}
	w.close("}")
	if unsafeFields {
		w.close("}")
	}
	w.close("}")
	w.close("}")
}

func (g *generator) rustSharedEnum(w *writer, e *bridge.SharedEnum) {
	ffi := g.names.SharedRustName(e.Name)

	w.gap()
	w.doc("///", e.Doc)
	w.open("pub enum %s {", e.Name)
	for _, v := range e.Variants {
		w.line("%s,", v)
	}
	w.close("}")

	w.gap()
	w.line("#[repr(C)]")
	w.line("#[doc(hidden)]")
	w.open("pub enum %s {", ffi)
	for _, v := range e.Variants {
		w.line("%s,", v)
	}
	w.close("}")

	w.gap()
	w.open("impl %s {", e.Name)
	w.line("#[doc(hidden)]")
	w.line("#[inline(always)]")
	w.open("pub fn into_ffi_repr(self) -> %s {", ffi)
	w.open("match self {")
	for _, v := range e.Variants {
		w.line("%s::%s => %s::%s,", e.Name, v, ffi, v)
	}
	w.close("}")
	w.close("}")
	w.close("}")

	w.gap()
	w.open("impl %s {", ffi)
	w.line("#[doc(hidden)]")
	w.line("#[inline(always)]")
	w.open("pub fn into_rust_repr(self) -> %s {", e.Name)
	w.open("match self {")
	for _, v := range e.Variants {
		w.line("%s::%s => %s::%s,", ffi, v, e.Name, v)
	}
	w.close("}")
	w.close("}")
	w.close("}")
}

// rustExport emits the exported trampoline of a native-implemented function.
// Arguments arrive in their boundary form and are converted before the call
// into the user's code; the result is converted back.
func (g *generator) rustExport(w *writer, fn *bridge.Function) {
	self := fn.SelfName()
	var params, args []string
	needsUnsafe := false

	var callee string
	switch {
	case fn.Receiver != bridge.NoReceiver:
		rt := receiverType(fn)
		params = append(params, "this: "+g.rustFfiType(rt))
		needsUnsafe = rustFromFfiUnsafe(rt)
		callee = "(" + g.rustFromFfi(rt, "this") + ")." + fn.Name
	case fn.SelfType != nil:
		callee = g.rustOpaquePath(fn.SelfType) + "::" + fn.Name
	default:
		callee = "super::" + fn.Name
	}
	for _, p := range fn.Params {
		params = append(params, p.Name+": "+g.rustFfiType(p.Type))
		args = append(args, g.rustFromFfi(p.Type, p.Name))
		needsUnsafe = needsUnsafe || rustFromFfiUnsafe(p.Type)
	}

	body := g.rustToFfi(fn.Return, callee+"("+strings.Join(args, ", ")+")")
	if needsUnsafe {
		body = "unsafe { " + body + " }"
	}

	w.doc("///", fn.Doc)
	rustCfg(w, fn)
	w.line(`#[export_name = "%s"]`, g.names.FuncLinkName(self, fn.Name))
	w.open("pub extern \"C\" fn %s (%s)%s {",
		g.names.FuncIdent(self, fn.Name), strings.Join(params, ", "), rustRet(g.rustFfiType(fn.Return)))
	w.raw(body)
	w.close("}")
}

// rustHostWrapper emits the safe native function that calls a
// host-implemented function through the extern block.
func (g *generator) rustHostWrapper(w *writer, fn *bridge.Function) {
	var params, args []string
	if fn.Receiver != bridge.NoReceiver {
		params = append(params, fn.Receiver.String())
		args = append(args, g.rustToFfi(receiverType(fn), "self"))
	}
	for _, p := range fn.Params {
		params = append(params, p.Name+": "+g.rustType(p.Type))
		args = append(args, g.rustToFfi(p.Type, p.Name))
	}
	call := g.names.FuncIdent(fn.SelfName(), fn.Name) + "(" + strings.Join(args, ", ") + ")"

	w.doc("///", fn.Doc)
	rustCfg(w, fn)
	w.open("pub fn %s (%s)%s {", fn.Name, strings.Join(params, ", "), rustRet(g.rustType(fn.Return)))
	w.line("unsafe { %s }", g.rustFromFfi(fn.Return, call))
	w.close("}")
}

// rustExternBlock declares every symbol the host side exports: the
// host-implemented functions followed by the free hooks of host-owned types.
func (g *generator) rustExternBlock(w *writer, host []*bridge.Function) {
	var frees []*bridge.OpaqueType
	for _, decl := range g.mod.Types.Types() {
		if decl.Kind == bridge.DeclOpaque && decl.Opaque.Owner == bridge.Host && !decl.Opaque.AlreadyDeclared {
			frees = append(frees, decl.Opaque)
		}
	}
	if len(host) == 0 && len(frees) == 0 {
		return
	}

	w.gap()
	w.open(`extern "C" {`)
	for _, fn := range host {
		var params []string
		if fn.Receiver != bridge.NoReceiver {
			params = append(params, "this: "+g.rustFfiType(receiverType(fn)))
		}
		for _, p := range fn.Params {
			params = append(params, p.Name+": "+g.rustFfiType(p.Type))
		}
		w.gap()
		rustCfg(w, fn)
		w.line(`#[link_name = "%s"]`, g.names.FuncLinkName(fn.SelfName(), fn.Name))
		w.line("fn %s (%s)%s;", g.names.FuncIdent(fn.SelfName(), fn.Name),
			strings.Join(params, ", "), rustRet(g.rustFfiType(fn.Return)))
	}
	for _, t := range frees {
		w.gap()
		w.line(`#[link_name = "%s"]`, g.names.FreeLinkName(t.Name))
		w.line("fn %s (this: %s);", g.names.FreeFuncName(t.Name), rustVoidPtr)
	}
	w.close("}")
}
