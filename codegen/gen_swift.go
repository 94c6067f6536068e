package codegen

import (
	"strings"

	"github.com/chazu/bridgegen/bridge"
)

// swift emits the host glue: class wrappers and free trampolines for opaque
// types, mirrors of shared types, calls into native-implemented functions
// and @_cdecl trampolines for host-implemented ones.
func (g *generator) swift() string {
	w := &writer{}
	w.line("// Generated by bridgegen. DO NOT EDIT.")

	native := g.nativeFunctions()
	for _, decl := range g.mod.Types.Types() {
		switch decl.Kind {
		case bridge.DeclOpaque:
			t := decl.Opaque
			if t.Owner == bridge.Native {
				if !t.AlreadyDeclared {
					g.swiftNativeClasses(w, t)
				}
				g.swiftMethods(w, t, native)
			} else if !t.AlreadyDeclared {
				g.swiftHostFree(w, t)
			}
		case bridge.DeclStruct:
			if !decl.Struct.AlreadyDeclared {
				g.swiftSharedStruct(w, decl.Struct)
			}
		case bridge.DeclEnum:
			if !decl.Enum.AlreadyDeclared {
				g.swiftSharedEnum(w, decl.Enum)
			}
		}
	}

	for _, fn := range native {
		if fn.SelfType == nil && g.cfg.enabled(fn.Feature) {
			w.gap()
			g.swiftCall(w, fn)
		}
	}
	for _, fn := range g.hostFunctions() {
		if g.cfg.enabled(fn.Feature) {
			w.gap()
			g.swiftCdecl(w, fn)
		}
	}

	if g.usesHostHandles() {
		w.gap()
		w.open("public struct %s {", swiftHostPtrType)
		w.line("public let ptr: %s", swiftRawPtr)
		w.gap()
		w.open("public init(ptr: %s) {", swiftRawPtr)
		w.line("self.ptr = ptr")
		w.close("}")
		w.close("}")
	}
	return w.String()
}

func swiftRet(t string) string {
	if t == "()" {
		return ""
	}
	return " -> " + t
}

// swiftNativeClasses emits T : TRefMut : TRef. Only the owning T frees the
// native value, and only while it still owns it.
func (g *generator) swiftNativeClasses(w *writer, t *bridge.OpaqueType) {
	name := t.Name

	w.gap()
	w.doc("///", t.Doc)
	w.open("public class %s: %sRefMut {", name, name)
	w.line("var isOwned: Bool = true")
	w.gap()
	w.open("public override init(ptr: %s) {", swiftRawPtr)
	w.line("super.init(ptr: ptr)")
	w.close("}")
	w.gap()
	w.open("deinit {")
	w.open("if isOwned {")
	w.line("%s(ptr)", g.names.FreeLinkName(name))
	w.close("}")
	w.close("}")
	w.close("}")

	w.gap()
	w.open("public class %sRefMut: %sRef {", name, name)
	w.open("public override init(ptr: %s) {", swiftRawPtr)
	w.line("super.init(ptr: ptr)")
	w.close("}")
	w.close("}")

	w.gap()
	w.open("public class %sRef {", name)
	w.line("var ptr: %s", swiftRawPtr)
	w.gap()
	w.open("public init(ptr: %s) {", swiftRawPtr)
	w.line("self.ptr = ptr")
	w.close("}")
	w.close("}")
}

// swiftMethods places each enabled method of t on the class matching its
// receiver: by value, associated and init on T, &mut on TRefMut, & on TRef.
func (g *generator) swiftMethods(w *writer, t *bridge.OpaqueType, native []*bridge.Function) {
	buckets := map[string][]*bridge.Function{}
	for _, fn := range native {
		if fn.SelfType != t || !g.cfg.enabled(fn.Feature) {
			continue
		}
		class := t.Name
		switch fn.Receiver {
		case bridge.RecvRef:
			class += "Ref"
		case bridge.RecvRefMut:
			class += "RefMut"
		}
		buckets[class] = append(buckets[class], fn)
	}
	for _, class := range []string{t.Name, t.Name + "RefMut", t.Name + "Ref"} {
		fns := buckets[class]
		if len(fns) == 0 {
			continue
		}
		w.gap()
		w.open("extension %s {", class)
		for i, fn := range fns {
			if i > 0 {
				w.gap()
			}
			g.swiftCall(w, fn)
		}
		w.close("}")
	}
}

// swiftCall emits the public host function calling a native-implemented
// function through the C header.
func (g *generator) swiftCall(w *writer, fn *bridge.Function) {
	var params, args []string
	if fn.Receiver != bridge.NoReceiver {
		args = append(args, g.swiftToFfi(receiverType(fn), "self", false))
	}
	for _, p := range fn.Params {
		params = append(params, "_ "+p.Name+": "+g.swiftType(p.Type))
		args = append(args, g.swiftToFfi(p.Type, p.Name, false))
	}
	call := g.names.FuncLinkName(fn.SelfName(), fn.Name) + "(" + strings.Join(args, ", ") + ")"

	w.doc("///", fn.Doc)
	if fn.Init {
		w.open("public convenience init(%s) {", strings.Join(params, ", "))
		w.line("self.init(ptr: %s)", call)
		w.close("}")
		return
	}
	kw := "public func"
	if fn.SelfType != nil && fn.Receiver == bridge.NoReceiver {
		kw = "public class func"
	}
	w.open("%s %s(%s)%s {", kw, fn.Name, strings.Join(params, ", "), swiftRet(g.swiftType(fn.Return)))
	w.raw(g.swiftFromFfi(fn.Return, call, false))
	w.close("}")
}

// swiftCdecl emits the @_cdecl trampoline the native side calls for a
// host-implemented function.
func (g *generator) swiftCdecl(w *writer, fn *bridge.Function) {
	var params, args []string
	var callee string
	switch {
	case fn.Receiver != bridge.NoReceiver:
		rt := receiverType(fn)
		params = append(params, "_ this: "+g.swiftFfiType(rt))
		callee = g.swiftFromFfi(rt, "this", true) + "." + fn.Name
	case fn.SelfType != nil:
		callee = fn.SelfType.Name + "." + fn.Name
	default:
		callee = fn.Name
	}
	for _, p := range fn.Params {
		params = append(params, "_ "+p.Name+": "+g.swiftFfiType(p.Type))
		args = append(args, p.Name+": "+g.swiftFromFfi(p.Type, p.Name, true))
	}
	body := g.swiftToFfi(fn.Return, callee+"("+strings.Join(args, ", ")+")", true)

	w.line(`@_cdecl("%s")`, g.names.FuncLinkName(fn.SelfName(), fn.Name))
	w.open("func %s (%s)%s {", g.names.FuncIdent(fn.SelfName(), fn.Name),
		strings.Join(params, ", "), swiftRet(g.swiftFfiType(fn.Return)))
	w.raw(body)
	w.close("}")
}

// swiftHostFree emits the trampoline releasing the retain taken when a
// host-owned value was handed to the native side.
func (g *generator) swiftHostFree(w *writer, t *bridge.OpaqueType) {
	w.gap()
	w.line(`@_cdecl("%s")`, g.names.FreeLinkName(t.Name))
	w.open("func %s (ptr: %s) {", g.names.FreeFuncName(t.Name), swiftRawPtr)
	w.line("let _ = Unmanaged<%s>.fromOpaque(ptr).takeRetainedValue()", t.Name)
	w.close("}")
}

func (g *generator) swiftSharedStruct(w *writer, s *bridge.SharedStruct) {
	ffi := g.names.SharedCName(s.Name)
	layout := "public struct"
	if s.Repr == bridge.ReprClass {
		layout = "public final class"
	}

	var initParams, toFfi, toSwift []string
	for _, f := range s.Fields {
		initParams = append(initParams, f.Name+": "+g.swiftType(f.Type))
		toFfi = append(toFfi, f.Name+": "+g.swiftToFfi(f.Type, "self."+f.Name, false))
		toSwift = append(toSwift, f.Name+": "+g.swiftFromFfi(f.Type, "self."+f.Name, false))
	}
	if len(s.Fields) == 0 {
		toFfi = []string{"_private: 123"}
	}

	w.gap()
	w.doc("///", s.Doc)
	w.open("%s %s {", layout, s.Name)
	for _, f := range s.Fields {
		w.line("public var %s: %s", f.Name, g.swiftType(f.Type))
	}
	w.gap()
	w.open("public init(%s) {", strings.Join(initParams, ", "))
	for _, f := range s.Fields {
		w.line("self.%s = %s", f.Name, f.Name)
	}
	w.close("}")
	w.gap()
	w.line("@inline(__always)")
	w.open("func intoFfiRepr() -> %s {", ffi)
	w.line("%s(%s)", ffi, strings.Join(toFfi, ", "))
	w.close("}")
	w.close("}")

	w.gap()
	w.open("extension %s {", ffi)
	w.line("@inline(__always)")
	w.open("func intoSwiftRepr() -> %s {", s.Name)
	w.line("%s(%s)", s.Name, strings.Join(toSwift, ", "))
	w.close("}")
	w.close("}")
}

func (g *generator) swiftSharedEnum(w *writer, e *bridge.SharedEnum) {
	ffi := g.names.SharedCName(e.Name)

	w.gap()
	w.doc("///", e.Doc)
	w.open("public enum %s {", e.Name)
	for _, v := range e.Variants {
		w.line("case %s", v)
	}
	w.close("}")

	w.gap()
	w.open("extension %s {", e.Name)
	w.open("func intoFfiRepr() -> %s {", ffi)
	w.open("switch self {")
	for _, v := range e.Variants {
		w.line("case %s.%s:", e.Name, v)
		w.line("    return %s(tag: %s)", ffi, g.names.EnumVariantName(e.Name, v))
	}
	w.close("}")
	w.close("}")
	w.close("}")

	w.gap()
	w.open("extension %s {", ffi)
	w.open("func intoSwiftRepr() -> %s {", e.Name)
	w.open("switch self.tag {")
	for _, v := range e.Variants {
		w.line("case %s:", g.names.EnumVariantName(e.Name, v))
		w.line("    return %s.%s", e.Name, v)
	}
	w.line("default:")
	w.line(`    fatalError("Unreachable")`)
	w.close("}")
	w.close("}")
	w.close("}")
}
