package codegen

import (
	"github.com/chazu/bridgegen/bridge"
)

// Per-type spellings and conversion expressions. Each function is one closed
// switch over bridge.Kind; opaque types further branch on owner and passing.
//
// Conversion directions are named after the value flow: toFfi turns a
// language-level value into its boundary representation, fromFfi reverses it.
// Native conversions never contain an unsafe block themselves; callers wrap
// the whole body once.

const (
	rustStrType       = "swift_bridge::string::RustStr"
	rustOptionPrefix  = "swift_bridge::option::Option"
	rustOptionStrType = "swift_bridge::option::OptionRustStr"
	rustVoidPtr       = "*mut std::ffi::c_void"

	swiftRawPtr      = "UnsafeMutableRawPointer"
	swiftHostPtrType = "__private__PointerToSwiftType"
	swiftOptionPfx   = "__private__Option"
	swiftOptionStr   = "__private__OptionRustStr"
)

func isStringish(b bridge.BridgedType) bool {
	return b.Kind == bridge.KindString || b.Kind == bridge.KindStr
}

// --- Rust -------------------------------------------------------------------

func (g *generator) rustOpaquePath(t *bridge.OpaqueType) string {
	if t.Owner == bridge.Native || t.AlreadyDeclared {
		return "super::" + t.Name
	}
	return t.Name
}

func (g *generator) rustSharedPath(name string, already bool) string {
	if already {
		return "super::" + name
	}
	return name
}

func (g *generator) rustSharedFfiPath(name string, already bool) string {
	if already {
		return "super::" + g.names.SharedRustName(name)
	}
	return g.names.SharedRustName(name)
}

func rustRef(b bridge.BridgedType) string {
	switch {
	case !b.Reference:
		return ""
	case b.Mutable:
		return "&mut "
	}
	return "&"
}

// rustType is the user-facing native type at a use site.
func (g *generator) rustType(b bridge.BridgedType) string {
	switch b.Kind {
	case bridge.KindUnit:
		return "()"
	case bridge.KindPrimitive:
		return b.Prim.RustName()
	case bridge.KindString:
		return "String"
	case bridge.KindStr:
		return "&str"
	case bridge.KindOption:
		return "Option<" + g.rustType(*b.Elem) + ">"
	case bridge.KindVec:
		return "Vec<" + g.rustType(*b.Elem) + ">"
	case bridge.KindOpaque:
		return rustRef(b) + g.rustOpaquePath(b.Opaque)
	case bridge.KindSharedStruct:
		return g.rustSharedPath(b.Struct.Name, b.Struct.AlreadyDeclared)
	case bridge.KindSharedEnum:
		return g.rustSharedPath(b.Enum.Name, b.Enum.AlreadyDeclared)
	}
	panic("codegen: unhandled kind")
}

// rustFfiType is the type used in extern "C" signatures and FFI mirrors.
func (g *generator) rustFfiType(b bridge.BridgedType) string {
	switch b.Kind {
	case bridge.KindUnit:
		return "()"
	case bridge.KindPrimitive:
		return b.Prim.RustName()
	case bridge.KindString, bridge.KindStr:
		return rustStrType
	case bridge.KindOption:
		switch elem := *b.Elem; {
		case elem.Kind == bridge.KindPrimitive:
			return rustOptionPrefix + elem.Prim.Key()
		case isStringish(elem):
			return rustOptionStrType
		default:
			return "*mut " + g.rustOpaquePath(elem.Opaque)
		}
	case bridge.KindVec:
		return "*mut Vec<" + g.rustType(*b.Elem) + ">"
	case bridge.KindOpaque:
		c := bridge.Classify(b)
		if c.Category == bridge.CategoryOpaqueNative {
			if c.Passing == bridge.ByRef {
				return "*const " + g.rustOpaquePath(b.Opaque)
			}
			return "*mut " + g.rustOpaquePath(b.Opaque)
		}
		if c.Passing == bridge.ByValue {
			return g.rustOpaquePath(b.Opaque)
		}
		return rustVoidPtr
	case bridge.KindSharedStruct:
		return g.rustSharedFfiPath(b.Struct.Name, b.Struct.AlreadyDeclared)
	case bridge.KindSharedEnum:
		return g.rustSharedFfiPath(b.Enum.Name, b.Enum.AlreadyDeclared)
	}
	panic("codegen: unhandled kind")
}

// rustToFfi converts a native value e into its boundary representation.
func (g *generator) rustToFfi(b bridge.BridgedType, e string) string {
	switch b.Kind {
	case bridge.KindUnit, bridge.KindPrimitive:
		return e
	case bridge.KindString:
		return rustStrType + "::from_string(" + e + ")"
	case bridge.KindStr:
		return rustStrType + "::from_str(" + e + ")"
	case bridge.KindOption:
		switch elem := *b.Elem; {
		case elem.Kind == bridge.KindPrimitive:
			return g.rustFfiType(b) + "::from_option(" + e + ")"
		case elem.Kind == bridge.KindString:
			return rustOptionStrType + "::from_option_string(" + e + ")"
		case elem.Kind == bridge.KindStr:
			return rustOptionStrType + "::from_option_str(" + e + ")"
		default:
			return "if let Some(val) = " + e + " { Box::into_raw(Box::new(val)) } else { std::ptr::null_mut() }"
		}
	case bridge.KindVec:
		return "Box::into_raw(Box::new(" + e + "))"
	case bridge.KindOpaque:
		c := bridge.Classify(b)
		if c.Category == bridge.CategoryOpaqueNative {
			switch c.Passing {
			case bridge.ByRef:
				return e + " as *const " + g.rustOpaquePath(b.Opaque)
			case bridge.ByMutRef:
				return e + " as *mut " + g.rustOpaquePath(b.Opaque)
			}
			return "Box::into_raw(Box::new(" + e + ")) as *mut " + g.rustOpaquePath(b.Opaque)
		}
		if c.Passing == bridge.ByValue {
			return e
		}
		return e + ".0"
	case bridge.KindSharedStruct, bridge.KindSharedEnum:
		return e + ".into_ffi_repr()"
	}
	panic("codegen: unhandled kind")
}

// rustFromFfi converts a boundary representation e into a native value.
func (g *generator) rustFromFfi(b bridge.BridgedType, e string) string {
	switch b.Kind {
	case bridge.KindUnit, bridge.KindPrimitive:
		return e
	case bridge.KindString:
		return e + ".into_string()"
	case bridge.KindStr:
		return e + ".to_str()"
	case bridge.KindOption:
		switch elem := *b.Elem; {
		case elem.Kind == bridge.KindPrimitive:
			return e + ".into_option()"
		case elem.Kind == bridge.KindString:
			return e + ".into_option_string()"
		case elem.Kind == bridge.KindStr:
			return e + ".into_option_str()"
		default:
			return "{ let val = " + e + "; if val.is_null() { None } else { Some(*Box::from_raw(val)) } }"
		}
	case bridge.KindVec:
		return "*Box::from_raw(" + e + ")"
	case bridge.KindOpaque:
		c := bridge.Classify(b)
		if c.Category == bridge.CategoryOpaqueNative {
			switch c.Passing {
			case bridge.ByRef:
				return "&*" + e
			case bridge.ByMutRef:
				return "&mut *" + e
			}
			return "*Box::from_raw(" + e + ")"
		}
		switch c.Passing {
		case bridge.ByRef:
			return "&*std::mem::ManuallyDrop::new(" + g.rustOpaquePath(b.Opaque) + "(" + e + "))"
		case bridge.ByMutRef:
			return "&mut *std::mem::ManuallyDrop::new(" + g.rustOpaquePath(b.Opaque) + "(" + e + "))"
		}
		return e
	case bridge.KindSharedStruct, bridge.KindSharedEnum:
		return e + ".into_rust_repr()"
	}
	panic("codegen: unhandled kind")
}

// rustFromFfiUnsafe reports whether rustFromFfi dereferences a raw pointer
// for b.
func rustFromFfiUnsafe(b bridge.BridgedType) bool {
	switch b.Kind {
	case bridge.KindString, bridge.KindStr, bridge.KindVec:
		return true
	case bridge.KindOption:
		return b.Elem.Kind != bridge.KindPrimitive
	case bridge.KindOpaque:
		return b.Opaque.Owner == bridge.Native
	}
	return false
}

// --- Swift ------------------------------------------------------------------

func swiftOpaqueClass(b bridge.BridgedType) string {
	if b.Opaque.Owner == bridge.Native {
		switch bridge.Classify(b).Passing {
		case bridge.ByRef:
			return b.Opaque.Name + "Ref"
		case bridge.ByMutRef:
			return b.Opaque.Name + "RefMut"
		}
	}
	return b.Opaque.Name
}

// swiftType is the user-facing host type at a use site.
func (g *generator) swiftType(b bridge.BridgedType) string {
	switch b.Kind {
	case bridge.KindUnit:
		return "()"
	case bridge.KindPrimitive:
		return b.Prim.SwiftName()
	case bridge.KindString:
		return "String"
	case bridge.KindStr:
		return "RustStr"
	case bridge.KindOption:
		return g.swiftType(*b.Elem) + "?"
	case bridge.KindVec:
		return "RustVec<" + g.swiftType(*b.Elem) + ">"
	case bridge.KindOpaque:
		return swiftOpaqueClass(b)
	case bridge.KindSharedStruct, bridge.KindSharedEnum:
		return b.DeclName()
	}
	panic("codegen: unhandled kind")
}

// swiftFfiType is the type of a @_cdecl trampoline parameter or result.
func (g *generator) swiftFfiType(b bridge.BridgedType) string {
	switch b.Kind {
	case bridge.KindUnit:
		return "()"
	case bridge.KindPrimitive:
		return b.Prim.SwiftName()
	case bridge.KindString, bridge.KindStr:
		return "RustStr"
	case bridge.KindOption:
		switch elem := *b.Elem; {
		case elem.Kind == bridge.KindPrimitive:
			return swiftOptionPfx + elem.Prim.Key()
		case isStringish(elem):
			return swiftOptionStr
		default:
			return swiftRawPtr + "?"
		}
	case bridge.KindVec:
		return swiftRawPtr
	case bridge.KindOpaque:
		if b.Opaque.Owner == bridge.Host && !b.Reference {
			return swiftHostPtrType
		}
		return swiftRawPtr
	case bridge.KindSharedStruct, bridge.KindSharedEnum:
		return g.names.SharedCName(b.DeclName())
	}
	panic("codegen: unhandled kind")
}

// swiftToFfi converts a host value e into its boundary representation.
// cdecl selects the @_cdecl trampoline encoding of host-owned handles; calls
// through the C header pass them as bare pointers.
func (g *generator) swiftToFfi(b bridge.BridgedType, e string, cdecl bool) string {
	switch b.Kind {
	case bridge.KindUnit, bridge.KindPrimitive, bridge.KindStr:
		return e
	case bridge.KindString:
		return "RustStr.fromString(" + e + ")"
	case bridge.KindOption:
		switch elem := *b.Elem; {
		case elem.Kind == bridge.KindPrimitive:
			return swiftOptionPfx + elem.Prim.Key() + ".fromSwiftRepr(" + e + ")"
		case elem.Kind == bridge.KindString:
			return swiftOptionStr + ".fromStringOption(" + e + ")"
		case elem.Kind == bridge.KindStr:
			return swiftOptionStr + ".fromStrOption(" + e + ")"
		default:
			return "{ if let val = " + e + " { val.isOwned = false; return val.ptr } else { return nil } }()"
		}
	case bridge.KindVec:
		return "{ let val = " + e + "; val.isOwned = false; return val.ptr }()"
	case bridge.KindOpaque:
		c := bridge.Classify(b)
		if c.Category == bridge.CategoryOpaqueNative {
			if c.Passing == bridge.ByValue {
				return "{ let val = " + e + "; val.isOwned = false; return val.ptr }()"
			}
			return e + ".ptr"
		}
		if c.Passing != bridge.ByValue {
			return "Unmanaged.passUnretained(" + e + ").toOpaque()"
		}
		if cdecl {
			return swiftHostPtrType + "(ptr: Unmanaged.passRetained(" + e + ").toOpaque())"
		}
		return "Unmanaged.passRetained(" + e + ").toOpaque()"
	case bridge.KindSharedStruct, bridge.KindSharedEnum:
		return e + ".intoFfiRepr()"
	}
	panic("codegen: unhandled kind")
}

// swiftFromFfi converts a boundary representation e into a host value.
func (g *generator) swiftFromFfi(b bridge.BridgedType, e string, cdecl bool) string {
	switch b.Kind {
	case bridge.KindUnit, bridge.KindPrimitive, bridge.KindStr:
		return e
	case bridge.KindString:
		return e + ".intoString()"
	case bridge.KindOption:
		switch elem := *b.Elem; {
		case elem.Kind == bridge.KindPrimitive:
			return e + ".intoSwiftRepr()"
		case elem.Kind == bridge.KindString:
			return e + ".intoStringOption()"
		case elem.Kind == bridge.KindStr:
			return e + ".intoStrOption()"
		default:
			return "{ let val = " + e + "; if val != nil { return " + elem.Opaque.Name + "(ptr: val!) } else { return nil } }()"
		}
	case bridge.KindVec:
		return "RustVec(ptr: " + e + ")"
	case bridge.KindOpaque:
		c := bridge.Classify(b)
		if c.Category == bridge.CategoryOpaqueNative {
			return swiftOpaqueClass(b) + "(ptr: " + e + ")"
		}
		unmanaged := "Unmanaged<" + b.Opaque.Name + ">"
		if c.Passing != bridge.ByValue {
			return unmanaged + ".fromOpaque(" + e + ").takeUnretainedValue()"
		}
		if cdecl {
			return unmanaged + ".fromOpaque(" + e + ".ptr).takeRetainedValue()"
		}
		return unmanaged + ".fromOpaque(" + e + ").takeRetainedValue()"
	case bridge.KindSharedStruct, bridge.KindSharedEnum:
		return e + ".intoSwiftRepr()"
	}
	panic("codegen: unhandled kind")
}

// --- C ----------------------------------------------------------------------

// cType is the header spelling at a use site. Every handle is void*.
func (g *generator) cType(b bridge.BridgedType) string {
	switch b.Kind {
	case bridge.KindUnit:
		return "void"
	case bridge.KindPrimitive:
		return b.Prim.CName()
	case bridge.KindString, bridge.KindStr:
		return "struct RustStr"
	case bridge.KindOption:
		switch elem := *b.Elem; {
		case elem.Kind == bridge.KindPrimitive:
			return "struct " + swiftOptionPfx + elem.Prim.Key()
		case isStringish(elem):
			return "struct " + swiftOptionStr
		default:
			return "void*"
		}
	case bridge.KindVec, bridge.KindOpaque:
		return "void*"
	case bridge.KindSharedStruct, bridge.KindSharedEnum:
		return "struct " + g.names.SharedCName(b.DeclName())
	}
	panic("codegen: unhandled kind")
}

// receiverType is the use-site form of a method's self argument.
func receiverType(fn *bridge.Function) bridge.BridgedType {
	return bridge.BridgedType{
		Kind:      bridge.KindOpaque,
		Opaque:    fn.SelfType,
		Reference: fn.Receiver != bridge.RecvValue,
		Mutable:   fn.Receiver == bridge.RecvRefMut,
	}
}
