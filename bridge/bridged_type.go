package bridge

import "fmt"

// Kind is the closed set of use-site type shapes.
type Kind uint8

const (
	KindUnit Kind = iota
	KindPrimitive
	KindString // String, owned length-prefixed buffer
	KindStr    // &str, borrowed length-prefixed buffer
	KindOption
	KindVec
	KindOpaque
	KindSharedStruct
	KindSharedEnum
)

// Primitive enumerates the numeric builtins and bool.
type Primitive uint8

const (
	U8 Primitive = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	Usize
	Isize
	F32
	F64
	Bool
)

type primitiveNames struct {
	rust, swift, c, key string
}

var primitives = [...]primitiveNames{
	U8:    {"u8", "UInt8", "uint8_t", "U8"},
	I8:    {"i8", "Int8", "int8_t", "I8"},
	U16:   {"u16", "UInt16", "uint16_t", "U16"},
	I16:   {"i16", "Int16", "int16_t", "I16"},
	U32:   {"u32", "UInt32", "uint32_t", "U32"},
	I32:   {"i32", "Int32", "int32_t", "I32"},
	U64:   {"u64", "UInt64", "uint64_t", "U64"},
	I64:   {"i64", "Int64", "int64_t", "I64"},
	Usize: {"usize", "UInt", "uintptr_t", "Usize"},
	Isize: {"isize", "Int", "intptr_t", "Isize"},
	F32:   {"f32", "Float", "float", "F32"},
	F64:   {"f64", "Double", "double", "F64"},
	Bool:  {"bool", "Bool", "bool", "Bool"},
}

var primitiveByName = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitives))
	for i, p := range primitives {
		m[p.rust] = Primitive(i)
	}
	return m
}()

// RustName is the native spelling, e.g. "u8".
func (p Primitive) RustName() string { return primitives[p].rust }

// SwiftName is the host spelling, e.g. "UInt8".
func (p Primitive) SwiftName() string { return primitives[p].swift }

// CName is the header spelling, e.g. "uint8_t".
func (p Primitive) CName() string { return primitives[p].c }

// Key is the suffix used by the runtime's option types, e.g. "U8".
func (p Primitive) Key() string { return primitives[p].key }

// BridgedType is a declared or builtin type as it appears at one call site.
// It is built fresh for every parameter, return and field position.
type BridgedType struct {
	Kind      Kind
	Prim      Primitive     // KindPrimitive
	Elem      *BridgedType  // KindOption, KindVec
	Opaque    *OpaqueType   // KindOpaque
	Struct    *SharedStruct // KindSharedStruct
	Enum      *SharedEnum   // KindSharedEnum
	Reference bool
	Mutable   bool
}

// IsUnit reports whether the type is ().
func (b BridgedType) IsUnit() bool { return b.Kind == KindUnit }

// DeclName returns the declared name for opaque and shared types.
func (b BridgedType) DeclName() string {
	switch b.Kind {
	case KindOpaque:
		return b.Opaque.Name
	case KindSharedStruct:
		return b.Struct.Name
	case KindSharedEnum:
		return b.Enum.Name
	}
	return ""
}

func (b BridgedType) String() string {
	ref := ""
	if b.Reference {
		ref = "&"
		if b.Mutable {
			ref = "&mut "
		}
	}
	switch b.Kind {
	case KindUnit:
		return "()"
	case KindPrimitive:
		return b.Prim.RustName()
	case KindString:
		return "String"
	case KindStr:
		return "&str"
	case KindOption:
		return fmt.Sprintf("Option<%s>", b.Elem)
	case KindVec:
		return fmt.Sprintf("Vec<%s>", b.Elem)
	}
	return ref + b.DeclName()
}
