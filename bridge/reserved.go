package bridge

// reservedTypeNames lists names a declaration may not take: builtins the
// resolver handles itself, types of the generated runtime support, and host
// standard types the generated Swift would shadow.
var reservedTypeNames = map[string]bool{
	// builtins
	"u8": true, "i8": true, "u16": true, "i16": true,
	"u32": true, "i32": true, "u64": true, "i64": true,
	"usize": true, "isize": true, "f32": true, "f64": true,
	"bool": true, "str": true, "String": true,
	"Option": true, "Vec": true, "Box": true, "Self": true,

	// runtime support
	"RustStr":                      true,
	"RustString":                   true,
	"RustVec":                      true,
	"__private__PointerToSwiftType": true,

	// Swift standard library
	"Int": true, "UInt": true, "Int8": true, "UInt8": true,
	"Int16": true, "UInt16": true, "Int32": true, "UInt32": true,
	"Int64": true, "UInt64": true, "Float": true, "Double": true,
	"Bool": true, "Array": true, "Dictionary": true, "Set": true,
	"Optional": true, "Character": true, "Error": true, "Result": true,
	"Void": true, "Any": true, "AnyObject": true, "Unmanaged": true,
}

// IsReservedTypeName reports whether name is unavailable for declarations.
func IsReservedTypeName(name string) bool {
	return reservedTypeNames[name]
}

// keywords lists identifiers that are reserved in at least one output
// language. Contextual keywords (open, get, set, union) stay available.
var keywords = map[string]bool{
	// Rust
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "abstract": true, "become": true,
	"box": true, "do": true, "final": true, "gen": true, "macro": true,
	"override": true, "priv": true, "try": true, "typeof": true, "unsized": true,
	"virtual": true, "yield": true,

	// Swift
	"associatedtype": true, "case": true, "catch": true, "class": true,
	"default": true, "defer": true, "deinit": true, "extension": true,
	"fallthrough": true, "fileprivate": true, "func": true, "guard": true,
	"import": true, "init": true, "inout": true, "internal": true, "is": true,
	"nil": true, "operator": true, "precedencegroup": true, "private": true,
	"protocol": true, "public": true, "repeat": true, "rethrows": true,
	"subscript": true, "switch": true, "throw": true, "throws": true,
	"typealias": true, "var": true,

	// C
	"auto": true, "char": true, "double": true, "float": true, "goto": true,
	"inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "short": true, "signed": true, "sizeof": true,
	"typedef": true, "unsigned": true, "void": true, "volatile": true,
	"_Bool": true,
}

// IsKeyword reports whether name is reserved in Rust, Swift or C.
func IsKeyword(name string) bool {
	return keywords[name]
}
