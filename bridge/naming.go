package bridge

import (
	"fmt"
	"unicode"
)

// DefaultPrefix is prepended to every generated cross-boundary symbol.
const DefaultPrefix = "__swift_bridge__"

// Naming derives linker-visible symbol names from declared names. Every
// symbol has two shapes built from the same (prefix, name) pair: a
// '$'-delimited link name used in string literals (export_name, link_name,
// @_cdecl, C prototypes) and a bare identifier used for Rust declarations.
type Naming struct {
	Prefix string
}

// NewNaming returns a Naming for prefix, or DefaultPrefix when empty.
func NewNaming(prefix string) Naming {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Naming{Prefix: prefix}
}

// FreeLinkName is the destructor symbol, e.g. "__swift_bridge__$MyType$_free".
func (n Naming) FreeLinkName(typeName string) string {
	return n.Prefix + "$" + typeName + "$_free"
}

// FreeFuncName is the destructor identifier, e.g. "__swift_bridge__MyType__free".
func (n Naming) FreeFuncName(typeName string) string {
	return n.Prefix + typeName + "__free"
}

// FuncLinkName is the call trampoline symbol: "P$f" for free functions and
// "P$T$f" for methods and associated functions of T.
func (n Naming) FuncLinkName(selfType, fn string) string {
	if selfType == "" {
		return n.Prefix + "$" + fn
	}
	return n.Prefix + "$" + selfType + "$" + fn
}

// FuncIdent is the call trampoline identifier: "Pf" or "PT_f".
func (n Naming) FuncIdent(selfType, fn string) string {
	if selfType == "" {
		return n.Prefix + fn
	}
	return n.Prefix + selfType + "_" + fn
}

// SharedCName is the C and Swift name of a shared type's FFI mirror.
func (n Naming) SharedCName(name string) string {
	return n.Prefix + "$" + name
}

// SharedRustName is the Rust name of a shared type's FFI mirror.
func (n Naming) SharedRustName(name string) string {
	return n.Prefix + name
}

// EnumTagName is the C enum holding a shared enum's discriminants.
func (n Naming) EnumTagName(enum string) string {
	return n.Prefix + "$" + enum + "$Tag"
}

// EnumVariantName is the C enumerator of one shared enum variant.
func (n Naming) EnumVariantName(enum, variant string) string {
	return n.Prefix + "$" + enum + "$" + variant
}

// IsIdent reports whether s is usable as a bare identifier in all three
// output languages.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// ValidatePrefix checks that prefix keeps both name shapes legal: the
// identifier form must stay an identifier, which also rules out '$'.
func ValidatePrefix(prefix string) error {
	if !IsIdent(prefix) {
		return fmt.Errorf("boundary prefix %q is not a valid identifier", prefix)
	}
	return nil
}
