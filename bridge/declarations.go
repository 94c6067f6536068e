package bridge

// DeclKind tags a TypeDeclaration.
type DeclKind uint8

const (
	DeclOpaque DeclKind = iota
	DeclStruct
	DeclEnum
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "shared struct"
	case DeclEnum:
		return "shared enum"
	}
	return "opaque"
}

// TypeDeclaration is a declared type: exactly one of Opaque, Struct or Enum
// is set, matching Kind.
type TypeDeclaration struct {
	Kind   DeclKind
	Opaque *OpaqueType
	Struct *SharedStruct
	Enum   *SharedEnum
}

// OpaqueType lives behind a pointer and is owned by exactly one side.
type OpaqueType struct {
	Name            string
	Owner           Side
	AlreadyDeclared bool // the type and its free hook are emitted elsewhere
	Doc             string
	Generics        []string // preserved, not used by codegen
	Pos             Pos
}

// StructField is a shared struct member with its resolved type.
type StructField struct {
	Name string
	Expr TypeExpr
	Type BridgedType
}

// SharedStruct is copied field by field across the boundary.
type SharedStruct struct {
	Name            string
	Fields          []StructField
	Repr            Repr
	AlreadyDeclared bool
	Doc             string
	Pos             Pos
}

// SharedEnum is copied variant by variant across the boundary.
type SharedEnum struct {
	Name            string
	Variants        []string
	AlreadyDeclared bool
	Doc             string
	Pos             Pos
}

// Name returns the declared name.
func (d TypeDeclaration) Name() string {
	switch d.Kind {
	case DeclStruct:
		return d.Struct.Name
	case DeclEnum:
		return d.Enum.Name
	}
	return d.Opaque.Name
}

// Pos returns where the declaration came from.
func (d TypeDeclaration) Pos() Pos {
	switch d.Kind {
	case DeclStruct:
		return d.Struct.Pos
	case DeclEnum:
		return d.Enum.Pos
	}
	return d.Opaque.Pos
}

// AlreadyDeclared reports whether the declaration is emitted by another module.
func (d TypeDeclaration) AlreadyDeclared() bool {
	switch d.Kind {
	case DeclStruct:
		return d.Struct.AlreadyDeclared
	case DeclEnum:
		return d.Enum.AlreadyDeclared
	}
	return d.Opaque.AlreadyDeclared
}

// ToBridgedType builds the use-site form of the declaration. reference and
// mutable only matter for opaque types; shared types are always by value.
func (d TypeDeclaration) ToBridgedType(reference, mutable bool) BridgedType {
	switch d.Kind {
	case DeclStruct:
		return BridgedType{Kind: KindSharedStruct, Struct: d.Struct}
	case DeclEnum:
		return BridgedType{Kind: KindSharedEnum, Enum: d.Enum}
	}
	return BridgedType{
		Kind:      KindOpaque,
		Opaque:    d.Opaque,
		Reference: reference,
		Mutable:   reference && mutable,
	}
}
