// Package bridge is the declaration IR behind the generators: the ordered type
// registry, the use-site resolver that turns a parsed type expression into a
// BridgedType, and the ownership classifier the code generators branch on.
package bridge

import "fmt"

// Side names one side of the language boundary.
type Side uint8

const (
	// Native is the side with explicit ownership and manual heap allocation (Rust).
	Native Side = iota
	// Host is the reference counted side (Swift).
	Host
)

func (s Side) String() string {
	switch s {
	case Native:
		return "native"
	case Host:
		return "host"
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

// Other returns the opposite side of the boundary.
func (s Side) Other() Side {
	if s == Native {
		return Host
	}
	return Native
}

// ParseSide accepts "native"/"rust" and "host"/"swift".
func ParseSide(s string) (Side, error) {
	switch s {
	case "native", "rust":
		return Native, nil
	case "host", "swift":
		return Host, nil
	}
	return 0, fmt.Errorf("unknown side %q (want native or host)", s)
}

// Pos locates an item inside the description it was parsed from.
type Pos struct {
	File string
	Item int // zero based index into the item list
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("item[%d]", p.Item)
	}
	return fmt.Sprintf("%s:item[%d]", p.File, p.Item)
}

// Repr controls how the host side lays out a shared struct.
type Repr uint8

const (
	ReprStruct Repr = iota // value type, copied by memory
	ReprClass              // final class, still mirrored field by field
)

func (r Repr) String() string {
	if r == ReprClass {
		return "class"
	}
	return "struct"
}

// ParseRepr maps the textual representation flag; the empty string is "struct".
func ParseRepr(s string) (Repr, error) {
	switch s {
	case "", "struct":
		return ReprStruct, nil
	case "class":
		return ReprClass, nil
	}
	return 0, fmt.Errorf("unknown repr %q (want struct or class)", s)
}

// ReceiverKind is how a method takes its self argument.
type ReceiverKind uint8

const (
	NoReceiver ReceiverKind = iota
	RecvValue               // self
	RecvRef                 // &self
	RecvRefMut              // &mut self
)

func (r ReceiverKind) String() string {
	switch r {
	case RecvValue:
		return "self"
	case RecvRef:
		return "&self"
	case RecvRefMut:
		return "&mut self"
	}
	return ""
}

// ParseReceiver maps "self", "&self" and "&mut self"; the empty string is NoReceiver.
func ParseReceiver(s string) (ReceiverKind, error) {
	switch s {
	case "":
		return NoReceiver, nil
	case "self":
		return RecvValue, nil
	case "&self":
		return RecvRef, nil
	case "&mut self":
		return RecvRefMut, nil
	}
	return 0, fmt.Errorf("unknown receiver %q", s)
}

// Item is one declaration of an already parsed bridge module. The set of
// implementations is closed: OpaqueTypeItem, SharedStructItem, SharedEnumItem
// and FunctionItem.
type Item interface {
	itemPos() Pos
}

// OpaqueTypeItem declares a type that only crosses the boundary behind a
// pointer and is owned by Side.
type OpaqueTypeItem struct {
	Name            string
	Side            Side
	AlreadyDeclared bool
	Doc             string
	Generics        []string
	Pos             Pos
}

// Field is a named member of a shared struct.
type Field struct {
	Name string
	Type TypeExpr
}

// SharedStructItem declares a by-value struct mirrored on both sides.
type SharedStructItem struct {
	Name            string
	Fields          []Field
	Repr            Repr
	AlreadyDeclared bool
	Doc             string
	Pos             Pos
}

// SharedEnumItem declares a fieldless enum mirrored on both sides.
type SharedEnumItem struct {
	Name            string
	Variants        []string
	AlreadyDeclared bool
	Doc             string
	Pos             Pos
}

// Param is a named function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// FunctionItem declares a function implemented by Side and callable from the
// other side. SelfType names the opaque type a method or associated function
// belongs to.
type FunctionItem struct {
	Name     string
	Side     Side
	Receiver ReceiverKind
	SelfType string
	Params   []Param
	Return   TypeExpr // zero value means ()
	Init     bool
	Feature  string
	Doc      string
	Pos      Pos
}

func (i *OpaqueTypeItem) itemPos() Pos   { return i.Pos }
func (i *SharedStructItem) itemPos() Pos { return i.Pos }
func (i *SharedEnumItem) itemPos() Pos   { return i.Pos }
func (i *FunctionItem) itemPos() Pos     { return i.Pos }
