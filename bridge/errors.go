package bridge

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a fatal generation error.
type ErrorKind uint8

const (
	_ ErrorKind = iota
	// DuplicateTypeName: two declarations share a name.
	DuplicateTypeName
	// UnresolvedType: a type expression is neither a builtin nor declared.
	UnresolvedType
	// AmbiguousOwnership: an opaque type is claimed by both sides.
	AmbiguousOwnership
	// UnsupportedType: a well formed type that cannot cross the boundary here.
	UnsupportedType
	// ReservedTypeName: a declaration shadows a builtin or runtime type.
	ReservedTypeName
	// InvalidDeclaration: a declaration is malformed.
	InvalidDeclaration
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateTypeName:
		return "duplicate type name"
	case UnresolvedType:
		return "unresolved type"
	case AmbiguousOwnership:
		return "ambiguous ownership"
	case UnsupportedType:
		return "unsupported type"
	case ReservedTypeName:
		return "reserved type name"
	case InvalidDeclaration:
		return "invalid declaration"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is the structured error reported by the registry, the resolver and
// module assembly. Every Error is fatal for the module it belongs to.
type Error struct {
	Kind    ErrorKind
	Name    string // offending type or item name
	Pos     Pos
	Context string // e.g. "parameter arg of some_function"
	Detail  string
	hasPos  bool
}

// Sentinels for errors.Is; they match any Error of the same kind.
var (
	ErrDuplicateTypeName  = &Error{Kind: DuplicateTypeName}
	ErrUnresolvedType     = &Error{Kind: UnresolvedType}
	ErrAmbiguousOwnership = &Error{Kind: AmbiguousOwnership}
	ErrUnsupportedType    = &Error{Kind: UnsupportedType}
	ErrReservedTypeName   = &Error{Kind: ReservedTypeName}
	ErrInvalidDeclaration = &Error{Kind: InvalidDeclaration}
)

func newError(kind ErrorKind, name, detail string) *Error {
	return &Error{Kind: kind, Name: name, Detail: detail}
}

func (e *Error) at(pos Pos, context string) *Error {
	if !e.hasPos {
		e.Pos = pos
		e.hasPos = true
	}
	if e.Context == "" {
		e.Context = context
	}
	return e
}

// HasPos reports whether the error was attached to an item position.
func (e *Error) HasPos() bool { return e.hasPos }

func (e *Error) Error() string {
	var b strings.Builder
	if e.hasPos {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Name != "" {
		b.WriteString(" ")
		b.WriteString(e.Name)
	}
	if e.Context != "" {
		b.WriteString(" in ")
		b.WriteString(e.Context)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Is reports whether target is an Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
