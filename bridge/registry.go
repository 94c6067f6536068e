package bridge

import "fmt"

// TypeDeclarations is the ordered, name-keyed store of every type declared in
// a module. Declarations live in a slice in insertion order and are found by
// name through an index, so emission order never depends on map iteration.
//
// The registry is filled once, single-threaded, and only read afterwards.
type TypeDeclarations struct {
	decls []TypeDeclaration
	index map[string]int
}

// NewTypeDeclarations returns an empty registry.
func NewTypeDeclarations() *TypeDeclarations {
	return &TypeDeclarations{index: make(map[string]int)}
}

// Insert stores decl under its name. A second opaque declaration of the same
// name owned by the other side is AmbiguousOwnership; any other collision is
// DuplicateTypeName.
func (t *TypeDeclarations) Insert(decl TypeDeclaration) error {
	name := decl.Name()
	if i, ok := t.index[name]; ok {
		prev := t.decls[i]
		if prev.Kind == DeclOpaque && decl.Kind == DeclOpaque && prev.Opaque.Owner != decl.Opaque.Owner {
			return newError(AmbiguousOwnership, name,
				fmt.Sprintf("declared as %s-owned at %s and %s-owned", prev.Opaque.Owner, prev.Pos(), decl.Opaque.Owner))
		}
		return newError(DuplicateTypeName, name,
			fmt.Sprintf("%s already declared at %s", prev.Kind, prev.Pos()))
	}
	t.index[name] = len(t.decls)
	t.decls = append(t.decls, decl)
	return nil
}

// Get looks a declaration up by name.
func (t *TypeDeclarations) Get(name string) (TypeDeclaration, bool) {
	i, ok := t.index[name]
	if !ok {
		return TypeDeclaration{}, false
	}
	return t.decls[i], true
}

// Types returns every declaration in declaration order.
func (t *TypeDeclarations) Types() []TypeDeclaration {
	out := make([]TypeDeclaration, len(t.decls))
	copy(out, t.decls)
	return out
}

// Len returns the number of declarations.
func (t *TypeDeclarations) Len() int { return len(t.decls) }
