package bridge

import "fmt"

// Resolver turns use-site type expressions into BridgedTypes against a
// registry. Declared names take precedence; everything else goes through the
// fixed builtin rules.
type Resolver struct {
	types *TypeDeclarations
}

// NewResolver returns a resolver reading from types.
func NewResolver(types *TypeDeclarations) *Resolver {
	return &Resolver{types: types}
}

// Resolve resolves expr. The returned error is always an *Error.
func (r *Resolver) Resolve(expr TypeExpr) (BridgedType, error) {
	if expr.IsUnit() {
		if expr.Ref {
			return BridgedType{}, newError(UnsupportedType, expr.String(), "references to () cannot cross the boundary")
		}
		return BridgedType{Kind: KindUnit}, nil
	}

	if decl, ok := r.types.Get(expr.Name); ok {
		if len(expr.Args) > 0 {
			return BridgedType{}, newError(UnsupportedType, expr.String(), "declared types take no generic arguments")
		}
		if expr.Ref && decl.Kind != DeclOpaque {
			return BridgedType{}, newError(UnsupportedType, expr.String(), "shared types cross by value only")
		}
		return decl.ToBridgedType(expr.Ref, expr.Mut), nil
	}

	return r.builtin(expr)
}

func (r *Resolver) builtin(expr TypeExpr) (BridgedType, error) {
	if p, ok := primitiveByName[expr.Name]; ok {
		if err := noArgs(expr); err != nil {
			return BridgedType{}, err
		}
		if expr.Ref {
			return BridgedType{}, newError(UnsupportedType, expr.String(), "primitives cross by value only")
		}
		return BridgedType{Kind: KindPrimitive, Prim: p}, nil
	}

	switch expr.Name {
	case "String":
		if err := noArgs(expr); err != nil {
			return BridgedType{}, err
		}
		if expr.Ref {
			return BridgedType{}, newError(UnsupportedType, expr.String(), "use &str for borrowed strings")
		}
		return BridgedType{Kind: KindString}, nil

	case "str":
		if err := noArgs(expr); err != nil {
			return BridgedType{}, err
		}
		if !expr.Ref || expr.Mut {
			return BridgedType{}, newError(UnsupportedType, expr.String(), "str is only usable as &str")
		}
		return BridgedType{Kind: KindStr, Reference: true}, nil

	case "Option":
		elem, err := r.container(expr)
		if err != nil {
			return BridgedType{}, err
		}
		switch {
		case elem.Kind == KindPrimitive, elem.Kind == KindString, elem.Kind == KindStr:
		case isOwnedNativeOpaque(elem):
		default:
			return BridgedType{}, newError(UnsupportedType, expr.String(),
				fmt.Sprintf("Option payload %s has no fixed encoding", elem))
		}
		return BridgedType{Kind: KindOption, Elem: &elem}, nil

	case "Vec":
		elem, err := r.container(expr)
		if err != nil {
			return BridgedType{}, err
		}
		if elem.Kind != KindPrimitive && !isOwnedNativeOpaque(elem) {
			return BridgedType{}, newError(UnsupportedType, expr.String(),
				fmt.Sprintf("Vec element %s has no fixed encoding", elem))
		}
		return BridgedType{Kind: KindVec, Elem: &elem}, nil
	}

	return BridgedType{}, newError(UnresolvedType, expr.String(), "neither a builtin nor a declared type")
}

func (r *Resolver) container(expr TypeExpr) (BridgedType, error) {
	if expr.Ref {
		return BridgedType{}, newError(UnsupportedType, expr.String(), expr.Name+" crosses by value only")
	}
	if len(expr.Args) != 1 {
		return BridgedType{}, newError(UnsupportedType, expr.String(),
			fmt.Sprintf("%s takes exactly one type argument, got %d", expr.Name, len(expr.Args)))
	}
	return r.Resolve(expr.Args[0])
}

func noArgs(expr TypeExpr) error {
	if len(expr.Args) > 0 {
		return newError(UnsupportedType, expr.String(), expr.Name+" takes no type arguments")
	}
	return nil
}

func isOwnedNativeOpaque(b BridgedType) bool {
	return b.Kind == KindOpaque && b.Opaque.Owner == Native && !b.Reference
}
