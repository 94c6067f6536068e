package bridge

import (
	"errors"
	"fmt"
	"testing"
)

func opaqueDecl(name string, owner Side) TypeDeclaration {
	return TypeDeclaration{Kind: DeclOpaque, Opaque: &OpaqueType{Name: name, Owner: owner}}
}

func TestTypeDeclarationsPreserveOrder(t *testing.T) {
	reg := NewTypeDeclarations()
	var names []string
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("T%02d", (i*37)%50)
		names = append(names, name)
		var decl TypeDeclaration
		switch i % 3 {
		case 0:
			decl = opaqueDecl(name, Native)
		case 1:
			decl = TypeDeclaration{Kind: DeclStruct, Struct: &SharedStruct{Name: name}}
		default:
			decl = TypeDeclaration{Kind: DeclEnum, Enum: &SharedEnum{Name: name, Variants: []string{"A"}}}
		}
		if err := reg.Insert(decl); err != nil {
			t.Fatalf("Insert(%s): %v", name, err)
		}
	}
	if reg.Len() != len(names) {
		t.Fatalf("Len() = %d, want %d", reg.Len(), len(names))
	}
	for i, decl := range reg.Types() {
		if decl.Name() != names[i] {
			t.Errorf("Types()[%d] = %s, want %s", i, decl.Name(), names[i])
		}
	}
	for _, name := range names {
		if got, ok := reg.Get(name); !ok || got.Name() != name {
			t.Errorf("Get(%s) = %v, %v", name, got.Name(), ok)
		}
	}
	if _, ok := reg.Get("Missing"); ok {
		t.Error("Get(Missing) found a declaration")
	}
}

func TestTypeDeclarationsTypesIsACopy(t *testing.T) {
	reg := NewTypeDeclarations()
	if err := reg.Insert(opaqueDecl("A", Native)); err != nil {
		t.Fatal(err)
	}
	types := reg.Types()
	types[0] = opaqueDecl("B", Host)
	if reg.Types()[0].Name() != "A" {
		t.Error("mutating Types() result changed the registry")
	}
}

func TestTypeDeclarationsInsertConflicts(t *testing.T) {
	tests := []struct {
		name   string
		first  TypeDeclaration
		second TypeDeclaration
		want   error
	}{
		{"same owner", opaqueDecl("A", Native), opaqueDecl("A", Native), ErrDuplicateTypeName},
		{"both owners", opaqueDecl("A", Native), opaqueDecl("A", Host), ErrAmbiguousOwnership},
		{"opaque then struct", opaqueDecl("A", Host),
			TypeDeclaration{Kind: DeclStruct, Struct: &SharedStruct{Name: "A"}}, ErrDuplicateTypeName},
		{"enum then opaque", TypeDeclaration{Kind: DeclEnum, Enum: &SharedEnum{Name: "A"}},
			opaqueDecl("A", Native), ErrDuplicateTypeName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewTypeDeclarations()
			if err := reg.Insert(tt.first); err != nil {
				t.Fatal(err)
			}
			err := reg.Insert(tt.second)
			if !errors.Is(err, tt.want) {
				t.Errorf("Insert = %v, want %v", err, tt.want)
			}
			if reg.Len() != 1 {
				t.Errorf("Len() = %d after failed insert, want 1", reg.Len())
			}
			if got, _ := reg.Get("A"); got.Kind != tt.first.Kind {
				t.Error("failed insert replaced the original declaration")
			}
		})
	}
}

func TestErrorIsMatchesKindOnly(t *testing.T) {
	err := newError(UnresolvedType, "Foo", "detail").at(Pos{File: "a.toml", Item: 3}, "parameter x of f")
	if !errors.Is(err, ErrUnresolvedType) {
		t.Error("errors.Is(err, ErrUnresolvedType) = false")
	}
	if errors.Is(err, ErrDuplicateTypeName) {
		t.Error("errors.Is(err, ErrDuplicateTypeName) = true")
	}
	want := "a.toml:item[3]: unresolved type Foo in parameter x of f: detail"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	wrapped := fmt.Errorf("generating: %w", err)
	var be *Error
	if !errors.As(wrapped, &be) || be.Name != "Foo" {
		t.Errorf("errors.As did not recover the structured error: %v", wrapped)
	}
}
