package bridge

import "fmt"

// symbolTable records which declaration owns every derived link name and
// identifier. The prefix is the same for all symbols of a module, so clashes
// are checked with DefaultPrefix and hold for any other prefix.
type symbolTable struct {
	names Naming
	owner map[string]string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{names: NewNaming(""), owner: make(map[string]string)}
}

func (t *symbolTable) claim(owner, name string, pos Pos, symbols ...string) error {
	for _, s := range symbols {
		if prev, ok := t.owner[s]; ok {
			return newError(InvalidDeclaration, name,
				fmt.Sprintf("generated symbol %s is already used by %s", s, prev)).at(pos, owner)
		}
		t.owner[s] = owner
	}
	return nil
}

// claimType reserves the free hook of an opaque type and the mirror names of
// a shared type, whether or not they are emitted for this module.
func (t *symbolTable) claimType(d TypeDeclaration) error {
	owner := d.Kind.String() + " " + d.Name()
	switch d.Kind {
	case DeclOpaque:
		return t.claim(owner, d.Name(), d.Pos(),
			t.names.FreeLinkName(d.Name()), t.names.FreeFuncName(d.Name()))
	case DeclStruct:
		return t.claim(owner, d.Name(), d.Pos(),
			t.names.SharedCName(d.Name()), t.names.SharedRustName(d.Name()))
	case DeclEnum:
		syms := []string{
			t.names.SharedCName(d.Name()),
			t.names.SharedRustName(d.Name()),
			t.names.EnumTagName(d.Name()),
		}
		for _, v := range d.Enum.Variants {
			syms = append(syms, t.names.EnumVariantName(d.Name(), v))
		}
		return t.claim(owner, d.Name(), d.Pos(), syms...)
	}
	return nil
}

func (t *symbolTable) claimFunction(fn *Function) error {
	owner := "function " + fn.Name
	if fn.SelfType != nil {
		owner = "function " + fn.SelfName() + "::" + fn.Name
	}
	return t.claim(owner, fn.Name, fn.Pos,
		t.names.FuncLinkName(fn.SelfName(), fn.Name), t.names.FuncIdent(fn.SelfName(), fn.Name))
}
