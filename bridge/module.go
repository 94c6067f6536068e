package bridge

import (
	"fmt"
)

// DefaultModuleName names the generated Rust module when none is given.
const DefaultModuleName = "ffi"

// FuncParam is a resolved function parameter.
type FuncParam struct {
	Name string
	Type BridgedType
}

// Function is a resolved function signature. Side implements it; the other
// side calls it.
type Function struct {
	Name     string
	Side     Side
	Receiver ReceiverKind
	SelfType *OpaqueType // nil for free functions
	Params   []FuncParam
	Return   BridgedType
	Init     bool
	Feature  string
	Doc      string
	Pos      Pos
}

// SelfName returns the owning type's name, or "" for free functions.
func (f *Function) SelfName() string {
	if f.SelfType == nil {
		return ""
	}
	return f.SelfType.Name
}

// Module is a fully resolved bridge module: a frozen registry plus the
// function signatures resolved against it, both in declaration order.
type Module struct {
	Name      string
	Types     *TypeDeclarations
	Functions []*Function
}

// NewModule registers every type item, then resolves every function item.
// The first error aborts assembly; a Module is only returned when the whole
// input is consistent.
func NewModule(name string, items []Item) (*Module, error) {
	if name == "" {
		name = DefaultModuleName
	}
	if !IsIdent(name) {
		return nil, newError(InvalidDeclaration, name, "module name is not an identifier")
	}
	if IsKeyword(name) {
		return nil, newError(InvalidDeclaration, name, "module name is a keyword")
	}

	b := &moduleBuilder{
		types:    NewTypeDeclarations(),
		declared: make(map[string]int),
	}
	b.resolver = NewResolver(b.types)

	for i, it := range items {
		switch it := it.(type) {
		case *OpaqueTypeItem:
			b.noteDeclared(it.Name, i)
		case *SharedStructItem:
			b.noteDeclared(it.Name, i)
		case *SharedEnumItem:
			b.noteDeclared(it.Name, i)
		}
	}

	var fns []*FunctionItem
	for _, it := range items {
		var err error
		switch it := it.(type) {
		case *OpaqueTypeItem:
			err = b.addOpaque(it)
		case *SharedStructItem:
			err = b.addStruct(it)
		case *SharedEnumItem:
			err = b.addEnum(it)
		case *FunctionItem:
			fns = append(fns, it)
		default:
			err = fmt.Errorf("unknown item %T", it)
		}
		if err != nil {
			return nil, err
		}
	}

	m := &Module{Name: name, Types: b.types}
	syms := newSymbolTable()
	for _, d := range b.types.Types() {
		if err := syms.claimType(d); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]Pos)
	for _, it := range fns {
		fn, err := b.resolveFunction(it)
		if err != nil {
			return nil, err
		}
		link := fn.SelfName() + "." + fn.Name
		if prev, dup := seen[link]; dup {
			return nil, newError(InvalidDeclaration, fn.Name,
				fmt.Sprintf("function already declared at %s", prev)).at(it.Pos, "function "+fn.Name)
		}
		seen[link] = it.Pos
		if err := syms.claimFunction(fn); err != nil {
			return nil, err
		}
		m.Functions = append(m.Functions, fn)
	}

	log.Debugf("module %s: %d types, %d functions", name, m.Types.Len(), len(m.Functions))
	return m, nil
}

type moduleBuilder struct {
	types    *TypeDeclarations
	resolver *Resolver
	declared map[string]int // first item index of every declared type name
}

func (b *moduleBuilder) noteDeclared(name string, i int) {
	if _, ok := b.declared[name]; !ok {
		b.declared[name] = i
	}
}

func checkTypeName(name string, pos Pos) error {
	if !IsIdent(name) {
		return newError(InvalidDeclaration, name, "type name is not an identifier").at(pos, "type "+name)
	}
	if IsReservedTypeName(name) {
		return newError(ReservedTypeName, name, "shadows a builtin or runtime type").at(pos, "type "+name)
	}
	if IsKeyword(name) {
		return newError(InvalidDeclaration, name, "type name is a keyword").at(pos, "type "+name)
	}
	return nil
}

func (b *moduleBuilder) insert(decl TypeDeclaration) error {
	if err := b.types.Insert(decl); err != nil {
		return err.(*Error).at(decl.Pos(), decl.Kind.String()+" "+decl.Name())
	}
	log.Debugf("registered %s %s", decl.Kind, decl.Name())
	return nil
}

func (b *moduleBuilder) addOpaque(it *OpaqueTypeItem) error {
	if err := checkTypeName(it.Name, it.Pos); err != nil {
		return err
	}
	for _, g := range it.Generics {
		if !IsIdent(g) || IsKeyword(g) {
			return newError(InvalidDeclaration, it.Name, fmt.Sprintf("generic parameter %q is not an identifier", g)).
				at(it.Pos, "opaque "+it.Name)
		}
	}
	return b.insert(TypeDeclaration{Kind: DeclOpaque, Opaque: &OpaqueType{
		Name:            it.Name,
		Owner:           it.Side,
		AlreadyDeclared: it.AlreadyDeclared,
		Doc:             it.Doc,
		Generics:        append([]string(nil), it.Generics...),
		Pos:             it.Pos,
	}})
}

// addStruct resolves fields with the by-value parameter rules against the
// types registered so far, so a field can only name an earlier declaration.
func (b *moduleBuilder) addStruct(it *SharedStructItem) error {
	if err := checkTypeName(it.Name, it.Pos); err != nil {
		return err
	}
	ctx := "shared struct " + it.Name
	s := &SharedStruct{
		Name:            it.Name,
		Repr:            it.Repr,
		AlreadyDeclared: it.AlreadyDeclared,
		Doc:             it.Doc,
		Pos:             it.Pos,
	}
	names := make(map[string]bool, len(it.Fields))
	for _, f := range it.Fields {
		fctx := fmt.Sprintf("field %s of %s", f.Name, it.Name)
		if !IsIdent(f.Name) {
			return newError(InvalidDeclaration, f.Name, "field name is not an identifier").at(it.Pos, ctx)
		}
		if IsKeyword(f.Name) {
			return newError(InvalidDeclaration, f.Name, "field name is a keyword").at(it.Pos, ctx)
		}
		if names[f.Name] {
			return newError(InvalidDeclaration, f.Name, "duplicate field").at(it.Pos, ctx)
		}
		names[f.Name] = true
		if f.Type.Ref {
			return newError(UnsupportedType, f.Type.String(), "shared struct fields cannot be borrowed").at(it.Pos, fctx)
		}
		bt, err := b.resolveAt(f.Type, it.Pos, fctx)
		if err != nil {
			return err
		}
		if bt.IsUnit() {
			return newError(UnsupportedType, "()", "fields cannot be ()").at(it.Pos, fctx)
		}
		s.Fields = append(s.Fields, StructField{Name: f.Name, Expr: f.Type, Type: bt})
	}
	return b.insert(TypeDeclaration{Kind: DeclStruct, Struct: s})
}

func (b *moduleBuilder) addEnum(it *SharedEnumItem) error {
	if err := checkTypeName(it.Name, it.Pos); err != nil {
		return err
	}
	ctx := "shared enum " + it.Name
	if len(it.Variants) == 0 {
		return newError(InvalidDeclaration, it.Name, "enum has no variants").at(it.Pos, ctx)
	}
	seen := make(map[string]bool, len(it.Variants))
	for _, v := range it.Variants {
		if !IsIdent(v) {
			return newError(InvalidDeclaration, v, "variant name is not an identifier").at(it.Pos, ctx)
		}
		if IsKeyword(v) {
			return newError(InvalidDeclaration, v, "variant name is a keyword").at(it.Pos, ctx)
		}
		if seen[v] {
			return newError(InvalidDeclaration, v, "duplicate variant").at(it.Pos, ctx)
		}
		seen[v] = true
	}
	return b.insert(TypeDeclaration{Kind: DeclEnum, Enum: &SharedEnum{
		Name:            it.Name,
		Variants:        append([]string(nil), it.Variants...),
		AlreadyDeclared: it.AlreadyDeclared,
		Doc:             it.Doc,
		Pos:             it.Pos,
	}})
}

// resolveAt resolves expr and attaches the position. Earlier declarations are
// already registered, so an unresolved name that is declared somewhere in the
// module is a forward (or self) reference.
func (b *moduleBuilder) resolveAt(expr TypeExpr, pos Pos, context string) (BridgedType, error) {
	bt, err := b.resolver.Resolve(expr)
	if err == nil {
		return bt, nil
	}
	e := err.(*Error)
	if e.Kind == UnresolvedType {
		if at, ok := b.declared[expr.Name]; ok {
			e = newError(InvalidDeclaration, expr.String(),
				fmt.Sprintf("forward reference to a type declared at item[%d]", at))
		}
	}
	return BridgedType{}, e.at(pos, context)
}

func (b *moduleBuilder) resolveFunction(it *FunctionItem) (*Function, error) {
	ctx := "function " + it.Name
	if !IsIdent(it.Name) {
		return nil, newError(InvalidDeclaration, it.Name, "function name is not an identifier").at(it.Pos, ctx)
	}
	if IsKeyword(it.Name) {
		return nil, newError(InvalidDeclaration, it.Name, "function name is a keyword").at(it.Pos, ctx)
	}
	fn := &Function{
		Name:     it.Name,
		Side:     it.Side,
		Receiver: it.Receiver,
		Init:     it.Init,
		Feature:  it.Feature,
		Doc:      it.Doc,
		Pos:      it.Pos,
	}

	if it.Receiver != NoReceiver && it.SelfType == "" {
		return nil, newError(InvalidDeclaration, it.Name, "method without a self type").at(it.Pos, ctx)
	}
	if it.SelfType != "" {
		decl, ok := b.types.Get(it.SelfType)
		if !ok {
			return nil, newError(UnresolvedType, it.SelfType, "self type is not declared").at(it.Pos, ctx)
		}
		if decl.Kind != DeclOpaque {
			return nil, newError(InvalidDeclaration, it.SelfType, "methods can only belong to opaque types").at(it.Pos, ctx)
		}
		if decl.Opaque.Owner != it.Side {
			return nil, newError(AmbiguousOwnership, it.SelfType,
				fmt.Sprintf("%s-owned type used as self of a %s-implemented function", decl.Opaque.Owner, it.Side)).
				at(it.Pos, ctx)
		}
		fn.SelfType = decl.Opaque
	}

	names := make(map[string]bool, len(it.Params))
	for _, p := range it.Params {
		pctx := fmt.Sprintf("parameter %s of %s", p.Name, it.Name)
		if !IsIdent(p.Name) {
			return nil, newError(InvalidDeclaration, p.Name, "parameter name is not an identifier").at(it.Pos, ctx)
		}
		if IsKeyword(p.Name) {
			return nil, newError(InvalidDeclaration, p.Name, "parameter name is a keyword").at(it.Pos, ctx)
		}
		if names[p.Name] || (fn.SelfType != nil && p.Name == "this") {
			return nil, newError(InvalidDeclaration, p.Name, "duplicate parameter").at(it.Pos, ctx)
		}
		names[p.Name] = true
		bt, err := b.resolver.Resolve(p.Type)
		if err != nil {
			return nil, err.(*Error).at(it.Pos, pctx)
		}
		if bt.IsUnit() {
			return nil, newError(UnsupportedType, "()", "parameters cannot be ()").at(it.Pos, pctx)
		}
		fn.Params = append(fn.Params, FuncParam{Name: p.Name, Type: bt})
	}

	ret, err := b.resolver.Resolve(it.Return)
	if err != nil {
		return nil, err.(*Error).at(it.Pos, "return type of "+it.Name)
	}
	if ret.Reference && ret.Kind == KindOpaque && ret.Opaque.Owner == Host {
		return nil, newError(UnsupportedType, ret.String(), "host-owned values cannot be returned borrowed").
			at(it.Pos, "return type of "+it.Name)
	}
	fn.Return = ret

	if it.Init {
		if fn.SelfType == nil || it.Side != Native || it.Receiver != NoReceiver {
			return nil, newError(InvalidDeclaration, it.Name,
				"init must be a native associated function without receiver").at(it.Pos, ctx)
		}
		if ret.Kind != KindOpaque || ret.Reference || ret.Opaque != fn.SelfType {
			return nil, newError(InvalidDeclaration, it.Name,
				"init must return its self type by value").at(it.Pos, ctx)
		}
	}
	return fn, nil
}
