package bridge

import (
	"fmt"
	"strings"
	"unicode"
)

// TypeExpr is a type as written at a use site: a name with optional generic
// arguments, possibly behind a (mutable) reference. The zero value is the
// unit type.
type TypeExpr struct {
	Name string
	Args []TypeExpr
	Ref  bool
	Mut  bool
}

// IsUnit reports whether the expression is () or empty.
func (t TypeExpr) IsUnit() bool {
	return t.Name == "" || t.Name == "()"
}

func (t TypeExpr) String() string {
	var b strings.Builder
	if t.Ref {
		b.WriteByte('&')
		if t.Mut {
			b.WriteString("mut ")
		}
	}
	if t.IsUnit() {
		b.WriteString("()")
		return b.String()
	}
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	return b.String()
}

// ParseTypeExpr parses the textual form used by bridge descriptions:
//
//	u8, MyType, &MyType, &mut MyType, &str, Option<u32>, Vec<MyType>, ()
//
// An empty string parses as ().
func ParseTypeExpr(s string) (TypeExpr, error) {
	p := &typeParser{src: s}
	p.skipSpace()
	if p.done() {
		return TypeExpr{Name: "()"}, nil
	}
	t, err := p.parse(0)
	if err != nil {
		return TypeExpr{}, fmt.Errorf("type %q: %w", s, err)
	}
	p.skipSpace()
	if !p.done() {
		return TypeExpr{}, fmt.Errorf("type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return t, nil
}

// MustParseTypeExpr is ParseTypeExpr for literals known to be well formed.
func MustParseTypeExpr(s string) TypeExpr {
	t, err := ParseTypeExpr(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) done() bool { return p.pos >= len(p.src) }

func (p *typeParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	start := p.pos
	for !p.done() {
		c := rune(p.src[p.pos])
		if c == '_' || unicode.IsLetter(c) || (p.pos > start && unicode.IsDigit(c)) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

const maxTypeDepth = 16

func (p *typeParser) parse(depth int) (TypeExpr, error) {
	if depth > maxTypeDepth {
		return TypeExpr{}, fmt.Errorf("nesting deeper than %d", maxTypeDepth)
	}
	p.skipSpace()
	var t TypeExpr
	if p.peek() == '&' {
		p.pos++
		p.skipSpace()
		t.Ref = true
		save := p.pos
		if p.ident() == "mut" && !p.done() && unicode.IsSpace(rune(p.peek())) {
			t.Mut = true
		} else {
			p.pos = save
		}
		p.skipSpace()
		if p.peek() == '&' {
			return TypeExpr{}, fmt.Errorf("nested references are not supported")
		}
	}
	if p.peek() == '(' {
		p.pos++
		p.skipSpace()
		if p.peek() != ')' {
			return TypeExpr{}, fmt.Errorf("tuples are not supported")
		}
		p.pos++
		t.Name = "()"
		return t, nil
	}
	t.Name = p.ident()
	if t.Name == "" {
		if p.done() {
			return TypeExpr{}, fmt.Errorf("missing type name")
		}
		return TypeExpr{}, fmt.Errorf("unexpected %q at offset %d", p.peek(), p.pos)
	}
	p.skipSpace()
	if p.peek() != '<' {
		return t, nil
	}
	p.pos++
	for {
		arg, err := p.parse(depth + 1)
		if err != nil {
			return TypeExpr{}, err
		}
		t.Args = append(t.Args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return t, nil
		default:
			return TypeExpr{}, fmt.Errorf("expected ',' or '>' at offset %d", p.pos)
		}
	}
}
