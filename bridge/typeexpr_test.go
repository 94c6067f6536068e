package bridge

import "testing"

func TestParseTypeExpr(t *testing.T) {
	tests := []struct {
		input    string
		expected TypeExpr
		text     string
	}{
		{"", TypeExpr{Name: "()"}, "()"},
		{"()", TypeExpr{Name: "()"}, "()"},
		{"u8", TypeExpr{Name: "u8"}, "u8"},
		{"  MyType ", TypeExpr{Name: "MyType"}, "MyType"},
		{"&MyType", TypeExpr{Name: "MyType", Ref: true}, "&MyType"},
		{"&mut MyType", TypeExpr{Name: "MyType", Ref: true, Mut: true}, "&mut MyType"},
		{"&str", TypeExpr{Name: "str", Ref: true}, "&str"},
		{"&mutable", TypeExpr{Name: "mutable", Ref: true}, "&mutable"},
		{"Option<u32>", TypeExpr{Name: "Option", Args: []TypeExpr{{Name: "u32"}}}, "Option<u32>"},
		{"Vec< Option<i8> >", TypeExpr{Name: "Vec", Args: []TypeExpr{
			{Name: "Option", Args: []TypeExpr{{Name: "i8"}}},
		}}, "Vec<Option<i8>>"},
		{"Map<K, V>", TypeExpr{Name: "Map", Args: []TypeExpr{{Name: "K"}, {Name: "V"}}}, "Map<K, V>"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTypeExpr(tt.input)
			if err != nil {
				t.Fatalf("ParseTypeExpr(%q): %v", tt.input, err)
			}
			if !typeExprEqual(got, tt.expected) {
				t.Errorf("ParseTypeExpr(%q) = %#v, want %#v", tt.input, got, tt.expected)
			}
			if got.String() != tt.text {
				t.Errorf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestParseTypeExprErrors(t *testing.T) {
	for _, input := range []string{
		"&&T",
		"(u8, u8)",
		"Option<u8",
		"Option<>",
		"u8 u16",
		"<u8>",
		"&",
		"1abc",
	} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseTypeExpr(input); err == nil {
				t.Errorf("ParseTypeExpr(%q) succeeded, want error", input)
			}
		})
	}
}

func TestParseTypeExprDepthLimit(t *testing.T) {
	s := "u8"
	for i := 0; i < maxTypeDepth+2; i++ {
		s = "Option<" + s + ">"
	}
	if _, err := ParseTypeExpr(s); err == nil {
		t.Error("expected nesting error")
	}
}

func typeExprEqual(a, b TypeExpr) bool {
	if a.Name != b.Name || a.Ref != b.Ref || a.Mut != b.Mut || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !typeExprEqual(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}
