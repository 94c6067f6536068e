package bridge

import "testing"

func TestNaming(t *testing.T) {
	n := NewNaming("")
	if n.Prefix != DefaultPrefix {
		t.Fatalf("Prefix = %q, want %q", n.Prefix, DefaultPrefix)
	}
	tests := []struct {
		got, want string
	}{
		{n.FreeLinkName("MyType"), "__swift_bridge__$MyType$_free"},
		{n.FreeFuncName("MyType"), "__swift_bridge__MyType__free"},
		{n.FuncLinkName("", "some_function"), "__swift_bridge__$some_function"},
		{n.FuncLinkName("MyType", "len"), "__swift_bridge__$MyType$len"},
		{n.FuncIdent("", "some_function"), "__swift_bridge__some_function"},
		{n.FuncIdent("MyType", "len"), "__swift_bridge__MyType_len"},
		{n.SharedCName("Point"), "__swift_bridge__$Point"},
		{n.SharedRustName("Point"), "__swift_bridge__Point"},
		{n.EnumTagName("Color"), "__swift_bridge__$Color$Tag"},
		{n.EnumVariantName("Color", "Red"), "__swift_bridge__$Color$Red"},
		{NewNaming("acme").FuncLinkName("T", "f"), "acme$T$f"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestIsIdent(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a", true},
		{"_", true},
		{"MyType", true},
		{"my_type2", true},
		{"__swift_bridge__", true},
		{"", false},
		{"2a", false},
		{"a-b", false},
		{"a$b", false},
		{"a b", false},
		{"café", false},
	}
	for _, tt := range tests {
		if got := IsIdent(tt.input); got != tt.want {
			t.Errorf("IsIdent(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidatePrefix(t *testing.T) {
	for _, ok := range []string{DefaultPrefix, "acme", "__x__"} {
		if err := ValidatePrefix(ok); err != nil {
			t.Errorf("ValidatePrefix(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "a$b", "1x", "a.b"} {
		if err := ValidatePrefix(bad); err == nil {
			t.Errorf("ValidatePrefix(%q) succeeded, want error", bad)
		}
	}
}

func TestReservedTypeNames(t *testing.T) {
	for _, name := range []string{"u8", "String", "Option", "Vec", "RustStr", "Int32", "Unmanaged"} {
		if !IsReservedTypeName(name) {
			t.Errorf("IsReservedTypeName(%q) = false", name)
		}
	}
	for _, name := range []string{"MyType", "Point", "string"} {
		if IsReservedTypeName(name) {
			t.Errorf("IsReservedTypeName(%q) = true", name)
		}
	}
}

func TestKeywords(t *testing.T) {
	for _, name := range []string{"self", "Self", "type", "match", "fn", "init", "func", "protocol", "int", "void"} {
		if !IsKeyword(name) {
			t.Errorf("IsKeyword(%q) = false", name)
		}
	}
	for _, name := range []string{"open", "union", "new", "value", "this", "count"} {
		if IsKeyword(name) {
			t.Errorf("IsKeyword(%q) = true", name)
		}
	}
}
