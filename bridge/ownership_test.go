package bridge

import "testing"

func TestClassificationTransfers(t *testing.T) {
	tests := []struct {
		class Classification
		owner Side
		owned bool
		moves bool
	}{
		{Classification{CategoryOpaqueNative, ByValue}, Native, true, true},
		{Classification{CategoryOpaqueNative, ByRef}, Native, true, false},
		{Classification{CategoryOpaqueNative, ByMutRef}, Native, true, false},
		{Classification{CategoryOpaqueHost, ByValue}, Host, true, true},
		{Classification{CategoryOpaqueHost, ByRef}, Host, true, false},
		{Classification{CategoryOpaqueHost, ByMutRef}, Host, true, false},
		{Classification{CategorySharedStruct, ByValue}, 0, false, false},
		{Classification{CategorySharedEnum, ByValue}, 0, false, false},
		{Classification{CategoryBuiltin, ByValue}, 0, false, false},
		{Classification{CategoryBuiltin, ByRef}, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			owner, owned := tt.class.Owner()
			if owned != tt.owned || (owned && owner != tt.owner) {
				t.Errorf("Owner() = %v, %v; want %v, %v", owner, owned, tt.owner, tt.owned)
			}
			if got := tt.class.Transfers(); got != tt.moves {
				t.Errorf("Transfers() = %v, want %v", got, tt.moves)
			}
		})
	}
}

func TestHandleProtocol(t *testing.T) {
	r := NewResolver(testRegistry(t))
	n := NewNaming("")
	tests := []struct {
		input     string
		ok        bool
		owner     Side
		construct string
		release   string
		free      string
	}{
		{"Native", true, Native, "Box::into_raw", "Box::from_raw", "__swift_bridge__$Native$_free"},
		{"Host", true, Host, "Unmanaged.passRetained", "takeRetainedValue", "__swift_bridge__$Host$_free"},
		{"&Native", false, 0, "", "", ""},
		{"&mut Host", false, 0, "", "", ""},
		{"Point", false, 0, "", "", ""},
		{"String", false, 0, "", "", ""},
		{"Option<Native>", false, 0, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bt, err := r.Resolve(MustParseTypeExpr(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			p, ok := n.HandleProtocol(bt)
			if ok != tt.ok {
				t.Fatalf("HandleProtocol ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if p.Owner != tt.owner || p.Construct != tt.construct || p.Release != tt.release || p.FreeLinkName != tt.free {
				t.Errorf("HandleProtocol = %+v", p)
			}
		})
	}
}
