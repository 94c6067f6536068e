package bridge

// Category is the first classification axis: who owns values of a type.
type Category uint8

const (
	CategoryBuiltin Category = iota
	CategoryOpaqueNative
	CategoryOpaqueHost
	CategorySharedStruct
	CategorySharedEnum
)

func (c Category) String() string {
	switch c {
	case CategoryOpaqueNative:
		return "opaque native-owned"
	case CategoryOpaqueHost:
		return "opaque host-owned"
	case CategorySharedStruct:
		return "shared struct"
	case CategorySharedEnum:
		return "shared enum"
	}
	return "builtin"
}

// Passing is the second axis: how a value is handed over at the use site.
type Passing uint8

const (
	ByValue Passing = iota
	ByRef
	ByMutRef
)

func (p Passing) String() string {
	switch p {
	case ByRef:
		return "by reference"
	case ByMutRef:
		return "by mutable reference"
	}
	return "by value"
}

// Classification places a BridgedType in the category x passing grid. Every
// codegen rule is keyed on one cell of this grid.
type Classification struct {
	Category Category
	Passing  Passing
}

// Classify computes the classification of b.
func Classify(b BridgedType) Classification {
	c := Classification{Passing: ByValue}
	if b.Reference {
		c.Passing = ByRef
		if b.Mutable {
			c.Passing = ByMutRef
		}
	}
	switch b.Kind {
	case KindOpaque:
		if b.Opaque.Owner == Native {
			c.Category = CategoryOpaqueNative
		} else {
			c.Category = CategoryOpaqueHost
		}
	case KindSharedStruct:
		c.Category = CategorySharedStruct
	case KindSharedEnum:
		c.Category = CategorySharedEnum
	default:
		c.Category = CategoryBuiltin
	}
	return c
}

// Owner returns the owning side for opaque types. Shared and builtin values
// are mirrored and have no single owner.
func (c Classification) Owner() (Side, bool) {
	switch c.Category {
	case CategoryOpaqueNative:
		return Native, true
	case CategoryOpaqueHost:
		return Host, true
	}
	return 0, false
}

// Transfers reports whether crossing the boundary moves ownership of a handle.
// Only opaque values passed by value do; borrows and mirrored values never do.
func (c Classification) Transfers() bool {
	_, owned := c.Owner()
	return owned && c.Passing == ByValue
}

func (c Classification) String() string {
	return c.Category.String() + " " + c.Passing.String()
}

// HandleProtocol describes the construct/release pair of an ownership
// transfer. The construct step yields a raw handle on the owning side; the
// release step consumes that handle exactly once.
type HandleProtocol struct {
	Owner Side
	// Construct is the operation producing the raw handle.
	Construct string
	// Release is the operation consuming it.
	Release string
	// FreeLinkName is the linker symbol of the generated free hook.
	FreeLinkName string
}

// HandleProtocol returns the protocol for b, or false when crossing does not
// transfer ownership.
func (n Naming) HandleProtocol(b BridgedType) (HandleProtocol, bool) {
	c := Classify(b)
	if !c.Transfers() {
		return HandleProtocol{}, false
	}
	p := HandleProtocol{
		Owner:        b.Opaque.Owner,
		FreeLinkName: n.FreeLinkName(b.Opaque.Name),
	}
	if c.Category == CategoryOpaqueNative {
		p.Construct = "Box::into_raw"
		p.Release = "Box::from_raw"
	} else {
		p.Construct = "Unmanaged.passRetained"
		p.Release = "takeRetainedValue"
	}
	return p, true
}
