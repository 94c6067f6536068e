// Package bridgefile reads bridge descriptions: TOML documents listing the
// types and functions of one bridge module as a single ordered [[item]]
// array. Documents are checked against an embedded CUE schema before they are
// turned into bridge items.
package bridgefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chazu/bridgegen/bridge"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bridgegen.bridgefile")

// Member is a named, typed struct field or function parameter.
type Member struct {
	Name string `toml:"name" cbor:"name"`
	Type string `toml:"type" cbor:"type"`
}

// ItemSpec is one [[item]] entry. Which keys are meaningful depends on Kind.
type ItemSpec struct {
	Kind            string   `toml:"kind" cbor:"kind"`
	Name            string   `toml:"name" cbor:"name"`
	Side            string   `toml:"side" cbor:"side,omitempty"`
	Doc             string   `toml:"doc" cbor:"doc,omitempty"`
	AlreadyDeclared bool     `toml:"already_declared" cbor:"already_declared,omitempty"`
	Generics        []string `toml:"generics" cbor:"generics,omitempty"`
	Fields          []Member `toml:"fields" cbor:"fields,omitempty"`
	Repr            string   `toml:"repr" cbor:"repr,omitempty"`
	Variants        []string `toml:"variants" cbor:"variants,omitempty"`
	Receiver        string   `toml:"receiver" cbor:"receiver,omitempty"`
	SelfType        string   `toml:"self_type" cbor:"self_type,omitempty"`
	Params          []Member `toml:"params" cbor:"params,omitempty"`
	Returns         string   `toml:"returns" cbor:"returns,omitempty"`
	Init            bool     `toml:"init" cbor:"init,omitempty"`
	Feature         string   `toml:"feature" cbor:"feature,omitempty"`
}

// Document is a decoded bridge description.
type Document struct {
	Module string     `toml:"module" cbor:"module"`
	Items  []ItemSpec `toml:"item" cbor:"items"`

	// File is the path the document was read from, used in positions.
	File string `toml:"-" cbor:"-"`
}

// Load reads and validates the bridge description at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bridge description: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes and validates a bridge description. file is only used for
// error messages and item positions.
func Parse(file string, data []byte) (*Document, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parsing TOML: %w", file, err)
	}
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}
	if err := s.validate(file, raw); err != nil {
		return nil, err
	}

	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("%s: decoding: %w", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", file, strings.Join(keys, ", "))
	}
	doc.File = file
	log.Debugf("decoded %s: module %q, %d items", file, doc.ModuleName(), len(doc.Items))
	return &doc, nil
}

// ModuleName returns the declared module name, falling back to the file's
// base name when it is an identifier, then to bridge.DefaultModuleName.
func (d *Document) ModuleName() string {
	if d.Module != "" {
		return d.Module
	}
	if d.File != "" {
		base := strings.TrimSuffix(filepath.Base(d.File), filepath.Ext(d.File))
		if bridge.IsIdent(base) && !bridge.IsKeyword(base) {
			return base
		}
	}
	return bridge.DefaultModuleName
}

// ToItems converts the document into bridge items in document order.
func (d *Document) ToItems() ([]bridge.Item, error) {
	items := make([]bridge.Item, 0, len(d.Items))
	for i, spec := range d.Items {
		pos := bridge.Pos{File: d.File, Item: i}
		it, err := spec.toItem(pos)
		if err != nil {
			return nil, fmt.Errorf("%s: %s %s: %w", pos, spec.Kind, spec.Name, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (s ItemSpec) toItem(pos bridge.Pos) (bridge.Item, error) {
	switch s.Kind {
	case "opaque":
		side, err := bridge.ParseSide(s.Side)
		if err != nil {
			return nil, err
		}
		return &bridge.OpaqueTypeItem{
			Name:            s.Name,
			Side:            side,
			AlreadyDeclared: s.AlreadyDeclared,
			Doc:             s.Doc,
			Generics:        s.Generics,
			Pos:             pos,
		}, nil

	case "struct":
		repr, err := bridge.ParseRepr(s.Repr)
		if err != nil {
			return nil, err
		}
		fields := make([]bridge.Field, 0, len(s.Fields))
		for _, f := range s.Fields {
			t, err := bridge.ParseTypeExpr(f.Type)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			fields = append(fields, bridge.Field{Name: f.Name, Type: t})
		}
		return &bridge.SharedStructItem{
			Name:            s.Name,
			Fields:          fields,
			Repr:            repr,
			AlreadyDeclared: s.AlreadyDeclared,
			Doc:             s.Doc,
			Pos:             pos,
		}, nil

	case "enum":
		return &bridge.SharedEnumItem{
			Name:            s.Name,
			Variants:        s.Variants,
			AlreadyDeclared: s.AlreadyDeclared,
			Doc:             s.Doc,
			Pos:             pos,
		}, nil

	case "function":
		side, err := bridge.ParseSide(s.Side)
		if err != nil {
			return nil, err
		}
		recv, err := bridge.ParseReceiver(s.Receiver)
		if err != nil {
			return nil, err
		}
		params := make([]bridge.Param, 0, len(s.Params))
		for _, p := range s.Params {
			t, err := bridge.ParseTypeExpr(p.Type)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
			}
			params = append(params, bridge.Param{Name: p.Name, Type: t})
		}
		ret, err := bridge.ParseTypeExpr(s.Returns)
		if err != nil {
			return nil, fmt.Errorf("return type: %w", err)
		}
		return &bridge.FunctionItem{
			Name:     s.Name,
			Side:     side,
			Receiver: recv,
			SelfType: s.SelfType,
			Params:   params,
			Return:   ret,
			Init:     s.Init,
			Feature:  s.Feature,
			Doc:      s.Doc,
			Pos:      pos,
		}, nil
	}
	return nil, fmt.Errorf("unknown item kind %q", s.Kind)
}

// BuildModule parses the document's items and assembles the bridge module.
func (d *Document) BuildModule() (*bridge.Module, error) {
	items, err := d.ToItems()
	if err != nil {
		return nil, err
	}
	return bridge.NewModule(d.ModuleName(), items)
}
