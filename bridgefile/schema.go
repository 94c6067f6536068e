package bridgefile

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// schema validates raw decoded documents against #Bridge. A cue.Context is
// not safe for concurrent use, so validation is serialized.
type schema struct {
	mu  sync.Mutex
	ctx *cue.Context
	def cue.Value
}

var (
	schemaOnce   sync.Once
	sharedSchema *schema
	schemaErr    error
)

func loadSchema() (*schema, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling bridge schema: %w", err)
			return
		}
		def := v.LookupPath(cue.ParsePath("#Bridge"))
		if !def.Exists() {
			schemaErr = fmt.Errorf("bridge schema has no #Bridge definition")
			return
		}
		sharedSchema = &schema{ctx: ctx, def: def}
	})
	return sharedSchema, schemaErr
}

// SchemaError reports a document that does not match the bridge schema.
type SchemaError struct {
	File   string
	Detail string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: invalid bridge description:\n%s", e.File, e.Detail)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (s *schema) validate(file string, raw map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.def.Unify(s.ctx.Encode(raw))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{File: file, Detail: cueerrors.Details(err, nil), Err: err}
	}
	return nil
}
