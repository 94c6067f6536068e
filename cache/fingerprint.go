// Package cache remembers generated artifacts keyed by a fingerprint of the
// generation request, so unchanged bridge descriptions are not regenerated.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/chazu/bridgegen/bridgefile"
	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bridgegen.cache")

// Canonical mode sorts map keys and uses shortest encodings, so equal
// requests always encode to equal bytes.
var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cache: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Request is everything that determines the generated output of one module.
type Request struct {
	Module   string                `cbor:"module"`
	Items    []bridgefile.ItemSpec `cbor:"items"`
	Prefix   string                `cbor:"prefix"`
	Features []string              `cbor:"features"`
	Version  string                `cbor:"version"`
}

// NewRequest builds the request for doc. Features are copied and sorted so
// their order on the command line does not matter.
func NewRequest(doc *bridgefile.Document, prefix string, features []string, version string) Request {
	fs := slices.Clone(features)
	slices.Sort(fs)
	fs = slices.Compact(fs)
	return Request{
		Module:   doc.ModuleName(),
		Items:    doc.Items,
		Prefix:   prefix,
		Features: fs,
		Version:  version,
	}
}

// Fingerprint returns the hex SHA-256 of the canonical CBOR encoding of r.
func Fingerprint(r Request) (string, error) {
	data, err := encMode.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("cache: encoding request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
