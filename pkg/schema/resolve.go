package schema

import (
	"github.com/matzehuels/schemamap/pkg/errors"
)

// maxUnwrapDepth bounds wrapper chains. Legitimate schemas nest a handful of
// modifiers at most ([[T!]!]!), so anything deeper is treated as malformed.
const maxUnwrapDepth = 64

// ResolveName unwraps LIST and NON_NULL modifiers and returns the name of the
// referenced type.
//
// It fails with [errors.ErrCodeMalformedTypeReference] when the reference is
// nil, has neither a name nor an inner type, or wraps itself.
func ResolveName(ref *TypeRef) (string, error) {
	seen := make(map[*TypeRef]struct{})
	for cur := ref; ; cur = cur.OfType {
		if cur == nil {
			return "", errors.New(errors.ErrCodeMalformedTypeReference, "type reference %s has no named type", ref)
		}
		if cur.Name != "" {
			return cur.Name, nil
		}
		if _, ok := seen[cur]; ok {
			return "", errors.New(errors.ErrCodeMalformedTypeReference, "cyclic type reference")
		}
		if len(seen) >= maxUnwrapDepth {
			return "", errors.New(errors.ErrCodeMalformedTypeReference, "type reference nested deeper than %d", maxUnwrapDepth)
		}
		seen[cur] = struct{}{}
	}
}

// Lookup resolves ref and returns the referenced type from m.
// Names absent from m fail with [errors.ErrCodeUnknownTypeReference].
func (m TypeMap) Lookup(ref *TypeRef) (*Type, error) {
	name, err := ResolveName(ref)
	if err != nil {
		return nil, err
	}
	t, ok := m[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownTypeReference, "type %q is not defined", name)
	}
	return t, nil
}
