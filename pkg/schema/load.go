package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/schemamap/pkg/errors"
)

// Load reads a schema file, choosing the loader from its extension:
// .json is an introspection result; .graphql, .graphqls and .gql are SDL.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var s *Schema
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		s, err = ParseIntrospectionBytes(data)
	case ".graphql", ".graphqls", ".gql":
		s, err = ParseSDL(string(data))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported schema file extension %q (want .json, .graphql, .graphqls or .gql)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}
