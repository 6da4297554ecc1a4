package errors

import (
	"regexp"
	"strings"
)

// maxTypeNameLength bounds names accepted from users (CLI flags, HTTP bodies).
const maxTypeNameLength = 256

var typeNameRe = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// ValidateTypeName checks that name is a legal GraphQL name and is not an
// introspection (double-underscore) type, which can never be a layout root.
func ValidateTypeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "type name cannot be empty")
	}
	if len(name) > maxTypeNameLength {
		return New(ErrCodeInvalidInput, "type name too long (max %d characters)", maxTypeNameLength)
	}
	if !typeNameRe.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid type name: %q", name)
	}
	if strings.HasPrefix(name, "__") {
		return New(ErrCodeInvalidInput, "introspection type %q cannot be selected", name)
	}
	return nil
}
