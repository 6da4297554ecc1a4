package errors

import (
	"strings"
	"testing"
)

func TestValidateTypeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Query", false},
		{"underscore prefix", "_Entity", false},
		{"digits", "User2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("A", 300), true},
		{"leading digit", "2User", true},
		{"dash", "my-type", true},
		{"list syntax", "[User]", true},
		{"introspection", "__Schema", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTypeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTypeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateTypeName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
