package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/schemamap/pkg/errors"
)

// Marshal encodes m as indented JSON.
func Marshal(m *Model) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Unmarshal decodes a model and checks that edge indices match node names.
func Unmarshal(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode model")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteFile writes m as JSON to path.
func WriteFile(m *Model, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a model written by [WriteFile].
func ReadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
