package typeddata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes typed data from JSON. Numbers are kept as json.Number so large
// integers survive without float rounding.
func Parse(data []byte) (*TypedData, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var td TypedData
	if err := dec.Decode(&td); err != nil {
		return nil, fmt.Errorf("failed to decode typed data: %w", err)
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	return &td, nil
}

// ParseYAML decodes typed data from YAML. Integers wider than 64 bits decode
// as floats and are refused when hashed, so such values must be quoted.
func ParseYAML(data []byte) (*TypedData, error) {
	var td TypedData
	if err := yaml.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("failed to decode typed data: %w", err)
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	return &td, nil
}

// LoadFile reads typed data from path, picking the decoder by extension
// (.yaml and .yml are YAML, anything else JSON).
func LoadFile(path string) (*TypedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read typed data file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}
