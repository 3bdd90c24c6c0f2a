package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed registry.schema.json
var registrySchemaJSON []byte

// ErrInvalidRegistry is returned when registry JSON does not match the
// registry file format.
var ErrInvalidRegistry = errors.New("invalid chain registry")

// Parse decodes a registry file: a JSON object mapping chain names to
// {chainId, service: [{id, type, serviceEndpoint}]}.
func Parse(data []byte) (Registry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidRegistry)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(registrySchemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidRegistry, strings.Join(msgs, "; "))
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chain registry: %w", err)
	}
	return reg, nil
}

// LoadFile reads and parses a registry file from disk.
func LoadFile(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain registry %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}
