package store

import (
	"encoding/json"
	"fmt"
)

// marshalDocument serializes an entity or automation definition to the
// JSON blob the document tables hold.
func marshalDocument(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data), nil
}

// unmarshalDocument parses a stored JSON blob into the target type.
func unmarshalDocument(data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}
