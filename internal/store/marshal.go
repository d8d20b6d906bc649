package store

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/roach88/dichuniv/internal/ir"
)

// marshalDraw converts a draw to JSON TEXT for storage, preserving order.
// Non-finite values are stored as "NaN", "+Inf" or "-Inf".
func marshalDraw(d ir.Draw) (string, error) {
	if d == nil {
		d = ir.Draw{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal draw: %w", err)
	}
	return string(data), nil
}

// unmarshalDraw parses draw JSON TEXT.
func unmarshalDraw(data string) (ir.Draw, error) {
	var d ir.Draw
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("unmarshal draw: %w", err)
	}
	if d == nil {
		d = ir.Draw{}
	}
	return d, nil
}

// marshalNames converts a name list to JSON TEXT.
func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	return string(data), nil
}

// unmarshalNames parses name list JSON TEXT.
func unmarshalNames(data string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
