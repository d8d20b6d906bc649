package datasource

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/roach88/dichuniv/internal/data"
)

// DecodeJSON decodes a JSON object. Numbers are kept as literals so integer
// and real values stay distinct.
func DecodeJSON(name string, src []byte) (*data.MapContext, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()

	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, &SourceError{Code: ErrCodeParse, Path: name, Message: fmt.Sprintf("decoding JSON: %v", err)}
	}
	if tree == nil {
		return nil, &SourceError{Code: ErrCodeParse, Path: name, Message: "top level must be an object"}
	}
	return FromTree(name, tree)
}
