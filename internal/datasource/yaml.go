package datasource

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dichuniv/internal/data"
)

// DecodeYAML decodes a YAML mapping. YAML resolves !!int and !!float tags,
// so 1 loads as an int and 1.0 as a real.
func DecodeYAML(name string, src []byte) (*data.MapContext, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(src, &tree); err != nil {
		return nil, &SourceError{Code: ErrCodeParse, Path: name, Message: fmt.Sprintf("decoding YAML: %v", err)}
	}
	if tree == nil {
		return nil, &SourceError{Code: ErrCodeParse, Path: name, Message: "top level must be a mapping"}
	}
	return FromTree(name, tree)
}
