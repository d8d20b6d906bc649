package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/dichuniv/internal/data"
)

// Error codes for source failures.
const (
	ErrCodeUnsupported = "UNSUPPORTED_FORMAT"
	ErrCodeRead        = "READ_FAILED"
	ErrCodeParse       = "PARSE_FAILED"
	ErrCodeSchema      = "SCHEMA_VIOLATION"
	ErrCodeShape       = "INVALID_SHAPE"
)

// SourceError reports a file that could not be turned into a context.
type SourceError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *SourceError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Format is a supported source encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &SourceError{
			Code:    ErrCodeUnsupported,
			Path:    path,
			Message: fmt.Sprintf("unsupported extension %q (want .json, .yaml, .yml or .cue)", filepath.Ext(path)),
		}
	}
}

// Load reads path and decodes it according to its extension.
func Load(path string) (*data.MapContext, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Code: ErrCodeRead, Path: path, Message: err.Error()}
	}
	ctx, err := Decode(format, path, src)
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

// Decode decodes src in the given format. name is used in error messages.
func Decode(format Format, name string, src []byte) (*data.MapContext, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(name, src)
	case FormatYAML:
		return DecodeYAML(name, src)
	case FormatCUE:
		return DecodeCUE(name, src)
	default:
		return nil, &SourceError{Code: ErrCodeUnsupported, Path: name, Message: fmt.Sprintf("unknown format %q", format)}
	}
}
