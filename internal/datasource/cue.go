package datasource

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/dichuniv/internal/data"
)

//go:embed schema.cue
var schemaSource string

// DecodeCUE compiles src, unifies it with #Data and converts the concrete
// result. Type errors carry the CUE position of the offending field.
func DecodeCUE(name string, src []byte) (*data.MapContext, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &SourceError{Code: ErrCodeSchema, Path: name, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#Data"))

	value := ctx.CompileBytes(src, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeParse, name, err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, name, err)
	}

	tree := make(map[string]any)
	iter, err := unified.Fields()
	if err != nil {
		return nil, cueError(ErrCodeParse, name, err)
	}
	for iter.Next() {
		v, err := cueTree(iter.Value())
		if err != nil {
			return nil, &SourceError{
				Code:    ErrCodeShape,
				Path:    name,
				Message: fmt.Sprintf("variable %s: %v", iter.Label(), err),
				Pos:     iter.Value().Pos(),
			}
		}
		tree[iter.Label()] = v
	}
	return FromTree(name, tree)
}

// cueTree converts a concrete CUE value into the same shapes the JSON and
// YAML decoders produce.
func cueTree(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return n, nil
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		list := []any{}
		for iter.Next() {
			e, err := cueTree(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, e)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported CUE kind %s", v.Kind())
	}
}

func cueError(code, name string, err error) *SourceError {
	var pos token.Pos
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		pos = errs[0].Position()
	}
	return &SourceError{Code: code, Path: name, Message: cueerrors.Details(err, nil), Pos: pos}
}
