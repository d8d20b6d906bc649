package datasource

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/roach88/dichuniv/internal/data"
)

// FromTree converts a decoded top-level object into a context. Values may
// be ints, floats, json.Number, the non-finite strings, or nested []any of
// those. name is used in error messages.
func FromTree(name string, tree map[string]any) (*data.MapContext, error) {
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx := data.NewMapContext()
	for _, k := range keys {
		b := &variable{leafDepth: -1}
		if err := b.walk(tree[k], 0); err != nil {
			return nil, &SourceError{Code: ErrCodeShape, Path: name, Message: fmt.Sprintf("variable %s: %v", k, err)}
		}
		if b.real {
			ctx.SetReal(k, b.dims, b.reals)
		} else {
			ctx.SetInt(k, b.dims, b.ints)
		}
	}
	return ctx, nil
}

// variable accumulates one variable's shape and values during a walk.
type variable struct {
	dims      []int
	leafDepth int
	ints      []int
	reals     []float64
	real      bool
}

func (b *variable) walk(v any, depth int) error {
	list, ok := v.([]any)
	if !ok {
		if b.leafDepth == -1 {
			b.leafDepth = depth
		} else if depth != b.leafDepth {
			return fmt.Errorf("ragged array")
		}
		return b.leaf(v)
	}

	switch {
	case depth < len(b.dims):
		if b.dims[depth] != len(list) {
			return fmt.Errorf("ragged array: dimension %d has lengths %d and %d", depth+1, b.dims[depth], len(list))
		}
	case b.leafDepth != -1:
		return fmt.Errorf("ragged array")
	default:
		b.dims = append(b.dims, len(list))
	}
	for _, e := range list {
		if err := b.walk(e, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (b *variable) leaf(v any) error {
	n, f, isInt, err := scalar(v)
	if err != nil {
		return err
	}
	if isInt && !b.real {
		b.ints = append(b.ints, n)
		b.reals = append(b.reals, float64(n))
		return nil
	}
	b.real = true
	b.ints = nil
	if isInt {
		f = float64(n)
	}
	b.reals = append(b.reals, f)
	return nil
}

// scalar classifies a decoded leaf as int or real.
func scalar(v any) (n int, f float64, isInt bool, err error) {
	switch x := v.(type) {
	case int:
		return x, 0, true, nil
	case int64:
		return int(x), 0, true, nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, 0, false, fmt.Errorf("integer %d out of range", x)
		}
		return int(x), 0, true, nil
	case float64:
		return 0, x, false, nil
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return 0, 0, false, fmt.Errorf("integer %s out of range", s)
			}
			return int(i), 0, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid number %s", s)
		}
		return 0, f, false, nil
	case string:
		switch x {
		case "Inf", "+Inf", "inf", "Infinity":
			return 0, math.Inf(1), false, nil
		case "-Inf", "-inf", "-Infinity":
			return 0, math.Inf(-1), false, nil
		case "NaN", "nan":
			return 0, math.NaN(), false, nil
		}
		return 0, 0, false, fmt.Errorf("non-numeric value %q", x)
	default:
		return 0, 0, false, fmt.Errorf("non-numeric value of type %T", v)
	}
}
