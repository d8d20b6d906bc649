// Package datasource loads data and init files into a data.MapContext.
//
// Three formats are supported, chosen by file extension:
//
//	.json        {"Z": 3, "N": [10, 10, 10], "X": [0.0, 1.5, -1]}
//	.yaml, .yml  Z: 3
//	.cue         Z: 3, checked against the embedded #Data schema
//
// Every top-level field becomes one variable. Nested arrays become
// multi-dimensional variables in row-major order and must be rectangular.
// Integer literals load as ints; any real literal in an array makes the
// whole variable real. Empty arrays load as ints with dims (0) so they can be
// read either way.
//
// JSON strings "Inf", "-Inf" and "NaN" are accepted as reals, since JSON has
// no literal for them.
package datasource
