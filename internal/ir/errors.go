package ir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorCode categorizes kernel errors.
type ErrorCode string

const (
	// ErrCodeMissingVariable indicates a required name is absent from a source.
	ErrCodeMissingVariable ErrorCode = "MISSING_VARIABLE"

	// ErrCodeDimensionMismatch indicates declared and found shapes disagree.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	// ErrCodeConstraintViolation indicates a value outside its declared domain.
	ErrCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	// ErrCodeTypeMismatch indicates an int variable supplied with real values.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Stage names used in error messages.
const (
	StageData   = "data initialization"
	StageInit   = "initialization"
	StageParams = "parameter transform"
)

// Site identifies the model declaration an error refers to. Sites are static
// values attached at declaration time.
type Site struct {
	Block string // "data" or "parameters"
	Line  int    // line of the declaration in the model source
	Decl  string // declaration text, e.g. "int<lower=0> N[Z]"
}

// IsZero reports whether the site is unset.
func (s Site) IsZero() bool {
	return s.Block == "" && s.Line == 0 && s.Decl == ""
}

func (s Site) String() string {
	if s.IsZero() {
		return ""
	}
	loc := s.Block
	if s.Line > 0 {
		loc += ":" + strconv.Itoa(s.Line)
	}
	if s.Decl != "" {
		loc += " (" + s.Decl + ")"
	}
	return loc
}

func withSite(msg string, s Site) string {
	if s.IsZero() {
		return msg
	}
	return msg + " at " + s.String()
}

// MissingVariableError reports a name absent from a data or init source.
type MissingVariableError struct {
	Name  string
	Stage string
	Site  Site
}

func (e *MissingVariableError) Error() string {
	return withSite(fmt.Sprintf("variable %s missing", e.Name), e.Site)
}

// Code returns ErrCodeMissingVariable.
func (e *MissingVariableError) Code() ErrorCode { return ErrCodeMissingVariable }

// DimensionMismatchError reports a shape that disagrees with its declaration.
type DimensionMismatchError struct {
	Name     string
	Stage    string
	Declared []int
	Found    []int
	Site     Site
}

func (e *DimensionMismatchError) Error() string {
	msg := fmt.Sprintf("mismatch in dimension declared and found in context; processing stage=%s; variable name=%s; dims declared=%s; dims found=%s",
		e.Stage, e.Name, formatDims(e.Declared), formatDims(e.Found))
	return withSite(msg, e.Site)
}

// Code returns ErrCodeDimensionMismatch.
func (e *DimensionMismatchError) Code() ErrorCode { return ErrCodeDimensionMismatch }

// ConstraintViolationError reports a value outside its declared domain.
type ConstraintViolationError struct {
	Name       string
	Stage      string
	Index      int // element index, -1 for scalars
	Value      float64
	Constraint string // e.g. ">= 0", "<= N[2]"
	Site       Site
}

func (e *ConstraintViolationError) Error() string {
	name := e.Name
	if e.Index >= 0 {
		name = fmt.Sprintf("%s[%d]", e.Name, e.Index+1)
	}
	msg := fmt.Sprintf("%s: %s is %s, but must be %s",
		e.Stage, name, strconv.FormatFloat(e.Value, 'g', -1, 64), e.Constraint)
	return withSite(msg, e.Site)
}

// Code returns ErrCodeConstraintViolation.
func (e *ConstraintViolationError) Code() ErrorCode { return ErrCodeConstraintViolation }

// TypeMismatchError reports a variable declared int but supplied as real.
type TypeMismatchError struct {
	Name  string
	Stage string
	Site  Site
}

func (e *TypeMismatchError) Error() string {
	return withSite(fmt.Sprintf("int variable contained non-int values; processing stage=%s; variable name=%s", e.Stage, e.Name), e.Site)
}

// Code returns ErrCodeTypeMismatch.
func (e *TypeMismatchError) Code() ErrorCode { return ErrCodeTypeMismatch }

// IsMissingVariable returns true if err is or wraps a MissingVariableError.
func IsMissingVariable(err error) bool {
	var me *MissingVariableError
	return errors.As(err, &me)
}

// IsDimensionMismatch returns true if err is or wraps a DimensionMismatchError.
func IsDimensionMismatch(err error) bool {
	var de *DimensionMismatchError
	return errors.As(err, &de)
}

// IsConstraintViolation returns true if err is or wraps a ConstraintViolationError.
func IsConstraintViolation(err error) bool {
	var ce *ConstraintViolationError
	return errors.As(err, &ce)
}

// CodeOf extracts the ErrorCode from a kernel error, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	var coded interface{ Code() ErrorCode }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

func formatDims(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
