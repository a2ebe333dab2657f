package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEnumValue     = errors.New("model: invalid enum value")
	ErrInvalidSupportVector = errors.New("model: support vector must contain exactly 6 values")
	ErrLoadTypeMismatch     = errors.New("model: load type does not match load detail")
	ErrIncompleteSection    = errors.New("model: incomplete section definition")
	ErrIncompleteLine       = errors.New("model: incomplete line definition")
	ErrInvalidThickness     = errors.New("model: thickness must be greater than zero")
	ErrInvalidTagList       = errors.New("model: invalid tag list")
	ErrInvalidPoint         = errors.New("model: point must have exactly 3 coordinates")
	ErrMissingCollection    = errors.New("model: mandatory collection is empty")
	ErrDuplicateTag         = errors.New("model: duplicate tag")
	ErrDanglingReference    = errors.New("model: reference to unknown tag")
	ErrMissingLoadDetail    = errors.New("model: load detail is missing")
)

// EnumError reports a value outside of a closed enum set.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("model: invalid %s %q", e.Field, e.Value)
}

func (e *EnumError) Unwrap() error { return ErrInvalidEnumValue }

func enumError(field, value string) error {
	return &EnumError{Field: field, Value: value}
}
