package bridge

import (
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"
)

var (
	ErrShapeMismatch = errors.New("json shape does not match declared type")
	ErrNotAssignable = errors.New("value is not assignable to declared type")
)

// Stage names the step of a conversion that failed.
type Stage string

const (
	StageExtract Stage = "extract"
	StageRestore Stage = "restore"
	StageEncode  Stage = "encode"
	StageDecode  Stage = "decode"
	StageShape   Stage = "shape"
)

const maxFragmentLength = 64

// SerializationError is returned when a value cannot be written as JSON.
type SerializationError struct {
	Type  reflect.Type
	Stage Stage
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s (%s): value is not compatible with the json bridge: %v", typeName(e.Type), e.Stage, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// DeserializationError is returned when JSON cannot be read into the declared type.
// Fragment holds the leading bytes of the offending document.
type DeserializationError struct {
	Type     reflect.Type
	Stage    Stage
	Fragment string
	Err      error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialize %s (%s) from %q: %v", typeName(e.Type), e.Stage, e.Fragment, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func newSerializationError(t reflect.Type, stage Stage, err error) *SerializationError {
	return &SerializationError{Type: t, Stage: stage, Err: err}
}

func newDeserializationError(t reflect.Type, stage Stage, json string, err error) *DeserializationError {
	return &DeserializationError{Type: t, Stage: stage, Fragment: truncateFragment(json), Err: err}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// truncateFragment cuts json to maxFragmentLength bytes without splitting a rune.
func truncateFragment(json string) string {
	if len(json) <= maxFragmentLength {
		return json
	}
	end := maxFragmentLength
	for end > 0 && !utf8.RuneStart(json[end]) {
		end--
	}
	return json[:end] + "..."
}
