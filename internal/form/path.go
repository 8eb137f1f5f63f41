// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/taibuivan/laureate/internal/nomination"
)

var (
	// ErrInvalidPath is returned for malformed paths ("", "a..b", more than three keys).
	ErrInvalidPath = errors.New("form: invalid field path")

	// ErrUnknownField is returned when a path does not name an editable leaf of the draft.
	ErrUnknownField = errors.New("form: unknown field")

	// ErrTypeMismatch is returned when a value does not fit the field it targets.
	ErrTypeMismatch = errors.New("form: value does not match field type")
)

const maxPathKeys = 3

var keyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)

// derivedFields are computed by the store and cannot be set directly.
var derivedFields = map[string]bool{
	"nominee.age": true,
}

var draftType = reflect.TypeOf(nomination.Draft{})

/*
FieldPath addresses one editable leaf of a nomination draft by its JSON keys,
e.g. "awardCategory", "nominee.firstName" or "nominee.location.county".

A FieldPath is resolved against the draft layout when parsed, so a value of
this type always points at a string or bool leaf.
*/
type FieldPath struct {
	raw   string
	index []int
	kind  reflect.Kind
}

/*
ParsePath validates a dotted path and resolves it to a draft field.

Returns:
  - FieldPath: The resolved path
  - error: ErrInvalidPath for bad syntax, ErrUnknownField for paths that do not
    name an editable leaf (unknown keys, nested objects, files, derived fields)
*/
func ParsePath(raw string) (FieldPath, error) {
	keys := strings.Split(raw, ".")
	if raw == "" || len(keys) > maxPathKeys {
		return FieldPath{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	for _, key := range keys {
		if !keyPattern.MatchString(key) {
			return FieldPath{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
		}
	}

	if derivedFields[raw] {
		return FieldPath{}, fmt.Errorf("%w: %q is derived", ErrUnknownField, raw)
	}

	current := draftType
	var index []int
	for _, key := range keys {
		if current.Kind() != reflect.Struct {
			return FieldPath{}, fmt.Errorf("%w: %q", ErrUnknownField, raw)
		}
		field, ok := fieldByJSONName(current, key)
		if !ok {
			return FieldPath{}, fmt.Errorf("%w: %q", ErrUnknownField, raw)
		}
		index = append(index, field.Index...)
		current = field.Type
	}

	switch current.Kind() {
	case reflect.String, reflect.Bool:
		return FieldPath{raw: raw, index: index, kind: current.Kind()}, nil
	default:
		return FieldPath{}, fmt.Errorf("%w: %q is not a leaf", ErrUnknownField, raw)
	}
}

// MustPath is ParsePath for paths known at compile time. It panics on error.
func MustPath(raw string) FieldPath {
	path, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return path
}

// String returns the dotted form of the path.
func (path FieldPath) String() string { return path.raw }

// Valid reports whether the path was produced by ParsePath.
func (path FieldPath) Valid() bool { return len(path.index) > 0 }

// fieldByJSONName finds the struct field whose json tag name is key.
func fieldByJSONName(structType reflect.Type, key string) (reflect.StructField, bool) {
	for i := range structType.NumField() {
		field := structType.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == key {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
