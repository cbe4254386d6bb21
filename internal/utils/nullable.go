package utils

import "encoding/json"

// Field is an optional request field that can also be sent as null.
// The zero value is "not set" and is left out of the request.
type Field[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// FromPtr sets the field to v, sending null when v is nil.
func FromPtr[T any](v *T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// PutField adds f to m under key when it is set.
func PutField[T any](m map[string]any, key string, f Field[T]) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		m[key] = nil
		return
	}
	m[key] = *f.Value
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}
