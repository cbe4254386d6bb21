// Package apierrors flattens backend validation payloads into a field path
// to message list mapping that forms can render next to each input.
package apierrors

import (
	"sort"
	"strings"

	"github.com/jrsteele09/squadhub/apiclient"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
)

// NonFieldErrors collects messages that are not attached to a field.
const NonFieldErrors = "non_field_errors"

// Errors maps a dotted field path to its messages.
type Errors map[string][]string

// Add appends messages to field, ignoring empty strings.
func (e Errors) Add(field string, messages ...string) {
	for _, msg := range messages {
		if msg == "" {
			continue
		}
		e[field] = append(e[field], msg)
	}
}

// First returns the first message for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the field paths in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err wraps a non-empty mapping as an error.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError carries field errors through error returns.
type ValidationError struct {
	Fields Errors
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields.Fields() {
		parts = append(parts, f+": "+strings.Join(v.Fields[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool {
	return target == apperrors.ErrValidation
}

// Normalize flattens n. Strings append to the current path, lists recurse
// without extending it, maps extend it with "."-joined keys.
func Normalize(n Node) Errors {
	out := Errors{}
	walk(out, nil, n)
	return out
}

// NormalizeBody parses and flattens a raw response body.
func NormalizeBody(body []byte) Errors {
	return Normalize(Parse(body))
}

// walk flattens n under path. Only the root has no path; a key nested under
// the root keeps its own name even when it is empty.
func walk(out Errors, path *string, n Node) {
	switch node := n.(type) {
	case nil, Null:
		return
	case String:
		out.Add(pathOrDefault(path), string(node))
	case Scalar:
		out.Add(pathOrDefault(path), string(node))
	case List:
		for _, item := range node {
			walk(out, path, item)
		}
	case Map:
		for _, k := range node.Keys() {
			key := k
			if path != nil && *path != "" {
				key = *path + "." + k
			}
			walk(out, &key, node[k])
		}
	}
}

func pathOrDefault(path *string) string {
	if path == nil {
		return NonFieldErrors
	}
	return *path
}

// FromError extracts field errors from anything a service or form returned.
func FromError(err error) Errors {
	if err == nil {
		return Errors{}
	}

	var validation *ValidationError
	if apperrors.As(err, &validation) {
		return validation.Fields
	}

	var apiErr *apiclient.Error
	if apperrors.As(err, &apiErr) {
		if out := NormalizeBody(apiErr.Body); !out.Empty() {
			return out
		}
	}

	out := Errors{}
	out.Add(NonFieldErrors, err.Error())
	return out
}
