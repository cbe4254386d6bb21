package apierrors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Node is a server error payload: String, List, Map or Scalar.
type Node interface {
	isNode()
}

type String string

type List []Node

type Map map[string]Node

// Scalar holds any other JSON leaf (number, bool) in its textual form.
type Scalar string

// Null is an explicit JSON null. It never produces a message.
type Null struct{}

func (String) isNode() {}
func (List) isNode()   {}
func (Map) isNode()    {}
func (Scalar) isNode() {}
func (Null) isNode()   {}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse builds a Node from a response body. Bodies that are not JSON (an
// HTML error page, plain text) become a single String.
func Parse(body []byte) Node {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return String(strings.TrimSpace(string(trimmed)))
	}
	return FromValue(v)
}

// FromValue converts a decoded JSON value (or a Go literal of the same
// shape) into a Node.
func FromValue(v any) Node {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Node:
		return val
	case string:
		return String(val)
	case []string:
		list := make(List, 0, len(val))
		for _, s := range val {
			list = append(list, String(s))
		}
		return list
	case []any:
		list := make(List, 0, len(val))
		for _, item := range val {
			list = append(list, FromValue(item))
		}
		return list
	case map[string]any:
		m := make(Map, len(val))
		for k, item := range val {
			m[k] = FromValue(item)
		}
		return m
	case map[string][]string:
		m := make(Map, len(val))
		for k, item := range val {
			m[k] = FromValue(item)
		}
		return m
	case json.Number:
		return Scalar(val.String())
	default:
		return Scalar(fmt.Sprint(val))
	}
}
