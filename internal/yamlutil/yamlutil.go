// Package yamlutil renders decoded documents as deterministic block-style
// YAML. Plain maps are emitted with sorted keys; OrderedMap preserves
// insertion order for documents where ordering is meaningful, such as merged
// header blocks.
package yamlutil

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Dump serializes v as block-style YAML with two-space indentation.
// It never fails: a value that cannot be marshalled falls back to its
// fmt representation.
func Dump(v any) string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(normalize(v)); err != nil {
		return fmt.Sprintf("%v\n", v)
	}
	if err := enc.Close(); err != nil {
		return fmt.Sprintf("%v\n", v)
	}
	return buf.String()
}

// normalize rewrites plain string-keyed maps into key-sorted OrderedMaps so
// output does not depend on Go map iteration order.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewOrderedMap()
		for _, k := range keys {
			m.Set(k, normalize(t[k]))
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// OrderedMap is a string-keyed mapping that marshals to YAML in insertion
// order. Re-setting an existing key keeps its original position.
type OrderedMap struct {
	keys []string
	vals map[string]any
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]any)}
}

// Set stores a value, appending the key on first use.
func (m *OrderedMap) Set(key string, value any) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Len returns the number of stored keys.
func (m *OrderedMap) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// MarshalYAML implements yaml.Marshaler, emitting a mapping node whose pairs
// follow insertion order.
func (m *OrderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var key, val yaml.Node
		key.SetString(k)
		if err := val.Encode(normalize(m.vals[k])); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}
