package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// EntityType identifies a class of directory objects managed by the tool.
type EntityType string

const (
	EntityUser  EntityType = "user"
	EntityGroup EntityType = "group"
)

// ParseEntityType accepts singular or plural forms ("user", "users").
func ParseEntityType(s string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "users":
		return EntityUser, nil
	case "group", "groups":
		return EntityGroup, nil
	}
	return "", fmt.Errorf("unknown entity type %q (expected users or groups)", s)
}

// Plural returns the plural form used for audit object IDs and script dirs.
func (t EntityType) Plural() string {
	return string(t) + "s"
}

// NameKey returns the key under which the entity name is stored in a
// fingerprinted payload ("username" or "groupname").
func (t EntityType) NameKey() string {
	return string(t) + "name"
}

// AttributeRecord is an insertion-ordered mapping from attribute name to one
// or more string values. A key with a single value is a scalar attribute;
// a key with several values is multi-valued and keeps their order.
type AttributeRecord struct {
	keys   []string
	values map[string][]string
}

// NewAttributeRecord returns an empty record.
func NewAttributeRecord() *AttributeRecord {
	return &AttributeRecord{values: make(map[string][]string)}
}

// Set stores value under key, replacing any previous values.
func (r *AttributeRecord) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string][]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = []string{value}
}

// Add appends value under key. The first repeat of a key turns the scalar
// into a two-element list; further repeats append.
func (r *AttributeRecord) Add(key, value string) {
	if r.values == nil {
		r.values = make(map[string][]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = append(r.values[key], value)
}

// Append adds text to the last value of key, joined by a newline.
// It is a no-op when key is absent.
func (r *AttributeRecord) Append(key, text string) {
	vals, ok := r.values[key]
	if !ok || len(vals) == 0 {
		return
	}
	vals[len(vals)-1] = vals[len(vals)-1] + "\n" + text
}

// Get returns the first value of key.
func (r *AttributeRecord) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	vals, ok := r.values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns a copy of all values stored under key.
func (r *AttributeRecord) Values(key string) []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.values[key])
}

// IsMulti reports whether key holds more than one value.
func (r *AttributeRecord) IsMulti(key string) bool {
	return r != nil && len(r.values[key]) > 1
}

// Keys returns attribute names in discovery order.
func (r *AttributeRecord) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// SortedKeys returns attribute names in lexicographic byte order.
func (r *AttributeRecord) SortedKeys() []string {
	keys := r.Keys()
	slices.Sort(keys)
	return keys
}

// Len returns the number of distinct attributes.
func (r *AttributeRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Map returns a plain representation: strings for scalar attributes and
// []string for multi-valued ones. Suitable for JSON/YAML output.
func (r *AttributeRecord) Map() map[string]any {
	out := make(map[string]any, r.Len())
	if r == nil {
		return out
	}
	for _, k := range r.keys {
		vals := r.values[k]
		if len(vals) == 1 {
			out[k] = vals[0]
		} else {
			out[k] = slices.Clone(vals)
		}
	}
	return out
}

// EntitySnapshot is the observed state of one directory entity: the unit
// that is normalized and fingerprinted during reconciliation.
type EntitySnapshot struct {
	Type       EntityType
	Name       string
	Attributes *AttributeRecord
}

type attributeJSON struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// MarshalJSON encodes the record as an ordered list of key/values pairs so
// discovery order survives a round trip.
func (r *AttributeRecord) MarshalJSON() ([]byte, error) {
	pairs := make([]attributeJSON, 0, r.Len())
	if r != nil {
		for _, k := range r.keys {
			pairs = append(pairs, attributeJSON{Key: k, Values: r.values[k]})
		}
	}
	return json.Marshal(pairs)
}

func (r *AttributeRecord) UnmarshalJSON(data []byte) error {
	var pairs []attributeJSON
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	r.keys = nil
	r.values = make(map[string][]string, len(pairs))
	for _, p := range pairs {
		for _, v := range p.Values {
			r.Add(p.Key, v)
		}
	}
	return nil
}
