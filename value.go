package cyto

import (
	"fmt"
	"reflect"
	"strconv"
)

// A Kind identifies the type a field or attribute value holds.
type Kind int

// List of value kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindFloat
	KindList // ordered list of strings
	KindSet  // ordered set of strings, no duplicates
	KindMap  // string-keyed open map
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindBool:    "bool",
	KindFloat:   "float",
	KindList:    "list",
	KindSet:     "set",
	KindMap:     "map",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k >= KindInvalid && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// A Value is a typed attribute value. It covers the types an element field
// can hold: string, bool, float, list of strings, set of strings, and a
// string-keyed map of arbitrary JSON-like values.
type Value struct {
	kind    Kind
	str     string
	boolean bool
	float   float64
	items   []string
	entries map[string]any
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue returns a bool value.
func BoolValue(b bool) Value { return Value{kind: KindBool, boolean: b} }

// FloatValue returns a float value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, float: f} }

// ListValue returns an ordered list-of-strings value.
func ListValue(items ...string) Value { return Value{kind: KindList, items: items} }

// SetValue returns an ordered set-of-strings value. Duplicate members are
// dropped; the first occurrence decides the order.
func SetValue(items ...string) Value {
	var unique []string
	for _, it := range items {
		if !containsString(unique, it) {
			unique = append(unique, it)
		}
	}
	return Value{kind: KindSet, items: unique}
}

// MapValue returns a string-keyed map value.
func MapValue(entries map[string]any) Value { return Value{kind: KindMap, entries: entries} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload. It is the zero string for non-string kinds.
func (v Value) Str() string { return v.str }

// Items returns the list or set members. It is nil for other kinds.
func (v Value) Items() []string { return v.items }

// Text returns the value rendered as text, used by regular-expression
// matching. Lists, sets and maps have no single text form and render their
// members instead; see matchRegexValue.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	default:
		return fmt.Sprint(v.any())
	}
}

// any returns the native Go representation of the value.
func (v Value) any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.boolean
	case KindFloat:
		return v.float
	case KindList, KindSet:
		return v.items
	case KindMap:
		return v.entries
	}
	return nil
}

// An Attr is a single attribute: a field name paired with a typed value.
type Attr struct {
	Key   string
	Value Value
}

// Attrs is an ordered attribute set. Order matters for merge operations and
// for the OR short-circuit of regex matching, so Attrs is a slice rather
// than a map.
//
// Attrs is usually built fluently:
//
//	cyto.Attrs{}.String("id", "n1").Bool("selected", true)
type Attrs []Attr

// String appends a string attribute and returns the extended set.
func (a Attrs) String(key, v string) Attrs {
	return append(a, Attr{Key: key, Value: StringValue(v)})
}

// Bool appends a bool attribute and returns the extended set.
func (a Attrs) Bool(key string, v bool) Attrs {
	return append(a, Attr{Key: key, Value: BoolValue(v)})
}

// Float appends a float attribute and returns the extended set.
func (a Attrs) Float(key string, v float64) Attrs {
	return append(a, Attr{Key: key, Value: FloatValue(v)})
}

// List appends a list-of-strings attribute and returns the extended set.
func (a Attrs) List(key string, items ...string) Attrs {
	return append(a, Attr{Key: key, Value: ListValue(items...)})
}

// Set appends a set-of-strings attribute and returns the extended set.
func (a Attrs) Set(key string, items ...string) Attrs {
	return append(a, Attr{Key: key, Value: SetValue(items...)})
}

// Map appends a map attribute and returns the extended set.
func (a Attrs) Map(key string, entries map[string]any) Attrs {
	return append(a, Attr{Key: key, Value: MapValue(entries)})
}

// Lookup returns the value of the first attribute with the given key.
func (a Attrs) Lookup(key string) (Value, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the set contains the given key.
func (a Attrs) Has(key string) bool {
	_, ok := a.Lookup(key)
	return ok
}

// subset returns the attributes whose keys appear in keys, in key order.
func (a Attrs) subset(keys []string) Attrs {
	sub := make(Attrs, 0, len(keys))
	for _, k := range keys {
		if v, ok := a.Lookup(k); ok {
			sub = append(sub, Attr{Key: k, Value: v})
		}
	}
	return sub
}

// hasAll reports whether every key in keys is present in the set.
func (a Attrs) hasAll(keys []string) bool {
	for _, k := range keys {
		if !a.Has(k) {
			return false
		}
	}
	return true
}

// valueMatches reports whether the current field value cur of the given kind
// matches the query value. Lists and sets match supersets of list/set
// queries and containment of scalar string queries. Maps match when every
// query entry is present and equal. Scalars match on strict equality;
// kind-mismatched queries never match.
func valueMatches(kind Kind, cur, query Value) bool {
	switch kind {
	case KindString:
		return query.kind == KindString && cur.str == query.str
	case KindBool:
		return query.kind == KindBool && cur.boolean == query.boolean
	case KindFloat:
		return query.kind == KindFloat && cur.float == query.float
	case KindList, KindSet:
		switch query.kind {
		case KindList, KindSet:
			return supersetStrings(cur.items, query.items)
		case KindString:
			return containsString(cur.items, query.str)
		}
		return false
	case KindMap:
		if query.kind != KindMap {
			return false
		}
		for k, qv := range query.entries {
			cv, ok := cur.entries[k]
			if !ok || !reflect.DeepEqual(cv, qv) {
				return false
			}
		}
		return true
	}
	return false
}

// mergeValue merges the query value into the current field value of the
// given kind and returns the result. Lists and sets append members not
// already present; maps overwrite per key; scalars replace. A
// kind-incompatible query leaves the field unchanged (ok == false).
func mergeValue(kind Kind, cur, query Value) (merged Value, ok bool) {
	switch kind {
	case KindString, KindBool, KindFloat:
		if query.kind != kind {
			return cur, false
		}
		return query, true
	case KindList, KindSet:
		var incoming []string
		switch query.kind {
		case KindList, KindSet:
			incoming = query.items
		case KindString:
			incoming = []string{query.str}
		default:
			return cur, false
		}
		merged = Value{kind: kind, items: cur.items}
		for _, it := range incoming {
			if !containsString(merged.items, it) {
				merged.items = append(merged.items, it)
			}
		}
		return merged, true
	case KindMap:
		if query.kind != KindMap {
			return cur, false
		}
		if cur.entries == nil {
			cur.entries = make(map[string]any, len(query.entries))
		}
		for k, qv := range query.entries {
			cur.entries[k] = qv
		}
		return cur, true
	}
	return cur, false
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

func supersetStrings(items, sub []string) bool {
	for _, s := range sub {
		if !containsString(items, s) {
			return false
		}
	}
	return true
}
