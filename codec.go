package cyto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// A wireField is one serialized field: its wire name (hyphenated aliases
// included) and its native value. Nested objects are []wireField so the
// schema declaration order survives encoding.
type wireField struct {
	name  string
	value any
}

// wire returns the node's non-default fields in schema order.
func (n *Node) wire() []wireField {
	// The group is always written: its declared default is empty and the
	// variant fills it in, so it never equals the default.
	fs := []wireField{{"group", n.group}}
	if d := n.Data.wire(); len(d) > 0 {
		fs = append(fs, wireField{"data", d})
	}
	if p := n.Position.wire(); len(p) > 0 {
		fs = append(fs, wireField{"position", p})
	}
	fs = append(fs, commonWire(n.Selected, n.Selectable, n.Locked, n.Grabbable, n.Pannable, false, n.classes, n.Scratch)...)
	return append(fs, n.extra.wire()...)
}

// wire returns the edge's non-default fields in schema order.
func (e *Edge) wire() []wireField {
	fs := []wireField{{"group", e.group}}
	if d := e.Data.wire(); len(d) > 0 {
		fs = append(fs, wireField{"data", d})
	}
	fs = append(fs, commonWire(e.Selected, e.Selectable, e.Locked, e.Grabbable, e.Pannable, true, e.classes, e.Scratch)...)
	return append(fs, e.extra.wire()...)
}

func commonWire(selected, selectable, locked, grabbable, pannable, pannableDefault bool, classes string, scratch map[string]any) []wireField {
	var fs []wireField
	if selected {
		fs = append(fs, wireField{"selected", true})
	}
	if !selectable {
		fs = append(fs, wireField{"selectable", false})
	}
	if locked {
		fs = append(fs, wireField{"locked", true})
	}
	if !grabbable {
		fs = append(fs, wireField{"grabbable", false})
	}
	if pannable != pannableDefault {
		fs = append(fs, wireField{"pannable", pannable})
	}
	if classes != "" {
		fs = append(fs, wireField{"classes", classes})
	}
	if len(scratch) > 0 {
		fs = append(fs, wireField{"scratch", scratch})
	}
	return fs
}

func (d *NodeData) wire() []wireField {
	var fs []wireField
	if d.ID != "" {
		fs = append(fs, wireField{"id", d.ID})
	}
	if d.Parent != "" {
		fs = append(fs, wireField{"parent", d.Parent})
	}
	if d.Label != "" {
		fs = append(fs, wireField{"label", d.Label})
	}
	return fs
}

func (d *EdgeData) wire() []wireField {
	var fs []wireField
	if d.ID != "" {
		fs = append(fs, wireField{"id", d.ID})
	}
	if d.Source != "" {
		fs = append(fs, wireField{"source", d.Source})
	}
	if d.Target != "" {
		fs = append(fs, wireField{"target", d.Target})
	}
	if d.Label != "" {
		fs = append(fs, wireField{"label", d.Label})
	}
	if d.SourceLabel != "" {
		fs = append(fs, wireField{"source-label", d.SourceLabel})
	}
	if d.TargetLabel != "" {
		fs = append(fs, wireField{"target-label", d.TargetLabel})
	}
	return fs
}

func (p *Position) wire() []wireField {
	var fs []wireField
	if p.X != 0 {
		fs = append(fs, wireField{"x", p.X})
	}
	if p.Y != 0 {
		fs = append(fs, wireField{"y", p.Y})
	}
	return fs
}

func (ex *extraFields) wire() []wireField {
	if ex == nil {
		return nil
	}
	var fs []wireField
	for _, d := range ex.descs {
		v := ex.values[d.Name]
		switch v.kind {
		case KindString:
			if v.str != "" {
				fs = append(fs, wireField{d.Name, v.str})
			}
		case KindList, KindSet:
			if len(v.items) > 0 {
				fs = append(fs, wireField{d.Name, v.items})
			}
		}
	}
	return fs
}

// marshalOrdered writes the fields as a JSON object preserving their order,
// which encoding/json's map marshaling would not.
func marshalOrdered(fields []wireField) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		var value []byte
		if nested, ok := f.value.([]wireField); ok {
			value, err = marshalOrdered(nested)
		} else {
			value, err = json.Marshal(f.value)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) { return marshalOrdered(n.wire()) }

// MarshalJSON implements json.Marshaler.
func (e *Edge) MarshalJSON() ([]byte, error) { return marshalOrdered(e.wire()) }

func dashObject(fields []wireField) map[string]any {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		if nested, ok := f.value.([]wireField); ok {
			m[f.name] = dashObject(nested)
		} else {
			m[f.name] = f.value
		}
	}
	return m
}

// ToDash returns the collection in the host-widget array shape: one object
// per element, only non-default fields, hyphenated wire aliases. An empty
// collection yields an empty slice.
func (e *Elements) ToDash() []map[string]any {
	out := make([]map[string]any, 0, len(e.elems))
	for _, el := range e.elems {
		switch el := el.(type) {
		case *Node:
			out = append(out, dashObject(el.wire()))
		case *Edge:
			out = append(out, dashObject(el.wire()))
		}
	}
	return out
}

// ToJSON returns the collection as a 4-space-indented JSON array in the
// canonical wire shape. An empty collection yields an empty string.
func (e *Elements) ToJSON() (string, error) {
	if len(e.elems) == 0 {
		return "", nil
	}
	b, err := json.MarshalIndent(e.elems, "", "    ")
	if err != nil {
		return "", fmt.Errorf("cyto: encode elements json: %w", err)
	}
	return string(b), nil
}

// ToYAML returns the collection as a YAML sequence in the canonical wire
// shape. An empty collection yields an empty string.
func (e *Elements) ToYAML() (string, error) {
	if len(e.elems) == 0 {
		return "", nil
	}
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, el := range e.elems {
		var fields []wireField
		switch el := el.(type) {
		case *Node:
			fields = el.wire()
		case *Edge:
			fields = el.wire()
		}
		m, err := yamlObject(fields)
		if err != nil {
			return "", fmt.Errorf("cyto: encode elements yaml: %w", err)
		}
		root.Content = append(root.Content, m)
	}
	b, err := yaml.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("cyto: encode elements yaml: %w", err)
	}
	return string(b), nil
}

func yamlObject(fields []wireField) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		key := &yaml.Node{}
		if err := key.Encode(f.name); err != nil {
			return nil, err
		}
		var value *yaml.Node
		if nested, ok := f.value.([]wireField); ok {
			var err error
			if value, err = yamlObject(nested); err != nil {
				return nil, err
			}
		} else {
			value = &yaml.Node{}
			if err := value.Encode(f.value); err != nil {
				return nil, err
			}
		}
		m.Content = append(m.Content, key, value)
	}
	return m, nil
}

// MarshalBinary implements encoding.BinaryMarshaler. The snapshot is the
// canonical wire array in msgpack, suitable for caching collection state
// between processes.
func (e *Elements) MarshalBinary() ([]byte, error) {
	b, err := msgpack.Marshal(e.ToDash())
	if err != nil {
		return nil, fmt.Errorf("cyto: encode elements snapshot: %w", err)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It replaces the
// collection's elements with the snapshot's; registered extension fields on
// the receiver are kept.
func (e *Elements) UnmarshalBinary(data []byte) error {
	var entries []map[string]any
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("cyto: decode elements snapshot: %w", err)
	}
	e.elems = nil
	return e.decodeEntries(entries)
}

// FromDash creates a collection from the host-widget array shape.
func FromDash(data []map[string]any, opts ...Option) (*Elements, error) {
	e, err := NewElements(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.decodeEntries(data); err != nil {
		return nil, err
	}
	return e, nil
}

// FromJSON creates a collection from a JSON array in the canonical wire
// shape.
func FromJSON(text string, opts ...Option) (*Elements, error) {
	var entries []map[string]any
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("cyto: decode elements json: %w", err)
	}
	return FromDash(entries, opts...)
}

// FromFile creates a collection from a file holding the canonical JSON
// array.
func FromFile(path string, opts ...Option) (*Elements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cyto: read elements file: %w", err)
	}
	return FromJSON(string(data), opts...)
}

// FromYAMLFile creates a collection from a file holding the canonical
// element array in YAML.
func FromYAMLFile(path string, opts ...Option) (*Elements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cyto: read elements file: %w", err)
	}
	var entries []map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cyto: decode elements yaml: %w", err)
	}
	return FromDash(entries, opts...)
}

func (e *Elements) decodeEntries(entries []map[string]any) error {
	for _, entry := range entries {
		el, err := e.decodeEntry(entry)
		if err != nil {
			return err
		}
		e.elems = append(e.elems, el)
	}
	return nil
}

// decodeEntry builds one element from a wire object. The entry is an Edge
// exactly when its data carries both source and target.
func (e *Elements) decodeEntry(entry map[string]any) (Element, error) {
	data, _ := entry["data"].(map[string]any)
	if _, src := data["source"]; src {
		if _, tgt := data["target"]; tgt {
			return e.decodeEdge(entry)
		}
	}
	return e.decodeNode(entry)
}

func (e *Elements) decodeNode(entry map[string]any) (*Node, error) {
	n := e.newNode()
	for key, raw := range entry {
		switch key {
		case "group":
			if _, ok := raw.(string); !ok {
				return nil, NewSchemaError(GroupNodes, "group", "expected string", nil)
			}
			// Self-corrects to the variant value regardless of input.
		case "data":
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, NewSchemaError(GroupNodes, "data", "expected object", nil)
			}
			for k, v := range m {
				switch k {
				case "id", "parent", "label":
				default:
					return nil, NewSchemaError(GroupNodes, k, "unknown field", nil)
				}
				s, ok := v.(string)
				if !ok {
					return nil, NewSchemaError(GroupNodes, k, "expected string", nil)
				}
				switch k {
				case "id":
					n.Data.ID = s
				case "parent":
					n.Data.Parent = s
				case "label":
					n.Data.Label = s
				}
			}
		case "position":
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, NewSchemaError(GroupNodes, "position", "expected object", nil)
			}
			for k, v := range m {
				if k != "x" && k != "y" {
					return nil, NewSchemaError(GroupNodes, k, "unknown field", nil)
				}
				f, ok := floatOf(v)
				if !ok {
					return nil, NewSchemaError(GroupNodes, k, "expected number", nil)
				}
				if k == "x" {
					n.Position.X = f
				} else {
					n.Position.Y = f
				}
			}
		default:
			if err := decodeCommon(n, GroupNodes, key, raw); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func (e *Elements) decodeEdge(entry map[string]any) (*Edge, error) {
	ed := e.newEdge()
	for key, raw := range entry {
		switch key {
		case "group":
			if _, ok := raw.(string); !ok {
				return nil, NewSchemaError(GroupEdges, "group", "expected string", nil)
			}
		case "data":
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, NewSchemaError(GroupEdges, "data", "expected object", nil)
			}
			for k, v := range m {
				switch k {
				case "id", "source", "target", "label",
					"source-label", "source_label", "target-label", "target_label":
				default:
					return nil, NewSchemaError(GroupEdges, k, "unknown field", nil)
				}
				s, ok := v.(string)
				if !ok {
					return nil, NewSchemaError(GroupEdges, k, "expected string", nil)
				}
				switch k {
				case "id":
					ed.Data.ID = s
				case "source":
					ed.Data.Source = s
				case "target":
					ed.Data.Target = s
				case "label":
					ed.Data.Label = s
				case "source-label", "source_label":
					ed.Data.SourceLabel = s
				case "target-label", "target_label":
					ed.Data.TargetLabel = s
				}
			}
		default:
			if err := decodeCommon(ed, GroupEdges, key, raw); err != nil {
				return nil, err
			}
		}
	}
	return ed, nil
}

// decodeCommon handles the fields shared by both variants plus registered
// extension fields. An unrecognized key is a schema violation.
func decodeCommon(el element, group, key string, raw any) error {
	switch key {
	case "selected", "selectable", "locked", "grabbable", "pannable":
		b, ok := raw.(bool)
		if !ok {
			return NewSchemaError(group, key, "expected bool", nil)
		}
		el.fieldSet(key, BoolValue(b))
	case "classes":
		s, ok := raw.(string)
		if !ok {
			return NewSchemaError(group, key, "expected string", nil)
		}
		// Tokens go through the class merge so duplicates never survive a
		// decode.
		el.fieldSet(key, StringValue(mergeClassTokens("", s)))
	case "scratch":
		m, ok := raw.(map[string]any)
		if !ok {
			return NewSchemaError(group, key, "expected object", nil)
		}
		el.fieldSet(key, MapValue(m))
	default:
		kind, ok := el.fieldKind(key)
		if !ok {
			return NewSchemaError(group, key, "unknown field", nil)
		}
		switch kind {
		case KindString:
			s, ok := raw.(string)
			if !ok {
				return NewSchemaError(group, key, "expected string", nil)
			}
			el.fieldSet(key, StringValue(s))
		case KindList, KindSet:
			items, ok := stringSlice(raw)
			if !ok {
				return NewSchemaError(group, key, "expected array of strings", nil)
			}
			if kind == KindSet {
				el.fieldSet(key, SetValue(items...))
			} else {
				el.fieldSet(key, ListValue(items...))
			}
		default:
			return NewSchemaError(group, key, "unknown field", nil)
		}
	}
	return nil
}

// floatOf accepts the numeric representations the supported decoders
// produce: encoding/json (float64), yaml.v3 (int, float64) and msgpack
// (int64, uint64, float32, float64).
func floatOf(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

func stringSlice(v any) ([]string, bool) {
	switch v := v.(type) {
	case []string:
		return v, true
	case []any:
		items := make([]string, 0, len(v))
		for _, it := range v {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
		return items, true
	}
	return nil, false
}
