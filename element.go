package cyto

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/cyto/field"
)

// Element groups, fixed per variant.
const (
	GroupNodes = "nodes"
	GroupEdges = "edges"
)

// Identity keys per variant: the attribute keys that must all be present in
// a query for it to resolve an element of that variant.
var (
	nodeKeys = []string{"id"}
	edgeKeys = []string{"source", "target"}
)

// record is the field-access protocol shared by elements and their nested
// sub-records. It replaces reflective attribute lookup with an explicit
// per-variant field table: fieldKind answers whether a name is declared
// directly on the record, and subrecords exposes the nested records in
// declaration order for the recursive fallback.
type record interface {
	fieldKind(name string) (Kind, bool)
	fieldGet(name string) Value
	fieldSet(name string, v Value)
	subrecords() []record
}

// matchAttr reports whether the record's field named key matches the query
// value. If key is not declared directly, the check recurses into the first
// nested sub-record only and returns its result; with no sub-record the
// match fails (false, never an error).
func matchAttr(r record, key string, v Value) bool {
	if kind, ok := r.fieldKind(key); ok {
		return valueMatches(kind, r.fieldGet(key), v)
	}
	if subs := r.subrecords(); len(subs) > 0 {
		return matchAttr(subs[0], key, v)
	}
	return false
}

// matchAttrRegex is the regex analogue of matchAttr: the compiled pattern is
// searched in the field's text form, or each member's text form for
// collection-valued fields. Same traversal, same silent failure.
func matchAttrRegex(r record, key string, re *regexp.Regexp) bool {
	if kind, ok := r.fieldKind(key); ok {
		return matchRegexValue(kind, r.fieldGet(key), re)
	}
	if subs := r.subrecords(); len(subs) > 0 {
		return matchAttrRegex(subs[0], key, re)
	}
	return false
}

func matchRegexValue(kind Kind, cur Value, re *regexp.Regexp) bool {
	switch kind {
	case KindList, KindSet:
		for _, it := range cur.items {
			if re.MatchString(it) {
				return true
			}
		}
		return false
	case KindMap:
		for _, v := range cur.entries {
			if re.MatchString(fmt.Sprint(v)) {
				return true
			}
		}
		return false
	default:
		return re.MatchString(cur.Text())
	}
}

// mergeAttr merges the value into the record's field named key. Unlike
// matchAttr, an undeclared key recurses into every nested sub-record, and a
// key declared nowhere is a silent no-op. Kind-incompatible values leave the
// field unchanged.
func mergeAttr(r record, key string, v Value) {
	if kind, ok := r.fieldKind(key); ok {
		if merged, ok := mergeValue(kind, r.fieldGet(key), v); ok {
			r.fieldSet(key, merged)
		}
		return
	}
	for _, sub := range r.subrecords() {
		mergeAttr(sub, key, v)
	}
}

// element is the internal contract Node and Edge satisfy on top of record.
type element interface {
	record
	classTokens() []string
	mergeClasses(tokens string)
}

// An Element is a Node or Edge stored in a collection.
type Element interface {
	element

	// Group returns "nodes" or "edges", fixed per variant.
	Group() string
	// ID returns the element's data.id.
	ID() string
	// Classes returns the space-joined class token set.
	Classes() string
	// IsMatch reports whether every attribute matches the element.
	IsMatch(attrs Attrs) bool
	// IsMatchRegex reports whether any attribute pattern matches the
	// element. A pattern that does not compile is returned as a
	// PatternError.
	IsMatchRegex(attrs Attrs) (bool, error)
	// AddFields merges the attributes into the element.
	AddFields(attrs Attrs)
	// String renders the element as Node(id="...") or Edge(id="...").
	String() string
}

// matchElement implements IsMatch: logical AND over all pairs, with the
// classes pair checked as a class-token superset. An empty attribute set
// always matches.
func matchElement(e element, attrs Attrs) bool {
	for _, at := range attrs {
		if at.Key == "classes" {
			if at.Value.Kind() != KindString {
				return false
			}
			if !supersetStrings(e.classTokens(), strings.Fields(at.Value.Str())) {
				return false
			}
			continue
		}
		if !matchAttr(e, at.Key, at.Value) {
			return false
		}
	}
	return true
}

// matchElementRegex implements IsMatchRegex: logical OR over pairs: one
// matching pair is sufficient. The OR semantics are asymmetric with
// IsMatch's AND on purpose; callers rely on the short-circuit.
func matchElementRegex(e element, attrs Attrs) (bool, error) {
	for _, at := range attrs {
		re, err := compilePattern(at)
		if err != nil {
			return false, err
		}
		if at.Key == "classes" {
			for _, c := range e.classTokens() {
				if re.MatchString(c) {
					return true, nil
				}
			}
			continue
		}
		if matchAttrRegex(e, at.Key, re) {
			return true, nil
		}
	}
	return false, nil
}

func compilePattern(at Attr) (*regexp.Regexp, error) {
	if at.Value.Kind() != KindString {
		return nil, NewPatternError(at.Key, at.Value.Text(), fmt.Errorf("pattern is not a string"))
	}
	re, err := regexp.Compile(at.Value.Str())
	if err != nil {
		return nil, NewPatternError(at.Key, at.Value.Str(), err)
	}
	return re, nil
}

// addElementFields implements AddFields: classes merge as tokens, everything
// else goes through mergeAttr.
func addElementFields(e element, attrs Attrs) {
	for _, at := range attrs {
		if at.Key == "classes" {
			if at.Value.Kind() == KindString {
				e.mergeClasses(at.Value.Str())
			}
			continue
		}
		mergeAttr(e, at.Key, at.Value)
	}
}

// mergeClassTokens unions the incoming space-separated tokens into current,
// preserving first-seen order and dropping duplicates.
func mergeClassTokens(current, incoming string) string {
	tokens := strings.Fields(current)
	for _, c := range strings.Fields(incoming) {
		if !containsString(tokens, c) {
			tokens = append(tokens, c)
		}
	}
	return strings.Join(tokens, " ")
}

// NodeData holds the identifying fields of a Node.
type NodeData struct {
	ID     string
	Parent string
	Label  string
}

func (d *NodeData) fieldKind(name string) (Kind, bool) {
	switch name {
	case "id", "parent", "label":
		return KindString, true
	}
	return KindInvalid, false
}

func (d *NodeData) fieldGet(name string) Value {
	switch name {
	case "id":
		return StringValue(d.ID)
	case "parent":
		return StringValue(d.Parent)
	case "label":
		return StringValue(d.Label)
	}
	return Value{}
}

func (d *NodeData) fieldSet(name string, v Value) {
	switch name {
	case "id":
		d.ID = v.str
	case "parent":
		d.Parent = v.str
	case "label":
		d.Label = v.str
	}
}

func (d *NodeData) subrecords() []record { return nil }

// EdgeData holds the identifying fields of an Edge. SourceLabel and
// TargetLabel use the hyphenated wire aliases "source-label" and
// "target-label".
type EdgeData struct {
	ID          string
	Source      string
	Target      string
	Label       string
	SourceLabel string
	TargetLabel string
}

func (d *EdgeData) fieldKind(name string) (Kind, bool) {
	switch name {
	case "id", "source", "target", "label", "source_label", "target_label":
		return KindString, true
	}
	return KindInvalid, false
}

func (d *EdgeData) fieldGet(name string) Value {
	switch name {
	case "id":
		return StringValue(d.ID)
	case "source":
		return StringValue(d.Source)
	case "target":
		return StringValue(d.Target)
	case "label":
		return StringValue(d.Label)
	case "source_label":
		return StringValue(d.SourceLabel)
	case "target_label":
		return StringValue(d.TargetLabel)
	}
	return Value{}
}

func (d *EdgeData) fieldSet(name string, v Value) {
	switch name {
	case "id":
		d.ID = v.str
	case "source":
		d.Source = v.str
	case "target":
		d.Target = v.str
	case "label":
		d.Label = v.str
	case "source_label":
		d.SourceLabel = v.str
	case "target_label":
		d.TargetLabel = v.str
	}
}

func (d *EdgeData) subrecords() []record { return nil }

// Position holds a Node's x/y coordinates.
type Position struct {
	X float64
	Y float64
}

func (p *Position) fieldKind(name string) (Kind, bool) {
	switch name {
	case "x", "y":
		return KindFloat, true
	}
	return KindInvalid, false
}

func (p *Position) fieldGet(name string) Value {
	switch name {
	case "x":
		return FloatValue(p.X)
	case "y":
		return FloatValue(p.Y)
	}
	return Value{}
}

func (p *Position) fieldSet(name string, v Value) {
	switch name {
	case "x":
		p.X = v.float
	case "y":
		p.Y = v.float
	}
}

func (p *Position) subrecords() []record { return nil }

// extraFields stores the values of caller-registered extension fields.
// Values are keyed by descriptor name and initialized to their kind's zero
// value, so collections built by different paths compare equal.
type extraFields struct {
	descs  []field.Descriptor
	values map[string]Value
}

func newExtraFields(descs []field.Descriptor) *extraFields {
	if len(descs) == 0 {
		return nil
	}
	ex := &extraFields{values: make(map[string]Value, len(descs))}
	for _, d := range descs {
		if d.Validate() != nil {
			continue
		}
		ex.descs = append(ex.descs, d)
		ex.values[d.Name] = Value{kind: extraKind(d.Type)}
	}
	if len(ex.descs) == 0 {
		return nil
	}
	return ex
}

func extraKind(t field.Type) Kind {
	switch t {
	case field.TypeString:
		return KindString
	case field.TypeStrings:
		return KindList
	case field.TypeSet:
		return KindSet
	}
	return KindInvalid
}

func (ex *extraFields) kind(name string) (Kind, bool) {
	if ex == nil {
		return KindInvalid, false
	}
	v, ok := ex.values[name]
	return v.kind, ok
}

func (ex *extraFields) get(name string) Value {
	if ex == nil {
		return Value{}
	}
	return ex.values[name]
}

func (ex *extraFields) set(name string, v Value) {
	if ex == nil {
		return
	}
	if cur, ok := ex.values[name]; ok {
		v.kind = cur.kind
		ex.values[name] = v
	}
}

// A Node is the "nodes" element variant.
type Node struct {
	group      string
	Data       NodeData
	Position   Position
	Selected   bool
	Selectable bool
	Locked     bool
	Grabbable  bool
	Pannable   bool
	classes    string
	Scratch    map[string]any

	extra *extraFields
}

// NewNode returns a Node with variant defaults. Extension-field descriptors
// may be passed for standalone use; elements created through a collection
// inherit the descriptors registered on it.
func NewNode(extra ...field.Descriptor) *Node {
	return &Node{
		group:      GroupNodes,
		Selectable: true,
		Grabbable:  true,
		Scratch:    map[string]any{},
		extra:      newExtraFields(extra),
	}
}

// Group returns "nodes".
func (n *Node) Group() string { return n.group }

// ID returns the node's data.id.
func (n *Node) ID() string { return n.Data.ID }

// Classes returns the space-joined class token set.
func (n *Node) Classes() string { return n.classes }

// String implements fmt.Stringer.
func (n *Node) String() string { return fmt.Sprintf("Node(id=%q)", n.Data.ID) }

// IsMatch reports whether every attribute matches the node.
func (n *Node) IsMatch(attrs Attrs) bool { return matchElement(n, attrs) }

// IsMatchRegex reports whether any attribute pattern matches the node.
func (n *Node) IsMatchRegex(attrs Attrs) (bool, error) { return matchElementRegex(n, attrs) }

// AddFields merges the attributes into the node.
func (n *Node) AddFields(attrs Attrs) { addElementFields(n, attrs) }

func (n *Node) classTokens() []string { return strings.Fields(n.classes) }

func (n *Node) mergeClasses(tokens string) { n.classes = mergeClassTokens(n.classes, tokens) }

func (n *Node) fieldKind(name string) (Kind, bool) {
	switch name {
	case "group", "classes":
		return KindString, true
	case "selected", "selectable", "locked", "grabbable", "pannable":
		return KindBool, true
	case "scratch":
		return KindMap, true
	}
	return n.extra.kind(name)
}

func (n *Node) fieldGet(name string) Value {
	switch name {
	case "group":
		return StringValue(n.group)
	case "classes":
		return StringValue(n.classes)
	case "selected":
		return BoolValue(n.Selected)
	case "selectable":
		return BoolValue(n.Selectable)
	case "locked":
		return BoolValue(n.Locked)
	case "grabbable":
		return BoolValue(n.Grabbable)
	case "pannable":
		return BoolValue(n.Pannable)
	case "scratch":
		return MapValue(n.Scratch)
	}
	return n.extra.get(name)
}

func (n *Node) fieldSet(name string, v Value) {
	switch name {
	case "group":
		// The group is fixed per variant; assignments self-correct.
		n.group = GroupNodes
	case "classes":
		n.classes = v.str
	case "selected":
		n.Selected = v.boolean
	case "selectable":
		n.Selectable = v.boolean
	case "locked":
		n.Locked = v.boolean
	case "grabbable":
		n.Grabbable = v.boolean
	case "pannable":
		n.Pannable = v.boolean
	case "scratch":
		n.Scratch = v.entries
	default:
		n.extra.set(name, v)
	}
}

func (n *Node) subrecords() []record { return []record{&n.Data, &n.Position} }

// An Edge is the "edges" element variant.
type Edge struct {
	group      string
	Data       EdgeData
	Selected   bool
	Selectable bool
	Locked     bool
	Grabbable  bool
	Pannable   bool
	classes    string
	Scratch    map[string]any

	extra *extraFields
}

// NewEdge returns an Edge with variant defaults.
func NewEdge(extra ...field.Descriptor) *Edge {
	return &Edge{
		group:      GroupEdges,
		Selectable: true,
		Grabbable:  true,
		Pannable:   true,
		Scratch:    map[string]any{},
		extra:      newExtraFields(extra),
	}
}

// Group returns "edges".
func (e *Edge) Group() string { return e.group }

// ID returns the edge's data.id.
func (e *Edge) ID() string { return e.Data.ID }

// Classes returns the space-joined class token set.
func (e *Edge) Classes() string { return e.classes }

// String implements fmt.Stringer.
func (e *Edge) String() string { return fmt.Sprintf("Edge(id=%q)", e.Data.ID) }

// IsMatch reports whether every attribute matches the edge.
func (e *Edge) IsMatch(attrs Attrs) bool { return matchElement(e, attrs) }

// IsMatchRegex reports whether any attribute pattern matches the edge.
func (e *Edge) IsMatchRegex(attrs Attrs) (bool, error) { return matchElementRegex(e, attrs) }

// AddFields merges the attributes into the edge.
func (e *Edge) AddFields(attrs Attrs) { addElementFields(e, attrs) }

func (e *Edge) classTokens() []string { return strings.Fields(e.classes) }

func (e *Edge) mergeClasses(tokens string) { e.classes = mergeClassTokens(e.classes, tokens) }

func (e *Edge) fieldKind(name string) (Kind, bool) {
	switch name {
	case "group", "classes":
		return KindString, true
	case "selected", "selectable", "locked", "grabbable", "pannable":
		return KindBool, true
	case "scratch":
		return KindMap, true
	}
	return e.extra.kind(name)
}

func (e *Edge) fieldGet(name string) Value {
	switch name {
	case "group":
		return StringValue(e.group)
	case "classes":
		return StringValue(e.classes)
	case "selected":
		return BoolValue(e.Selected)
	case "selectable":
		return BoolValue(e.Selectable)
	case "locked":
		return BoolValue(e.Locked)
	case "grabbable":
		return BoolValue(e.Grabbable)
	case "pannable":
		return BoolValue(e.Pannable)
	case "scratch":
		return MapValue(e.Scratch)
	}
	return e.extra.get(name)
}

func (e *Edge) fieldSet(name string, v Value) {
	switch name {
	case "group":
		// The group is fixed per variant; assignments self-correct.
		e.group = GroupEdges
	case "classes":
		e.classes = v.str
	case "selected":
		e.Selected = v.boolean
	case "selectable":
		e.Selectable = v.boolean
	case "locked":
		e.Locked = v.boolean
	case "grabbable":
		e.Grabbable = v.boolean
	case "pannable":
		e.Pannable = v.boolean
	case "scratch":
		e.Scratch = v.entries
	default:
		e.extra.set(name, v)
	}
}

func (e *Edge) subrecords() []record { return []record{&e.Data} }

var (
	_ Element = (*Node)(nil)
	_ Element = (*Edge)(nil)
)
