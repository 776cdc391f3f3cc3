package cyto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/syssam/cyto/field"
)

// Elements is an ordered collection of Node and Edge elements. The order is
// insertion order; no operation re-sorts it. Within a collection, node ids
// are unique and so are edge (source, target) pairs; Add enforces both.
//
// Elements is not safe for concurrent mutation; callers needing concurrent
// access must serialize externally.
type Elements struct {
	elems      []Element
	nodeFields []field.Descriptor
	edgeFields []field.Descriptor
}

// Option configures a collection.
type Option func(*Elements) error

// Built-in attribute names extension fields must not shadow.
var reservedFields = map[string]bool{
	"group": true, "data": true, "position": true,
	"selected": true, "selectable": true, "locked": true,
	"grabbable": true, "pannable": true, "classes": true, "scratch": true,
	"id": true, "parent": true, "label": true,
	"source": true, "target": true, "source_label": true, "target_label": true,
	"x": true, "y": true,
}

func validFields(descs []field.Descriptor) error {
	seen := make(map[string]bool, len(descs))
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
		if reservedFields[d.Name] {
			return fmt.Errorf("cyto: extension field %q shadows a built-in field", d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("cyto: extension field %q registered twice", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// WithNodeFields registers extension fields on the collection's Node
// variant. The fields take part in match, merge and wire conversion exactly
// like the built-in ones.
func WithNodeFields(descs ...field.Descriptor) Option {
	return func(e *Elements) error {
		if err := validFields(descs); err != nil {
			return err
		}
		e.nodeFields = append(e.nodeFields, descs...)
		return nil
	}
}

// WithEdgeFields registers extension fields on the collection's Edge
// variant.
func WithEdgeFields(descs ...field.Descriptor) Option {
	return func(e *Elements) error {
		if err := validFields(descs); err != nil {
			return err
		}
		e.edgeFields = append(e.edgeFields, descs...)
		return nil
	}
}

// NewElements returns an empty collection.
func NewElements(opts ...Option) (*Elements, error) {
	e := &Elements{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// emptyLike returns an empty collection with the same extension fields.
func (e *Elements) emptyLike() *Elements {
	return &Elements{nodeFields: e.nodeFields, edgeFields: e.edgeFields}
}

// newNode returns a Node carrying the collection's extension fields.
func (e *Elements) newNode() *Node { return NewNode(e.nodeFields...) }

// newEdge returns an Edge carrying the collection's extension fields.
func (e *Elements) newEdge() *Edge { return NewEdge(e.edgeFields...) }

// Len returns the number of elements in the collection.
func (e *Elements) Len() int { return len(e.elems) }

// At returns the i-th element in insertion order.
func (e *Elements) At(i int) Element { return e.elems[i] }

// Each calls fn for every element in insertion order.
func (e *Elements) Each(fn func(Element)) {
	for _, el := range e.elems {
		fn(el)
	}
}

// String renders the collection as [Node(id="n1"), Edge(id="e1"), ...].
func (e *Elements) String() string {
	parts := make([]string, len(e.elems))
	for i, el := range e.elems {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Get returns the element the attribute set identifies, or nil. Nodes are
// scanned first when attrs carries all node keys (id), then edges when it
// carries all edge keys (source, target). Only the key subset of attrs takes
// part in the scan; other attributes are ignored here.
func (e *Elements) Get(attrs Attrs) Element {
	if attrs.hasAll(nodeKeys) {
		keys := attrs.subset(nodeKeys)
		for _, el := range e.elems {
			if el.Group() == GroupNodes && el.IsMatch(keys) {
				return el
			}
		}
	}
	if attrs.hasAll(edgeKeys) {
		keys := attrs.subset(edgeKeys)
		for _, el := range e.elems {
			if el.Group() == GroupEdges && el.IsMatch(keys) {
				return el
			}
		}
	}
	return nil
}

// Filter returns a new collection holding every element that matches all
// given attributes, in the original order. Elements are shared with the
// receiver, not copied.
func (e *Elements) Filter(attrs Attrs) *Elements {
	out := e.emptyLike()
	for _, el := range e.elems {
		if el.IsMatch(attrs) {
			out.elems = append(out.elems, el)
		}
	}
	return out
}

// FilterRegex returns a new collection holding every element for which any
// of the given key/pattern pairs matches. A pattern that does not compile is
// returned as a PatternError before any element is inspected.
func (e *Elements) FilterRegex(attrs Attrs) (*Elements, error) {
	for _, at := range attrs {
		if _, err := compilePattern(at); err != nil {
			return nil, err
		}
	}
	out := e.emptyLike()
	for _, el := range e.elems {
		ok, err := el.IsMatchRegex(attrs)
		if err != nil {
			return nil, err
		}
		if ok {
			out.elems = append(out.elems, el)
		}
	}
	return out, nil
}

// Add inserts or merges an element described by the attribute set.
//
// When the identity keys resolve an existing element, the attributes are
// merged into it, unless attrs also carries an id owned by a different
// element, in which case the call is a silent no-op (ambiguous identity).
//
// Otherwise a new element is created: an Edge when both source and target
// are present, a Node when not. An explicit id that already exists anywhere
// in the collection aborts the call without mutation; a missing id is
// synthesized as a random UUID.
//
// Guard failures are deliberate no-ops, never errors; callers detect them by
// inspecting the collection.
func (e *Elements) Add(attrs Attrs) {
	if el := e.Get(attrs); el != nil {
		if id, ok := attrs.Lookup("id"); ok {
			for _, other := range e.Filter(Attrs{{Key: "id", Value: id}}).elems {
				if other != el {
					return
				}
			}
		}
		el.AddFields(attrs)
		return
	}

	var el Element
	if attrs.Has("source") && attrs.Has("target") {
		el = e.newEdge()
	} else {
		el = e.newNode()
	}

	if id, ok := attrs.Lookup("id"); ok {
		// The id must be unique collection-wide, across both variants.
		if len(e.Filter(Attrs{{Key: "id", Value: id}}).elems) > 0 {
			return
		}
		el.AddFields(attrs)
	} else {
		withID := append(append(Attrs{}, attrs...), Attr{Key: "id", Value: StringValue(uuid.NewString())})
		el.AddFields(withID)
	}

	e.elems = append(e.elems, el)
}

// Remove deletes the element the attribute set identifies. Removal is by
// element identity, not value equality; a miss is a no-op. Removing a node
// does not cascade to edges referencing it.
func (e *Elements) Remove(attrs Attrs) {
	el := e.Get(attrs)
	if el == nil {
		return
	}
	for i, cur := range e.elems {
		if cur == el {
			e.elems = append(e.elems[:i], e.elems[i+1:]...)
			return
		}
	}
}
