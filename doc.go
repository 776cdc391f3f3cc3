// Package cyto models collections of graph elements for Cytoscape.js-style
// visualization widgets: typed Node and Edge construction, attribute-merging
// upsert semantics, predicate and regex filtering, and bidirectional
// conversion to the JSON wire formats the host widget exchanges.
//
// # Elements and attributes
//
// A collection holds Nodes and Edges in insertion order. Mutations go
// through ordered attribute sets:
//
//	e, _ := cyto.NewElements()
//	e.Add(cyto.Attrs{}.String("id", "n1").String("label", "A"))
//	e.Add(cyto.Attrs{}.String("source", "n1").String("target", "n2"))
//
// Add is an upsert: the identity keys (id for nodes, source and target for
// edges) resolve an existing element, and the remaining attributes merge
// into it: scalars replace, lists, sets and class tokens union, scratch
// merges per key:
//
//	e.Add(cyto.Attrs{}.String("id", "n1").String("classes", "x y"))
//	e.Add(cyto.Attrs{}.String("id", "n1").String("classes", "y z"))
//	// classes is now "x y z"
//
// Conflicting writes (an id owned by another element) are silent no-ops;
// inspect the collection to detect them.
//
// # Lookup and filtering
//
// Get resolves a single element by its identity keys. Filter returns the
// order-preserving subsequence matching all attributes; FilterRegex the
// subsequence matching any of the given patterns:
//
//	n := e.Get(cyto.Attrs{}.String("id", "n1"))
//	parents := e.Filter(cyto.Attrs{}.String("parent", "p1"))
//	named, err := e.FilterRegex(cyto.Attrs{}.String("label", "^node.*"))
//
// # Wire formats
//
// Collections convert to and from the canonical Cytoscape.js element array,
// serializing only fields that differ from their schema defaults:
//
//	e, err := cyto.FromFile("elements.json")
//	text, err := e.ToJSON()
//	widget := e.ToDash()
//
// YAML files and msgpack binary snapshots of the same shape are supported
// through FromYAMLFile/ToYAML and MarshalBinary/UnmarshalBinary.
//
// # Extension fields
//
// Both variants can be extended with caller-defined fields that take part in
// the same match and merge rules; see the field package.
package cyto
