// Package field provides descriptors for caller-defined element fields.
//
// The built-in Node and Edge schemas can be extended with extra fields that
// take part in the same match and merge rules as the built-in ones. A
// descriptor names the field and fixes its kind:
//
//	// Plain string field.
//	field.String("rank")
//
//	// Ordered list of strings. Merging appends members that are not
//	// already present.
//	field.Strings("tags")
//
//	// Ordered set of strings. Like Strings, but duplicates are also
//	// removed when the field is decoded from a wire format.
//	field.Set("labels")
//
// Descriptors are registered when the collection is created:
//
//	e, err := cyto.NewElements(
//		cyto.WithNodeFields(field.String("rank"), field.Set("labels")),
//		cyto.WithEdgeFields(field.Strings("tags")),
//	)
package field
