package field

import "fmt"

// A Type defines the kind of value an extension field holds.
type Type int

// List of field types supported for extension fields.
const (
	TypeInvalid Type = iota
	TypeString
	TypeStrings
	TypeSet
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeString:  "string",
	TypeStrings: "strings",
	TypeSet:     "set",
}

// String returns the string representation of the type.
func (t Type) String() string {
	if t < endTypes && t > TypeInvalid {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports whether t is a valid extension field type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// A Descriptor describes one caller-defined element field.
type Descriptor struct {
	// Name is the field name used in attribute sets and on the wire.
	Name string
	// Type is the kind of value the field holds.
	Type Type
}

// String returns a new descriptor for a string field.
// Merging replaces the field's value.
func String(name string) Descriptor {
	return Descriptor{Name: name, Type: TypeString}
}

// Strings returns a new descriptor for an ordered list-of-strings field.
// Merging appends members that are not already present.
func Strings(name string) Descriptor {
	return Descriptor{Name: name, Type: TypeStrings}
}

// Set returns a new descriptor for an ordered set-of-strings field.
// Members are unique; insertion order is preserved.
func Set(name string) Descriptor {
	return Descriptor{Name: name, Type: TypeSet}
}

// Validate reports whether the descriptor is well formed.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("field: descriptor has no name")
	}
	if !d.Type.Valid() {
		return fmt.Errorf("field: descriptor %q has invalid type", d.Name)
	}
	return nil
}
