package bencode

import (
	"reflect"
	"strings"
)

// A structField describes how one struct field binds to a dictionary entry.
//
// The entry name comes from the `bencode` struct tag, defaulting to the
// lowercased field name. Fields tagged "-" are skipped. A field is optional
// when it is a pointer or carries the "omitempty" option; optional fields
// are omitted from the encoded dictionary when empty and resolve to their
// zero value when absent during decoding. All other declared fields are
// required and their absence is a MissingFieldError.
type structField struct {
	index    int
	name     string
	optional bool
}

func structFields(t reflect.Type) []structField {
	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}

		name := strings.ToLower(f.Name)
		optional := f.Type.Kind() == reflect.Ptr

		tag := f.Tag.Get("bencode")
		if tag == "-" {
			continue
		}
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					optional = true
				}
			}
		}

		fields = append(fields, structField{index: i, name: name, optional: optional})
	}
	return fields
}
