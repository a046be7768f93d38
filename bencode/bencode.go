// Package bencode implements the bencoding of data as defined in BEP 3,
// including a typed marshalling layer that maps Go structs, maps and slices
// onto bencode dictionaries and lists via struct tags.
package bencode

// Dict represents a bencode dictionary.
type Dict map[string]interface{}

// NewDict allocates the memory for a Dict.
func NewDict() Dict {
	return make(Dict)
}

// List represents a bencode list.
type List []interface{}

// NewList allocates the memory for a List.
func NewList() List {
	return make(List, 0)
}

// Marshaler is the interface implemented by objects that can marshal
// themselves into valid bencode.
type Marshaler interface {
	MarshalBencode() ([]byte, error)
}

// Unmarshaler is the interface implemented by objects that can unmarshal a
// bencoded representation of themselves. The input is the raw bytes spanning
// exactly one bencode value and may be retained only until the enclosing
// Unmarshal call returns.
type Unmarshaler interface {
	UnmarshalBencode([]byte) error
}

// maxDepth bounds container nesting for both decoding and encoding. The
// grammar permits unbounded nesting; the limit turns pathological input into
// ErrDepthExceeded instead of exhausting the stack.
const maxDepth = 1024
