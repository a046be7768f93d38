package bencode

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// ErrUnexpectedEOF is returned when the input buffer ends in the middle of a
// value.
var ErrUnexpectedEOF = errors.New("bencode: unexpected end of input")

// ErrInvalidInteger is returned for a malformed integer numeral: an empty
// digit run, a leading zero other than the literal "0", "-0", or a value
// outside the signed 64-bit range.
var ErrInvalidInteger = errors.New("bencode: invalid integer format")

// ErrInvalidDictKey is returned when a dictionary key is not a byte string.
var ErrInvalidDictKey = errors.New("bencode: dictionary key is not a byte string")

// ErrUnsortedDictKeys is returned when raw dictionary keys are not unique
// and in strictly ascending byte-lexicographic order. Sorted keys are a wire
// format invariant, not an encoder convenience.
var ErrUnsortedDictKeys = errors.New("bencode: dictionary keys not in ascending order")

// ErrDepthExceeded is returned when container nesting passes the hardening
// limit during encoding or decoding.
var ErrDepthExceeded = errors.New("bencode: nesting depth exceeds limit")

// ErrInvalidUTF8 is returned when a byte string bound to a string target is
// not valid UTF-8. Bind to []byte instead to accept arbitrary bytes.
var ErrInvalidUTF8 = errors.New("bencode: byte string is not valid UTF-8 text")

// ErrNilValue is returned when marshalling nil or a nil pointer directly.
var ErrNilValue = errors.New("bencode: cannot marshal nil value")

// Misuse of the dictionary staging discipline: a value staged with no
// pending key, or a second key staged before the first received its value.
var (
	errValueWithoutKey = errors.New("bencode: dictionary value staged with no pending key")
	errDanglingKey     = errors.New("bencode: dictionary key staged while a key awaits its value")
)

// An InvalidCharacterError describes an unexpected byte at a structural
// position in the input.
type InvalidCharacterError byte

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("bencode: invalid character %q", byte(e))
}

// A MarshalTypeError describes a Go type that cannot be represented in
// bencode, such as a float or a channel.
type MarshalTypeError struct {
	Type reflect.Type
}

func (e *MarshalTypeError) Error() string {
	return "bencode: unsupported type: " + e.Type.String()
}

// An UnmarshalTypeError describes a bencode value that is not appropriate
// for the Go type it was asked to populate.
type UnmarshalTypeError struct {
	Value string
	Type  reflect.Type
}

func (e *UnmarshalTypeError) Error() string {
	return "bencode: cannot unmarshal " + e.Value + " into type " + e.Type.String()
}

// An UnmarshalInvalidArgError describes an invalid destination passed to
// Unmarshal, which must be a non-nil pointer.
type UnmarshalInvalidArgError struct {
	Type reflect.Type
}

func (e *UnmarshalInvalidArgError) Error() string {
	if e.Type == nil {
		return "bencode: Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Ptr {
		return "bencode: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "bencode: Unmarshal(nil " + e.Type.String() + ")"
}

// A MissingFieldError is returned when a dictionary lacks an entry for a
// struct field that was not declared optional.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "bencode: missing required field " + strconv.Quote(e.Field)
}
