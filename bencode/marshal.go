package bencode

import (
	"reflect"
	"time"
)

var (
	durationType  = reflect.TypeOf(time.Duration(0))
	marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()
)

// marshalReflect encodes values the concrete type switch does not cover:
// structs, maps, typed slices and arrays, and pointers to any of them.
func (e *encoder) marshalReflect(data interface{}) error {
	return e.marshalValue(reflect.ValueOf(data))
}

func (e *encoder) marshalValue(rv reflect.Value) error {
	if !rv.IsValid() {
		return ErrNilValue
	}
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return ErrNilValue
	}
	if rv.Type().Implements(marshalerType) {
		bencoded, err := rv.Interface().(Marshaler).MarshalBencode()
		if err != nil {
			return err
		}
		e.buf.Write(bencoded)
		return nil
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(marshalerType) {
		bencoded, err := rv.Addr().Interface().(Marshaler).MarshalBencode()
		if err != nil {
			return err
		}
		e.buf.Write(bencoded)
		return nil
	}
	if rv.Type() == durationType { // Assume seconds
		e.writeInt(rv.Int() / int64(time.Second))
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return e.marshalValue(rv.Elem())

	case reflect.Bool:
		if rv.Bool() {
			e.writeInt(1)
		} else {
			e.writeInt(0)
		}
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.writeInt(rv.Int())
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.writeUint(rv.Uint())
		return nil

	case reflect.String:
		e.writeByteString([]byte(rv.String()))
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			e.writeByteString(rv.Bytes())
			return nil
		}
		return e.marshalSequence(rv)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			raw := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(raw), rv)
			e.writeByteString(raw)
			return nil
		}
		return e.marshalSequence(rv)

	case reflect.Map:
		return e.marshalMapValue(rv)

	case reflect.Struct:
		return e.marshalStruct(rv)
	}

	// Floats, complex numbers, channels and functions have no bencode
	// representation and are never approximated.
	return &MarshalTypeError{Type: rv.Type()}
}

func (e *encoder) marshalSequence(rv reflect.Value) error {
	e.depth++
	if e.depth > maxDepth {
		return ErrDepthExceeded
	}
	e.buf.WriteByte('l')
	for i := 0; i < rv.Len(); i++ {
		if err := e.marshalValue(rv.Index(i)); err != nil {
			return err
		}
	}
	e.buf.WriteByte('e')
	e.depth--
	return nil
}

func (e *encoder) marshalMapValue(rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return &MarshalTypeError{Type: rv.Type()}
	}
	stager, err := e.stager()
	if err != nil {
		return err
	}
	iter := rv.MapRange()
	for iter.Next() {
		if err := stager.stageKey([]byte(iter.Key().String())); err != nil {
			return err
		}
		if err := stager.stageReflect(e, iter.Value()); err != nil {
			return err
		}
	}
	return stager.flush(e)
}

func (e *encoder) marshalStruct(rv reflect.Value) error {
	stager, err := e.stager()
	if err != nil {
		return err
	}
	for _, field := range structFields(rv.Type()) {
		fv := rv.Field(field.index)
		if field.optional && fv.IsZero() {
			continue // absent optional fields leave no dictionary entry
		}
		if err := stager.stageKey([]byte(field.name)); err != nil {
			return err
		}
		if err := stager.stageReflect(e, fv); err != nil {
			return err
		}
	}
	return stager.flush(e)
}

// stageReflect is stageValue for values already held as reflect.Values.
func (s *dictStager) stageReflect(parent *encoder, rv reflect.Value) error {
	if !s.pending {
		return errValueWithoutKey
	}
	sub := &encoder{depth: parent.depth}
	if err := sub.marshalValue(rv); err != nil {
		return err
	}
	s.entries = append(s.entries, dictEntry{key: s.key, value: sub.buf.Bytes()})
	s.key = nil
	s.pending = false
	return nil
}
