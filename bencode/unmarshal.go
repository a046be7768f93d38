package bencode

import (
	"reflect"
	"time"
	"unicode/utf8"
)

var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()

// Unmarshal parses one bencoded value from data and stores the result in
// the value pointed to by v, which must be a non-nil pointer.
//
// Integers populate bool (nonzero is true) and any int or uint type that
// can hold the value. Byte strings populate string fields only when they
// are valid UTF-8; bind []byte to accept arbitrary bytes, in which case the
// stored slice aliases data and must not outlive it. Lists populate slices
// and arrays, dictionaries populate maps with string keys and structs via
// their bencode tags. Dictionary keys with no matching struct field are
// skipped. Float and complex targets are rejected: the format has no
// representation for them.
func Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &UnmarshalInvalidArgError{Type: reflect.TypeOf(v)}
	}
	d := &decoder{data: data}
	return d.unmarshalValue(rv.Elem())
}

func (d *decoder) unmarshalValue(rv reflect.Value) error {
	if rv.CanAddr() && rv.Addr().Type().Implements(unmarshalerType) {
		raw, err := d.rawValue()
		if err != nil {
			return err
		}
		return rv.Addr().Interface().(Unmarshaler).UnmarshalBencode(raw)
	}

	if rv.Type() == durationType { // Assume seconds, mirroring Marshal
		n, err := d.readInteger()
		if err != nil {
			return err
		}
		rv.SetInt(n * int64(time.Second))
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.unmarshalValue(rv.Elem())

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return d.unsupported(rv)
		}
		v, err := d.decodeValue()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))
		return nil

	case reflect.Bool:
		n, err := d.readInteger()
		if err != nil {
			return err
		}
		rv.SetBool(n != 0)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := d.readInteger()
		if err != nil {
			return err
		}
		if rv.OverflowInt(n) {
			return &UnmarshalTypeError{Value: "integer", Type: rv.Type()}
		}
		rv.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := d.readInteger()
		if err != nil {
			return err
		}
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return &UnmarshalTypeError{Value: "integer", Type: rv.Type()}
		}
		rv.SetUint(uint64(n))
		return nil

	case reflect.String:
		raw, err := d.readByteString()
		if err != nil {
			return err
		}
		if !utf8.Valid(raw) {
			return ErrInvalidUTF8
		}
		rv.SetString(string(raw))
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			raw, err := d.readByteString()
			if err != nil {
				return err
			}
			// Borrowed view: the slice shares the input buffer.
			rv.SetBytes(raw)
			return nil
		}
		return d.unmarshalSlice(rv)

	case reflect.Array:
		return d.unmarshalArray(rv)

	case reflect.Map:
		return d.unmarshalMap(rv)

	case reflect.Struct:
		return d.unmarshalStruct(rv)
	}

	return d.unsupported(rv)
}

// unsupported reports a target the format cannot populate, naming the shape
// of the pending input value when one is readable.
func (d *decoder) unsupported(rv reflect.Value) error {
	value := "value"
	if k, err := d.peekKind(); err == nil {
		value = k.String()
	}
	return &UnmarshalTypeError{Value: value, Type: rv.Type()}
}

func (d *decoder) unmarshalSlice(rv reflect.Value) error {
	it, err := d.list()
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(rv.Type(), 0, 0)
	for {
		more, err := it.more()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		elem := reflect.New(rv.Type().Elem()).Elem()
		if err := d.unmarshalValue(elem); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	if err := it.close(); err != nil {
		return err
	}
	rv.Set(out)
	return nil
}

func (d *decoder) unmarshalArray(rv reflect.Value) error {
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		raw, err := d.readByteString()
		if err != nil {
			return err
		}
		if len(raw) != rv.Len() {
			return &UnmarshalTypeError{Value: "byte string", Type: rv.Type()}
		}
		reflect.Copy(rv, reflect.ValueOf(raw))
		return nil
	}

	it, err := d.list()
	if err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		more, err := it.more()
		if err != nil {
			return err
		}
		if !more {
			return &UnmarshalTypeError{Value: "list", Type: rv.Type()}
		}
		if err := d.unmarshalValue(rv.Index(i)); err != nil {
			return err
		}
	}
	more, err := it.more()
	if err != nil {
		return err
	}
	if more {
		return &UnmarshalTypeError{Value: "list", Type: rv.Type()}
	}
	return it.close()
}

func (d *decoder) unmarshalMap(rv reflect.Value) error {
	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return d.unsupported(rv)
	}
	it, err := d.dict()
	if err != nil {
		return err
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(t))
	}
	for {
		raw, ok, err := it.nextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !utf8.Valid(raw) {
			return ErrInvalidUTF8
		}
		key := reflect.New(t.Key()).Elem()
		key.SetString(string(raw))
		elem := reflect.New(t.Elem()).Elem()
		if err := d.unmarshalValue(elem); err != nil {
			return err
		}
		rv.SetMapIndex(key, elem)
	}
	return it.close()
}

func (d *decoder) unmarshalStruct(rv reflect.Value) error {
	fields := structFields(rv.Type())
	byName := make(map[string]structField, len(fields))
	for _, field := range fields {
		byName[field.name] = field
	}

	it, err := d.dict()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(fields))
	for {
		raw, ok, err := it.nextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		field, known := byName[string(raw)]
		if !known {
			// Unknown keys are skipped, not errors.
			if err := d.skipValue(); err != nil {
				return err
			}
			continue
		}
		if err := d.unmarshalValue(rv.Field(field.index)); err != nil {
			return err
		}
		seen[field.name] = true
	}
	if err := it.close(); err != nil {
		return err
	}

	for _, field := range fields {
		if !field.optional && !seen[field.name] {
			return &MissingFieldError{Field: field.name}
		}
	}
	return nil
}
