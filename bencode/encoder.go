package bencode

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"time"
)

// An Encoder writes bencoded objects to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the bencoding of v to the stream.
func (enc *Encoder) Encode(v interface{}) error {
	buf, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = enc.w.Write(buf)
	return err
}

// Marshal returns the bencoding of v.
//
// Scalars and lists are written in one pass. Dictionaries — whether Dict,
// map or struct — are staged entry by entry and emitted in ascending byte
// order of their keys once complete, as the wire format requires.
func Marshal(v interface{}) ([]byte, error) {
	e := &encoder{}
	if err := e.marshal(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// An encoder owns the output sink for a single Marshal call.
type encoder struct {
	buf   bytes.Buffer
	depth int
}

// marshal dispatches on concrete type for the common cases and falls back
// to reflection for structs, maps and typed slices.
func (e *encoder) marshal(data interface{}) error {
	switch v := data.(type) {
	case nil:
		return ErrNilValue

	case Marshaler:
		bencoded, err := v.MarshalBencode()
		if err != nil {
			return err
		}
		e.buf.Write(bencoded)
		return nil

	case string:
		e.writeByteString([]byte(v))

	case []byte:
		e.writeByteString(v)

	case bool:
		if v {
			e.writeInt(1)
		} else {
			e.writeInt(0)
		}

	case int:
		e.writeInt(int64(v))
	case int8:
		e.writeInt(int64(v))
	case int16:
		e.writeInt(int64(v))
	case int32:
		e.writeInt(int64(v))
	case int64:
		e.writeInt(v)

	case uint:
		e.writeUint(uint64(v))
	case uint8:
		e.writeUint(uint64(v))
	case uint16:
		e.writeUint(uint64(v))
	case uint32:
		e.writeUint(uint64(v))
	case uint64:
		e.writeUint(v)

	case time.Duration: // Assume seconds
		e.writeInt(int64(v / time.Second))

	case Dict:
		return e.marshalDict(map[string]interface{}(v))
	case map[string]interface{}:
		return e.marshalDict(v)

	case List:
		return e.marshalList([]interface{}(v))
	case []interface{}:
		return e.marshalList(v)

	case []string:
		list := make([]interface{}, len(v))
		for i, s := range v {
			list[i] = s
		}
		return e.marshalList(list)

	default:
		return e.marshalReflect(data)
	}

	return nil
}

func (e *encoder) writeInt(v int64) {
	e.buf.WriteByte('i')
	e.buf.WriteString(strconv.FormatInt(v, 10))
	e.buf.WriteByte('e')
}

func (e *encoder) writeUint(v uint64) {
	e.buf.WriteByte('i')
	e.buf.WriteString(strconv.FormatUint(v, 10))
	e.buf.WriteByte('e')
}

func (e *encoder) writeByteString(v []byte) {
	e.buf.WriteString(strconv.Itoa(len(v)))
	e.buf.WriteByte(':')
	e.buf.Write(v)
}

func (e *encoder) marshalList(v []interface{}) error {
	e.depth++
	if e.depth > maxDepth {
		return ErrDepthExceeded
	}
	e.buf.WriteByte('l')
	for _, val := range v {
		if err := e.marshal(val); err != nil {
			return err
		}
	}
	e.buf.WriteByte('e')
	e.depth--
	return nil
}

func (e *encoder) marshalDict(v map[string]interface{}) error {
	stager, err := e.stager()
	if err != nil {
		return err
	}
	for key, val := range v {
		if err := stager.stageKey([]byte(key)); err != nil {
			return err
		}
		if err := stager.stageValue(e, val); err != nil {
			return err
		}
	}
	return stager.flush(e)
}

// stager opens a dictionary staging area at the current nesting depth.
func (e *encoder) stager() (*dictStager, error) {
	e.depth++
	if e.depth > maxDepth {
		return nil, ErrDepthExceeded
	}
	return &dictStager{}, nil
}

// A dictStager buffers dictionary entries so they can be emitted in
// ascending key order once the dictionary closes. The wire format demands
// sorted keys while Go structs and maps surface entries in declaration or
// random order, so every dictionary pays one buffering pass: each value is
// encoded into its own throwaway sink and paired with its raw key bytes.
type dictStager struct {
	entries []dictEntry
	key     []byte
	pending bool
}

type dictEntry struct {
	key   []byte
	value []byte
}

// stageKey registers the key for the next entry. Staging a second key while
// one is already pending is a misuse of the pairing discipline.
func (s *dictStager) stageKey(key []byte) error {
	if s.pending {
		return errDanglingKey
	}
	s.key = key
	s.pending = true
	return nil
}

// stageValue encodes val into an isolated sink and completes the pending
// entry. A value with no pending key is a misuse of the pairing discipline.
func (s *dictStager) stageValue(parent *encoder, val interface{}) error {
	if !s.pending {
		return errValueWithoutKey
	}
	sub := &encoder{depth: parent.depth}
	if err := sub.marshal(val); err != nil {
		return err
	}
	s.entries = append(s.entries, dictEntry{key: s.key, value: sub.buf.Bytes()})
	s.key = nil
	s.pending = false
	return nil
}

// flush sorts the staged entries by byte-lexicographic key order and streams
// them into the real sink. Duplicate keys survive sorting untouched; key
// uniqueness is the caller's concern.
func (s *dictStager) flush(e *encoder) error {
	if s.pending {
		return errDanglingKey
	}
	sort.Slice(s.entries, func(i, j int) bool {
		return bytes.Compare(s.entries[i].key, s.entries[j].key) < 0
	})
	e.buf.WriteByte('d')
	for _, entry := range s.entries {
		e.writeByteString(entry.key)
		e.buf.Write(entry.value)
	}
	e.buf.WriteByte('e')
	e.depth--
	return nil
}
