package bencode

import (
	"strconv"
)

// Decode parses a single bencoded value from the front of data and returns
// it together with the number of bytes consumed. Integers decode as int64,
// byte strings as string (arbitrary bytes, no UTF-8 assumption), lists as
// List and dictionaries as Dict. Dictionary keys must be unique and in
// strictly ascending byte order.
//
// Trailing bytes after the value are not an error; callers that require the
// whole buffer to be consumed must compare the returned count to len(data).
func Decode(data []byte) (interface{}, int, error) {
	d := &decoder{data: data}
	v, err := d.decodeValue()
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos, nil
}

// A kind classifies the bencode value at the cursor without consuming it.
type kind int

const (
	kindInvalid kind = iota
	kindInteger
	kindByteString
	kindList
	kindDict
)

func (k kind) String() string {
	switch k {
	case kindInteger:
		return "integer"
	case kindByteString:
		return "byte string"
	case kindList:
		return "list"
	case kindDict:
		return "dictionary"
	}
	return "invalid"
}

// A decoder is a cursor over a single input buffer. The position only moves
// forward; sub-parsers either consume one full value or fail. A decoder is
// created per call and never shared.
type decoder struct {
	data  []byte
	pos   int
	depth int
}

func (d *decoder) peek() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, ErrUnexpectedEOF
	}
	return d.data[d.pos], nil
}

func (d *decoder) next() (byte, error) {
	b, err := d.peek()
	if err != nil {
		return 0, err
	}
	d.pos++
	return b, nil
}

func (d *decoder) expect(want byte) error {
	b, err := d.next()
	if err != nil {
		return err
	}
	if b != want {
		return InvalidCharacterError(b)
	}
	return nil
}

func (d *decoder) peekKind() (kind, error) {
	b, err := d.peek()
	if err != nil {
		return kindInvalid, err
	}
	switch {
	case b == 'i':
		return kindInteger, nil
	case b == 'l':
		return kindList, nil
	case b == 'd':
		return kindDict, nil
	case b >= '0' && b <= '9':
		return kindByteString, nil
	}
	return kindInvalid, InvalidCharacterError(b)
}

// readInteger consumes one i<numeral>e value.
func (d *decoder) readInteger() (int64, error) {
	if err := d.expect('i'); err != nil {
		return 0, err
	}
	start := d.pos
	for {
		b, err := d.peek()
		if err != nil {
			return 0, err
		}
		if b == 'e' {
			break
		}
		d.pos++
	}
	numeral := d.data[start:d.pos]
	d.pos++ // terminator
	return parseNumeral(numeral)
}

// parseNumeral parses a bencode integer numeral, enforcing the canonical
// spelling: a non-empty digit run, no leading zeros beyond the literal "0",
// and no "-0".
func parseNumeral(numeral []byte) (int64, error) {
	digits := numeral
	negative := false
	if len(digits) > 0 && digits[0] == '-' {
		negative = true
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, ErrInvalidInteger
	}
	if digits[0] == '0' && (negative || len(digits) > 1) {
		return 0, ErrInvalidInteger
	}
	for _, b := range digits {
		if b < '0' || b > '9' {
			return 0, ErrInvalidInteger
		}
	}
	n, err := strconv.ParseInt(string(numeral), 10, 64)
	if err != nil {
		return 0, ErrInvalidInteger
	}
	return n, nil
}

// readByteString consumes one <length>:<bytes> value and returns the raw
// bytes as a subslice of the input buffer. The returned slice aliases the
// input; callers that retain it must not mutate the buffer.
func (d *decoder) readByteString() ([]byte, error) {
	start := d.pos
	for {
		b, err := d.peek()
		if err != nil {
			return nil, err
		}
		if b == ':' {
			break
		}
		if b < '0' || b > '9' {
			return nil, InvalidCharacterError(b)
		}
		d.pos++
	}
	if d.pos == start {
		return nil, InvalidCharacterError(':')
	}
	length, err := strconv.ParseInt(string(d.data[start:d.pos]), 10, 64)
	if err != nil {
		// The digit run overflowed int64; no buffer can satisfy it.
		return nil, ErrUnexpectedEOF
	}
	d.pos++ // separator
	if length > int64(len(d.data)-d.pos) {
		return nil, ErrUnexpectedEOF
	}
	raw := d.data[d.pos : d.pos+int(length)]
	d.pos += int(length)
	return raw, nil
}

// A listIter steps through the elements of the list the cursor is inside.
// It borrows the cursor: exactly one element must be decoded per reported
// step, and close must be called once exhausted.
type listIter struct {
	d *decoder
}

func (d *decoder) list() (*listIter, error) {
	if err := d.expect('l'); err != nil {
		return nil, err
	}
	d.depth++
	if d.depth > maxDepth {
		return nil, ErrDepthExceeded
	}
	return &listIter{d: d}, nil
}

// more reports whether another element follows.
func (it *listIter) more() (bool, error) {
	b, err := it.d.peek()
	if err != nil {
		return false, err
	}
	return b != 'e', nil
}

// close consumes the list terminator.
func (it *listIter) close() error {
	it.d.depth--
	return it.d.expect('e')
}

// A dictIter alternates between handing out the next key and letting the
// caller decode the paired value, sharing the cursor the same way listIter
// does. It does not verify key ordering; the raw Decode path is the
// canonical validator for untyped dictionaries.
type dictIter struct {
	d *decoder
}

func (d *decoder) dict() (*dictIter, error) {
	if err := d.expect('d'); err != nil {
		return nil, err
	}
	d.depth++
	if d.depth > maxDepth {
		return nil, ErrDepthExceeded
	}
	return &dictIter{d: d}, nil
}

// nextKey returns the next entry's key, or ok == false once the dictionary
// is exhausted. The caller must decode the paired value before calling
// nextKey again.
func (it *dictIter) nextKey() (key []byte, ok bool, err error) {
	b, err := it.d.peek()
	if err != nil {
		return nil, false, err
	}
	if b == 'e' {
		return nil, false, nil
	}
	if b < '0' || b > '9' {
		return nil, false, ErrInvalidDictKey
	}
	key, err = it.d.readByteString()
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// close consumes the dictionary terminator.
func (it *dictIter) close() error {
	it.d.depth--
	return it.d.expect('e')
}

func (d *decoder) decodeValue() (interface{}, error) {
	k, err := d.peekKind()
	if err != nil {
		return nil, err
	}
	switch k {
	case kindInteger:
		return d.readInteger()
	case kindByteString:
		raw, err := d.readByteString()
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	case kindList:
		return d.decodeList()
	default:
		return d.decodeDict()
	}
}

func (d *decoder) decodeList() (List, error) {
	it, err := d.list()
	if err != nil {
		return nil, err
	}
	list := NewList()
	for {
		more, err := it.more()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, it.close()
}

func (d *decoder) decodeDict() (Dict, error) {
	it, err := d.dict()
	if err != nil {
		return nil, err
	}
	dict := NewDict()
	var prev string
	for {
		raw, ok, err := it.nextKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		key := string(raw)
		if len(dict) > 0 && key <= prev {
			return nil, ErrUnsortedDictKeys
		}
		prev = key
		dict[key], err = d.decodeValue()
		if err != nil {
			return nil, err
		}
	}
	return dict, it.close()
}

// rawValue consumes the next value and returns the raw bytes spanning it.
func (d *decoder) rawValue() ([]byte, error) {
	start := d.pos
	if err := d.skipValue(); err != nil {
		return nil, err
	}
	return d.data[start:d.pos], nil
}

// skipValue advances the cursor past exactly one value, validating scalars
// along the way.
func (d *decoder) skipValue() error {
	k, err := d.peekKind()
	if err != nil {
		return err
	}
	switch k {
	case kindInteger:
		_, err = d.readInteger()
		return err
	case kindByteString:
		_, err = d.readByteString()
		return err
	case kindList:
		it, err := d.list()
		if err != nil {
			return err
		}
		for {
			more, err := it.more()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return it.close()
	default:
		it, err := d.dict()
		if err != nil {
			return err
		}
		for {
			_, ok, err := it.nextKey()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return it.close()
	}
}
