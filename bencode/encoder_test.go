package bencode

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marshalTests = []struct {
	input    interface{}
	expected string
}{
	{int(42), "i42e"},
	{int(-42), "i-42e"},
	{uint(43), "i43e"},
	{int64(44), "i44e"},
	{uint64(45), "i45e"},
	{int16(44), "i44e"},
	{uint16(45), "i45e"},
	{true, "i1e"},
	{false, "i0e"},

	{"example", "7:example"},
	{"", "0:"},
	{[]byte("example"), "7:example"},
	{[]byte{0, 1, 2}, "3:\x00\x01\x02"},
	{30 * time.Minute, "i1800e"},

	{[]string{"one", "two"}, "l3:one3:twoe"},
	{[]interface{}{"one", "two"}, "l3:one3:twoe"},
	{[]string{}, "le"},
	{List{List{int64(1)}}, "lli1eee"},

	{Dict{"one": "aa", "two": "bb"}, "d3:one2:aa3:two2:bbe"},
	{Dict{}, "de"},
	{map[string]interface{}{"two": "bb", "one": "aa"}, "d3:one2:aa3:two2:bbe"},
}

func TestMarshal(t *testing.T) {
	for _, tt := range marshalTests {
		got, err := Marshal(tt.input)
		require.NoError(t, err, "marshal of %#v should not fail", tt.input)
		assert.Equal(t, tt.expected, string(got), "marshal of %#v should match", tt.input)
	}
}

// Dictionary output never depends on map iteration order; the stager sorts
// on close.
func TestMarshalDictKeyOrder(t *testing.T) {
	d := Dict{"zz": int64(1), "a": int64(2), "mm": int64(3)}
	for i := 0; i < 16; i++ {
		got, err := Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, "d1:ai2e2:mmi3e2:zzi1ee", string(got))
	}
}

var marshalErrorTests = []struct {
	input interface{}
}{
	{float32(1.5)},
	{float64(1.5)},
	{complex(1, 2)},
	{make(chan int)},
	{Dict{"f": 1.5}},
	{List{float64(0)}},
	{map[int]string{1: "x"}},
}

func TestMarshalUnsupported(t *testing.T) {
	for _, tt := range marshalErrorTests {
		_, err := Marshal(tt.input)
		require.Error(t, err, "marshal of %#v should fail", tt.input)
		assert.IsType(t, &MarshalTypeError{}, err, "marshal of %#v should report the unsupported type", tt.input)
	}
}

func TestMarshalNil(t *testing.T) {
	_, err := Marshal(nil)
	assert.Equal(t, ErrNilValue, err)

	var p *int
	_, err = Marshal(p)
	assert.Equal(t, ErrNilValue, err)
}

func TestMarshalDepthLimit(t *testing.T) {
	nested := List{}
	for i := 0; i < maxDepth+1; i++ {
		nested = List{nested}
	}
	_, err := Marshal(nested)
	assert.Equal(t, ErrDepthExceeded, err)
}

type marshalerStub struct{}

func (marshalerStub) MarshalBencode() ([]byte, error) {
	return []byte("4:stub"), nil
}

func TestMarshalMarshaler(t *testing.T) {
	got, err := Marshal(marshalerStub{})
	require.NoError(t, err)
	assert.Equal(t, "4:stub", string(got))

	got, err = Marshal(Dict{"v": marshalerStub{}})
	require.NoError(t, err)
	assert.Equal(t, "d1:v4:stube", string(got))
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.Encode("test"))
	require.NoError(t, enc.Encode(123))
	assert.Equal(t, "4:testi123e", buf.String())
}

// White-box: the staging discipline rejects a value with no pending key and
// two keys in a row rather than tolerating either.
func TestDictStagerPairing(t *testing.T) {
	e := &encoder{}
	stager, err := e.stager()
	require.NoError(t, err)

	assert.Equal(t, errValueWithoutKey, stager.stageValue(e, "orphan"))

	require.NoError(t, stager.stageKey([]byte("a")))
	assert.Equal(t, errDanglingKey, stager.stageKey([]byte("b")))
	assert.Equal(t, errDanglingKey, stager.flush(e))

	require.NoError(t, stager.stageValue(e, int64(1)))
	require.NoError(t, stager.flush(e))
	assert.Equal(t, "d1:ai1ee", e.buf.String())
}

// Duplicate keys pass through the stager untouched; uniqueness belongs to
// the typed caller.
func TestDictStagerDuplicates(t *testing.T) {
	e := &encoder{}
	stager, err := e.stager()
	require.NoError(t, err)

	require.NoError(t, stager.stageKey([]byte("k")))
	require.NoError(t, stager.stageValue(e, int64(1)))
	require.NoError(t, stager.stageKey([]byte("k")))
	require.NoError(t, stager.stageValue(e, int64(2)))
	require.NoError(t, stager.flush(e))
	assert.Equal(t, "d1:ki1e1:ki2ee", e.buf.String())
}

func BenchmarkMarshalScalar(b *testing.B) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	for i := 0; i < b.N; i++ {
		enc.Encode("test")
		enc.Encode(123)
	}
}

func BenchmarkMarshalLarge(b *testing.B) {
	data := map[string]interface{}{
		"k1": []string{"a", "b", "c"},
		"k2": 42,
		"k3": "val",
		"k4": uint(42),
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	for i := 0; i < b.N; i++ {
		enc.Encode(data)
	}
}
