package bencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Field declaration order never leaks onto the wire; entries are emitted in
// ascending key order.
func TestMarshalStructSortsKeys(t *testing.T) {
	type data struct {
		Zebra int64 `bencode:"zebra"`
		Apple int64 `bencode:"apple"`
	}

	got, err := Marshal(data{Zebra: 1, Apple: 2})
	require.NoError(t, err)
	assert.Equal(t, "d5:applei2e5:zebrai1ee", string(got))
}

func TestMarshalStruct(t *testing.T) {
	s := song{Title: "spam", Artist: "Alice", Year: 2003}
	got, err := Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "d6:artist5:Alice5:title4:spam4:yeari2003ee", string(got))
}

func TestMarshalStructOmitsEmptyOptionals(t *testing.T) {
	type record struct {
		Name    string  `bencode:"name"`
		Comment *string `bencode:"comment"`
		Tracks  int64   `bencode:"tracks,omitempty"`
	}

	got, err := Marshal(record{Name: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "d4:name2:oke", string(got))

	comment := "hi"
	got, err = Marshal(record{Name: "ok", Comment: &comment, Tracks: 9})
	require.NoError(t, err)
	assert.Equal(t, "d7:comment2:hi4:name2:ok6:tracksi9ee", string(got))
}

func TestMarshalStructTagHandling(t *testing.T) {
	type tagged struct {
		Renamed  string `bencode:"piece length"`
		Skipped  string `bencode:"-"`
		Untagged string
		hidden   string
	}

	got, err := Marshal(tagged{Renamed: "a", Skipped: "b", Untagged: "c", hidden: "d"})
	require.NoError(t, err)
	assert.Equal(t, "d12:piece length1:a8:untagged1:ce", string(got))
}

func TestMarshalTypedSlices(t *testing.T) {
	got, err := Marshal([]int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "li1ei2ei3ee", string(got))

	got, err = Marshal([][]byte{[]byte("ab"), []byte("c")})
	require.NoError(t, err)
	assert.Equal(t, "l2:ab1:ce", string(got))

	got, err = Marshal([4]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, "4:\x01\x02\x03\x04", string(got))
}

func TestMarshalTypedMap(t *testing.T) {
	got, err := Marshal(map[string]int64{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "d1:ai1e1:bi2ee", string(got))
}

func TestMarshalStructUnsupportedField(t *testing.T) {
	type bad struct {
		F float64 `bencode:"f"`
	}
	_, err := Marshal(bad{F: 1.5})
	require.Error(t, err)
	assert.IsType(t, &MarshalTypeError{}, err)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	type record struct {
		Name    string   `bencode:"name"`
		Comment *string  `bencode:"comment"`
		Tags    []string `bencode:"tags"`
		Size    int64    `bencode:"size"`
	}

	comment := "round trip"
	in := record{Name: "x", Comment: &comment, Tags: []string{"a", "b"}, Size: 7}

	buf, err := Marshal(in)
	require.NoError(t, err)

	var out record
	require.NoError(t, Unmarshal(buf, &out))
	assert.Equal(t, in, out)

	// Absent optionals stay absent through a full cycle.
	in = record{Name: "y", Tags: []string{}, Size: 0}
	buf, err = Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(buf), "comment")

	out = record{}
	require.NoError(t, Unmarshal(buf, &out))
	assert.Equal(t, in, out)
}
