package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr *Utf8Error
	}{
		{name: "ascii", input: []byte("hello"), want: "hello"},
		{name: "multibyte", input: []byte("héllo ✓"), want: "héllo ✓"},
		{name: "empty", input: []byte{}, want: ""},
		{name: "invalid lead byte", input: []byte{'a', 'b', 0xff, 'c'}, wantErr: &Utf8Error{ValidUpTo: 2, ErrorLen: 1}},
		{name: "bad continuation", input: []byte{'x', 0xe2, 0x41}, wantErr: &Utf8Error{ValidUpTo: 1, ErrorLen: 1}},
		{name: "truncated", input: []byte{'o', 'k', 0xe2, 0x82}, wantErr: &Utf8Error{ValidUpTo: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUtf8ErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid utf-8 sequence of 1 bytes from index 3",
		(&Utf8Error{ValidUpTo: 3, ErrorLen: 1}).Error())
	assert.Equal(t, "incomplete utf-8 byte sequence from index 7",
		(&Utf8Error{ValidUpTo: 7}).Error())
}

func TestDecodeCharset(t *testing.T) {
	got, err := DecodeCharset([]byte{'c', 'a', 'f', 0xe9}, "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	got, err = DecodeCharset([]byte("plain"), "")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = DecodeCharset([]byte{0xff}, "utf-8")
	assert.IsType(t, (*Utf8Error)(nil), err)

	_, err = DecodeCharset([]byte("x"), "no-such-charset")
	assert.ErrorIs(t, err, ErrUnknownCharset)
}
