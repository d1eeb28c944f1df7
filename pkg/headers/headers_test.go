package headers

import (
	"bytes"
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

func TestHeaders_Basic(t *testing.T) {
	h := New()
	h.Add("Content-Type", "application/json")
	h.Add("Set-Cookie", "a=1")
	h.Add("set-cookie", "b=2")

	assert.Equal(t, "application/json", h.Get("content-type"))
	assert.Equal(t, "application/json", h.Get("CONTENT-TYPE"))
	assert.Equal(t, []string{"a=1", "b=2"}, h.Values("Set-Cookie"))
	assert.True(t, h.Has("SET-COOKIE"))
	assert.False(t, h.Has("Host"))
	assert.Equal(t, 3, h.Len())
}

func TestHeaders_SetKeepsPosition(t *testing.T) {
	h := New()
	h.Add("Host", "example.com")
	h.Add("Accept", "*/*")
	h.Add("User-Agent", "test")
	h.Add("accept", "text/html")

	h.Set("Accept", "application/json")

	assert.Equal(t, []Header{
		{Name: "Host", Value: "example.com"},
		{Name: "Accept", Value: "application/json"},
		{Name: "User-Agent", Value: "test"},
	}, h.All())

	h.Set("Connection", "close")
	assert.Equal(t, "Connection", h.All()[3].Name)

	h.Del("host")
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "", h.Get("Host"))
}

func TestHeaders_Write(t *testing.T) {
	h := New()
	h.Add("Host", "example.com")
	h.Add("Accept", "*/*")

	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))
	assert.Equal(t, "Host: example.com\r\nAccept: */*\r\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, stderrors.New("broken pipe") }

func TestHeaders_WriteError(t *testing.T) {
	h := New()
	h.Add("Host", "example.com")

	err := h.Write(failingWriter{})
	require.Error(t, err)
	assert.Equal(t, "Error: IO error", err.Error())
	assert.Equal(t, errors.KindIO, errors.KindOf(err))
}

func TestParse(t *testing.T) {
	data := []byte("Host: example.com\r\nX-Empty:\r\nAccept:  text/html \r\nset-cookie: a=1\nSet-Cookie: b=2\r\n\r\nbody: ignored\r\n")

	h, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []Header{
		{Name: "Host", Value: "example.com"},
		{Name: "X-Empty", Value: ""},
		{Name: "Accept", Value: "text/html"},
		{Name: "set-cookie", Value: "a=1"},
		{Name: "Set-Cookie", Value: "b=2"},
	}, h.All())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind errors.ParseKind
	}{
		{"no colon", "Host example.com\r\n", errors.ParseHeaders},
		{"empty name", ": value\r\n", errors.ParseHeaders},
		{"space in name", "Bad Name: value\r\n", errors.ParseHeaders},
		{"space before colon", "Host : example.com\r\n", errors.ParseHeaders},
		{"folded line", "Host: a\r\n continued\r\n", errors.ParseHeaders},
		{"control byte", "X-A: a\x01b\r\n", errors.ParseHeaders},
		{"not utf-8", "X-A: caf\xe9\r\n", errors.ParseUtf8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.ParseKindOf(err))
			assert.Equal(t, errors.KindParse, errors.KindOf(err))
		})
	}
}

func TestParseLine(t *testing.T) {
	f, err := ParseLine("X-Trace:  abc")
	require.NoError(t, err)
	assert.Equal(t, Header{Name: "X-Trace", Value: "abc"}, f)

	tests := []struct {
		line string
		kind errors.ParseKind
	}{
		{"", errors.ParseEmpty},
		{"nonsense", errors.ParseHeaders},
		{" X-Folded: v", errors.ParseHeaders},
		{": no name", errors.ParseHeaders},
	}
	for _, tt := range tests {
		assert.NotPanics(t, func() {
			_, err = ParseLine(tt.line)
		})
		require.Error(t, err, "%q", tt.line)
		assert.Equal(t, errors.KindParse, errors.KindOf(err), "%q", tt.line)
		assert.Equal(t, tt.kind, errors.ParseKindOf(err), "%q", tt.line)
	}
}

func TestContentLength(t *testing.T) {
	h := New()
	_, ok, err := h.ContentLength()
	require.NoError(t, err)
	assert.False(t, ok)

	h.Set("Content-Length", " 42 ")
	n, ok, err := h.ContentLength()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	h.Add("Content-Length", "42")
	_, _, err = h.ContentLength()
	assert.NoError(t, err)

	h.Add("Content-Length", "43")
	_, _, err = h.ContentLength()
	assert.ErrorIs(t, err, errors.ErrInvalid)

	h.Set("Content-Length", "-1")
	_, _, err = h.ContentLength()
	assert.ErrorIs(t, err, errors.ErrInvalid)

	h.Set("Content-Length", "ten")
	_, _, err = h.ContentLength()
	var numErr *strconv.NumError
	assert.True(t, stderrors.As(err, &numErr))
	assert.Equal(t, errors.ParseInt, errors.ParseKindOf(err))
}

func TestTransferAndContentHelpers(t *testing.T) {
	h := New()
	assert.False(t, h.Chunked())

	h.Set("Transfer-Encoding", "gzip, Chunked")
	assert.True(t, h.Chunked())
	h.Set("Transfer-Encoding", "chunked, gzip")
	assert.False(t, h.Chunked())

	h.Set("Content-Encoding", " br ")
	assert.Equal(t, "br", h.ContentEncoding())

	h.Set("Content-Type", `text/html; charset="ISO-8859-1"`)
	assert.Equal(t, "ISO-8859-1", h.Charset())
	h.Set("Content-Type", "application/json")
	assert.Equal(t, "", h.Charset())
}
