// Package compression decodes and encodes HTTP content codings.
package compression

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

// Type is a content coding.
type Type int

const (
	None Type = iota
	Gzip
	Deflate
	Brotli
	Zstd
	// Unknown is a coding this package cannot decode.
	Unknown
)

// Detect maps a Content-Encoding value to a Type. Only the last coding of a
// list is considered.
func Detect(contentEncoding string) Type {
	codings := strings.Split(contentEncoding, ",")
	switch strings.ToLower(strings.TrimSpace(codings[len(codings)-1])) {
	case "", "identity":
		return None
	case "gzip", "x-gzip":
		return Gzip
	case "deflate", "x-deflate":
		return Deflate
	case "br", "brotli":
		return Brotli
	case "zstd":
		return Zstd
	default:
		return Unknown
	}
}

// String returns the Content-Encoding token.
func (t Type) String() string {
	switch t {
	case Gzip:
		return "gzip"
	case Deflate:
		return "deflate"
	case Brotli:
		return "br"
	case Zstd:
		return "zstd"
	case None:
		return "identity"
	default:
		return "unknown"
	}
}

// Accepted is the Accept-Encoding value advertising every supported coding.
const Accepted = "gzip, deflate, br, zstd"

// NewReader returns a reader decoding r. Errors returned by the reader and
// by NewReader itself are *errors.Error values: failures of r keep their
// classification, malformed or truncated compressed data is ErrInvalid.
// Unknown fails with errors.ErrInvalid.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	src := &source{r: r}
	var (
		rc  io.ReadCloser
		err error
	)
	switch t {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		rc, err = gzip.NewReader(src)
	case Deflate:
		rc, err = newDeflateReader(src)
	case Brotli:
		rc = io.NopCloser(brotli.NewReader(src))
	case Zstd:
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(src)
		if err == nil {
			rc = dec.IOReadCloser()
		}
	default:
		return nil, errors.FromParse(errors.ErrInvalid)
	}
	if err != nil {
		return nil, src.classify(err)
	}
	return &decoder{rc: rc, src: src}, nil
}

// source remembers the first failure of the compressed stream, which tells
// transport errors apart from decoding errors.
type source struct {
	r   io.Reader
	err error
}

func (s *source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF && s.err == nil {
		s.err = err
	}
	return n, err
}

func (s *source) classify(err error) error {
	if s.err != nil {
		return errors.Wrap(s.err)
	}
	return errors.FromParse(errors.ErrInvalid)
}

// newDeflateReader accepts zlib-wrapped streams, as the RFC requires, and raw
// DEFLATE streams, as some servers send.
func newDeflateReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err == nil && head[0]&0x0f == 8 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0 {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}

type decoder struct {
	rc  io.ReadCloser
	src *source
}

func (d *decoder) Read(p []byte) (int, error) {
	n, err := d.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, d.src.classify(err)
	}
	return n, err
}

func (d *decoder) Close() error {
	if err := d.rc.Close(); err != nil {
		return d.src.classify(err)
	}
	return nil
}

// Decompress decodes data in one call.
func Decompress(data []byte, t Type) ([]byte, error) {
	if t == None {
		return data, nil
	}
	rc, err := NewReader(bytes.NewReader(data), t)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
