package compression

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

// Compress encodes data with t at the default level. Deflate produces a
// zlib stream.
func Compress(data []byte, t Type) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser

	switch t {
	case None:
		return data, nil
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Deflate:
		w = zlib.NewWriter(&buf)
	case Brotli:
		w = brotli.NewWriter(&buf)
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, errors.Wrap(err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, errors.FromParse(errors.ErrInvalid)
	}

	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err)
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err)
	}
	return buf.Bytes(), nil
}
