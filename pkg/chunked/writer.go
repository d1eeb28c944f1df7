package chunked

import (
	"bytes"
	"fmt"
	"io"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

// Writer encodes everything written to it as chunks. Close writes the final
// zero-length chunk but does not close the underlying writer.
type Writer struct {
	w      io.Writer
	closed bool
}

// NewWriter returns a Writer encoding into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (cw *Writer) Write(p []byte) (int, error) {
	if cw.closed {
		return 0, errors.FromIO(io.ErrClosedPipe)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(cw.w, "%x\r\n", len(p)); err != nil {
		return 0, errors.Wrap(err)
	}
	n, err := cw.w.Write(p)
	if err != nil {
		return n, errors.Wrap(err)
	}
	if _, err := io.WriteString(cw.w, "\r\n"); err != nil {
		return n, errors.Wrap(err)
	}
	return n, nil
}

// Close terminates the body.
func (cw *Writer) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	if _, err := io.WriteString(cw.w, "0\r\n\r\n"); err != nil {
		return errors.Wrap(err)
	}
	return nil
}

// Encode encodes data in chunks of at most chunkSize bytes (8192 when
// chunkSize <= 0).
func Encode(data []byte, chunkSize int) []byte {
	if chunkSize <= 0 {
		chunkSize = 8192
	}

	var buf bytes.Buffer
	cw := NewWriter(&buf)
	for len(data) > 0 {
		n := min(chunkSize, len(data))
		cw.Write(data[:n])
		data = data[n:]
	}
	cw.Close()
	return buf.Bytes()
}
