// Package chunked implements the HTTP/1.1 chunked transfer coding.
package chunked

import (
	"bufio"
	stderrors "errors"
	"io"
	"strconv"
	"strings"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/headers"
)

// maxLineLength bounds chunk-size and trailer lines.
const maxLineLength = 4096

// Reader decodes a chunked body. Decoding failures are *errors.Error values:
// a malformed size is ParseInt, a missing CRLF after chunk data or an
// oversized line is ErrInvalid, a bad trailer is ErrHeaders and a truncated
// stream is KindIO wrapping io.ErrUnexpectedEOF.
type Reader struct {
	r         *bufio.Reader
	remaining uint64
	trailers  *headers.Headers
	done      bool
	err       error
}

// NewReader returns a Reader decoding r.
func NewReader(r *bufio.Reader) *Reader {
	return &Reader{r: r, trailers: headers.New()}
}

// Trailers returns the trailer fields. They are complete once Read has
// returned io.EOF.
func (cr *Reader) Trailers() *headers.Headers {
	return cr.trailers
}

func (cr *Reader) Read(p []byte) (int, error) {
	if cr.err != nil {
		return 0, cr.err
	}
	if cr.done {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	if cr.remaining == 0 {
		size, err := cr.readSize()
		if err != nil {
			return 0, cr.fail(err)
		}
		if size == 0 {
			if err := cr.readTrailers(); err != nil {
				return 0, cr.fail(err)
			}
			cr.done = true
			return 0, io.EOF
		}
		cr.remaining = size
	}

	if uint64(len(p)) > cr.remaining {
		p = p[:cr.remaining]
	}
	n, err := cr.r.Read(p)
	cr.remaining -= uint64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return n, cr.fail(err)
	}
	if cr.remaining == 0 {
		if err := cr.readCRLF(); err != nil {
			return n, cr.fail(err)
		}
	}
	return n, nil
}

func (cr *Reader) fail(err error) error {
	cr.err = errors.Wrap(err)
	return cr.err
}

func (cr *Reader) readSize() (uint64, error) {
	line, err := cr.readLine()
	if err != nil {
		return 0, err
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strconv.ParseUint(strings.TrimSpace(line), 16, 63)
}

func (cr *Reader) readTrailers() error {
	for {
		line, err := cr.readLine()
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		field, err := headers.ParseLine(line)
		if err != nil {
			return err
		}
		cr.trailers.Add(field.Name, field.Value)
	}
}

func (cr *Reader) readCRLF() error {
	b, err := cr.r.ReadByte()
	if err == nil && b == '\r' {
		b, err = cr.r.ReadByte()
	}
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if b != '\n' {
		return errors.ErrInvalid
	}
	return nil
}

// readLine returns the next line without its line ending.
func (cr *Reader) readLine() (string, error) {
	line, err := cr.r.ReadSlice('\n')
	switch {
	case stderrors.Is(err, bufio.ErrBufferFull), len(line) > maxLineLength:
		return "", errors.ErrInvalid
	case err == io.EOF:
		return "", io.ErrUnexpectedEOF
	case err != nil:
		return "", err
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}
