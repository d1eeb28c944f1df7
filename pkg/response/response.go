// Package response reads HTTP/1.x responses from a connection.
package response

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"

	"github.com/WhileEndless/go-httpreq/pkg/chunked"
	"github.com/WhileEndless/go-httpreq/pkg/compression"
	"github.com/WhileEndless/go-httpreq/pkg/cookies"
	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/headers"
	"github.com/WhileEndless/go-httpreq/pkg/text"
)

const (
	// maxHeadSize bounds the status line plus header block.
	maxHeadSize = 64 << 10
	// DefaultBodyLimit is used when BodyOptions.Limit is zero.
	DefaultBodyLimit = 4 << 20
)

// Response is a received response.
type Response struct {
	StatusLine
	Headers  *headers.Headers
	Body     []byte           // decoded when BodyOptions.Decode is set
	Encoding compression.Type // coding the body was decoded from, None if untouched
	Trailers *headers.Headers // chunked trailers, empty otherwise
	Timing   Timing
}

// BodyOptions controls ReadBody.
type BodyOptions struct {
	// Limit is the largest body accepted, after decoding. Defaults to
	// DefaultBodyLimit.
	Limit int64
	// NoBody is set for responses to HEAD requests.
	NoBody bool
	// Decode removes the Content-Encoding. Unknown codings are left as is.
	Decode bool
}

// ReadHead reads the status line and the header block. Interim 1xx
// responses other than 101 are skipped.
//
// A stream that ends before the first byte fails with ErrEmpty; a stream
// that ends inside the head fails with KindIO wrapping io.ErrUnexpectedEOF.
func ReadHead(br *bufio.Reader) (*Response, error) {
	for first := true; ; first = false {
		line, err := readLine(br, errors.ErrStatus)
		if err != nil {
			if first && stderrors.Is(err, io.EOF) {
				return nil, errors.FromParse(errors.ErrEmpty)
			}
			return nil, errors.Wrap(eofToUnexpected(err))
		}
		status, err := ParseStatusLine(line)
		if err != nil {
			return nil, err
		}

		block, err := readHeaderBlock(br, len(line))
		if err != nil {
			return nil, errors.Wrap(eofToUnexpected(err))
		}
		if status.Code.IsInfo() && status.Code != 101 {
			continue
		}

		h, err := headers.Parse(block)
		if err != nil {
			return nil, err
		}
		return &Response{StatusLine: status, Headers: h, Trailers: headers.New()}, nil
	}
}

func readHeaderBlock(br *bufio.Reader, used int) ([]byte, error) {
	var block bytes.Buffer
	for {
		line, err := readLine(br, errors.ErrHeaders)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return block.Bytes(), nil
		}
		used += len(line)
		if used > maxHeadSize {
			return nil, errors.ErrHeaders
		}
		block.WriteString(line)
		block.WriteString("\r\n")
	}
}

// readLine returns one line without its ending. tooLong is returned when
// the line does not fit in the reader's buffer.
func readLine(br *bufio.Reader, tooLong *errors.ParseErr) (string, error) {
	line, err := br.ReadSlice('\n')
	if stderrors.Is(err, bufio.ErrBufferFull) {
		return "", tooLong
	}
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	line = bytes.TrimRight(line, "\r\n")
	return string(line), nil
}

func eofToUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// HasBody reports whether a response with this status may carry a body.
func (r *Response) HasBody() bool {
	return !r.Code.IsInfo() && r.Code != 204 && r.Code != 304
}

// ReadBody reads the message body framed by Transfer-Encoding,
// Content-Length or connection close, in that order of precedence.
func (r *Response) ReadBody(br *bufio.Reader, opts BodyOptions) error {
	if opts.Limit <= 0 {
		opts.Limit = DefaultBodyLimit
	}
	if opts.NoBody || !r.HasBody() {
		return nil
	}

	var body io.Reader
	var cr *chunked.Reader
	if r.Headers.Chunked() {
		cr = chunked.NewReader(br)
		body = cr
	} else if n, ok, err := r.Headers.ContentLength(); err != nil {
		return err
	} else if ok {
		if n > opts.Limit {
			return errors.FromParse(errors.ErrInvalid)
		}
		body = &exactReader{r: br, remaining: n}
	} else {
		body = br
	}

	if opts.Decode {
		if t := compression.Detect(r.Headers.ContentEncoding()); t != compression.None && t != compression.Unknown {
			dec, err := compression.NewReader(body, t)
			if err != nil {
				return err
			}
			defer dec.Close()
			body = dec
			r.Encoding = t
		}
	}

	data, err := io.ReadAll(io.LimitReader(body, opts.Limit+1))
	if err != nil {
		return errors.Wrap(err)
	}
	if int64(len(data)) > opts.Limit {
		return errors.FromParse(errors.ErrInvalid)
	}
	r.Body = data
	if cr != nil {
		r.Trailers = cr.Trailers()
	}
	return nil
}

// exactReader fails with io.ErrUnexpectedEOF when the stream ends before
// remaining bytes were read.
type exactReader struct {
	r         io.Reader
	remaining int64
}

func (e *exactReader) Read(p []byte) (int, error) {
	if e.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > e.remaining {
		p = p[:e.remaining]
	}
	n, err := e.r.Read(p)
	e.remaining -= int64(n)
	if err == io.EOF && e.remaining > 0 {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// Parse parses a complete response held in memory. The body is decoded.
func Parse(data []byte) (*Response, error) {
	if len(data) == 0 {
		return nil, errors.FromParse(errors.ErrEmpty)
	}
	br := bufio.NewReader(bytes.NewReader(data))
	r, err := ReadHead(br)
	if err != nil {
		return nil, err
	}
	if err := r.ReadBody(br, BodyOptions{Decode: true}); err != nil {
		return nil, err
	}
	return r, nil
}

// Text decodes the body using the Content-Type charset, UTF-8 by default.
// Unknown charsets fail with ErrInvalid.
func (r *Response) Text() (string, error) {
	s, err := text.DecodeCharset(r.Body, r.Headers.Charset())
	if err == nil {
		return s, nil
	}
	if stderrors.Is(err, text.ErrUnknownCharset) {
		return "", errors.FromParse(errors.ErrInvalid)
	}
	return "", errors.Wrap(err)
}

// Location returns the Location header of a redirect, or "".
func (r *Response) Location() string {
	if !r.Code.IsRedirect() {
		return ""
	}
	return r.Headers.Get("Location")
}

// Cookies parses every Set-Cookie header, in order.
func (r *Response) Cookies() ([]*cookies.SetCookie, error) {
	values := r.Headers.Values("Set-Cookie")
	out := make([]*cookies.SetCookie, 0, len(values))
	for _, v := range values {
		c, err := cookies.ParseSetCookie(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
