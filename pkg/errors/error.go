package errors

import (
	stderrors "errors"
	"strconv"

	"github.com/WhileEndless/go-httpreq/pkg/text"
)

// Kind enumerates the Error variants.
type Kind int

const (
	// KindIO - an I/O operation failed. Cause: the I/O error.
	KindIO Kind = iota + 1
	// KindParse - parsing failed. Cause: *ParseErr.
	KindParse
	// KindTimeout - a blocking wait exceeded its deadline. Cause: the timeout error.
	KindTimeout
	// KindTLS - the TLS layer failed. No cause is kept.
	KindTLS
)

var kindName = map[Kind]string{
	KindIO:      "IO",
	KindParse:   "Parse",
	KindTimeout: "Timeout",
	KindTLS:     "Tls",
}

var kindMessage = map[Kind]string{
	KindIO:      "IO error",
	KindTimeout: "Timeout error",
	KindTLS:     "TLS error",
}

func (k Kind) String() string {
	if s, ok := kindName[k]; ok {
		return s
	}
	return "KindUnknown" + strconv.Itoa(int(k))
}

// Error is the error type returned by go-httpreq operations.
type Error struct {
	kind  Kind
	cause error
}

// ErrTLS is the only value a TLS failure can take. It is provided for
// errors.Is checks; FromTLS returns an equal but distinct value.
var ErrTLS = &Error{kind: KindTLS}

// FromIO converts an I/O failure.
func FromIO(err error) *Error {
	return &Error{kind: KindIO, cause: err}
}

// FromParse lifts a parse failure into the library-wide type.
func FromParse(p *ParseErr) *Error {
	if p == nil {
		return &Error{kind: KindParse}
	}
	return &Error{kind: KindParse, cause: p}
}

// FromUtf8 is FromParse(ParseFromUtf8(e)).
func FromUtf8(e *text.Utf8Error) *Error {
	return FromParse(ParseFromUtf8(e))
}

// FromInt is FromParse(ParseFromInt(e)).
func FromInt(e *strconv.NumError) *Error {
	return FromParse(ParseFromInt(e))
}

// FromTimeout converts a failed blocking wait.
func FromTimeout(err error) *Error {
	return &Error{kind: KindTimeout, cause: err}
}

// FromTLS converts a failure reported by any TLS backend, handshake errors
// included. The cause is dropped.
func FromTLS(error) *Error {
	return &Error{kind: KindTLS}
}

// Kind reports the variant.
func (e *Error) Kind() Kind {
	return e.kind
}

// Parse returns the wrapped parse error for KindParse and nil otherwise.
func (e *Error) Parse() *ParseErr {
	p, _ := e.cause.(*ParseErr)
	return p
}

func (e *Error) Error() string {
	if e.kind == KindParse {
		if p := e.Parse(); p != nil {
			return p.Error()
		}
		return "ParseErr: unknown error"
	}
	msg, ok := kindMessage[e.kind]
	if !ok {
		msg = "unknown error"
	}
	return "Error: " + msg
}

// Unwrap returns the cause for KindIO, KindParse and KindTimeout. It is
// always nil for KindTLS.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches a target *Error of the same kind. A target without a cause is a
// kind-only match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.kind != t.kind {
		return false
	}
	if t.cause == nil {
		return true
	}
	if e.kind == KindParse {
		return e.Parse().Equal(t.Parse())
	}
	return stderrors.Is(e.cause, t.cause)
}
