package errors

import (
	"strconv"

	"github.com/WhileEndless/go-httpreq/pkg/text"
)

// ParseKind enumerates the ParseErr variants.
type ParseKind int

const (
	// ParseUtf8 - bytes are not valid UTF-8. Cause: *text.Utf8Error.
	ParseUtf8 ParseKind = iota + 1
	// ParseInt - text is not an integer. Cause: *strconv.NumError.
	ParseInt
	// ParseStatus - status line has invalid values.
	ParseStatus
	// ParseHeaders - header section has invalid values.
	ParseHeaders
	// ParseURI - URI contains disallowed characters.
	ParseURI
	// ParseInvalid - value is present but semantically invalid.
	ParseInvalid
	// ParseEmpty - nothing to parse.
	ParseEmpty
)

var parseKindName = map[ParseKind]string{
	ParseUtf8:    "Utf8",
	ParseInt:     "Int",
	ParseStatus:  "StatusErr",
	ParseHeaders: "HeadersErr",
	ParseURI:     "UriErr",
	ParseInvalid: "Invalid",
	ParseEmpty:   "Empty",
}

var parseKindMessage = map[ParseKind]string{
	ParseUtf8:    "invalid character",
	ParseInt:     "cannot parse number",
	ParseStatus:  "status line contains invalid values",
	ParseHeaders: "headers contain invalid values",
	ParseURI:     "uri contains invalid characters",
	ParseInvalid: "invalid value",
	ParseEmpty:   "nothing to parse",
}

func (k ParseKind) String() string {
	if s, ok := parseKindName[k]; ok {
		return s
	}
	return "ParseKindUnknown" + strconv.Itoa(int(k))
}

// ParseErr is a parse failure. Values are immutable; compare them with Equal
// or errors.Is, not with ==.
type ParseErr struct {
	kind  ParseKind
	cause error
}

// Structural parse errors. They carry no cause, so every instance of a given
// kind is interchangeable.
var (
	ErrStatus  = &ParseErr{kind: ParseStatus}
	ErrHeaders = &ParseErr{kind: ParseHeaders}
	ErrURI     = &ParseErr{kind: ParseURI}
	ErrInvalid = &ParseErr{kind: ParseInvalid}
	ErrEmpty   = &ParseErr{kind: ParseEmpty}
)

// ParseFromUtf8 converts a UTF-8 decoding failure.
func ParseFromUtf8(e *text.Utf8Error) *ParseErr {
	if e == nil {
		return &ParseErr{kind: ParseUtf8}
	}
	return &ParseErr{kind: ParseUtf8, cause: e}
}

// ParseFromInt converts an integer parsing failure.
func ParseFromInt(e *strconv.NumError) *ParseErr {
	if e == nil {
		return &ParseErr{kind: ParseInt}
	}
	return &ParseErr{kind: ParseInt, cause: e}
}

// Kind reports the variant.
func (e *ParseErr) Kind() ParseKind {
	return e.kind
}

func (e *ParseErr) Error() string {
	msg, ok := parseKindMessage[e.kind]
	if !ok {
		msg = "unknown error"
	}
	return "ParseErr: " + msg
}

// Unwrap returns the decoding error for ParseUtf8 and ParseInt, nil otherwise.
func (e *ParseErr) Unwrap() error {
	return e.cause
}

// Equal reports whether e and o are the same variant with equal causes.
func (e *ParseErr) Equal(o *ParseErr) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.kind == o.kind && sameCause(e.cause, o.cause)
}

// Is matches a target *ParseErr of the same kind. A target without a cause
// matches any cause, so errors.Is(err, ErrEmpty) works for sentinels and
// errors.Is(err, ParseFromInt(nil)) is a kind-only check for wrapped variants.
func (e *ParseErr) Is(target error) bool {
	t, ok := target.(*ParseErr)
	if !ok {
		return false
	}
	if t.cause == nil {
		return e.kind == t.kind
	}
	return e.Equal(t)
}

func sameCause(a, b error) bool {
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *text.Utf8Error:
		y, ok := b.(*text.Utf8Error)
		return ok && x != nil && y != nil && *x == *y
	case *strconv.NumError:
		y, ok := b.(*strconv.NumError)
		return ok && x != nil && y != nil && x.Func == y.Func && x.Num == y.Num && x.Err == y.Err
	}
	return false
}
