package response

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/text"
)

// StatusCode is an HTTP status code.
type StatusCode int

// IsInfo reports a 1xx code.
func (c StatusCode) IsInfo() bool { return c >= 100 && c < 200 }

// IsSuccess reports a 2xx code.
func (c StatusCode) IsSuccess() bool { return c >= 200 && c < 300 }

// IsRedirect reports a 3xx code.
func (c StatusCode) IsRedirect() bool { return c >= 300 && c < 400 }

// IsClientErr reports a 4xx code.
func (c StatusCode) IsClientErr() bool { return c >= 400 && c < 500 }

// IsServerErr reports a 5xx code.
func (c StatusCode) IsServerErr() bool { return c >= 500 && c < 600 }

// Reason returns the canonical reason phrase, or "Unknown".
func (c StatusCode) Reason() string {
	if s, ok := reasons[c]; ok {
		return s
	}
	return "Unknown"
}

var reasons = map[StatusCode]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	409: "Conflict",
	413: "Content Too Large",
	429: "Too Many Requests",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

// StatusLine is the first line of a response.
type StatusLine struct {
	Version string // "HTTP/1.1"
	Code    StatusCode
	Reason  string // as sent, may be empty
}

func (s StatusLine) String() string {
	return s.Version + " " + strconv.Itoa(int(s.Code)) + " " + s.Reason
}

// ParseStatusLine parses "HTTP/x.y code reason". A trailing line ending is
// ignored. Failures are *errors.Error: ErrEmpty for an empty line, ErrStatus
// for a bad shape, version or out of range code, ParseInt for a code that is
// not a number, ParseUtf8 for bytes that are not UTF-8.
func ParseStatusLine(line string) (StatusLine, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return StatusLine{}, errors.FromParse(errors.ErrEmpty)
	}
	if err := text.Validate([]byte(line)); err != nil {
		return StatusLine{}, errors.FromUtf8(err)
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !validVersion(parts[0]) {
		return StatusLine{}, errors.FromParse(errors.ErrStatus)
	}

	code, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		// Too many digits is an out of range code, not a malformed number.
		if stderrors.Is(err, strconv.ErrRange) {
			return StatusLine{}, errors.FromParse(errors.ErrStatus)
		}
		return StatusLine{}, errors.Wrap(err)
	}
	if code < 100 || code > 999 {
		return StatusLine{}, errors.FromParse(errors.ErrStatus)
	}

	s := StatusLine{Version: parts[0], Code: StatusCode(code)}
	if len(parts) == 3 {
		s.Reason = parts[2]
	}
	return s, nil
}

func validVersion(v string) bool {
	return len(v) == 8 && strings.HasPrefix(v, "HTTP/") &&
		isDigit(v[5]) && v[6] == '.' && isDigit(v[7])
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
