package headers

import (
	"strings"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/text"
)

// Parse parses a header block. Parsing stops at the first empty line or at
// the end of data; both CRLF and bare LF line endings are accepted.
//
// Malformed fields (no colon, empty or invalid name, control bytes, obsolete
// line folding) fail with errors.ErrHeaders; bytes that are not UTF-8 fail
// with a ParseUtf8 error.
func Parse(data []byte) (*Headers, error) {
	h := New()

	i := 0
	for i < len(data) {
		lineEnd := i
		for lineEnd < len(data) && data[lineEnd] != '\n' {
			lineEnd++
		}
		next := lineEnd + 1

		line := data[i:lineEnd]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		if len(line) == 0 {
			break
		}

		name, value, err := parseField(line)
		if err != nil {
			return nil, err
		}
		h.fields = append(h.fields, Header{Name: name, Value: value})
		i = next
	}

	return h, nil
}

// ParseLine parses a single "Name: value" field without line ending. An
// empty line fails with ErrEmpty.
func ParseLine(line string) (Header, error) {
	if len(line) == 0 {
		return Header{}, errors.FromParse(errors.ErrEmpty)
	}
	name, value, err := parseField([]byte(line))
	if err != nil {
		return Header{}, err
	}
	return Header{Name: name, Value: value}, nil
}

func parseField(line []byte) (string, string, error) {
	if line[0] == ' ' || line[0] == '\t' {
		return "", "", errors.FromParse(errors.ErrHeaders)
	}
	if err := text.Validate(line); err != nil {
		return "", "", errors.FromUtf8(err)
	}

	s := string(line)
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return "", "", errors.FromParse(errors.ErrHeaders)
	}
	name := s[:colon]
	if !validName(name) {
		return "", "", errors.FromParse(errors.ErrHeaders)
	}
	value := strings.Trim(s[colon+1:], " \t")
	for i := 0; i < len(value); i++ {
		if c := value[i]; (c < 0x20 && c != '\t') || c == 0x7f {
			return "", "", errors.FromParse(errors.ErrHeaders)
		}
	}
	return name, value, nil
}

// validName reports whether name is an RFC 9110 token.
func validName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}
	return true
}
