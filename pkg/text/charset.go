package text

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrUnknownCharset is returned by DecodeCharset for labels that are not in
// the WHATWG encoding index.
var ErrUnknownCharset = errors.New("unknown charset")

// DecodeCharset converts data from the named charset to a UTF-8 string.
// An empty label is treated as UTF-8.
func DecodeCharset(data []byte, charset string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(charset))
	switch label {
	case "", "utf-8", "utf8":
		return Decode(data)
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", ErrUnknownCharset
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
