// Package text decodes response bytes into Go strings.
package text

import (
	"fmt"
	"unicode/utf8"
)

// Utf8Error reports the position of the first invalid UTF-8 sequence.
type Utf8Error struct {
	// ValidUpTo is the length of the longest valid prefix.
	ValidUpTo int
	// ErrorLen is the size of the invalid sequence, or 0 when the input
	// ends in the middle of an otherwise valid sequence.
	ErrorLen int
}

func (e *Utf8Error) Error() string {
	if e.ErrorLen == 0 {
		return fmt.Sprintf("incomplete utf-8 byte sequence from index %d", e.ValidUpTo)
	}
	return fmt.Sprintf("invalid utf-8 sequence of %d bytes from index %d", e.ErrorLen, e.ValidUpTo)
}

// Validate checks that data is well-formed UTF-8.
func Validate(data []byte) *Utf8Error {
	i := 0
	for i < len(data) {
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(data[i:]) {
				return &Utf8Error{ValidUpTo: i}
			}
			return &Utf8Error{ValidUpTo: i, ErrorLen: 1}
		}
		i += size
	}
	return nil
}

// Decode converts data to a string, failing with *Utf8Error on invalid input.
func Decode(data []byte) (string, error) {
	if err := Validate(data); err != nil {
		return "", err
	}
	return string(data), nil
}
