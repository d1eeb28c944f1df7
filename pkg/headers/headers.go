// Package headers holds HTTP header fields in wire order.
package headers

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

// Header is a single header field.
type Header struct {
	Name  string
	Value string
}

// Headers preserves the order of header fields and handles case-insensitive
// lookups. Repeated names are kept as separate fields. Safe for concurrent use.
type Headers struct {
	mu     sync.RWMutex
	fields []Header
}

// New creates an empty collection.
func New() *Headers {
	return &Headers{fields: make([]Header, 0)}
}

// Add appends a field without touching existing ones with the same name.
func (h *Headers) Add(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fields = append(h.fields, Header{Name: name, Value: value})
}

// Set replaces every field named name with a single one, kept at the
// position of the first occurrence.
func (h *Headers) Set(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.fields[:0]
	placed := false
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
			continue
		}
		if !placed {
			kept = append(kept, Header{Name: name, Value: value})
			placed = true
		}
	}
	if !placed {
		kept = append(kept, Header{Name: name, Value: value})
	}
	h.fields = kept
}

// Get returns the first value for name, or "".
func (h *Headers) Get(name string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Values returns every value for name in wire order.
func (h *Headers) Values(name string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Has reports whether a field named name exists.
func (h *Headers) Has(name string) bool {
	return len(h.Values(name)) > 0
}

// Del removes every field named name.
func (h *Headers) Del(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// Len returns the number of fields.
func (h *Headers) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.fields)
}

// All returns a copy of the fields in order.
func (h *Headers) All() []Header {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Header, len(h.fields))
	copy(out, h.fields)
	return out
}

// Write serializes the fields as "Name: Value\r\n" lines. I/O failures are
// returned as *errors.Error.
func (h *Headers) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, f := range h.All() {
		bw.WriteString(f.Name)
		bw.WriteString(": ")
		bw.WriteString(f.Value)
		bw.WriteString("\r\n")
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err)
	}
	return nil
}

// ContentLength returns the Content-Length value. ok is false when the
// header is absent. Repeated fields must agree.
func (h *Headers) ContentLength() (n int64, ok bool, err error) {
	values := h.Values("Content-Length")
	if len(values) == 0 {
		return 0, false, nil
	}
	for i, v := range values {
		parsed, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if perr != nil {
			return 0, false, errors.Wrap(perr)
		}
		if parsed < 0 || (i > 0 && parsed != n) {
			return 0, false, errors.FromParse(errors.ErrInvalid)
		}
		n = parsed
	}
	return n, true, nil
}

// Chunked reports whether chunked is the final transfer coding.
func (h *Headers) Chunked() bool {
	values := h.Values("Transfer-Encoding")
	if len(values) == 0 {
		return false
	}
	codings := strings.Split(values[len(values)-1], ",")
	return strings.EqualFold(strings.TrimSpace(codings[len(codings)-1]), "chunked")
}

// ContentEncoding returns the trimmed Content-Encoding value.
func (h *Headers) ContentEncoding() string {
	return strings.TrimSpace(h.Get("Content-Encoding"))
}

// Charset returns the charset parameter of Content-Type, or "".
func (h *Headers) Charset() string {
	params := strings.Split(h.Get("Content-Type"), ";")
	for _, p := range params[1:] {
		k, v, found := strings.Cut(strings.TrimSpace(p), "=")
		if found && strings.EqualFold(strings.TrimSpace(k), "charset") {
			return strings.Trim(strings.TrimSpace(v), `"`)
		}
	}
	return ""
}
