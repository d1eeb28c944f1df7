package response

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/WhileEndless/go-httpreq/pkg/compression"
)

// Standard converts the response to a net/http one. Repeated fields are
// kept, the body is served from memory.
func (r *Response) Standard() *http.Response {
	resp := &http.Response{
		Status:        strconv.Itoa(int(r.Code)) + " " + r.Reason,
		StatusCode:    int(r.Code),
		Proto:         r.Version,
		Header:        make(http.Header),
		Trailer:       make(http.Header),
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Uncompressed:  r.Encoding != compression.None,
	}
	if major, minor, ok := http.ParseHTTPVersion(r.Version); ok {
		resp.ProtoMajor, resp.ProtoMinor = major, minor
	}

	for _, f := range r.Headers.All() {
		resp.Header.Add(f.Name, f.Value)
	}
	if resp.Uncompressed {
		// The body no longer matches these.
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
	}
	if r.Trailers != nil {
		for _, f := range r.Trailers.All() {
			resp.Trailer.Add(f.Name, f.Value)
		}
	}
	return resp
}
