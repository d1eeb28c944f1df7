// Package request builds HTTP/1.1 requests and sends them over a single
// connection. Every failure is an *errors.Error.
package request

import (
	"encoding/base64"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WhileEndless/go-httpreq/pkg/cookies"
	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/headers"
	"github.com/WhileEndless/go-httpreq/pkg/stream"
	"github.com/WhileEndless/go-httpreq/pkg/uri"
)

// Request is an outgoing request. Builder methods return the receiver so
// calls can be chained; a Request must not be modified while Send runs.
type Request struct {
	Method  string
	URI     *uri.URI
	Headers *headers.Headers

	cookies   []cookies.Cookie
	body      []byte
	chunked   bool
	timeout   time.Duration
	bodyLimit int64
	raw       bool
	opts      stream.Options
	log       *zap.Logger
}

// New creates a request. An invalid method fails with ErrInvalid, an invalid
// URL with the parse error of pkg/uri.
func New(method, rawURL string) (*Request, error) {
	if !validMethod(method) {
		return nil, errors.FromParse(errors.ErrInvalid)
	}
	u, err := uri.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err)
	}
	return &Request{
		Method:  method,
		URI:     u,
		Headers: headers.New(),
		log:     zap.NewNop(),
	}, nil
}

// Get creates a GET request.
func Get(rawURL string) (*Request, error) {
	return New("GET", rawURL)
}

// Head creates a HEAD request.
func Head(rawURL string) (*Request, error) {
	return New("HEAD", rawURL)
}

// Header appends a header field.
func (r *Request) Header(name, value string) *Request {
	r.Headers.Add(name, value)
	return r
}

// Cookie adds a cookie to the Cookie header.
func (r *Request) Cookie(name, value string) *Request {
	r.cookies = append(r.cookies, cookies.Cookie{Name: name, Value: value})
	return r
}

// Body sets the request body, sent with Content-Length.
func (r *Request) Body(body []byte) *Request {
	r.body = body
	return r
}

// Chunked sends the body with chunked transfer coding.
func (r *Request) Chunked(on bool) *Request {
	r.chunked = on
	return r
}

// Timeout bounds the whole exchange, connection included. Zero means no
// limit beyond the per-operation timeouts of the connection.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// BodyLimit sets the largest accepted response body.
func (r *Request) BodyLimit(n int64) *Request {
	r.bodyLimit = n
	return r
}

// Raw disables content decoding: no Accept-Encoding is sent and the body
// is returned as received.
func (r *Request) Raw(on bool) *Request {
	r.raw = on
	return r
}

// Options sets the connection options.
func (r *Request) Options(opts stream.Options) *Request {
	r.opts = opts
	return r
}

// Logger sets the logger. A nil logger disables logging.
func (r *Request) Logger(l *zap.Logger) *Request {
	if l == nil {
		l = zap.NewNop()
	}
	r.log = l
	return r
}

// basicAuth returns the Authorization value for the URL user info, or "".
func (r *Request) basicAuth() string {
	if r.URI.UserInfo == "" {
		return ""
	}
	cred := r.URI.UserInfo
	if s, err := url.PathUnescape(cred); err == nil {
		cred = s
	}
	if !strings.Contains(cred, ":") {
		cred += ":"
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(cred))
}

func validMethod(m string) bool {
	if m == "" {
		return false
	}
	for i := 0; i < len(m); i++ {
		c := m[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}
	return true
}
