// Package uri parses absolute http and https URIs.
package uri

import (
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/text"
)

// URI is a parsed absolute URI.
type URI struct {
	Scheme   string // lowercase, "http" or "https"
	UserInfo string // raw "user:password", without the '@'
	Host     string // ASCII host, IPv6 literals without brackets
	Port     int    // explicit port, 0 when absent
	Path     string
	Query    string // without the leading '?'
	Fragment string // without the leading '#'
}

// allowed marks the ASCII bytes permitted by RFC 3986 (unreserved,
// reserved and '%').
var allowed [128]bool

func init() {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
		"-._~" + ":/?#[]@" + "!$&'()*+,;=" + "%"
	for i := 0; i < len(chars); i++ {
		allowed[chars[i]] = true
	}
}

// Parse parses raw. Errors are *errors.Error values of KindParse:
// ErrEmpty for blank input, ErrURI for disallowed characters or a missing
// host, ParseInt for a malformed port, ErrInvalid for unsupported schemes,
// ParseUtf8 when raw is not valid UTF-8.
func Parse(raw string) (*URI, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.FromParse(errors.ErrEmpty)
	}
	if err := text.Validate([]byte(raw)); err != nil {
		return nil, errors.FromUtf8(err)
	}
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c < 0x80 && !allowed[c] {
			return nil, errors.FromParse(errors.ErrURI)
		}
	}

	sep := strings.Index(raw, "://")
	if sep <= 0 || !validScheme(raw[:sep]) {
		return nil, errors.FromParse(errors.ErrURI)
	}
	u := &URI{Scheme: strings.ToLower(raw[:sep])}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.FromParse(errors.ErrInvalid)
	}

	rest := raw[sep+3:]
	authority := rest
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		authority, rest = rest[:i], rest[i:]
	} else {
		rest = ""
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		u.Fragment = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		u.Query = rest[i+1:]
		rest = rest[:i]
	}
	u.Path = rest

	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		u.UserInfo = authority[:i]
		authority = authority[i+1:]
	}
	if err := u.setHostPort(authority); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *URI) setHostPort(authority string) error {
	host, port := authority, ""
	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return errors.FromParse(errors.ErrURI)
		}
		host = authority[1:end]
		after := authority[end+1:]
		if after != "" {
			if after[0] != ':' {
				return errors.FromParse(errors.ErrURI)
			}
			port = after[1:]
		}
		if net.ParseIP(host) == nil {
			return errors.FromParse(errors.ErrURI)
		}
	} else if i := strings.LastIndexByte(authority, ':'); i >= 0 {
		host, port = authority[:i], authority[i+1:]
	}

	if host == "" || strings.ContainsAny(host, "[]") {
		return errors.FromParse(errors.ErrURI)
	}
	if net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return errors.FromParse(errors.ErrURI)
		}
		host = ascii
	}
	u.Host = strings.ToLower(host)

	if port != "" {
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			return errors.Wrap(err)
		}
		if n == 0 {
			return errors.FromParse(errors.ErrInvalid)
		}
		u.Port = int(n)
	}
	return nil
}

func validScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// IsTLS reports whether the scheme requires a TLS connection.
func (u *URI) IsTLS() bool {
	return u.Scheme == "https"
}

// EffectivePort returns the explicit port or the scheme default.
func (u *URI) EffectivePort() int {
	if u.Port != 0 {
		return u.Port
	}
	return u.DefaultPort()
}

// DefaultPort returns the default port of the scheme.
func (u *URI) DefaultPort() int {
	if u.IsTLS() {
		return 443
	}
	return 80
}

// Addr returns host:port suitable for net.Dial.
func (u *URI) Addr() string {
	return net.JoinHostPort(u.Host, strconv.Itoa(u.EffectivePort()))
}

// HostHeader returns the Host header value; the port is omitted when it is
// the scheme default.
func (u *URI) HostHeader() string {
	host := u.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if u.Port != 0 && u.Port != u.DefaultPort() {
		return host + ":" + strconv.Itoa(u.Port)
	}
	return host
}

// RequestTarget returns the origin-form target of a request line.
func (u *URI) RequestTarget() string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.Query != "" {
		return path + "?" + u.Query
	}
	return path
}

func (u *URI) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.UserInfo != "" {
		b.WriteString(u.UserInfo)
		b.WriteByte('@')
	}
	b.WriteString(u.HostHeader())
	b.WriteString(u.RequestTarget())
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}
