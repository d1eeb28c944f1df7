// Package cookies parses and builds Cookie and Set-Cookie header values.
package cookies

import (
	"strconv"
	"strings"
	"time"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

// Cookie is a name/value pair of a Cookie request header.
type Cookie struct {
	Name  string
	Value string
}

// ParseCookies parses a Cookie header value: "name1=value1; name2=value2".
// A pair without '=' or with an invalid name fails with ErrHeaders.
func ParseCookies(cookieHeader string) ([]Cookie, error) {
	var cookies []Cookie
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, err := splitPair(part)
		if err != nil {
			return nil, err
		}
		cookies = append(cookies, Cookie{Name: name, Value: value})
	}
	return cookies, nil
}

// Header builds a Cookie header value. Cookies without a name are skipped.
func Header(cookies []Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// SetCookie is a parsed Set-Cookie header.
type SetCookie struct {
	Name      string
	Value     string
	Path      string
	Domain    string
	Expires   time.Time // zero when absent
	MaxAge    int       // seconds, only meaningful when HasMaxAge
	HasMaxAge bool
	Secure    bool
	HttpOnly  bool
	SameSite  string // "Strict", "Lax", "None" or ""
	Raw       string
}

// expiresLayouts are the date forms accepted for Expires.
var expiresLayouts = []string{
	time.RFC1123,
	"Mon, 02-Jan-2006 15:04:05 MST",
	time.RFC850,
	time.ANSIC,
}

// ParseSetCookie parses a Set-Cookie header value. Unknown attributes are
// ignored. Failures are *errors.Error: ErrEmpty for a blank value,
// ErrHeaders for a missing name, ParseInt for a bad Max-Age, ErrInvalid for
// a bad Expires or SameSite.
func ParseSetCookie(setCookie string) (*SetCookie, error) {
	if strings.TrimSpace(setCookie) == "" {
		return nil, errors.FromParse(errors.ErrEmpty)
	}

	parts := strings.Split(setCookie, ";")
	name, value, err := splitPair(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	c := &SetCookie{Name: name, Value: value, Raw: setCookie}

	for _, attr := range parts[1:] {
		attr = strings.TrimSpace(attr)
		if attr == "" {
			continue
		}
		key, val, _ := strings.Cut(attr, "=")
		key, val = strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(val)

		switch key {
		case "path":
			c.Path = val
		case "domain":
			c.Domain = strings.TrimPrefix(strings.ToLower(val), ".")
		case "expires":
			t, err := parseExpires(val)
			if err != nil {
				return nil, err
			}
			c.Expires = t
		case "max-age":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, errors.Wrap(err)
			}
			c.MaxAge, c.HasMaxAge = n, true
		case "samesite":
			switch strings.ToLower(val) {
			case "strict":
				c.SameSite = "Strict"
			case "lax":
				c.SameSite = "Lax"
			case "none":
				c.SameSite = "None"
			default:
				return nil, errors.FromParse(errors.ErrInvalid)
			}
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		}
	}
	return c, nil
}

// Expired reports whether the cookie is already expired at now.
func (c *SetCookie) Expired(now time.Time) bool {
	if c.HasMaxAge {
		return c.MaxAge <= 0
	}
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// String builds the Set-Cookie header value.
func (c *SetCookie) String() string {
	parts := []string{c.Name + "=" + c.Value}
	if c.Path != "" {
		parts = append(parts, "Path="+c.Path)
	}
	if c.Domain != "" {
		parts = append(parts, "Domain="+c.Domain)
	}
	if !c.Expires.IsZero() {
		parts = append(parts, "Expires="+c.Expires.UTC().Format(time.RFC1123))
	}
	if c.HasMaxAge {
		parts = append(parts, "Max-Age="+strconv.Itoa(c.MaxAge))
	}
	if c.Secure {
		parts = append(parts, "Secure")
	}
	if c.HttpOnly {
		parts = append(parts, "HttpOnly")
	}
	if c.SameSite != "" {
		parts = append(parts, "SameSite="+c.SameSite)
	}
	return strings.Join(parts, "; ")
}

func parseExpires(v string) (time.Time, error) {
	for _, layout := range expiresLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.FromParse(errors.ErrInvalid)
}

// splitPair splits "name=value", removing quotes around the value.
func splitPair(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || !validName(name) {
		return "", "", errors.FromParse(errors.ErrHeaders)
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return name, value, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(`()<>@,;:\"/[]?={}`, c) >= 0 {
			return false
		}
	}
	return true
}
