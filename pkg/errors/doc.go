// Package errors defines the two error types returned by go-httpreq.
//
// ParseErr classifies failures that happen while turning bytes into protocol
// structures: status lines, headers, URIs, integers and UTF-8 text. Error is
// the library-wide type returned by every public operation; it wraps a
// ParseErr or records an I/O, timeout or TLS failure.
//
// Both messages are short fixed phrases suitable for end users. The original
// low-level cause is reachable through errors.Unwrap for every variant except
// TLS, whose backend-specific detail is dropped on purpose so that the public
// error surface does not depend on the TLS implementation in use.
//
// Lower-layer failures are converted with the From* functions, or with Wrap
// when the concrete type is not known at the call site:
//
//	n, err := strconv.ParseUint(s, 10, 16)
//	if err != nil {
//		return errors.Wrap(err) // Error: ParseErr: cannot parse number
//	}
package errors
