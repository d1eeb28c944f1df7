package stream

import (
	"github.com/joomcode/errorx"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

var (
	// Errors is the namespace of connection failures. They are never
	// returned directly: each one becomes the cause of an *errors.Error.
	Errors = errorx.NewNamespace("stream")

	// ErrDial - TCP connection could not be established.
	ErrDial = Errors.NewType("dial")
	// ErrDialTimeout - TCP connection was not established in time.
	ErrDialTimeout = Errors.NewType("dial_timeout", errorx.Timeout())
	// ErrHandshake - TLS handshake failed, whichever backend performed it.
	ErrHandshake = Errors.NewType("handshake", errors.TraitTLS)
	// ErrRead - reading from the connection failed.
	ErrRead = Errors.NewType("read")
	// ErrWrite - writing to the connection failed.
	ErrWrite = Errors.NewType("write")
	// ErrDeadline - a read or write deadline expired.
	ErrDeadline = Errors.NewType("deadline", errorx.Timeout())

	// EKAddress - remote address the failure relates to.
	EKAddress = errorx.RegisterProperty("address")
)

// wrapErr classifies a connection failure. io.EOF and nil pass through.
func wrapErr(t *errorx.Type, addr string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	if errors.IsTLSFailure(err) {
		return errors.FromTLS(err)
	}
	if errors.IsTimeout(err) {
		switch t {
		case ErrDial:
			t = ErrDialTimeout
		case ErrRead, ErrWrite:
			t = ErrDeadline
		}
	}
	return errors.Wrap(t.Wrap(err, "%s", addr).WithProperty(EKAddress, addr))
}
