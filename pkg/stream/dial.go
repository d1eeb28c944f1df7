package stream

import (
	"context"
	"net"
	"time"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/uri"
)

// Dial connects to the host of u, performing the TLS handshake for https.
// Failures are *errors.Error: IO or Timeout for the TCP step, TLS for the
// handshake.
func Dial(ctx context.Context, u *uri.URI, opts Options) (*Conn, error) {
	opts.SetDefaults()
	addr := u.Addr()

	// TCP connection
	tcpStart := time.Now()
	dialer := &net.Dialer{
		Timeout: opts.ConnTimeout,
	}

	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, wrapErr(ErrDial, addr, err)
	}

	c := &Conn{
		conn:         raw,
		addr:         addr,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		Connect:      time.Since(tcpStart),
	}

	if !u.IsTLS() {
		return c, nil
	}

	tlsStart := time.Now()
	hsCtx, cancel := context.WithTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	tlsConn, err := opts.Handshaker.Handshake(hsCtx, raw, u.Host)
	if err != nil {
		raw.Close()
		return nil, handshakeErr(addr, err)
	}

	c.conn = tlsConn
	c.TLSHandshake = time.Since(tlsStart)
	return c, nil
}

// handshakeErr reports a handshake failure as TLS, except when the handshake
// was cut short by a deadline and the backend saw no TLS-level failure.
func handshakeErr(addr string, err error) error {
	if errors.IsTimeout(err) && !errors.IsTLSFailure(err) {
		return wrapErr(ErrDeadline, addr, err)
	}
	return errors.Wrap(ErrHandshake.Wrap(err, "%s", addr).WithProperty(EKAddress, addr))
}
