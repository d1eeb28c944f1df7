package stream

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"time"
)

// Options configures connections.
type Options struct {
	ConnTimeout  time.Duration // connection establishment, TLS included (default: 30s)
	ReadTimeout  time.Duration // per read (default: 30s)
	WriteTimeout time.Duration // per write (default: 30s)

	// TLS options, used by the default handshaker
	DisableSNI         bool     // do not send Server Name Indication
	InsecureSkipVerify bool     // skip certificate verification
	CustomCACerts      [][]byte // extra trusted roots in PEM format

	// Handshaker replaces the crypto/tls backend.
	Handshaker Handshaker
}

// SetDefaults sets default values for unspecified options.
func (o *Options) SetDefaults() {
	if o.ConnTimeout == 0 {
		o.ConnTimeout = 30 * time.Second
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = 30 * time.Second
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = 30 * time.Second
	}
	if o.Handshaker == nil {
		o.Handshaker = StdTLS{Config: o.BuildTLSConfig(), DisableSNI: o.DisableSNI}
	}
}

// BuildTLSConfig builds the crypto/tls configuration. The server name is
// filled in by the handshaker.
func (o *Options) BuildTLSConfig() *tls.Config {
	config := &tls.Config{
		InsecureSkipVerify: o.InsecureSkipVerify,
		NextProtos:         []string{"http/1.1"},
	}

	if len(o.CustomCACerts) > 0 {
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		for _, cert := range o.CustomCACerts {
			pool.AppendCertsFromPEM(cert)
		}
		config.RootCAs = pool
	}
	return config
}

// Handshaker performs a client TLS handshake over conn. Whatever it returns
// on failure is reported as a TLS error.
type Handshaker interface {
	Handshake(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error)
}

// StdTLS is the crypto/tls backend.
type StdTLS struct {
	Config     *tls.Config
	DisableSNI bool
}

// Handshake implements Handshaker.
func (s StdTLS) Handshake(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error) {
	cfg := s.Config
	if cfg == nil {
		cfg = &tls.Config{}
	}
	cfg = cfg.Clone()
	switch {
	case s.DisableSNI && !cfg.InsecureSkipVerify:
		// crypto/tls only skips SNI when ServerName is empty, which also
		// disables its own verification; verify the chain ourselves.
		cfg.InsecureSkipVerify = true
		cfg.VerifyConnection = verifyHost(serverName, cfg.RootCAs)
	case cfg.ServerName == "" && !s.DisableSNI:
		cfg.ServerName = serverName
	}

	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	return tlsConn, nil
}

func verifyHost(host string, roots *x509.CertPool) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return &tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}}
		}
		opts := x509.VerifyOptions{
			DNSName:       host,
			Roots:         roots,
			Intermediates: x509.NewCertPool(),
		}
		for _, cert := range cs.PeerCertificates[1:] {
			opts.Intermediates.AddCert(cert)
		}
		if _, err := cs.PeerCertificates[0].Verify(opts); err != nil {
			return &tls.CertificateVerificationError{UnverifiedCertificates: cs.PeerCertificates, Err: err}
		}
		return nil
	}
}
