package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	stderrors "errors"
	"os"
	"strconv"

	"github.com/joomcode/errorx"

	"github.com/WhileEndless/go-httpreq/pkg/text"
)

// TraitTLS marks errorx types whose errors come from a TLS backend. Wrap
// classifies any error carrying it as KindTLS, which lets transports plug in
// backends without this package knowing their error types.
var TraitTLS = errorx.RegisterTrait("tls")

// Wrap converts err into an *Error, picking the variant from the concrete
// types found in its chain. It returns nil for a nil err.
//
// Order of precedence: an existing *Error is returned as is; parse failures
// (*ParseErr, *text.Utf8Error, *strconv.NumError) become KindParse; TLS
// failures become KindTLS; timeouts (Timeout() bool, os.ErrDeadlineExceeded,
// context.DeadlineExceeded, errorx.Timeout trait) become KindTimeout;
// everything else is KindIO.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e
	}

	var p *ParseErr
	if stderrors.As(err, &p) {
		return FromParse(p)
	}
	var u *text.Utf8Error
	if stderrors.As(err, &u) {
		return FromUtf8(u)
	}
	var n *strconv.NumError
	if stderrors.As(err, &n) {
		return FromInt(n)
	}

	if IsTLSFailure(err) {
		return FromTLS(err)
	}
	if IsTimeout(err) {
		return FromTimeout(err)
	}
	return FromIO(err)
}

// KindOf returns the variant Wrap would choose for err, or 0 for nil.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	return Wrap(err).Kind()
}

// ParseKindOf returns the kind of the first *ParseErr in err's chain, or 0.
func ParseKindOf(err error) ParseKind {
	var p *ParseErr
	if stderrors.As(err, &p) {
		return p.Kind()
	}
	return 0
}

// IsTimeout reports whether err is a deadline failure.
func IsTimeout(err error) bool {
	if stderrors.Is(err, os.ErrDeadlineExceeded) || stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var xerr *errorx.Error
	if stderrors.As(err, &xerr) && xerr.HasTrait(errorx.Timeout()) {
		return true
	}
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}

// IsTLSFailure reports whether err was produced by the TLS layer.
func IsTLSFailure(err error) bool {
	var xerr *errorx.Error
	if stderrors.As(err, &xerr) && xerr.HasTrait(TraitTLS) {
		return true
	}

	var (
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
		verifyErr   *tls.CertificateVerificationError
		authErr     x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		constrained x509.ConstraintViolationError
	)
	return stderrors.As(err, &recordErr) ||
		stderrors.As(err, &alertErr) ||
		stderrors.As(err, &verifyErr) ||
		stderrors.As(err, &authErr) ||
		stderrors.As(err, &hostErr) ||
		stderrors.As(err, &invalidErr) ||
		stderrors.As(err, &constrained)
}
