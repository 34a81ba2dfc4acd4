package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// Error classes recorded for transport failures. They stay stable across Go
// versions and platforms so stored rows remain comparable.
const (
	ClassNotFound        = "ENOTFOUND"
	ClassDNSTemporary    = "EAI_AGAIN"
	ClassRefused         = "ECONNREFUSED"
	ClassReset           = "ECONNRESET"
	ClassHostUnreachable = "EHOSTUNREACH"
	ClassNetUnreachable  = "ENETUNREACH"
	ClassTLS             = "TLS"
	ClassProtocol        = "EPROTO"
	ClassInvalidURL      = "EINVALIDURL"
	ClassCanceled        = "ECANCELED"
	ClassPanic           = "EPANIC"
	ClassUnknown         = "ETRANSPORT"
)

// IsTimeout reports whether err means no response arrived in time.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Classify maps a transport error to one of the Class* constants.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTemporary || dnsErr.IsTimeout {
			return ClassDNSTemporary
		}
		return ClassNotFound
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return ClassRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ClassReset
	case errors.Is(err, syscall.EHOSTUNREACH):
		return ClassHostUnreachable
	case errors.Is(err, syscall.ENETUNREACH):
		return ClassNetUnreachable
	case errors.Is(err, context.Canceled):
		return ClassCanceled
	case isTLSError(err):
		return ClassTLS
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "unsupported protocol scheme"), strings.Contains(msg, "no Host in request URL"):
		return ClassInvalidURL
	case strings.Contains(msg, "malformed HTTP"):
		return ClassProtocol
	}
	return ClassUnknown
}

func isTLSError(err error) bool {
	var (
		header   tls.RecordHeaderError
		verify   *tls.CertificateVerificationError
		unknown  x509.UnknownAuthorityError
		hostname x509.HostnameError
		invalid  x509.CertificateInvalidError
	)
	return errors.As(err, &header) ||
		errors.As(err, &verify) ||
		errors.As(err, &unknown) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid)
}
