package domain

import (
	"strconv"
	"time"
)

// Kind tags the outcome of a probe.
type Kind int

const (
	KindOK        Kind = iota // 200 response
	KindHTTP                  // any other HTTP status
	KindTimeout               // no response within the timeout
	KindTransport             // DNS, connect, reset, TLS...
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindHTTP:
		return "http"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Status is the last observed state of one target.
//
// HTTPCode is set for KindOK and KindHTTP, ErrorClass for KindTransport.
// ResponseTime is only meaningful when a response was received.
type Status struct {
	Kind         Kind
	HTTPCode     int
	ErrorClass   string
	ObservedAt   time.Time
	ResponseTime time.Duration
}

func Up(code int, rt time.Duration, at time.Time) Status {
	return Status{Kind: KindOK, HTTPCode: code, ResponseTime: rt, ObservedAt: at}
}

func HTTPFailure(code int, rt time.Duration, at time.Time) Status {
	return Status{Kind: KindHTTP, HTTPCode: code, ResponseTime: rt, ObservedAt: at}
}

func Timeout(at time.Time) Status {
	return Status{Kind: KindTimeout, ObservedAt: at}
}

func TransportFailure(class string, at time.Time) Status {
	return Status{Kind: KindTransport, ErrorClass: class, ObservedAt: at}
}

// OK reports whether the probe counts as healthy.
func (s Status) OK() bool { return s.Kind == KindOK }

// Label is "ok" or "no".
func (s Status) Label() string {
	if s.OK() {
		return labelOK
	}
	return labelFail
}

// Code is the HTTP status, the transport error class, or "" on timeout.
func (s Status) Code() string {
	switch s.Kind {
	case KindOK, KindHTTP:
		return strconv.Itoa(s.HTTPCode)
	case KindTransport:
		return s.ErrorClass
	default:
		return ""
	}
}

// ResponseTimeText renders the response time in milliseconds, or the sentinel for
// outcomes without a response.
func (s Status) ResponseTimeText() string {
	switch s.Kind {
	case KindTimeout:
		return SentinelTimeout
	case KindTransport:
		return SentinelNoResponse
	default:
		return strconv.FormatInt(s.ResponseTime.Milliseconds(), 10)
	}
}
