package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stored status rows are "|"-delimited: ok|code|observedAt|responseTimeMs.
// Rows written before the code field existed carry ok|observedAt|responseTimeMs.
const (
	fieldSep = "|"

	labelOK   = "ok"
	labelFail = "no"

	SentinelTimeout    = "(TIMEOUT)"
	SentinelNoResponse = "N/A"

	// millisecond precision, always UTC
	timeLayout = "2006-01-02T15:04:05.000Z07:00"
)

var ErrMalformedStatus = errors.New("malformed status record")

// EncodeStatus renders s in the four-field storage format.
func EncodeStatus(s Status) string {
	return strings.Join([]string{
		s.Label(),
		s.Code(),
		s.ObservedAt.UTC().Format(timeLayout),
		s.ResponseTimeText(),
	}, fieldSep)
}

// DecodeStatus parses a stored row in either the current or the legacy layout.
func DecodeStatus(raw string) (Status, error) {
	f := strings.Split(raw, fieldSep)

	var okField, code, at, rt string
	legacy := false
	switch len(f) {
	case 4:
		okField, code, at, rt = f[0], f[1], f[2], f[3]
	case 3:
		okField, at, rt = f[0], f[1], f[2]
		legacy = true
	default:
		return Status{}, fmt.Errorf("%w: %d fields in %q", ErrMalformedStatus, len(f), raw)
	}
	if okField != labelOK && okField != labelFail {
		return Status{}, fmt.Errorf("%w: ok field %q", ErrMalformedStatus, okField)
	}

	observed, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Status{}, fmt.Errorf("%w: timestamp %q: %v", ErrMalformedStatus, at, err)
	}
	observed = observed.UTC()

	switch rt {
	case SentinelTimeout:
		if okField == labelOK {
			return Status{}, fmt.Errorf("%w: ok row with %s", ErrMalformedStatus, rt)
		}
		// older writers stored transport errors with the timeout sentinel and an errno
		if code != "" {
			return TransportFailure(code, observed), nil
		}
		return Timeout(observed), nil
	case SentinelNoResponse:
		if okField == labelOK {
			return Status{}, fmt.Errorf("%w: ok row with %s", ErrMalformedStatus, rt)
		}
		return TransportFailure(code, observed), nil
	}

	ms, err := strconv.ParseInt(rt, 10, 64)
	if err != nil {
		return Status{}, fmt.Errorf("%w: response time %q", ErrMalformedStatus, rt)
	}
	elapsed := time.Duration(ms) * time.Millisecond

	httpCode := 0
	if legacy {
		if okField == labelOK {
			httpCode = 200
		}
	} else if httpCode, err = strconv.Atoi(code); err != nil {
		return Status{}, fmt.Errorf("%w: code %q", ErrMalformedStatus, code)
	}

	if okField == labelOK {
		return Up(httpCode, elapsed, observed), nil
	}
	return HTTPFailure(httpCode, elapsed, observed), nil
}
