package probe

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/hamed0406/pingme/internal/domain"
)

type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
				TLSHandshakeTimeout: timeout,
				// one request per connection; the socket is dropped once the status line is in
				DisableKeepAlives: true,
			},
			// a redirect is a non-200 answer, not something to follow
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *HTTPProber) Probe(ctx context.Context, target string) domain.Status {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.TransportFailure(ClassInvalidURL, time.Now().UTC())
	}

	resp, err := h.Client.Do(req)
	elapsed := time.Since(start)
	observed := time.Now().UTC()
	if err != nil {
		if IsTimeout(err) {
			return domain.Timeout(observed)
		}
		return domain.TransportFailure(Classify(err), observed)
	}
	// liveness only: the body is never read
	resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return domain.Up(resp.StatusCode, elapsed, observed)
	}
	return domain.HTTPFailure(resp.StatusCode, elapsed, observed)
}
