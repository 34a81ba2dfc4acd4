package probe

import (
	"context"
	"time"

	"github.com/hamed0406/pingme/internal/domain"
)

// DefaultTimeout bounds a single probe when none is configured.
const DefaultTimeout = 10 * time.Second

// Prober performs one liveness probe against a target URL.
//
// Implementations never return an error: every outcome, including transport
// failures and timeouts, is classified into the returned domain.Status.
type Prober interface {
	Probe(ctx context.Context, target string) domain.Status
}
