package httpapi

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/domain"
)

func TestBuildRows_UnknownAndUndecodable(t *testing.T) {
	targets := map[string]string{"a": "https://a", "b": "https://b"}
	statuses := map[string]string{
		"b":     "ok|200|Mon Oct 19 2026|5", // old row with an unparseable date
		"stale": domain.EncodeStatus(domain.Up(200, 0, time.Now())),
	}
	rows := buildRows(targets, statuses, 300*time.Millisecond, zap.NewNop())
	if len(rows) != 2 {
		t.Fatalf("rows should follow the registry, got %+v", rows)
	}
	for _, r := range rows {
		if r.Status != statusUnknown {
			t.Fatalf("%s: want unknown, got %s", r.Name, r.Status)
		}
	}
}

func TestBuildRows_TransportErrorNotSlow(t *testing.T) {
	rows := buildRows(
		map[string]string{"a": "https://a"},
		map[string]string{"a": domain.EncodeStatus(domain.TransportFailure("ECONNREFUSED", time.Now()))},
		0, zap.NewNop(),
	)
	if rows[0].Slow || rows[0].Code != "ECONNREFUSED" || rows[0].Status != "no" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestCountStatuses(t *testing.T) {
	now := time.Now()
	online, offline := countStatuses(map[string]string{
		"a": domain.EncodeStatus(domain.Up(200, 0, now)),
		"b": domain.EncodeStatus(domain.Timeout(now)),
		"c": "ok|2026-01-02T03:04:05.000Z|12", // legacy layout
	})
	if online != 2 || offline != 1 {
		t.Fatalf("want 2/1, got %d/%d", online, offline)
	}
}
