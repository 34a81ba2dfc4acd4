package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func hit(h http.Handler, remote, xff string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BurstThenRetryAfter(t *testing.T) {
	h := RateLimit(1, 2)(okHandler)
	for i := 0; i < 2; i++ {
		if rec := hit(h, "1.2.3.4:1234", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: want 200 got %d", i, rec.Code)
		}
	}
	rec := hit(h, "1.2.3.4:5555", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429 got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 without Retry-After")
	}

	// other clients have their own bucket
	if rec := hit(h, "5.6.7.8:1234", ""); rec.Code != http.StatusOK {
		t.Fatalf("second client: want 200 got %d", rec.Code)
	}
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	h := RateLimit(1, 1)(okHandler)
	if rec := hit(h, "10.0.0.1:1", "203.0.113.9, 10.0.0.1"); rec.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", rec.Code)
	}
	// same proxy, different origin client
	if rec := hit(h, "10.0.0.1:1", "198.51.100.7"); rec.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", rec.Code)
	}
	if rec := hit(h, "10.0.0.2:1", "203.0.113.9"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429 got %d", rec.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, 0)(okHandler)
	for i := 0; i < 50; i++ {
		if rec := hit(h, "1.2.3.4:1", ""); rec.Code != http.StatusOK {
			t.Fatalf("want 200 got %d", rec.Code)
		}
	}
}

func TestLimiter_ForgetsIdleClients(t *testing.T) {
	l := newLimiter(rate.Every(time.Hour), 1, 10*time.Millisecond)
	l.allow("a")
	time.Sleep(25 * time.Millisecond)
	l.allow("b")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["a"]; ok {
		t.Fatal("idle client a should have been swept")
	}
	if _, ok := l.visitors["b"]; !ok {
		t.Fatal("active client b missing")
	}
}
