package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

func serve(h http.Handler, header, value string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/targets", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireAny(t *testing.T) {
	h := RequireAny(Keys{Public: []string{"pub_key"}, Admin: []string{"adm_key"}})(okHandler)
	cases := []struct {
		header, value string
		want          int
	}{
		{"X-API-Key", "pub_key", http.StatusOK},
		{"Authorization", "Bearer adm_key", http.StatusOK},
		{"Authorization", "bearer  pub_key ", http.StatusOK},
		{"X-API-Key", "nope", http.StatusUnauthorized},
		{"", "", http.StatusUnauthorized},
	}
	for _, c := range cases {
		if got := serve(h, c.header, c.value); got != c.want {
			t.Fatalf("%s=%q: want %d got %d", c.header, c.value, c.want, got)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(Keys{Public: []string{"pub_key"}, Admin: []string{"adm_key", "adm_key2"}})(okHandler)
	cases := []struct {
		key  string
		want int
	}{
		{"adm_key", http.StatusOK},
		{"adm_key2", http.StatusOK},
		{"pub_key", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, c := range cases {
		header := "X-API-Key"
		if c.key == "" {
			header = ""
		}
		if got := serve(h, header, c.key); got != c.want {
			t.Fatalf("key %q: want %d got %d", c.key, c.want, got)
		}
	}
}

func TestAuth_OpenWithoutKeys(t *testing.T) {
	if got := serve(RequireAny(Keys{})(okHandler), "", ""); got != http.StatusOK {
		t.Fatalf("RequireAny: want open access without keys, got %d", got)
	}
	if got := serve(RequireAdmin(Keys{Public: []string{"p"}})(okHandler), "", ""); got != http.StatusOK {
		t.Fatalf("RequireAdmin: want open access without admin keys, got %d", got)
	}
}
