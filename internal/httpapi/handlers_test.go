package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/domain"
	apimw "github.com/hamed0406/pingme/internal/httpapi/middleware"
	"github.com/hamed0406/pingme/internal/metrics"
	"github.com/hamed0406/pingme/internal/repo/memory"
)

// ---- test helpers ----

func setupServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	srv := NewServer(zap.NewNop(), store, store, metrics.New().Handler())
	srv.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }

	keys := apimw.Keys{
		Public: []string{"pub_test"},
		Admin:  []string{"adm_test"},
	}
	// very high rate limits to avoid flakiness in tests
	ts := httptest.NewServer(srv.Router(keys, nil, 10_000, 10_000, 10_000, 10_000))
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url, key, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func seedStatus(t *testing.T, store *memory.Store, name string, st domain.Status) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), name, domain.EncodeStatus(st)))
}

// ---- tests ----

func TestAddTarget_OK_Invalid_Forbidden(t *testing.T) {
	ts, store := setupServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/targets", "adm_test", "application/json",
		bytes.NewReader([]byte(`{"name":"example","url":"https://example.com"}`)))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	all, _ := store.List(context.Background())
	assert.Equal(t, "https://example.com", all["example"])

	// missing name
	resp = do(t, http.MethodPost, ts.URL+"/api/targets", "adm_test", "application/json",
		bytes.NewReader([]byte(`{"url":"https://example.com"}`)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// not http(s)
	resp = do(t, http.MethodPost, ts.URL+"/api/targets", "adm_test", "application/json",
		bytes.NewReader([]byte(`{"name":"x","url":"ftp://bad"}`)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// broken JSON
	resp = do(t, http.MethodPost, ts.URL+"/api/targets", "adm_test", "application/json",
		bytes.NewReader([]byte(`{`)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// public key cannot write
	resp = do(t, http.MethodPost, ts.URL+"/api/targets", "pub_test", "application/json",
		bytes.NewReader([]byte(`{"name":"y","url":"https://y.example"}`)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAddTarget_FormEncoded(t *testing.T) {
	ts, store := setupServer(t)

	form := url.Values{"name": {"site"}, "url": {"http://site.example"}}
	resp := do(t, http.MethodPost, ts.URL+"/api/targets", "adm_test",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	all, _ := store.List(context.Background())
	assert.Equal(t, "http://site.example", all["site"])
}

func TestDeleteTarget_RemovesStatusToo(t *testing.T) {
	ts, store := setupServer(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, domain.Target{Name: "a", URL: "https://a"}))
	seedStatus(t, store, "a", domain.Up(200, 10*time.Millisecond, time.Now()))

	resp := do(t, http.MethodDelete, ts.URL+"/api/targets/a", "adm_test", "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	statuses, _ := store.GetAll(ctx)
	assert.Empty(t, statuses)

	resp = do(t, http.MethodDelete, ts.URL+"/api/targets/a", "adm_test", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTargets_SortedByStatusThenName(t *testing.T) {
	ts, store := setupServer(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, n := range []string{"b", "a", "d", "c"} {
		require.NoError(t, store.Add(ctx, domain.Target{Name: n, URL: "https://" + n}))
	}
	seedStatus(t, store, "b", domain.Up(200, 10*time.Millisecond, now))
	seedStatus(t, store, "d", domain.Up(200, 900*time.Millisecond, now))
	seedStatus(t, store, "a", domain.Timeout(now))
	// c has no status yet

	resp := do(t, http.MethodGet, ts.URL+"/api/targets", "pub_test", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []statusRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 4)

	var order []string
	for _, r := range rows {
		order = append(order, r.Status+":"+r.Name)
	}
	assert.Equal(t, []string{"no:a", "ok:b", "ok:d", "unknown:c"}, order)
	assert.Equal(t, domain.SentinelTimeout, rows[0].ResponseTime)
	assert.True(t, rows[2].Slow, "900ms response should be flagged slow")
	assert.False(t, rows[1].Slow)
	assert.Nil(t, rows[3].ObservedAt)
}

func TestListTargets_RequiresKey(t *testing.T) {
	ts, _ := setupServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/targets", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSummaryAndMicro(t *testing.T) {
	ts, store := setupServer(t)
	now := time.Now().UTC()
	seedStatus(t, store, "a", domain.Up(200, time.Millisecond, now))
	seedStatus(t, store, "b", domain.HTTPFailure(500, time.Millisecond, now))
	seedStatus(t, store, "c", domain.TransportFailure("ENOTFOUND", now))
	require.NoError(t, store.Set(context.Background(), "garbage", "not-a-record"))

	resp := do(t, http.MethodGet, ts.URL+"/api/summary", "pub_test", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	assert.Equal(t, map[string]int{"online": 1, "offline": 3}, sum)

	resp = do(t, http.MethodGet, ts.URL+"/api/status/micro", "pub_test", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var micro struct {
		Offline    int    `json:"offline"`
		IntervalMS int64  `json:"interval_ms"`
		Time       string `json:"time"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&micro))
	assert.Equal(t, 3, micro.Offline)
	assert.Equal(t, int64(60000), micro.IntervalMS)
	assert.Equal(t, "09:30", micro.Time)
}

func TestListPage_RendersHTML(t *testing.T) {
	ts, store := setupServer(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, domain.Target{Name: "<script>", URL: "https://x"}))
	seedStatus(t, store, "<script>", domain.HTTPFailure(502, 20*time.Millisecond, time.Now().Add(-3*time.Minute)))

	resp := do(t, http.MethodGet, ts.URL+"/list", "pub_test", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	page := string(b)

	assert.Contains(t, page, "&lt;script&gt;")
	assert.NotContains(t, page, "<td><script>")
	assert.Contains(t, page, "502")
	assert.Contains(t, page, "minutes ago")
	assert.Contains(t, page, "1 offline")
}

func TestHealthzAndMetrics(t *testing.T) {
	ts, _ := setupServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/metrics", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "pingme_cycles_total")
}
