package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type targetRow struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Status       string `json:"status"`
	Code         string `json:"code"`
	ResponseTime string `json:"response_time"`
}

type client struct {
	base string
	key  string
	http *http.Client
}

func newClient(base, key string) *client {
	return &client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *client) add(ctx context.Context, name, rawURL string) error {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	body, _ := json.Marshal(map[string]string{"name": name, "url": rawURL})
	return c.do(ctx, http.MethodPost, "/api/targets", bytes.NewReader(body), nil)
}

func (c *client) remove(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/targets/"+url.PathEscape(name), nil, nil)
}

func (c *client) list(ctx context.Context) ([]targetRow, error) {
	var rows []targetRow
	err := c.do(ctx, http.MethodGet, "/api/targets", nil, &rows)
	return rows, err
}

func (c *client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return errors.New("API: " + e.Error)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
