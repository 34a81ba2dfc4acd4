package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Slack struct {
	Webhook  string
	Username string
	Client   *http.Client
}

// NewSlack returns nil when no webhook is configured.
func NewSlack(webhook, username string) *Slack {
	if webhook == "" {
		return nil
	}
	if username == "" {
		username = "PingMe"
	}
	return &Slack{
		Webhook:  webhook,
		Username: username,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type slackAttachment struct {
	Color    string `json:"color"`
	Fallback string `json:"fallback"`
	Text     string `json:"text"`
}

type slackPayload struct {
	Username    string            `json:"username,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

func slackColor(s Severity) string {
	if s == SeverityClear {
		return "good"
	}
	return "danger"
}

func (s *Slack) Send(ctx context.Context, a Alert) error {
	if s == nil || s.Webhook == "" {
		return errors.New("slack disabled")
	}
	body, err := json.Marshal(slackPayload{
		Username: s.Username,
		Attachments: []slackAttachment{{
			Color:    slackColor(a.Severity),
			Fallback: a.Text,
			Text:     a.Text,
		}},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("slack non-2xx: %d", resp.StatusCode)
	}
	return nil
}
