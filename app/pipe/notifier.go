// Package pipe talks to the downstream distribution automation: the
// webhook that starts a publish run and the optional direct website
// publisher.
package pipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seopilot/seopilot/app/errs"
)

const notifyTimeout = 10 * time.Second

// Notifier fires the publish webhook. The pipe picks up due records on
// its own, so the payload carries no record identifiers.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	userAgent  string
}

func NewNotifier(webhookURL string, httpClient *http.Client, userAgent string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

type notifyPayload struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// Notify posts the publish trigger. A non-2xx response is an error, but
// the caller is expected to log and move on, the pipe scans for due
// records independently.
func (n *Notifier) Notify(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	payload := notifyPayload{
		Action:    "publish",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(timeoutCtx, "POST", n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return errs.NewExternalService("pipe", "notify", err)
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.NewExternalService("pipe", "notify",
			fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status))
	}

	return nil
}
