// Package notify announces library additions to a chat webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/media-sort/internal/media"
)

// DisabledSentinel is stored in profiles to mean "no webhook".
const DisabledSentinel = "default"

const username = "Media Bot"

// WebhookError is returned when the webhook answers with a non-2xx status.
type WebhookError struct {
	Status int
	Body   string
}

func (e *WebhookError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.Status)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.Status, e.Body)
}

type payload struct {
	Content  string `json:"content"`
	Username string `json:"username"`
}

// Webhook posts one message per file added to the library.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns a webhook for url. An empty url or the "default"
// sentinel yields a disabled webhook.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: strings.TrimSpace(url),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithClient replaces the HTTP client.
func (w *Webhook) WithClient(c *http.Client) *Webhook {
	w.client = c
	return w
}

func (w *Webhook) Enabled() bool {
	return Enabled(w.url)
}

// Enabled reports whether url names a real webhook.
func Enabled(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && url != DisabledSentinel
}

// Message is the text announced for ep.
func Message(ep media.Episode) string {
	return fmt.Sprintf("Added: `%s` to the library", ep.String())
}

// Notify announces ep. A disabled webhook does nothing.
func (w *Webhook) Notify(ctx context.Context, ep media.Episode) error {
	if !w.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload{Content: Message(ep), Username: username})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &WebhookError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
