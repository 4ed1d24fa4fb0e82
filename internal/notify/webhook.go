package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/junsooki/RegionWatch/internal/log"
)

// StatusError is returned when the webhook answers with anything but 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.Code)
}

// Webhook posts {"text": ...} to a URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier. A zero timeout leaves the request
// bounded only by the transport.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Payload returns the request body for text. The text is JSON-escaped; a
// plain message produces exactly {"text": "<message>"}.
func Payload(text string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(text) // strings always encode
	quoted := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return fmt.Appendf(nil, `{"text": %s}`, quoted)
}

// Notify performs one POST and succeeds only on status 200.
func (w *Webhook) Notify(ctx context.Context, n Notification) error {
	log.Info("Sending webhook notification", "id", n.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(Payload(n.Text)))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	log.Info("Webhook notification sent", "id", n.ID, "status", resp.StatusCode)
	return nil
}
