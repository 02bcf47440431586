// Package alert fans out fraud alerts for suspicious sessions. Dispatch is
// best-effort: every failure is reported as a typed error that callers log
// and swallow, never letting it change the outcome of a predict call.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payload is the outbound alert message. The wire names are fixed by the
// downstream n8n fraud_alert workflow and must not change.
type Payload struct {
	SessionID   string  `json:"session_id"`
	Client      string  `json:"client"`
	Montant     string  `json:"montant"`
	Revenu      string  `json:"revenu"`
	CIN         string  `json:"cin"`
	Adresse     string  `json:"adresse"`
	Profession  string  `json:"profession"`
	Duree       string  `json:"duree"`
	IP          string  `json:"ip"`
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
	Timestamp   string  `json:"timestamp"`
	LienDossier string  `json:"lien_dossier"`
}

// DispatchError reports a failed alert delivery. It is always non-fatal.
type DispatchError struct {
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("alert dispatch via %s failed: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Dispatcher delivers one alert payload to a notification channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload *Payload) error
}

// WebhookDispatcher POSTs alert payloads to an external webhook with a
// bounded timeout.
type WebhookDispatcher struct {
	url        string
	httpClient *http.Client
}

func NewWebhookDispatcher(url string, timeout time.Duration) *WebhookDispatcher {
	return &WebhookDispatcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Dispatch sends the payload. Timeouts, transport errors and non-2xx
// responses all come back as *DispatchError.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, payload *Payload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &DispatchError{Channel: "webhook", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return &DispatchError{Channel: "webhook", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &DispatchError{Channel: "webhook", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &DispatchError{
			Channel: "webhook",
			Err:     fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	return nil
}
