// Package delivery forwards aggregated extraction payloads to the external
// automation consumer.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/applyflow/cv-ocr/internal/domain"
)

// Payload is the body sent to the external consumer.
type Payload struct {
	ExtractedText string `json:"extracted_text"`
}

// Sink transmits one aggregated payload. Implementations are best-effort:
// the pipeline dispatches Deliver asynchronously and suppresses failures.
type Sink interface {
	Deliver(ctx context.Context, payload Payload) error
}

// WebhookSink POSTs payloads to a configured webhook URL.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a sink for the given URL with an explicit request
// timeout so a stalled consumer cannot hold the delivery goroutine forever.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Deliver sends the payload as JSON. The response body is discarded; only
// the status class matters.
func (s *WebhookSink) Deliver(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.DeliveryError("encode webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return domain.DeliveryError("build webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.DeliveryError("post webhook", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return domain.DeliveryError(fmt.Sprintf("webhook returned status %d", resp.StatusCode), nil)
	}

	return nil
}

// NopSink is used when no webhook URL is configured.
type NopSink struct{}

// Deliver discards the payload.
func (NopSink) Deliver(ctx context.Context, payload Payload) error { return nil }
