package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// WebhookSender posts events as JSON to the notification service endpoint.
type WebhookSender struct {
	client *resty.Client
	url    string
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		client: resty.New().SetRetryCount(0),
		url:    url,
	}
}

func (s *WebhookSender) Send(ctx context.Context, event Event) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("notification webhook: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("notification webhook returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
