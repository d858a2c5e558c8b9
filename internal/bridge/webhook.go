package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookDispatcher POSTs route requests to a backend over HTTP. The backend
// answers asynchronously on the route-details call-in endpoint.
type WebhookDispatcher struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhookDispatcher creates a dispatcher targeting url.
func NewWebhookDispatcher(url string, timeout time.Duration, logger *zap.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		url:    url,
		logger: logger,
	}
}

// Dispatch implements Dispatcher.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, req RouteRequest) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", req.RequestID).
		SetBody(req).
		Post(d.url)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("backend returned status %d", resp.StatusCode())
	}

	d.logger.Debug("route request dispatched",
		zap.String("request_id", req.RequestID),
		zap.String("mode", req.Mode.String()),
	)
	return nil
}
