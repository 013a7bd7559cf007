package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
)

// Webhook posts each application record to a configured endpoint,
// typically a spreadsheet automation hook.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhook creates a webhook tracker.
func NewWebhook(cfg config.TrackerConfig, logger *zap.Logger) *Webhook {
	timeout := cfg.WebhookTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		url:        cfg.WebhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// webhookPayload is the JSON body sent for each application.
type webhookPayload struct {
	Event           string `json:"event"`
	CompanyName     string `json:"company_name"`
	JobTitle        string `json:"job_title"`
	JobLevel        string `json:"job_level"`
	SalaryRange     string `json:"salary_range"`
	ApplicationLink string `json:"application_link"`
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
}

// Track posts the record to the webhook endpoint.
func (w *Webhook) Track(ctx context.Context, record domain.ApplicationRecord) error {
	payload := webhookPayload{
		Event:           "application_recorded",
		CompanyName:     record.Company,
		JobTitle:        record.Title,
		JobLevel:        record.Level,
		SalaryRange:     record.SalaryRange,
		ApplicationLink: record.Link,
		Status:          string(record.Status),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ApplyForge/1.0")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	w.logger.Info("application recorded",
		zap.String("company", record.Company),
		zap.String("title", record.Title),
		zap.String("status", string(record.Status)))

	return nil
}
