package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"realview/internal/config"
)

// MailerService sends transactional email through the provider's HTTP API.
type MailerService interface {
	SendPasswordReset(ctx context.Context, recipient, resetToken string) error
}

type httpMailer struct {
	cfg        *config.MailerConfig
	httpClient *http.Client
}

var resetBodyTemplate = template.Must(template.New("reset").Parse(
	`Click the link to reset your password: {{.ResetURL}}

The link expires in one hour. If you did not request a reset, ignore this email.`))

func NewHTTPMailer(cfg *config.MailerConfig) MailerService {
	return &httpMailer{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		},
	}
}

// SendPasswordReset posts the reset email to the mail provider. The timeout
// on the HTTP client bounds the call; callers treat failure as a delivery
// problem, never as a failure of the reset request itself.
func (m *httpMailer) SendPasswordReset(ctx context.Context, recipient, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.Reset.FrontendURL, resetToken)

	var body bytes.Buffer
	if err := resetBodyTemplate.Execute(&body, map[string]string{"ResetURL": resetURL}); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"from":    m.cfg.Provider.FromAddress,
		"to":      recipient,
		"subject": m.cfg.Reset.Subject,
		"text":    body.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Provider.APIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.Provider.APIKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}
