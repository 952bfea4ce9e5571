// Package email sends transactional emails through the EmailJS REST API.
package email

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bloodlink/config"
	"bloodlink/internal/domain/service"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultBaseURL = "https://api.emailjs.com"
	defaultTimeout = 10 * time.Second
	sendPath       = "/api/v1.0/email/send"
)

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

type emailJSClient struct {
	client    *resty.Client
	cfg       *config.EmailConfig
	templates map[service.EmailTemplate]string
	logger    *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New returns the EmailJS sender, or a disabled sender when credentials are missing.
func New(params Params) service.EmailSender {
	cfg := params.Config.Email
	if cfg == nil || cfg.ServiceID == "" || cfg.PublicKey == "" {
		params.Logger.Warn("Email delivery disabled, EmailJS is not configured")

		return disabledSender{}
	}

	return NewEmailJSClient(cfg, params.Logger)
}

// NewEmailJSClient creates a sender for the configured EmailJS service.
func NewEmailJSClient(cfg *config.EmailConfig, logger *slog.Logger) service.EmailSender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &emailJSClient{
		client: client,
		cfg:    cfg,
		templates: map[service.EmailTemplate]string{
			service.TemplateBloodRequest:    cfg.RequestTemplateID,
			service.TemplateRequestAccepted: cfg.AcceptedTemplateID,
		},
		logger: logger,
	}
}

// Send posts one templated email. Template params are never logged since they carry contact data.
func (c *emailJSClient) Send(ctx context.Context, template service.EmailTemplate, params map[string]string) error {
	templateID := c.templates[template]
	if templateID == "" {
		return errors.Wrapf(service.ErrDeliveryDisabled, "no template configured for %s", template)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(sendRequest{
			ServiceID:      c.cfg.ServiceID,
			TemplateID:     templateID,
			UserID:         c.cfg.PublicKey,
			AccessToken:    c.cfg.PrivateKey,
			TemplateParams: params,
		}).
		Post(sendPath)
	if err != nil {
		return errors.Wrap(err, "emailjs request failed")
	}
	if resp.StatusCode() != http.StatusOK {
		return errors.Errorf("emailjs returned %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.DebugContext(ctx, "[EmailJS] Email sent", slog.String("template", string(template)))

	return nil
}

type disabledSender struct{}

func (disabledSender) Send(context.Context, service.EmailTemplate, map[string]string) error {
	return service.ErrDeliveryDisabled
}
