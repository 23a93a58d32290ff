package services

import (
	"fmt"
	"strings"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rs/zerolog/log"
)

// NewMailer picks a Mailer from EMAIL_PROVIDER. Without an explicit provider it uses Resend
// when RESEND_API_KEY is set, then SMTP when SMTP_HOST is set. It returns nil when email
// is not configured.
func NewMailer(cfg map[string]string) (Mailer, error) {
	provider := strings.ToLower(config.GetString(cfg, "EMAIL_PROVIDER", ""))
	if provider == "" {
		switch {
		case config.GetString(cfg, "RESEND_API_KEY", "") != "":
			provider = "resend"
		case config.GetString(cfg, "SMTP_HOST", "") != "":
			provider = "smtp"
		default:
			log.Warn().Msg("No email provider configured, new post notifications are disabled")
			return nil, nil
		}
	}

	switch provider {
	case "resend":
		apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
		if apiKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY environment variable is required for the resend provider")
		}
		return NewResendMailer(apiKey), nil
	case "smtp":
		host := config.GetString(cfg, "SMTP_HOST", "")
		if host == "" {
			return nil, fmt.Errorf("SMTP_HOST environment variable is required for the smtp provider")
		}
		return NewSMTPMailer(
			host,
			config.GetInt(cfg, "SMTP_PORT", 587),
			config.GetString(cfg, "SMTP_USER", ""),
			config.GetString(cfg, "SMTP_PASS", ""),
		), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", provider)
	}
}

// FromAddress is the sender used for outbound mail.
func FromAddress(cfg map[string]string) string {
	if from := config.GetString(cfg, "EMAIL_FROM", ""); from != "" {
		return from
	}
	return config.GetString(cfg, "RESEND_FROM_EMAIL", defaultFromAddress)
}
