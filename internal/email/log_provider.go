package email

import (
	"kupanga_backend/internal/logger"
)

// LogProvider logs emails instead of sending them. Used when no SMTP
// server is configured, typically in development.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(msg *Message) error {
	logger.Info("email (not sent, no SMTP configured)", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (p *LogProvider) SendProvisionalPassword(to, password string) error {
	logger.Info("provisional password email (not sent)", "to", to)
	return nil
}

func (p *LogProvider) SendPasswordResetLink(to, link string) error {
	logger.Info("password reset email (not sent)", "to", to, "link", link)
	return nil
}

func (p *LogProvider) SendPasswordUpdatedConfirmation(to string) error {
	logger.Info("password updated email (not sent)", "to", to)
	return nil
}

func (p *LogProvider) SendWelcome(to, firstName string) error {
	logger.Info("welcome email (not sent)", "to", to)
	return nil
}
