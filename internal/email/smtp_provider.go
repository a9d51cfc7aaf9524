package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPProvider implements Provider over gomail.
type SMTPProvider struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPProvider(config SMTPConfig) (*SMTPProvider, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", config.Port)
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from address is required")
	}

	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}, nil
}

func (p *SMTPProvider) Send(msg *Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTMLBody != "" {
		m.SetBody("text/html", msg.HTMLBody)
		if msg.Body != "" {
			m.AddAlternative("text/plain", msg.Body)
		}
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) sendTemplate(to, subject, templateName string, data TemplateData) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}
	return p.Send(&Message{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: html,
	})
}

func (p *SMTPProvider) SendProvisionalPassword(to, password string) error {
	return p.sendTemplate(to, "Votre compte Kupanga", "provisional_password",
		TemplateData{"Password": password})
}

func (p *SMTPProvider) SendPasswordResetLink(to, resetURL string) error {
	return p.sendTemplate(to, "Réinitialisation de votre mot de passe", "password_reset",
		TemplateData{"ResetURL": resetURL})
}

func (p *SMTPProvider) SendPasswordUpdatedConfirmation(to string) error {
	return p.sendTemplate(to, "Mot de passe mis à jour", "password_updated", TemplateData{})
}

func (p *SMTPProvider) SendWelcome(to, firstName string) error {
	return p.sendTemplate(to, "Bienvenue sur Kupanga", "welcome",
		TemplateData{"FirstName": firstName})
}
