package email

// Message is an outbound email.
type Message struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData carries values into an email template.
type TemplateData map[string]interface{}

// Provider sends notification emails. All sends triggered from request
// handling are fire-and-forget: callers log failures and never fail the
// triggering operation on them.
type Provider interface {
	// Send delivers a prepared message.
	Send(msg *Message) error

	// SendProvisionalPassword mails the temporary password of a freshly
	// created account.
	SendProvisionalPassword(to, password string) error

	// SendPasswordResetLink mails the reset link embedding the reset token.
	SendPasswordResetLink(to, resetURL string) error

	// SendPasswordUpdatedConfirmation confirms a completed password reset.
	SendPasswordUpdatedConfirmation(to string) error

	// SendWelcome greets a user who completed their profile.
	SendWelcome(to, firstName string) error
}
