package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Built-in notification templates. Plain layouts on purpose: rich HTML
// rendering is out of scope, these only have to carry the token or
// password through.
const (
	provisionalPasswordTemplate = `
<html><body>
<p>Bonjour,</p>
<p>Votre compte Kupanga a été créé. Votre mot de passe provisoire est :</p>
<p><strong>{{.Password}}</strong></p>
<p>Connectez-vous et complétez votre profil pour choisir votre mot de passe définitif.</p>
</body></html>`

	passwordResetTemplate = `
<html><body>
<p>Bonjour,</p>
<p>Une réinitialisation de mot de passe a été demandée pour votre compte.</p>
<p><a href="{{.ResetURL}}">Réinitialiser mon mot de passe</a></p>
<p>Ce lien expire dans quelques minutes. Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>
</body></html>`

	passwordUpdatedTemplate = `
<html><body>
<p>Bonjour,</p>
<p>Votre mot de passe Kupanga vient d'être mis à jour.</p>
</body></html>`

	welcomeTemplate = `
<html><body>
<p>Bonjour {{.FirstName}},</p>
<p>Bienvenue sur Kupanga ! Votre profil est maintenant complet.</p>
</body></html>`
)

var templates = template.Must(template.New("provisional_password").Parse(provisionalPasswordTemplate))

func init() {
	template.Must(templates.New("password_reset").Parse(passwordResetTemplate))
	template.Must(templates.New("password_updated").Parse(passwordUpdatedTemplate))
	template.Must(templates.New("welcome").Parse(welcomeTemplate))
}

// Render renders a built-in template by name.
func Render(name string, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
