package email

import (
	"bytes"
	"html/template"
)

const (
	VerificationSubject  = "Bitte bestätigen Sie Ihre E-Mail-Adresse"
	PasswordResetSubject = "Passwort zurücksetzen"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<html>
<body>
<p>Hallo {{.Name}},</p>
<p>vielen Dank für Ihre Registrierung. Bitte bestätigen Sie Ihre E-Mail-Adresse über den folgenden Link:</p>
<p><a href="{{.Link}}">E-Mail-Adresse bestätigen</a></p>
<p>Falls Sie sich nicht registriert haben, ignorieren Sie diese E-Mail.</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<html>
<body>
<p>Hallo {{.Name}},</p>
<p>über den folgenden Link können Sie ein neues Passwort vergeben. Der Link ist eine Stunde gültig:</p>
<p><a href="{{.Link}}">Passwort zurücksetzen</a></p>
<p>Falls Sie keine Zurücksetzung angefordert haben, ignorieren Sie diese E-Mail.</p>
</body>
</html>`))

type templateData struct {
	Name string
	Link string
}

// VerificationBody renders the verification email for the recipient
func VerificationBody(name, link string) (string, error) {
	return render(verificationTmpl, templateData{Name: name, Link: link})
}

// PasswordResetBody renders the password reset email for the recipient
func PasswordResetBody(name, link string) (string, error) {
	return render(passwordResetTmpl, templateData{Name: name, Link: link})
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
