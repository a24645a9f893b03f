package notifications

import (
	"bytes"
	"html/template"
	"net/url"
	"time"
)

// Mail subjects
const (
	VerifyEmailSubject   = "Verify your email"
	ResetPasswordSubject = "Reset your password"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Verify your email</h2>
  <p>Use the code below to verify your Bike Island account. It expires at {{.ExpiresAt}}.</p>
  <p style="font-size: 28px; letter-spacing: 6px;"><strong>{{.Code}}</strong></p>
  <p>If you did not sign up, you can ignore this email.</p>
</body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Hi {{.Name}},</h2>
  <p>We received a request to reset your password. The link below is valid for {{.ValidFor}}.</p>
  <p><a href="{{.Link}}">Reset password</a></p>
  <p>If you did not ask for a reset, you can ignore this email.</p>
</body>
</html>`))

// RenderOTPMail renders the verification code email body
func RenderOTPMail(code string, expiresAt time.Time) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Code      string
		ExpiresAt string
	}{code, expiresAt.UTC().Format("15:04 MST, 02 Jan 2006")})
	return buf.String(), err
}

// ResetLink builds the client-side reset URL for token
func ResetLink(clientURL, token string) string {
	return clientURL + "/auth/reset-password?token=" + url.QueryEscape(token)
}

// RenderResetMail renders the password reset email body
func RenderResetMail(name, link string, validFor time.Duration) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct {
		Name     string
		Link     string
		ValidFor string
	}{name, link, validFor.String()})
	return buf.String(), err
}
