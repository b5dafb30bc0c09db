package email

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zyrix.backend/internal/config"
	"zyrix.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("production")
	os.Exit(m.Run())
}

func TestVerificationBody(t *testing.T) {
	body, err := VerificationBody("Max Mustermann", "https://app.test/verify-email.html?token=abc123")
	require.NoError(t, err)
	assert.Contains(t, body, "Hallo Max Mustermann,")
	assert.Contains(t, body, `href="https://app.test/verify-email.html?token=abc123"`)
	assert.Contains(t, body, "bestätigen")
}

func TestPasswordResetBody(t *testing.T) {
	body, err := PasswordResetBody("Max", "https://app.test/reset-password.html?token=xyz")
	require.NoError(t, err)
	assert.Contains(t, body, "Hallo Max,")
	assert.Contains(t, body, `href="https://app.test/reset-password.html?token=xyz"`)
}

func TestTemplates_EscapeRecipientInput(t *testing.T) {
	body, err := VerificationBody(`<script>alert("x")</script>`, "https://app.test/v")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Zyrix <noreply@zyrix.example>", "user@x.com", "Betreff", "<p>Hallo</p>")

	headerEnd := strings.Index(msg, "\r\n\r\n")
	require.Positive(t, headerEnd, "message must separate headers from body")
	headers := msg[:headerEnd]

	assert.Contains(t, headers, "From: Zyrix <noreply@zyrix.example>")
	assert.Contains(t, headers, "To: user@x.com")
	assert.Contains(t, headers, "Subject: Betreff")
	assert.Contains(t, headers, `Content-Type: text/html; charset="UTF-8"`)
	assert.Contains(t, msg[headerEnd:], "<p>Hallo</p>")
}

func TestSMTPMailer_DisabledDropsMail(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Disabled: true})
	assert.NoError(t, m.Send(context.Background(), "user@x.com", "s", "<p>b</p>"))
}

func TestSMTPMailer_UnconfiguredFails(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "", User: "", Password: ""})
	err := m.Send(context.Background(), "user@x.com", "s", "<p>b</p>")
	assert.ErrorIs(t, err, ErrDelivery)
}
