package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"TRAVBUD_BACK-END/internal/config"
)

func TestWelcomeMessage(t *testing.T) {
	subject, text, html := welcomeMessage("TravBud Team")
	assert.Equal(t, "Welcome to TravBud!", subject)
	assert.Contains(t, text, "TravBud Team")
	assert.Contains(t, html, "<br/>TravBud Team")
}

func TestSendHonoursCancelledContext(t *testing.T) {
	m := NewMailjet(config.MailjetConfig{APIKeyPublic: "pub", APIKeyPrivate: "priv", FromEmail: "hello@travbud.test", FromName: "TravBud Team"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendWelcome(ctx, "reader@example.com"), context.Canceled)
}

func TestNopSendsNothing(t *testing.T) {
	assert.NoError(t, Nop{}.SendWelcome(context.Background(), "reader@example.com"))
}
