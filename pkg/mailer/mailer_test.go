package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zwubman/team-work-supply-tracker/pkg/config"
)

func TestNewSMTPSender(t *testing.T) {
	t.Run("requires host", func(t *testing.T) {
		_, err := NewSMTPSender(config.SMTPConfig{From: "alerts@example.com"})
		require.Error(t, err)
	})

	t.Run("requires from address", func(t *testing.T) {
		_, err := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 465})
		require.Error(t, err)
	})

	t.Run("enables implicit tls on port 465", func(t *testing.T) {
		sender, err := NewSMTPSender(config.SMTPConfig{
			Host: "smtp.example.com",
			Port: 465,
			From: "alerts@example.com",
		})
		require.NoError(t, err)
		assert.True(t, sender.dialer.SSL)
	})

	t.Run("leaves starttls on other ports", func(t *testing.T) {
		sender, err := NewSMTPSender(config.SMTPConfig{
			Host: "smtp.example.com",
			Port: 587,
			From: "alerts@example.com",
		})
		require.NoError(t, err)
		assert.False(t, sender.dialer.SSL)
	})
}

func TestSMTPSenderSendValidation(t *testing.T) {
	sender, err := NewSMTPSender(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 465,
		From: "alerts@example.com",
	})
	require.NoError(t, err)

	t.Run("rejects empty recipient list", func(t *testing.T) {
		err := sender.Send(context.Background(), Message{Subject: "hi", Body: "body"})
		require.Error(t, err)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := sender.Send(ctx, Message{To: []string{"a@example.com"}, Subject: "hi", Body: "body"})
		require.ErrorIs(t, err, context.Canceled)
	})
}
