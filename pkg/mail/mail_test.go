package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/abisalde/accounts-service/internal/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestSMTPMailService_SendHTMLEmail(t *testing.T) {
	var got capturedMail
	svc := NewSMTPMailService("mail.local", "1025", "", "", "no-reply@example.com")
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		got = capturedMail{addr: addr, from: from, to: to, msg: string(msg)}
		return nil
	}

	err := svc.SendHTMLEmail(context.Background(), "ada@example.com", "Welcome", "<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "mail.local:1025", got.addr)
	assert.Equal(t, "no-reply@example.com", got.from)
	assert.Equal(t, []string{"ada@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Welcome\r\n")
	assert.Contains(t, got.msg, "Content-Type: text/html")
	assert.Contains(t, got.msg, "<p>hi</p>")
}

func TestSMTPMailService_Errors(t *testing.T) {
	svc := NewSMTPMailService("mail.local", "1025", "user", "pass", "no-reply@example.com")
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := svc.SendPlainTextEmail(context.Background(), "ada@example.com", "Welcome", "hi")
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = svc.SendPlainTextEmail(ctx, "ada@example.com", "Welcome", "hi")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewMailerService(t *testing.T) {
	cfg := &configs.Config{}
	cfg.Env.CurrentEnv = "production"
	_, ok := NewMailerService(cfg).(*ResendMailService)
	assert.True(t, ok)

	cfg.Env.CurrentEnv = "development"
	_, ok = NewMailerService(cfg).(*SMTPMailService)
	assert.True(t, ok)
}
