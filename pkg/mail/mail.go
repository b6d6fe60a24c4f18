package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Mailer interface {
	SendPlainTextEmail(ctx context.Context, recipientEmail, subject, body string) error
	SendHTMLEmail(ctx context.Context, recipientEmail, subject, htmlBody string) error
}

type SMTPMailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	senderEmail  string
	send         func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailService(host, port, username, password, from string) *SMTPMailService {
	return &SMTPMailService{
		smtpHost:     host,
		smtpPort:     port,
		smtpUsername: username,
		smtpPassword: password,
		senderEmail:  from,
		send:         smtp.SendMail,
	}
}

func (s *SMTPMailService) SendPlainTextEmail(ctx context.Context, recipientEmail, subject, body string) error {
	return s.deliver(ctx, recipientEmail, []string{
		"From: " + s.senderEmail,
		"To: " + recipientEmail,
		"Subject: " + subject,
		"",
		body,
	})
}

func (s *SMTPMailService) SendHTMLEmail(ctx context.Context, recipientEmail, subject, htmlBody string) error {
	return s.deliver(ctx, recipientEmail, []string{
		"From: " + s.senderEmail,
		"To: " + recipientEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"utf-8\"",
		"",
		htmlBody,
	})
}

func (s *SMTPMailService) deliver(ctx context.Context, recipientEmail string, lines []string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var auth smtp.Auth
	if s.smtpUsername != "" {
		auth = smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	}
	message := []byte(strings.Join(lines, "\r\n"))

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.send(
			fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort),
			auth,
			s.senderEmail,
			[]string{recipientEmail},
			message,
		)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email sending canceled: %w", ctx.Err())
	}
}
