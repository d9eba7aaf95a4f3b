package Notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Email sends notices to a fixed recipient list.
type Email struct {
	config EmailConfig
	to     []string
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmail(config EmailConfig, to []string) *Email {
	return &Email{config: config, to: to, send: smtp.SendMail}
}

func (e *Email) Notify(ctx context.Context, n Notice) error {
	if len(e.to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if e.config.Username != "" {
		auth = smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)
	if err := e.send(addr, auth, e.config.From, e.to, e.message(n)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (e *Email) message(n Notice) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", e.config.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(e.to, ", ")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", n.Title))
	b.WriteString("MIME-Version: 1.0\r\n")
	if n.HTML != "" {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(n.HTML)
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(n.Body)
	}
	return []byte(b.String())
}
