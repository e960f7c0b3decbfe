package transport

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPTransport is the fallback channel for environments without SES
// credentials. It sends a multipart/alternative message over plain SMTP.
type SMTPTransport struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTP builds the SMTP transport. Credentials may be empty for
// unauthenticated relays.
func NewSMTP(host, port, username, password, from string) *SMTPTransport {
	return &SMTPTransport{host: host, port: port, username: username, password: password, from: from}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if t.username != "" {
		auth = smtp.PlainAuth("", t.username, t.password, t.host)
	}

	payload := t.buildPayload(msg)
	addr := t.host + ":" + t.port

	// net/smtp has no context support; run the dial+send in a goroutine so
	// the dispatcher's deadline still bounds the call.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, t.from, []string{msg.To}, payload)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}

const mimeBoundary = "paynroll-alt-boundary"

func (t *SMTPTransport) buildPayload(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + t.from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + mimeBoundary + "\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text + "\r\n")

	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML + "\r\n")

	b.WriteString("--" + mimeBoundary + "--\r\n")
	return []byte(b.String())
}
