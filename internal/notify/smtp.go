package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

const mimeBoundary = "owner-portal-report"

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer constructs a mailer. Auth is optional for relays that accept
// unauthenticated submission from the service network.
func NewSMTPMailer(addr, from, username, password string) (*SMTPMailer, error) {
	if addr == "" {
		return nil, errors.New("smtp mailer: empty address")
	}
	if from == "" {
		return nil, errors.New("smtp mailer: empty from address")
	}
	m := &SMTPMailer{addr: addr, from: from}
	if username != "" {
		host := addr
		if idx := strings.LastIndex(addr, ":"); idx >= 0 {
			host = addr[:idx]
		}
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m, nil
}

// Send delivers one message with its attachments.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m == nil {
		return errors.New("smtp mailer: nil mailer")
	}
	if len(msg.To) == 0 {
		return errors.New("smtp mailer: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := BuildMIME(m.from, msg, time.Now().UTC())
	return smtp.SendMail(m.addr, m.auth, m.from, msg.To, payload)
}

// BuildMIME assembles the multipart/mixed message body. Attachments are
// base64-encoded with RFC 2045 line wrapping.
func BuildMIME(from string, msg Message, date time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", att.Filename)
		b.WriteString("\r\n")
		writeBase64(&b, att.Content)
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return b.Bytes()
}

func writeBase64(b *bytes.Buffer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	if encoded != "" {
		b.WriteString(encoded)
		b.WriteString("\r\n")
	}
}
