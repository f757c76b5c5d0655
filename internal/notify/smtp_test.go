package notify

import (
	"strings"
	"testing"
	"time"
)

func TestBuildMIME(t *testing.T) {
	msg := Message{
		To:      []string{"owner@example.com"},
		Subject: "Owner statement Casa do Mar - 2026-07",
		Body:    "Statement attached.\n",
		Attachments: []Attachment{
			{Filename: "statement_prop-1_2026_07.pdf", ContentType: "application/pdf", Content: []byte("%PDF-data")},
			{Filename: "statement_prop-1_2026_07.csv", Content: []byte("a,b\n")},
		},
	}
	date := time.Date(2026, 8, 2, 6, 0, 0, 0, time.UTC)
	payload := string(BuildMIME("reports@owner-portal.local", msg, date))

	for _, want := range []string{
		"From: reports@owner-portal.local\r\n",
		"To: owner@example.com\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: multipart/mixed;",
		"Statement attached.",
		`Content-Disposition: attachment; filename="statement_prop-1_2026_07.pdf"`,
		"Content-Type: application/pdf",
		// Attachment without an explicit type falls back to octet-stream.
		"Content-Type: application/octet-stream",
		"Content-Transfer-Encoding: base64",
	} {
		if !strings.Contains(payload, want) {
			t.Fatalf("expected %q in MIME payload:\n%s", want, payload)
		}
	}
	if !strings.HasSuffix(payload, "--owner-portal-report--\r\n") {
		t.Fatalf("expected closing boundary, got tail %q", payload[len(payload)-40:])
	}
}

func TestBuildMIME_WrapsLongAttachments(t *testing.T) {
	content := make([]byte, 600)
	for i := range content {
		content[i] = byte(i % 251)
	}
	msg := Message{
		To:          []string{"owner@example.com"},
		Subject:     "wrap",
		Attachments: []Attachment{{Filename: "blob.bin", Content: content}},
	}
	payload := string(BuildMIME("reports@owner-portal.local", msg, time.Now()))

	inBody := false
	for _, line := range strings.Split(payload, "\r\n") {
		if strings.HasPrefix(line, "Content-Transfer-Encoding") {
			inBody = true
			continue
		}
		if inBody && len(line) > 76 {
			t.Fatalf("base64 line exceeds 76 chars: %d", len(line))
		}
	}
}

func TestNewSMTPMailer_Validation(t *testing.T) {
	if _, err := NewSMTPMailer("", "from@example.com", "", ""); err == nil {
		t.Fatal("expected error for empty address")
	}
	if _, err := NewSMTPMailer("smtp.example.com:587", "", "", ""); err == nil {
		t.Fatal("expected error for empty from")
	}
	mailer, err := NewSMTPMailer("smtp.example.com:587", "from@example.com", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mailer.auth != nil {
		t.Fatal("expected no auth without a username")
	}
	withAuth, err := NewSMTPMailer("smtp.example.com:587", "from@example.com", "user", "pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withAuth.auth == nil {
		t.Fatal("expected auth with a username")
	}
}
