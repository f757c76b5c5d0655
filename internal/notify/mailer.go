package notify

import "context"

// Attachment is one report artifact attached to an email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one outbound email.
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer sends report emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
