package secondary

import "context"

// Notifier defines the secondary port for delivering meeting reports.
// Delivery is best-effort: when no network path exists, Send returns an
// error wrapping ErrResourceUnavailable instead of blocking or panicking.
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}

// Message is one report addressed to one member.
type Message struct {
	To          string
	ToName      string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Attachment is a file sent alongside a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}
