package mail

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"github.com/example/scrumban/internal/ports/secondary"
)

// newMsg converts msg into a go-mail message: a plain text body followed by
// one attachment per report file.
func (n *Notifier) newMsg(msg *secondary.Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(n.cfg.FromName, n.cfg.Username); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return nil, fmt.Errorf("failed to add recipient %s: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(n.now())
	m.SetMessageIDWithValue(uuid.NewString() + "@scrumban")
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		var opts []gomail.FileOption
		if att.ContentType != "" {
			opts = append(opts, gomail.WithFileContentType(gomail.ContentType(att.ContentType)))
		}
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Data), opts...); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", att.Filename, err)
		}
	}
	return m, nil
}
