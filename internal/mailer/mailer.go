// Package mailer delivers the dashboard's two outbound message kinds:
// download-request replies with the data attached, and contact messages.
package mailer

import (
	"errors"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"ici_dashboard/internal/config"
)

// ErrNotConfigured is returned when the SMTP credentials are absent. The
// forms stay usable: handlers fall back to direct download.
var ErrNotConfigured = errors.New("mail delivery not configured")

// Attachment is a file carried by a message.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

// Message is one outbound mail.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Sender is the delivery interface the form handlers depend on.
type Sender interface {
	Send(messages ...Message) error
	AdminEmail() string
}

// Mailer sends messages over an authenticated STARTTLS submission
// connection.
type Mailer struct {
	cfg config.SMTP
}

func New(cfg config.SMTP) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) AdminEmail() string { return m.cfg.AdminEmail }

// Send delivers all messages over a single connection. Either every message
// goes out or the whole batch fails; partial delivery would leave the admin
// notification and the user copy out of sync.
func (m *Mailer) Send(messages ...Message) error {
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}

	outgoing := make([]*gomail.Message, 0, len(messages))
	for _, msg := range messages {
		gm := gomail.NewMessage()
		gm.SetHeader("From", m.cfg.SenderEmail)
		gm.SetHeader("To", msg.To)
		gm.SetHeader("Subject", msg.Subject)
		gm.SetBody("text/plain", msg.Body)
		if att := msg.Attachment; att != nil {
			data := att.Data
			gm.Attach(att.Name,
				gomail.SetCopyFunc(func(w io.Writer) error {
					_, err := w.Write(data)
					return err
				}),
				gomail.SetHeader(map[string][]string{"Content-Type": {att.MIME}}),
			)
		}
		outgoing = append(outgoing, gm)
	}

	d := gomail.NewDialer(m.cfg.Server, m.cfg.Port, m.cfg.SenderEmail, m.cfg.SenderPassword)
	if err := d.DialAndSend(outgoing...); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
