package mail

import (
	"bytes"
	"io"

	"gopkg.in/gomail.v2"

	"paisabook/internal/config"
)

// Message is a single outbound email. Attachment is optional.
type Message struct {
	To             string
	Subject        string
	HTMLBody       string
	Attachment     []byte
	AttachmentName string
}

// Mailer sends transactional email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(msg Message) error
}

// smtpMailer delivers mail over authenticated SMTP.
type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a Mailer from the SMTP settings in the config.
func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

// Send delivers a single message, dialing a fresh connection each time.
func (m *smtpMailer) Send(msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.HTMLBody)

	if len(msg.Attachment) > 0 {
		mail.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(msg.Attachment))
			return err
		}))
	}

	return m.dialer.DialAndSend(mail)
}
