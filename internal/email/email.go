package email

import (
	"fmt"
	"mime"
	"net/smtp"
	"time"

	"github.com/hoaxify/hoaxify-api/internal/config"
)

type Email struct {
	config *config.Email
	auth   smtp.Auth
}

func New(cfg *config.Email) *Email {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPServer)
	}
	return &Email{config: cfg, auth: auth}
}

func (e *Email) Send(recipientEmail, subject, body string) error {
	msg := e.buildMessage(recipientEmail, subject, body)
	address := fmt.Sprintf("%s:%d", e.config.SMTPServer, e.config.SMTPPort)
	return smtp.SendMail(address, e.auth, e.config.From, []string{recipientEmail}, msg)
}

func (e *Email) buildMessage(recipientEmail, subject, body string) []byte {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n",
		e.config.From, recipientEmail, mime.QEncoding.Encode("utf-8", subject), time.Now().Format(time.RFC1123Z))
	return []byte(headers + body)
}
