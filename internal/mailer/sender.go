package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender es el contrato mínimo hacia la pasarela de correo.
type Sender interface {
	Send(to string, subject string, htmlBody string) error
}

// SMTPSender envía por SMTP con AUTH PLAIN; sin usuario configurado
// manda sin autenticar (útil contra un relay local en desarrollo).
type SMTPSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPSender(host, port, user, pass, from string) *SMTPSender {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@atempo.app"
	}
	return &SMTPSender{
		host: host,
		port: port,
		user: strings.TrimSpace(user),
		pass: pass,
		from: from,
	}
}

func (s *SMTPSender) Send(to string, subject string, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	msg := buildMessage(s.from, to, subject, htmlBody)
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
