package mailer

import (
	"strings"
	"testing"
)

type captureSender struct {
	to      string
	subject string
	body    string
}

func (c *captureSender) Send(to, subject, body string) error {
	c.to = to
	c.subject = subject
	c.body = body
	return nil
}

func TestSendReminderEmail(t *testing.T) {
	cap := &captureSender{}
	m := New(cap)

	err := m.SendReminderEmail(ReminderEmail{
		To:           "cliente@example.com",
		ClientName:   "Ana",
		Service:      "Corte de cabello",
		Date:         "lunes 9 de marzo",
		Hour:         "16:00",
		BusinessName: "Estética Luna",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if cap.to != "cliente@example.com" {
		t.Fatalf("to = %q", cap.to)
	}
	if cap.subject != "Recordatorio de cita: Corte de cabello" {
		t.Fatalf("subject = %q", cap.subject)
	}
	for _, want := range []string{"Ana", "Estética Luna", "lunes 9 de marzo", "16:00"} {
		if !strings.Contains(cap.body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestSendReminderEmail_DefaultClientName(t *testing.T) {
	cap := &captureSender{}
	m := New(cap)

	if err := m.SendReminderEmail(ReminderEmail{
		To:      "cliente@example.com",
		Service: "Corte",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(cap.body, "Hola Cliente,") {
		t.Fatal("missing fallback client name")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := buildMessage("a@b.c", "d@e.f", "Asunto", "<p>hola</p>")
	for _, want := range []string{
		"From: a@b.c",
		"To: d@e.f",
		"Subject: Asunto",
		"Content-Type: text/html; charset=utf-8",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q", want)
		}
	}
}
