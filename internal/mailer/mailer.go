package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Mailer renderiza las plantillas del producto y las entrega vía Sender.
type Mailer struct {
	sender Sender
}

func New(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

type ReminderEmail struct {
	To           string
	ClientName   string
	Service      string
	Date         string
	Hour         string
	BusinessName string
}

type StaffReminderEmail struct {
	To           string
	StaffName    string
	Service      string
	ClientName   string
	Date         string
	Hour         string
	BusinessName string
}

var reminderTmpl = template.Must(template.New("reminder").Parse(`
<div style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #1976d2;">Hola {{.ClientName}},</h2>
  <p>Te recordamos que tienes una cita próxima en <strong>{{.BusinessName}}</strong>.</p>

  <div style="background-color: #f3f4f6; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Servicio:</strong> {{.Service}}</p>
    <p style="margin: 5px 0;"><strong>Fecha:</strong> {{.Date}}</p>
    <p style="margin: 5px 0;"><strong>Hora:</strong> {{.Hour}}</p>
  </div>

  <p>¡Te esperamos!</p>
  <hr style="border: 0; border-top: 1px solid #eee;" />
  <small style="color: #777;">Si deseas reprogramar, por favor contáctanos.</small>
</div>`))

var staffReminderTmpl = template.Must(template.New("staff_reminder").Parse(`
<div style="font-family: Arial, sans-serif; color: #333;">
  <p>Hola {{.StaffName}},</p>
  <p>Se envió un recordatorio al cliente <strong>{{.ClientName}}</strong> por la cita:</p>
  <ul>
    <li><strong>Servicio:</strong> {{.Service}}</li>
    <li><strong>Fecha:</strong> {{.Date}}</li>
    <li><strong>Hora:</strong> {{.Hour}}</li>
  </ul>
  <p>{{.BusinessName}}</p>
</div>`))

var verificationTmpl = template.Must(template.New("verification").Parse(`
<p>Hola,</p>
<p>Tu código de verificación para Atempo es:</p>
<p style="font-size:18px"><b>{{.Code}}</b></p>
<p>Este código expirará en 15 minutos.</p>
<p>Si no creaste una cuenta, puedes ignorar este mensaje.</p>`))

var twoFactorTmpl = template.Must(template.New("two_factor").Parse(`
<p>Hola,</p>
<p>Estás intentando iniciar sesión en Atempo.</p>
<p>Tu código de seguridad es:</p>
<p style="font-size: 18px;"><b>{{.Code}}</b></p>
<p>Este código expirará en 10 minutos.</p>
<p>Si no fuiste tú, puedes ignorar este correo.</p>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m *Mailer) SendReminderEmail(d ReminderEmail) error {
	if d.ClientName == "" {
		d.ClientName = "Cliente"
	}
	body, err := render(reminderTmpl, d)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Recordatorio de cita: %s", d.Service)
	return m.sender.Send(d.To, subject, body)
}

func (m *Mailer) SendStaffReminderEmail(d StaffReminderEmail) error {
	body, err := render(staffReminderTmpl, d)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Recordatorio enviado: %s", d.Service)
	return m.sender.Send(d.To, subject, body)
}

func (m *Mailer) SendVerificationEmail(to, code string) error {
	body, err := render(verificationTmpl, struct{ Code string }{code})
	if err != nil {
		return err
	}
	return m.sender.Send(to, "Verifica tu correo electrónico", body)
}

func (m *Mailer) SendTwoFactorEmail(to, code string) error {
	body, err := render(twoFactorTmpl, struct{ Code string }{code})
	if err != nil {
		return err
	}
	return m.sender.Send(to, "Tu código de seguridad para iniciar sesión", body)
}
