package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends account emails over SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password}
}

func (m *Mailer) SendVerificationCode(toEmail, code string) error {
	return m.send(toEmail, "Verify your account",
		fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", code))
}

func (m *Mailer) SendPasswordReset(toEmail, code string) error {
	return m.send(toEmail, "Password reset",
		fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.", code))
}

func (m *Mailer) send(toEmail, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
