package utils

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail through an SMTP relay.
type Mailer struct {
	Host     string
	Port     string
	From     string
	Password string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(host, port, from, password string) *Mailer {
	return &Mailer{Host: host, Port: port, From: from, Password: password, send: smtp.SendMail}
}

// Enabled reports whether a relay is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != "" && m.From != ""
}

func (m *Mailer) SendEmail(to string, subject string, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer not configured")
	}

	var auth smtp.Auth
	if m.Password != "" {
		auth = smtp.PlainAuth("", m.From, m.Password, m.Host)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.From, to, subject, body))

	port := m.Port
	if port == "" {
		port = "587"
	}
	return m.send(m.Host+":"+port, auth, m.From, []string{to}, msg)
}

// SendWelcome greets a newly registered user.
func (m *Mailer) SendWelcome(to, username string) error {
	body := strings.Join([]string{
		fmt.Sprintf("Hi %s,", username),
		"",
		"Your account has been created. Log in to start adding tasks.",
	}, "\r\n")
	return m.SendEmail(to, "Welcome to Task Manager", body)
}
