package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"restopos/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNoConfigurado is returned when SMTP_HOST is empty.
var ErrMailerNoConfigurado = errors.New("mailer: SMTP no configurado")

// Mailer sends close reports over SMTP. Sends go through a circuit breaker so
// a dead mail server fails fast instead of tying up the workers.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	breaker  *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config, breaker *CircuitBreaker) *Mailer {
	if breaker == nil {
		breaker = NewCircuitBreaker("smtp", DefaultCBConfig())
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  breaker,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Configurado reports whether an SMTP host was set.
func (m *Mailer) Configurado() bool { return m.host != "" }

// SendReporte mails body to `to` with the PDF at pdfPath attached, if any.
func (m *Mailer) SendReporte(to, subject, body, pdfPath string) error {
	if !m.Configurado() {
		return ErrMailerNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.breaker.Execute(func() error {
		return m.send(e, m.addr, auth)
	})
}
