// Package mail implementa notify.Sender sobre SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/replenishment-api/internal/application/notify"
	"github.com/jhoicas/replenishment-api/pkg/config"
)

var _ notify.Sender = (*SMTPSender)(nil)

// dialer lo que SMTPSender usa de gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envía correos de texto plano con gomail.
type SMTPSender struct {
	dialer dialer
	from   string
}

// NewSMTPSender construye el sender a partir de la configuración SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return &SMTPSender{dialer: d, from: cfg.From}
}

// Send compone y entrega el mensaje. gomail no acepta contexto: solo se respeta una cancelación previa.
func (s *SMTPSender) Send(ctx context.Context, m notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(m.To) == 0 {
		return errors.New("mail: mensaje sin destinatarios")
	}
	if err := s.dialer.DialAndSend(compose(s.from, m)); err != nil {
		return fmt.Errorf("mail: enviar %q: %w", m.Subject, err)
	}
	return nil
}

func compose(from string, m notify.Message) *gomail.Message {
	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)
	return msg
}
