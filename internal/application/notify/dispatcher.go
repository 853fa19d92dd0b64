// Package notify entrega notificaciones de forma best-effort: nunca bloquea
// ni falla la operación que la origina.
package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// Message correo ya resuelto a direcciones.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender canal de salida (SMTP en producción).
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Notifier lo consumen los casos de uso. recipient es un rol (admin, manager, ...) o una dirección.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string)
}

// Dispatcher resuelve destinatarios y envía en segundo plano.
type Dispatcher struct {
	sender  Sender
	byRole  map[entity.Role][]string
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup
}

// NewDispatcher crea el dispatcher. Con sender nil las notificaciones solo se registran en log.
func NewDispatcher(sender Sender, byRole map[entity.Role][]string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, byRole: byRole, timeout: 15 * time.Second, log: log.Component("notify")}
}

// Notify no bloquea: el envío ocurre en una goroutine y sus fallos solo se registran.
func (d *Dispatcher) Notify(ctx context.Context, recipient, subject, body string) {
	to := d.resolve(recipient)
	if len(to) == 0 {
		d.log.Warn().Str("recipient", recipient).Str("subject", subject).Msg("notificación sin destinatarios")
		return
	}
	if d.sender == nil {
		d.log.Info().Strs("to", to).Str("subject", subject).Msg("notificación (SMTP deshabilitado)")
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		if err := d.sender.Send(sendCtx, Message{To: to, Subject: subject, Body: body}); err != nil {
			d.log.Error().Err(err).Strs("to", to).Str("subject", subject).Msg("no se pudo enviar la notificación")
			return
		}
		d.log.Debug().Strs("to", to).Str("subject", subject).Msg("notificación enviada")
	}()
}

// Wait espera los envíos en curso (apagado ordenado y pruebas).
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) resolve(recipient string) []string {
	if strings.Contains(recipient, "@") {
		return []string{recipient}
	}
	return d.byRole[entity.Role(recipient)]
}
