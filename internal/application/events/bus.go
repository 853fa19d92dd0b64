// Package events publica hechos del dominio a suscriptores asíncronos.
// Publish nunca bloquea a quien publica ni le devuelve errores: los fallos de los suscriptores se registran en log.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// Name nombre de un evento.
type Name string

// Eventos del flujo de reposición.
const (
	GoodsReceiptApproved Name = "goods_receipt.approved"
	GoodsReceiptCreated  Name = "goods_receipt.created"
	TransferCompleted    Name = "transfer.completed"
)

// Event hecho ya confirmado en el almacén.
type Event struct {
	Name        Name
	AggregateID string
	ItemID      string
	WarehouseID string
	Quantity    int64
	OccurredAt  time.Time
}

// Handler procesa un evento. Un error solo se registra.
type Handler func(ctx context.Context, e Event) error

// Publisher lo implementa Bus; los casos de uso dependen de esta interfaz.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Bus despacha cada evento a sus suscriptores en goroutines propias.
type Bus struct {
	log *logger.Logger

	mu       sync.RWMutex
	handlers map[Name][]Handler
	closed   bool
	wg       sync.WaitGroup
}

// NewBus crea un bus vacío.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{log: log.Component("events"), handlers: make(map[Name][]Handler)}
}

// Subscribe registra h para los eventos con el nombre dado.
func (b *Bus) Subscribe(name Name, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish entrega e a cada suscriptor sin esperar. El contexto de los suscriptores
// no hereda la cancelación de ctx: la petición que publicó puede haber terminado.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.log.Warn().Str("event", string(e.Name)).Msg("bus cerrado, evento descartado")
		return
	}
	detached := context.WithoutCancel(ctx)
	for _, h := range b.handlers[e.Name] {
		b.wg.Add(1)
		go b.dispatch(detached, h, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("event", string(e.Name)).Str("aggregate_id", e.AggregateID).Interface("panic", r).Msg("suscriptor en pánico")
		}
	}()
	if err := h(ctx, e); err != nil {
		b.log.Warn().Err(err).Str("event", string(e.Name)).Str("aggregate_id", e.AggregateID).Msg("suscriptor falló")
	}
}

// Close deja de aceptar eventos y espera a los suscriptores en curso.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
}
