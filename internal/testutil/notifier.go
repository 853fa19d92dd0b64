package testutil

import (
	"context"
	"sync"
)

// Notification aviso capturado por Recorder.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

// Recorder notify.Notifier que guarda los avisos en memoria.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify registra el aviso.
func (r *Recorder) Notify(_ context.Context, recipient, subject, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Recipient: recipient, Subject: subject, Body: body})
}

// Sent copia de los avisos registrados.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
