package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/replenishment-api/internal/application/notify"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSMTPSender_ComponeMensaje(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "compras@empresa.test"}

	err := s.Send(context.Background(), notify.Message{
		To:      []string{"ana@empresa.test", "luis@empresa.test"},
		Subject: "OC PO000001 enviada",
		Body:    "Cantidad: 50",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"compras@empresa.test"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"ana@empresa.test", "luis@empresa.test"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"OC PO000001 enviada"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Cantidad: 50")
}

func TestSMTPSender_SinDestinatarios(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "x@y.test"}
	assert.Error(t, s.Send(context.Background(), notify.Message{Subject: "s"}))
	assert.Empty(t, d.sent)
}

func TestSMTPSender_ContextoCancelado(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "x@y.test"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, notify.Message{To: []string{"a@b.test"}}), context.Canceled)
	assert.Empty(t, d.sent)
}

func TestSMTPSender_ErrorDelServidor(t *testing.T) {
	boom := errors.New("535 auth failed")
	s := &SMTPSender{dialer: &fakeDialer{err: boom}, from: "x@y.test"}
	err := s.Send(context.Background(), notify.Message{To: []string{"a@b.test"}, Subject: "s"})
	assert.ErrorIs(t, err, boom)
}
