package events_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/events"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

func TestPublish_EntregaASuscriptores(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	got := make(chan events.Event, 1)
	bus.Subscribe(events.GoodsReceiptApproved, func(_ context.Context, e events.Event) error {
		got <- e
		return nil
	})

	bus.Publish(context.Background(), events.Event{Name: events.GoodsReceiptApproved, AggregateID: "grn-1"})

	select {
	case e := <-got:
		assert.Equal(t, "grn-1", e.AggregateID)
		assert.False(t, e.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("el suscriptor no recibió el evento")
	}
}

func TestPublish_ContextoCanceladoNoAfectaSuscriptor(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	errCh := make(chan error, 1)
	bus.Subscribe(events.GoodsReceiptApproved, func(ctx context.Context, _ events.Event) error {
		errCh <- ctx.Err()
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bus.Publish(ctx, events.Event{Name: events.GoodsReceiptApproved})
	bus.Close()

	require.Len(t, errCh, 1)
	assert.NoError(t, <-errCh)
}

func TestPublish_FalloYPanicoNoPropagan(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	var calls atomic.Int32
	bus.Subscribe(events.TransferCompleted, func(context.Context, events.Event) error {
		calls.Add(1)
		return errors.New("falló")
	})
	bus.Subscribe(events.TransferCompleted, func(context.Context, events.Event) error {
		calls.Add(1)
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), events.Event{Name: events.TransferCompleted})
		bus.Close()
	})
	assert.Equal(t, int32(2), calls.Load())
}

func TestClose_DescartaEventosPosteriores(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	var calls atomic.Int32
	bus.Subscribe(events.GoodsReceiptCreated, func(context.Context, events.Event) error {
		calls.Add(1)
		return nil
	})
	bus.Close()
	bus.Publish(context.Background(), events.Event{Name: events.GoodsReceiptCreated})
	assert.Equal(t, int32(0), calls.Load())
}
