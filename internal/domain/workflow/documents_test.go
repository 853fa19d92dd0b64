package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/workflow"
)

func TestPurchaseOrder_CaminoFeliz(t *testing.T) {
	steps := []struct {
		action workflow.Action
		want   entity.POStatus
	}{
		{workflow.ActionSend, entity.POStatusSent},
		{workflow.ActionAck, entity.POStatusAcknowledged},
		{workflow.ActionReceive, entity.POStatusPartiallyReceived},
		{workflow.ActionComplete, entity.POStatusCompleted},
	}
	state := entity.POStatusDraft
	for _, s := range steps {
		next, err := workflow.PurchaseOrder.Next(state, s.action)
		require.NoError(t, err, "acción %s desde %s", s.action, state)
		assert.Equal(t, s.want, next)
		state = next
	}
	assert.True(t, workflow.PurchaseOrder.Terminal(state))
}

func TestPurchaseOrder_EdicionSoloEnDraftOSent(t *testing.T) {
	assert.True(t, workflow.PurchaseOrder.Can(entity.POStatusDraft, workflow.ActionEdit))
	assert.True(t, workflow.PurchaseOrder.Can(entity.POStatusSent, workflow.ActionEdit))
	assert.False(t, workflow.PurchaseOrder.Can(entity.POStatusAcknowledged, workflow.ActionEdit))
	assert.False(t, workflow.PurchaseOrder.Can(entity.POStatusPartiallyReceived, workflow.ActionEdit))
}

func TestPurchaseOrder_CancelacionNoAplicaATerminales(t *testing.T) {
	for _, s := range []entity.POStatus{entity.POStatusCompleted, entity.POStatusCancelled} {
		_, err := workflow.PurchaseOrder.Next(s, workflow.ActionCancel)
		assert.ErrorIs(t, err, domain.ErrInvalidState, "estado %s", s)
	}
}

func TestPurchaseOrder_RecibidaParcialSeCancela(t *testing.T) {
	next, err := workflow.PurchaseOrder.Next(entity.POStatusPartiallyReceived, workflow.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, next)
}

func TestPurchaseOrder_RespuestaProveedorRepetida(t *testing.T) {
	_, err := workflow.PurchaseOrder.Next(entity.POStatusAcknowledged, workflow.ActionAck)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
}

func TestGoodsReceipt_DecisionUnica(t *testing.T) {
	next, err := workflow.GoodsReceipt.Next(entity.GRNStatusPending, workflow.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, entity.GRNStatusApproved, next)

	for _, a := range []workflow.Action{workflow.ActionApprove, workflow.ActionReject} {
		_, err := workflow.GoodsReceipt.Next(entity.GRNStatusApproved, a)
		assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
		d, ok := domain.Details(err)
		require.True(t, ok)
		assert.Equal(t, string(entity.GRNStatusApproved), d.State)
	}
}

func TestPurchaseRequest_ConversionRequiereAprobada(t *testing.T) {
	_, err := workflow.PurchaseRequest.Next(entity.PRStatusPending, workflow.ActionConvert)
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)

	_, err = workflow.PurchaseRequest.Next(entity.PRStatusConverted, workflow.ActionConvert)
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)

	_, err = workflow.PurchaseRequest.Next(entity.PRStatusApproved, workflow.ActionEdit)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestTransfer_Estados(t *testing.T) {
	assert.True(t, workflow.Transfer.Can(entity.TransferStatusDraft, workflow.ActionSubmit))
	assert.True(t, workflow.Transfer.Can(entity.TransferStatusApproved, workflow.ActionCancel))
	assert.False(t, workflow.Transfer.Can(entity.TransferStatusPending, workflow.ActionComplete))
	assert.False(t, workflow.Transfer.Can(entity.TransferStatusCompleted, workflow.ActionCancel))
	assert.True(t, workflow.Transfer.Terminal(entity.TransferStatusRejected))
}
