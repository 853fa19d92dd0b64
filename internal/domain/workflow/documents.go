package workflow

import (
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

// Acciones comunes.
const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionConvert  Action = "convert"
	ActionCancel   Action = "cancel"
	ActionSend     Action = "send"
	ActionAck      Action = "acknowledge"
	ActionDecline  Action = "decline"
	ActionReceive  Action = "receive"
	ActionComplete Action = "complete"
	ActionSubmit   Action = "submit"
	// ActionReceiptRejected la recepción de la OC fue rechazada por el gerente.
	ActionReceiptRejected Action = "receipt_rejected"
)

// PurchaseRequest: pending → approved → converted; pending → rejected.
var PurchaseRequest = NewMachine("purchase_request", []Transition[entity.PRStatus]{
	{From: entity.PRStatusPending, Action: ActionApprove, To: entity.PRStatusApproved},
	{From: entity.PRStatusPending, Action: ActionReject, To: entity.PRStatusRejected},
	{From: entity.PRStatusPending, Action: ActionEdit, To: entity.PRStatusPending},
	{From: entity.PRStatusPending, Action: ActionDelete, To: entity.PRStatusPending},
	{From: entity.PRStatusApproved, Action: ActionConvert, To: entity.PRStatusConverted},
}, map[Action]error{
	ActionApprove: domain.ErrAlreadyDecided,
	ActionReject:  domain.ErrAlreadyDecided,
	ActionConvert: domain.ErrAlreadyConverted,
})

// PurchaseOrder ver diagrama de estados de la OC.
var PurchaseOrder = NewMachine("purchase_order", []Transition[entity.POStatus]{
	{From: entity.POStatusDraft, Action: ActionSend, To: entity.POStatusSent},
	{From: entity.POStatusDraft, Action: ActionEdit, To: entity.POStatusDraft},
	{From: entity.POStatusSent, Action: ActionEdit, To: entity.POStatusSent},
	{From: entity.POStatusSent, Action: ActionAck, To: entity.POStatusAcknowledged},
	{From: entity.POStatusSent, Action: ActionDecline, To: entity.POStatusCancelled},
	{From: entity.POStatusAcknowledged, Action: ActionReceive, To: entity.POStatusPartiallyReceived},
	{From: entity.POStatusPartiallyReceived, Action: ActionComplete, To: entity.POStatusCompleted},
	{From: entity.POStatusPartiallyReceived, Action: ActionReceiptRejected, To: entity.POStatusCancelled},
	{From: entity.POStatusDraft, Action: ActionCancel, To: entity.POStatusCancelled},
	{From: entity.POStatusSent, Action: ActionCancel, To: entity.POStatusCancelled},
	{From: entity.POStatusAcknowledged, Action: ActionCancel, To: entity.POStatusCancelled},
	{From: entity.POStatusPartiallyReceived, Action: ActionCancel, To: entity.POStatusCancelled},
}, map[Action]error{
	ActionAck:     domain.ErrAlreadyDecided,
	ActionDecline: domain.ErrAlreadyDecided,
})

// GoodsReceipt: pending → approved | rejected, ambos terminales.
var GoodsReceipt = NewMachine("goods_receipt", []Transition[entity.GRNStatus]{
	{From: entity.GRNStatusPending, Action: ActionApprove, To: entity.GRNStatusApproved},
	{From: entity.GRNStatusPending, Action: ActionReject, To: entity.GRNStatusRejected},
}, map[Action]error{
	ActionApprove: domain.ErrAlreadyDecided,
	ActionReject:  domain.ErrAlreadyDecided,
})

// Transfer: draft → pending → approved | rejected; approved → completed; cancelable antes de completar.
var Transfer = NewMachine("transfer_order", []Transition[entity.TransferStatus]{
	{From: entity.TransferStatusDraft, Action: ActionSubmit, To: entity.TransferStatusPending},
	{From: entity.TransferStatusPending, Action: ActionApprove, To: entity.TransferStatusApproved},
	{From: entity.TransferStatusPending, Action: ActionReject, To: entity.TransferStatusRejected},
	{From: entity.TransferStatusApproved, Action: ActionComplete, To: entity.TransferStatusCompleted},
	{From: entity.TransferStatusDraft, Action: ActionCancel, To: entity.TransferStatusCancelled},
	{From: entity.TransferStatusPending, Action: ActionCancel, To: entity.TransferStatusCancelled},
	{From: entity.TransferStatusApproved, Action: ActionCancel, To: entity.TransferStatusCancelled},
}, map[Action]error{
	ActionApprove: domain.ErrAlreadyDecided,
	ActionReject:  domain.ErrAlreadyDecided,
})
