package entity

import "fmt"

// Secuencias globales de numeración de documentos.
const (
	SequencePR       = "purchase_request"
	SequencePO       = "purchase_order"
	SequenceGRN      = "goods_receipt"
	SequenceTransfer = "transfer_order"
)

var documentPrefix = map[string]string{
	SequencePR:       "PR",
	SequencePO:       "PO",
	SequenceGRN:      "GRN",
	SequenceTransfer: "TO",
}

// DocumentNumber formatea el número visible de un documento: prefijo + contador de 6 dígitos.
func DocumentNumber(sequence string, n int64) string {
	return fmt.Sprintf("%s%06d", documentPrefix[sequence], n)
}
