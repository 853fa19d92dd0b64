package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// sequenceNames nombre lógico -> SEQUENCE de PostgreSQL. nextval no se revierte con la transacción.
var sequenceNames = map[string]string{
	entity.SequencePR:       "purchase_request_number_seq",
	entity.SequencePO:       "purchase_order_number_seq",
	entity.SequenceGRN:      "goods_receipt_number_seq",
	entity.SequenceTransfer: "transfer_order_number_seq",
}

// SequenceRepo contadores de numeración de documentos.
type SequenceRepo struct {
	q querier
}

func (r *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	seq, ok := sequenceNames[name]
	if !ok {
		return 0, fmt.Errorf("secuencia desconocida %q", name)
	}
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval($1::regclass)`, seq).Scan(&n); err != nil {
		return 0, fmt.Errorf("nextval %s: %w", seq, err)
	}
	return n, nil
}
