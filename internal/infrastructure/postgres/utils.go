package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"
	codeInvalidTextRepr     = "22P02"
)

// constraintErrors traduce constraints conocidos a errores de dominio.
var constraintErrors = map[string]func() error{
	"users_email_key": func() error {
		return domain.FieldError(domain.ErrDuplicate, "user", "email", "el email ya está registrado")
	},
	"items_sku_key": func() error {
		return domain.FieldError(domain.ErrDuplicate, "item", "sku", "el SKU ya existe")
	},
	"warehouses_code_key": func() error {
		return domain.FieldError(domain.ErrDuplicate, "warehouse", "code", "el código de bodega ya existe")
	},
	"supplier_items_supplier_item_key": func() error {
		return domain.FieldError(domain.ErrDuplicate, "supplier_item", "item_id", "el proveedor ya tiene este ítem en su catálogo")
	},
	"stock_locations_active_pair_key": func() error {
		return domain.FieldError(domain.ErrDuplicate, "stock_location", "item_id", "ya existe una ubicación activa para el ítem en la bodega")
	},
	"stock_locations_current_stock_check": func() error {
		return domain.FieldError(domain.ErrNegativeStock, "stock_location", "current_stock", "")
	},
	"purchase_orders_pr_id_key": func() error {
		return domain.FieldError(domain.ErrDuplicate, "purchase_order", "pr_id", "la solicitud ya tiene una orden de compra")
	},
	"goods_receipts_po_id_key": func() error {
		return domain.FieldError(domain.ErrDuplicateGRN, "goods_receipt", "po_id", "")
	},
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return false
}

// mapError convierte violaciones de constraint conocidas en errores de dominio;
// el resto se envuelve con op y el diagnóstico de pgconn no sale del adaptador.
func mapError(err error, op string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeCheckViolation:
		if f, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return f()
		}
	case codeForeignKeyViolation:
		return foreignKeyError(pgErr, op)
	case codeInvalidTextRepr:
		// id con formato inválido (p. ej. no UUID): no puede existir.
		return &domain.Error{Kind: domain.ErrNotFound, Entity: entityOf(op), Field: "id"}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// foreignKeyError distingue un borrado bloqueado por dependientes (ErrInUse) de una
// referencia a una fila inexistente al insertar o actualizar (ErrNotFound).
func foreignKeyError(pgErr *pgconn.PgError, op string) error {
	if strings.HasPrefix(op, "delete ") {
		return &domain.Error{Kind: domain.ErrInUse, Entity: entityOf(op), State: pgErr.TableName}
	}
	field := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_"), "_fkey")
	return &domain.Error{Kind: domain.ErrNotFound, Entity: entityOf(op), Field: field, Message: "referencia inexistente"}
}

// entityOf "delete goods receipt" -> "goods_receipt".
func entityOf(op string) string {
	if i := strings.IndexByte(op, ' '); i >= 0 {
		op = op[i+1:]
	}
	return strings.ReplaceAll(op, " ", "_")
}

// noRows traduce pgx.ErrNoRows (y un id con formato inválido) a la convención (nil, nil) de los puertos.
func noRows[T any](v *T, err error, op string) (*T, error) {
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepr) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// filterBuilder arma cláusulas WHERE con placeholders posicionales.
type filterBuilder struct {
	conds []string
	args  []any
}

func (b *filterBuilder) add(cond string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(b.args))))
}

func (b *filterBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// page agrega LIMIT/OFFSET; limit <= 0 no limita.
func (b *filterBuilder) page(limit, offset int) string {
	var sb strings.Builder
	if limit > 0 {
		b.args = append(b.args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(b.args))
	}
	if offset > 0 {
		b.args = append(b.args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(b.args))
	}
	return sb.String()
}

// documentFilter aplica los filtros comunes; supplierCol vacío ignora SupplierID.
func documentFilter(f repository.ListFilter, supplierCol string) *filterBuilder {
	b := &filterBuilder{}
	if f.Status != "" {
		b.add("status = ?", f.Status)
	}
	if f.ItemID != "" {
		b.add("item_id = ?", f.ItemID)
	}
	if f.WarehouseID != "" {
		b.add("warehouse_id = ?", f.WarehouseID)
	}
	if f.SupplierID != "" && supplierCol != "" {
		b.add(supplierCol+" = ?", f.SupplierID)
	}
	return b
}

// nullable convierte "" en NULL para columnas de referencia opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
