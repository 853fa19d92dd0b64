package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

func TestGate_RolesPorOperacion(t *testing.T) {
	g := authz.NewGate(nil)
	cases := []struct {
		role entity.Role
		op   authz.Operation
		ok   bool
	}{
		{entity.RoleWarehouse, authz.GRNCreate, true},
		{entity.RoleManager, authz.GRNCreate, false},
		{entity.RoleManager, authz.GRNDecide, true},
		{entity.RoleAdmin, authz.GRNDecide, false},
		{entity.RoleAdmin, authz.POSend, true},
		{entity.RoleManager, authz.POSend, false},
		{entity.RoleSupplier, authz.PORespond, true},
		{entity.RoleAdmin, authz.PORespond, false},
		{entity.RoleSystem, authz.PRAutoCreate, true},
		{entity.RoleSystem, authz.PRCreate, false},
		{entity.RoleWarehouse, authz.PRCreate, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"_"+string(tc.op), func(t *testing.T) {
			assert.Equal(t, tc.ok, g.Allowed(tc.role, tc.op))
		})
	}
}

func TestGate_OperacionNoDeclaradaSeNiega(t *testing.T) {
	g := authz.NewGate(authz.Policy{})
	err := g.Check(entity.Identity{UserID: "u1", Role: entity.RoleAdmin}, authz.UserManage)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestGate_SinUsuarioEsNoAutorizado(t *testing.T) {
	g := authz.NewGate(nil)
	err := g.Check(entity.Identity{Role: entity.RoleAdmin}, authz.UserManage)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRequireSupplier_SoloPropietario(t *testing.T) {
	owner := entity.Identity{UserID: "u1", Role: entity.RoleSupplier, SupplierID: "sup-1"}
	other := entity.Identity{UserID: "u2", Role: entity.RoleSupplier, SupplierID: "sup-2"}
	manager := entity.Identity{UserID: "u3", Role: entity.RoleManager}

	assert.NoError(t, authz.RequireSupplier(owner, "sup-1"))
	assert.ErrorIs(t, authz.RequireSupplier(other, "sup-1"), domain.ErrAccessDenied)
	assert.NoError(t, authz.RequireSupplier(manager, "sup-1"))
}
