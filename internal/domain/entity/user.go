package entity

import "time"

// Role es el rol resuelto por el colaborador de identidad.
type Role string

// Roles válidos para User.
const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleWarehouse Role = "warehouse"
	RoleSupplier  Role = "supplier"
	// RoleSystem lo usan los actores internos (programador automático); nunca se emite en tokens.
	RoleSystem Role = "system"
)

// Valid indica si el rol puede asignarse a un usuario.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWarehouse, RoleSupplier:
		return true
	}
	return false
}

// Identity es el par { userId, role } que recibe cada operación del flujo.
// SupplierID solo aplica al rol supplier y vincula al usuario con su proveedor.
type Identity struct {
	UserID     string
	Role       Role
	SupplierID string
}

// SystemIdentity identidad usada por el programador automático.
var SystemIdentity = Identity{UserID: "system", Role: RoleSystem}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	SupplierID   string // vacío salvo para rol supplier
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
