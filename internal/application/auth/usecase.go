// Package auth adaptador de identidad: login con bcrypt + JWT y alta de usuarios.
// El flujo de reposición solo consume la identidad resuelta { userId, role }.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de usuarios y login.
type AuthUseCase struct {
	tx     repository.TxRunner
	gate   *authz.Gate
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx repository.TxRunner, gate *authz.Gate, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{tx: tx, gate: gate, jwtCfg: jwtCfg}
}

// CreateUser crea un usuario (solo admin). El rol supplier exige un proveedor existente.
func (uc *AuthUseCase) CreateUser(ctx context.Context, id entity.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := uc.gate.Check(id, authz.UserManage); err != nil {
		return nil, err
	}
	return uc.createUser(ctx, in)
}

// Bootstrap crea el primer administrador si no hay usuarios con ese email. Lo usa el arranque.
func (uc *AuthUseCase) Bootstrap(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	return uc.createUser(ctx, dto.CreateUserRequest{Email: email, Password: password, Name: "Administrador", Role: string(entity.RoleAdmin)})
}

func (uc *AuthUseCase) createUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, domain.FieldError(domain.ErrValidation, "user", "role", "rol desconocido")
	}
	if role == entity.RoleSupplier && in.SupplierID == "" {
		return nil, domain.FieldError(domain.ErrValidation, "user", "supplier_id", "requerido para el rol supplier")
	}
	if role != entity.RoleSupplier {
		in.SupplierID = ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		SupplierID:   in.SupplierID,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		if user.SupplierID != "" {
			sup, err := s.Suppliers().GetByID(ctx, user.SupplierID)
			if err != nil {
				return err
			}
			if sup == nil {
				return domain.NotFound("supplier", user.SupplierID)
			}
		}
		existing, err := s.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.FieldError(domain.ErrDuplicate, "user", "email", "el email ya está registrado")
		}
		return s.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	var user *entity.User
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		user, err = s.Users().FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
		return err
	})
	if err != nil {
		return nil, err
	}
	// Usuario inexistente y password incorrecto responden igual.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, &domain.Error{Kind: domain.ErrAccessDenied, Entity: "user", State: user.Status}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Identity{
		UserID: user.ID, Role: string(user.Role), SupplierID: user.SupplierID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// GetUser obtiene un usuario; cada usuario puede verse a sí mismo, el admin a todos.
func (uc *AuthUseCase) GetUser(ctx context.Context, id entity.Identity, userID string) (*dto.UserResponse, error) {
	if id.UserID != userID {
		if err := uc.gate.Check(id, authz.UserManage); err != nil {
			return nil, err
		}
	}
	var user *entity.User
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		user, err = s.Users().GetByID(ctx, userID)
		if err == nil && user == nil {
			err = domain.NotFound("user", userID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		SupplierID: u.SupplierID,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
