package dto

import (
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/permission"
)

// UserRecord forma externa de un usuario (API y snapshot).
type UserRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// CreateUserRequest entrada para crear un usuario.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UpdateUserRequest edición parcial de un usuario.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// ChangeRoleRequest entrada para cambiar el rol.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT y el usuario autenticado.
type LoginResponse struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

// SessionResponse usuario autenticado y sus permisos por sección.
type SessionResponse struct {
	User        UserRecord                    `json:"user"`
	Permissions map[string]permission.Actions `json:"permissions"`
}

// NewUserRecord convierte la entidad a su forma externa.
func NewUserRecord(u *entity.User) UserRecord {
	return UserRecord{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// ToEntity convierte el registro en entidad (sin validar).
func (r UserRecord) ToEntity() *entity.User {
	return &entity.User{ID: r.ID, Username: r.Username, Email: r.Email, Role: r.Role}
}
