package entity

// Roles válidos para User.
const (
	RoleAdmin            = "admin"
	RoleCommercial       = "commercial"
	RoleWarehouseManager = "warehouseManager"
)

// Usuario administrador sembrado al crear el almacenamiento por primera vez.
const (
	DefaultAdminID       = "1"
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@systemair.com"
)

// User representa un usuario del sistema. Email y Username son únicos.
type User struct {
	ID       string
	Username string
	Email    string
	Role     string // admin, commercial, warehouseManager
}

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCommercial, RoleWarehouseManager:
		return true
	}
	return false
}

// DefaultAdmin devuelve el usuario administrador inicial.
func DefaultAdmin() *User {
	return &User{
		ID:       DefaultAdminID,
		Username: DefaultAdminUsername,
		Email:    DefaultAdminEmail,
		Role:     RoleAdmin,
	}
}
