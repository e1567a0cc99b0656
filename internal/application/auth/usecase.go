package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
// No es un control de seguridad: todos los usuarios comparten una misma contraseña
// y el admin por defecto entra sin ella.
type AuthUseCase struct {
	users      *usecase.UserUseCase
	jwtCfg     JWTConfig
	sharedHash []byte
}

// NewAuthUseCase construye el caso de uso. sharedPassword es la contraseña común de la instalación.
func NewAuthUseCase(users *usecase.UserUseCase, jwtCfg JWTConfig, sharedPassword string) (*AuthUseCase, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(sharedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthUseCase{users: users, jwtCfg: jwtCfg, sharedHash: hash}, nil
}

// RegisterUser crea un usuario. ErrEmailAlreadyExists / ErrUsernameAlreadyExists si ya existen.
// El rol por defecto es commercial.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserRecord, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleCommercial
	}
	return uc.users.AddUser(ctx, dto.CreateUserRequest{
		Username: in.Username,
		Email:    in.Email,
		Role:     role,
	})
}

// Login busca el usuario por email, verifica la contraseña común y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Email != entity.DefaultAdminEmail {
		if err := bcrypt.CompareHashAndPassword(uc.sharedHash, []byte(in.Password)); err != nil {
			return nil, domain.ErrUnauthorized
		}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *user}, nil
}
