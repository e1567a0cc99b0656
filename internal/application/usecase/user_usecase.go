package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// AddUser crea un usuario con id nuevo. Email y username deben ser únicos.
func (uc *UserUseCase) AddUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserRecord, error) {
	rec := dto.UserRecord{
		ID:       uuid.New().String(),
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Role:     in.Role,
	}
	if err := validateUser(rec); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, rec); err != nil {
		return nil, err
	}
	user := rec.ToEntity()
	if err := uc.repo.Add(ctx, user); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateUser reemplaza el usuario completo (upsert por id).
func (uc *UserUseCase) UpdateUser(ctx context.Context, rec dto.UserRecord) (*dto.UserRecord, error) {
	if err := validateUser(rec); err != nil {
		return nil, err
	}
	if err := uc.repo.Put(ctx, rec.ToEntity()); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PatchUser aplica los campos presentes; (nil, nil) si el usuario no existe.
func (uc *UserUseCase) PatchUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserRecord, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	rec := dto.NewUserRecord(user)
	if in.Username != nil {
		rec.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		rec.Email = strings.TrimSpace(*in.Email)
	}
	if in.Role != nil {
		rec.Role = *in.Role
	}
	if err := validateUser(rec); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, rec); err != nil {
		return nil, err
	}
	return uc.UpdateUser(ctx, rec)
}

// ChangeRole cambia sólo el rol; (nil, nil) si el usuario no existe.
func (uc *UserUseCase) ChangeRole(ctx context.Context, id, role string) (*dto.UserRecord, error) {
	return uc.PatchUser(ctx, id, dto.UpdateUserRequest{Role: &role})
}

// GetUserByID obtiene un usuario; (nil, nil) si no existe.
func (uc *UserUseCase) GetUserByID(ctx context.Context, id string) (*dto.UserRecord, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	rec := dto.NewUserRecord(user)
	return &rec, nil
}

// GetAllUsers lista todos los usuarios.
func (uc *UserUseCase) GetAllUsers(ctx context.Context) ([]dto.UserRecord, error) {
	list, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserRecord, 0, len(list))
	for _, u := range list {
		out = append(out, dto.NewUserRecord(u))
	}
	return out, nil
}

// FindByEmail recorre todos los usuarios y devuelve el primero con ese email, o nil.
func (uc *UserUseCase) FindByEmail(ctx context.Context, email string) (*dto.UserRecord, error) {
	return uc.find(ctx, func(u *entity.User) bool { return u.Email == email })
}

// FindByUsername como FindByEmail pero por nombre de usuario.
func (uc *UserUseCase) FindByUsername(ctx context.Context, username string) (*dto.UserRecord, error) {
	return uc.find(ctx, func(u *entity.User) bool { return u.Username == username })
}

// DeleteUser elimina un usuario; no falla si no existe.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	return uc.repo.Remove(ctx, id)
}

// UserExists indica si existe un usuario con ese id.
func (uc *UserUseCase) UserExists(ctx context.Context, id string) (bool, error) {
	return uc.repo.Exists(ctx, id)
}

// InsertUser inserta conservando el id del registro; ErrDuplicate si id, email o username existen.
func (uc *UserUseCase) InsertUser(ctx context.Context, rec dto.UserRecord) error {
	if err := validateUser(rec); err != nil {
		return err
	}
	return uc.repo.Add(ctx, rec.ToEntity())
}

func (uc *UserUseCase) find(ctx context.Context, match func(*entity.User) bool) (*dto.UserRecord, error) {
	list, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range list {
		if match(u) {
			rec := dto.NewUserRecord(u)
			return &rec, nil
		}
	}
	return nil, nil
}

// checkUnique verifica email y username contra otros usuarios (ignora el propio id).
func (uc *UserUseCase) checkUnique(ctx context.Context, rec dto.UserRecord) error {
	byEmail, err := uc.FindByEmail(ctx, rec.Email)
	if err != nil {
		return err
	}
	if byEmail != nil && byEmail.ID != rec.ID {
		return domain.ErrEmailAlreadyExists
	}
	byUsername, err := uc.FindByUsername(ctx, rec.Username)
	if err != nil {
		return err
	}
	if byUsername != nil && byUsername.ID != rec.ID {
		return domain.ErrUsernameAlreadyExists
	}
	return nil
}

func validateUser(rec dto.UserRecord) error {
	switch {
	case rec.ID == "":
		return fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	case rec.Username == "":
		return fmt.Errorf("%w: username requerido", domain.ErrInvalidInput)
	case !strings.Contains(rec.Email, "@"):
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	case !entity.IsValidRole(rec.Role):
		return fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, rec.Role)
	}
	return nil
}
