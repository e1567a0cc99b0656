package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrUsernameAlreadyExists = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrInvalidTransition     = errors.New("transición de estado no permitida")

	// Almacenamiento local.
	ErrStoreUnavailable = errors.New("almacenamiento no disponible")
	ErrIO               = errors.New("error de entrada/salida en el almacenamiento")

	// Importación de snapshots.
	ErrInvalidSnapshotFormat = errors.New("formato de snapshot inválido")
	ErrMalformedInput        = errors.New("archivo de importación mal formado")
)
