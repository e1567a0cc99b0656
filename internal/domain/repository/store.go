package repository

import "context"

// Nombres de las colecciones del almacén local.
const (
	CollectionUsers      = "users"
	CollectionProducts   = "products"
	CollectionDeliveries = "deliveries"
)

// RecordStore es el ciclo de vida del almacén persistente de registros.
//
// Open es idempotente: crea las colecciones e índices si faltan y, sólo en la primera
// creación, siembra el administrador por defecto. Reset borra todo y deja el almacén
// sin inicializar (el siguiente Open vuelve a sembrar).
type RecordStore interface {
	Open(ctx context.Context) error
	Reset(ctx context.Context) error
	Initialized() bool
	Collections() []string
	Close() error
}
