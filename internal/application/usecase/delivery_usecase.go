package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/delivery"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/inventory"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// DeliveryUseCase casos de uso de entregas: CRUD, completar (descuenta stock) y cancelar.
type DeliveryUseCase struct {
	repo     repository.DeliveryRepository
	products repository.ProductRepository
	tx       TxRunner
	log      zerolog.Logger
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	repo repository.DeliveryRepository,
	products repository.ProductRepository,
	tx TxRunner,
	log zerolog.Logger,
) *DeliveryUseCase {
	return &DeliveryUseCase{repo: repo, products: products, tx: tx, log: log}
}

// AddDelivery crea una entrega nueva, siempre en estado pending.
func (uc *DeliveryUseCase) AddDelivery(ctx context.Context, in dto.DeliveryRequest) (*dto.DeliveryRecord, error) {
	d, err := uc.fromRequest(ctx, uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	d.Status = entity.DeliveryStatusPending
	if err := uc.repo.Add(ctx, d); err != nil {
		return nil, err
	}
	out := dto.NewDeliveryRecord(d)
	return &out, nil
}

// UpdateDelivery edita la entrega completa (upsert por id) sin tocar el estado.
// Sólo se permite mientras está pending; una entrega nueva queda pending.
func (uc *DeliveryUseCase) UpdateDelivery(ctx context.Context, id string, in dto.DeliveryRequest) (*dto.DeliveryRecord, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsTerminal() {
		return nil, fmt.Errorf("%w: la entrega %s está %s", domain.ErrInvalidTransition, id, existing.Status)
	}
	d, err := uc.fromRequest(ctx, id, in)
	if err != nil {
		return nil, err
	}
	d.Status = entity.DeliveryStatusPending
	if err := uc.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	out := dto.NewDeliveryRecord(d)
	return &out, nil
}

// ReplaceDelivery guarda el registro tal cual (incluido el estado). Lo usa la importación.
func (uc *DeliveryUseCase) ReplaceDelivery(ctx context.Context, rec dto.DeliveryRecord) error {
	d, err := deliveryFromRecord(rec)
	if err != nil {
		return err
	}
	return uc.repo.Put(ctx, d)
}

// InsertDelivery inserta conservando id y estado; ErrDuplicate si ya existe.
func (uc *DeliveryUseCase) InsertDelivery(ctx context.Context, rec dto.DeliveryRecord) error {
	d, err := deliveryFromRecord(rec)
	if err != nil {
		return err
	}
	return uc.repo.Add(ctx, d)
}

// GetDeliveryByID obtiene una entrega; (nil, nil) si no existe.
func (uc *DeliveryUseCase) GetDeliveryByID(ctx context.Context, id string) (*dto.DeliveryRecord, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	out := dto.NewDeliveryRecord(d)
	return &out, nil
}

// GetAllDeliveries lista todas las entregas.
func (uc *DeliveryUseCase) GetAllDeliveries(ctx context.Context) ([]dto.DeliveryRecord, error) {
	list, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryRecord, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewDeliveryRecord(d))
	}
	return out, nil
}

// DeleteDelivery elimina una entrega; no falla si no existe.
func (uc *DeliveryUseCase) DeleteDelivery(ctx context.Context, id string) error {
	return uc.repo.Remove(ctx, id)
}

// DeliveryExists indica si existe una entrega con ese id.
func (uc *DeliveryUseCase) DeliveryExists(ctx context.Context, id string) (bool, error) {
	return uc.repo.Exists(ctx, id)
}

// CompleteDelivery marca la entrega como completed y descuenta el stock de cada línea,
// todo en una transacción. Las líneas con producto inexistente se saltan y se informan en Skipped.
// Si algún producto quedaría en negativo falla con ErrInsufficientStock y no se aplica nada.
// Devuelve (nil, nil) si la entrega no existe.
func (uc *DeliveryUseCase) CompleteDelivery(ctx context.Context, id string) (*dto.CompletionResponse, error) {
	var res *dto.CompletionResponse
	err := uc.tx.Run(ctx, func(products repository.ProductRepository, deliveries repository.DeliveryRepository) error {
		// Bloqueo de fila: dos completados concurrentes no pueden ver ambos pending.
		d, err := deliveries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return nil
		}
		next, err := delivery.Transition(ctx, d.Status, delivery.EventComplete)
		if err != nil {
			return err
		}
		d.Status = next
		if err := deliveries.Put(ctx, d); err != nil {
			return err
		}

		out := &dto.CompletionResponse{Applied: []dto.StockChange{}, Skipped: []string{}}
		for _, item := range d.Products {
			p, err := products.GetForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				out.Skipped = append(out.Skipped, item.ProductID)
				continue
			}
			after, err := inventory.DecrementStock(p.Quantity, item.Quantity)
			if err != nil {
				return fmt.Errorf("producto %s: %w", p.ID, err)
			}
			out.Applied = append(out.Applied, dto.StockChange{ProductID: p.ID, Before: p.Quantity, After: after})
			p.Quantity = after
			if err := products.Put(ctx, p); err != nil {
				return err
			}
		}
		out.Delivery = dto.NewDeliveryRecord(d)
		res = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res != nil {
		uc.log.Info().
			Str("delivery_id", id).
			Int("applied", len(res.Applied)).
			Strs("skipped", res.Skipped).
			Msg("entrega completada")
	}
	return res, nil
}

// CancelDelivery pasa la entrega a cancelled sin tocar stock. (nil, nil) si no existe.
func (uc *DeliveryUseCase) CancelDelivery(ctx context.Context, id string) (*dto.DeliveryRecord, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	next, err := delivery.Transition(ctx, d.Status, delivery.EventCancel)
	if err != nil {
		return nil, err
	}
	d.Status = next
	if err := uc.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	out := dto.NewDeliveryRecord(d)
	return &out, nil
}

// fromRequest valida la entrada y completa productName desde el catálogo cuando falta.
func (uc *DeliveryUseCase) fromRequest(ctx context.Context, id string, in dto.DeliveryRequest) (*entity.Delivery, error) {
	if strings.TrimSpace(in.CommercialManager) == "" || strings.TrimSpace(in.LogisticsManager) == "" {
		return nil, fmt.Errorf("%w: responsables comercial y logístico requeridos", domain.ErrInvalidInput)
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	items := dto.ItemsToEntity(in.Products)
	if err := validateItems(items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductName != "" {
			continue
		}
		p, err := uc.products.GetByID(ctx, items[i].ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			items[i].ProductName = p.Name
		}
	}
	return &entity.Delivery{
		ID:                id,
		CommercialManager: strings.TrimSpace(in.CommercialManager),
		LogisticsManager:  strings.TrimSpace(in.LogisticsManager),
		CustomerName:      strings.TrimSpace(in.CustomerName),
		Date:              date,
		Products:          items,
	}, nil
}

func validateItems(items []entity.DeliveryItem) error {
	for i, it := range items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, it.Quantity)
		}
	}
	return nil
}

func deliveryFromRecord(rec dto.DeliveryRecord) (*entity.Delivery, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	if !entity.IsValidDeliveryStatus(rec.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, rec.Status)
	}
	d, err := rec.ToEntity()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := validateItems(d.Products); err != nil {
		return nil, err
	}
	return d, nil
}
