package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/lineitems"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `id, commercial_manager, logistics_manager, customer_name, date, products, status`

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL.
// Las líneas se guardan en una columna JSONB.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar store, pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Add persiste una nueva entrega.
func (r *DeliveryRepo) Add(ctx context.Context, d *entity.Delivery) error {
	items, err := lineitems.Encode(d.Products)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO deliveries (`+deliveryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.CommercialManager, d.LogisticsManager, d.CustomerName, d.Date.UTC(), string(items), d.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return ioError("insert delivery", err)
	}
	return nil
}

// Put inserta o reemplaza por id.
func (r *DeliveryRepo) Put(ctx context.Context, d *entity.Delivery) error {
	items, err := lineitems.Encode(d.Products)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO deliveries (`+deliveryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			commercial_manager = excluded.commercial_manager, logistics_manager = excluded.logistics_manager,
			customer_name = excluded.customer_name, date = excluded.date,
			products = excluded.products, status = excluded.status`,
		d.ID, d.CommercialManager, d.LogisticsManager, d.CustomerName, d.Date.UTC(), string(items), d.Status,
	)
	if err != nil {
		return ioError("put delivery", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID; (nil, nil) si no existe.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.get(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
}

// GetForUpdate obtiene la entrega y bloquea la fila (SELECT FOR UPDATE): una segunda
// transacción que intente completarla espera al commit y ya ve el estado nuevo.
func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.get(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1 FOR UPDATE`, id)
}

func (r *DeliveryRepo) get(ctx context.Context, query, id string) (*entity.Delivery, error) {
	d, err := scanDelivery(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, ioError("get delivery", err)
	}
	return d, nil
}

// GetAll lista todas las entregas.
func (r *DeliveryRepo) GetAll(ctx context.Context) ([]*entity.Delivery, error) {
	rows, err := r.q.Query(ctx, `SELECT `+deliveryColumns+` FROM deliveries`)
	if err != nil {
		return nil, ioError("list deliveries", err)
	}
	defer rows.Close()
	list := make([]*entity.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, ioError("scan delivery", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("iterate deliveries", err)
	}
	return list, nil
}

// Remove elimina por id; no falla si no existe.
func (r *DeliveryRepo) Remove(ctx context.Context, id string) error {
	return remove(ctx, r.q, repository.CollectionDeliveries, id)
}

// Exists indica si hay una entrega con ese id.
func (r *DeliveryRepo) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.q, repository.CollectionDeliveries, id)
}

func scanDelivery(row pgx.Row) (*entity.Delivery, error) {
	var (
		d     entity.Delivery
		items []byte
	)
	if err := row.Scan(&d.ID, &d.CommercialManager, &d.LogisticsManager, &d.CustomerName, &d.Date, &items, &d.Status); err != nil {
		return nil, err
	}
	d.Date = d.Date.UTC()
	products, err := lineitems.Decode(items)
	if err != nil {
		return nil, err
	}
	d.Products = products
	return &d, nil
}
