package sqlite

import (
	"context"
	"database/sql"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/lineitems"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `id, commercial_manager, logistics_manager, customer_name, date, products, status`

// DeliveryRepo implementación de DeliveryRepository sobre SQLite.
// Las líneas se guardan como JSON en la columna products.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar el Store o una tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Add inserta una entrega nueva.
func (r *DeliveryRepo) Add(ctx context.Context, d *entity.Delivery) error {
	items, err := lineitems.Encode(d.Products)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO deliveries (`+deliveryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CommercialManager, d.LogisticsManager, d.CustomerName, formatTime(d.Date), string(items), d.Status,
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
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO deliveries (`+deliveryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			commercial_manager = excluded.commercial_manager, logistics_manager = excluded.logistics_manager,
			customer_name = excluded.customer_name, date = excluded.date,
			products = excluded.products, status = excluded.status`,
		d.ID, d.CommercialManager, d.LogisticsManager, d.CustomerName, formatTime(d.Date), string(items), d.Status,
	)
	if err != nil {
		return ioError("put delivery", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID; (nil, nil) si no existe.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`, id)
	if err != nil {
		return nil, ioError("get delivery", err)
	}
	list, err := scanDeliveries(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// GetForUpdate equivale a GetByID: la conexión única ya serializa las transacciones.
func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.GetByID(ctx, id)
}

// GetAll lista todas las entregas.
func (r *DeliveryRepo) GetAll(ctx context.Context) ([]*entity.Delivery, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries`)
	if err != nil {
		return nil, ioError("list deliveries", err)
	}
	return scanDeliveries(rows)
}

// Remove elimina por id; no falla si no existe.
func (r *DeliveryRepo) Remove(ctx context.Context, id string) error {
	return remove(ctx, r.q, repository.CollectionDeliveries, id)
}

// Exists indica si hay una entrega con ese id.
func (r *DeliveryRepo) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.q, repository.CollectionDeliveries, id)
}

func scanDeliveries(rows *sql.Rows) ([]*entity.Delivery, error) {
	defer rows.Close()
	list := make([]*entity.Delivery, 0)
	for rows.Next() {
		var (
			d           entity.Delivery
			date, items string
		)
		if err := rows.Scan(&d.ID, &d.CommercialManager, &d.LogisticsManager, &d.CustomerName, &date, &items, &d.Status); err != nil {
			return nil, ioError("scan delivery", err)
		}
		t, err := parseTime(date)
		if err != nil {
			return nil, ioError("scan delivery", err)
		}
		d.Date = t
		if d.Products, err = lineitems.Decode([]byte(items)); err != nil {
			return nil, ioError("scan delivery", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("iterate deliveries", err)
	}
	return list, nil
}
