package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con store, pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar store, pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Add persiste un nuevo producto.
func (r *ProductRepo) Add(ctx context.Context, product *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, quantity, entry_date, image, barcode)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		product.ID, product.Name, product.Quantity, product.EntryDate.UTC(), product.Image, product.Barcode,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return ioError("insert product", err)
	}
	return nil
}

// Put inserta o reemplaza por id.
func (r *ProductRepo) Put(ctx context.Context, product *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, quantity, entry_date, image, barcode)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, quantity = excluded.quantity, entry_date = excluded.entry_date,
			image = excluded.image, barcode = excluded.barcode`,
		product.ID, product.Name, product.Quantity, product.EntryDate.UTC(), product.Image, product.Barcode,
	)
	if err != nil {
		return ioError("put product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT id, name, quantity, entry_date, image, barcode FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Sólo tiene efecto con un repo atado a una transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT id, name, quantity, entry_date, image, barcode FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, query, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Quantity, &p.EntryDate, &p.Image, &p.Barcode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, ioError("get product", err)
	}
	p.EntryDate = p.EntryDate.UTC()
	return &p, nil
}

// GetAll lista todos los productos.
func (r *ProductRepo) GetAll(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, quantity, entry_date, image, barcode FROM products`)
	if err != nil {
		return nil, ioError("list products", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.EntryDate, &p.Image, &p.Barcode); err != nil {
			return nil, ioError("scan product", err)
		}
		p.EntryDate = p.EntryDate.UTC()
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("iterate products", err)
	}
	return list, nil
}

// Remove elimina un producto por ID; no falla si no existe.
func (r *ProductRepo) Remove(ctx context.Context, id string) error {
	return remove(ctx, r.q, repository.CollectionProducts, id)
}

// Exists indica si hay un producto con ese id.
func (r *ProductRepo) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.q, repository.CollectionProducts, id)
}
