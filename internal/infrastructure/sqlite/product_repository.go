package sqlite

import (
	"context"
	"database/sql"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, quantity, entry_date, image, barcode`

// ProductRepo implementación de ProductRepository sobre SQLite (usable con store o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Add inserta un producto nuevo.
func (r *ProductRepo) Add(ctx context.Context, product *entity.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Quantity, formatTime(product.EntryDate), product.Image, product.Barcode,
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
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, quantity = excluded.quantity, entry_date = excluded.entry_date,
			image = excluded.image, barcode = excluded.barcode`,
		product.ID, product.Name, product.Quantity, formatTime(product.EntryDate), product.Image, product.Barcode,
	)
	if err != nil {
		return ioError("put product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, ioError("get product", err)
	}
	list, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// GetForUpdate equivale a GetByID: la conexión única ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetAll lista todos los productos.
func (r *ProductRepo) GetAll(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, ioError("list products", err)
	}
	return scanProducts(rows)
}

// Remove elimina por id; no falla si no existe.
func (r *ProductRepo) Remove(ctx context.Context, id string) error {
	return remove(ctx, r.q, repository.CollectionProducts, id)
}

// Exists indica si hay un producto con ese id.
func (r *ProductRepo) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.q, repository.CollectionProducts, id)
}

func scanProducts(rows *sql.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		var (
			p         entity.Product
			entryDate string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &entryDate, &p.Image, &p.Barcode); err != nil {
			return nil, ioError("scan product", err)
		}
		t, err := parseTime(entryDate)
		if err != nil {
			return nil, ioError("scan product", err)
		}
		p.EntryDate = t
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("iterate products", err)
	}
	return list, nil
}
