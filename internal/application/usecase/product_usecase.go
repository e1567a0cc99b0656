package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock sólo baja al completar entregas.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// AddProduct crea un producto con id nuevo.
func (uc *ProductUseCase) AddProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductRecord, error) {
	rec := dto.ProductRecord{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Quantity:  in.Quantity,
		EntryDate: in.EntryDate,
		Image:     in.Image,
		Barcode:   in.Barcode,
	}
	product, err := productFromRecord(rec)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Add(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductRecord(product)
	return &out, nil
}

// UpdateProduct reemplaza el producto completo (upsert por id).
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, rec dto.ProductRecord) (*dto.ProductRecord, error) {
	product, err := productFromRecord(rec)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Put(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductRecord(product)
	return &out, nil
}

// PatchProduct aplica los campos presentes sobre el producto existente.
// Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) PatchProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductRecord, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	rec := dto.NewProductRecord(product)
	if in.Name != nil {
		rec.Name = strings.TrimSpace(*in.Name)
	}
	if in.Quantity != nil {
		rec.Quantity = *in.Quantity
	}
	if in.EntryDate != nil {
		rec.EntryDate = *in.EntryDate
	}
	if in.Image != nil {
		rec.Image = *in.Image
	}
	if in.Barcode != nil {
		rec.Barcode = *in.Barcode
	}
	return uc.UpdateProduct(ctx, rec)
}

// GetProductByID obtiene un producto; (nil, nil) si no existe.
func (uc *ProductUseCase) GetProductByID(ctx context.Context, id string) (*dto.ProductRecord, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	out := dto.NewProductRecord(product)
	return &out, nil
}

// GetAllProducts lista todos los productos (sin orden garantizado).
func (uc *ProductUseCase) GetAllProducts(ctx context.Context) ([]dto.ProductRecord, error) {
	list, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductRecord, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewProductRecord(p))
	}
	return out, nil
}

// DeleteProduct elimina un producto; no falla si no existe.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	return uc.repo.Remove(ctx, id)
}

// ProductExists indica si existe un producto con ese id.
func (uc *ProductUseCase) ProductExists(ctx context.Context, id string) (bool, error) {
	return uc.repo.Exists(ctx, id)
}

// InsertProduct inserta conservando el id del registro; ErrDuplicate si ya existe.
func (uc *ProductUseCase) InsertProduct(ctx context.Context, rec dto.ProductRecord) error {
	product, err := productFromRecord(rec)
	if err != nil {
		return err
	}
	return uc.repo.Add(ctx, product)
}

// ImportProducts crea productos nuevos desde un array JSON de productos.
// Se saltan las entradas sin nombre, sin cantidad o sin fecha de entrada.
func (uc *ProductUseCase) ImportProducts(ctx context.Context, raw []byte) (*dto.ProductImportResult, error) {
	var items []dto.CreateProductRequest
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: se esperaba un array de productos: %v", domain.ErrMalformedInput, err)
	}
	res := &dto.ProductImportResult{}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" || it.Quantity == 0 || it.EntryDate == "" {
			res.Skipped++
			continue
		}
		if _, err := uc.AddProduct(ctx, it); err != nil {
			return res, err
		}
		res.Imported++
	}
	return res, nil
}

// ExportProducts devuelve todos los productos como array JSON indentado.
func (uc *ProductUseCase) ExportProducts(ctx context.Context) ([]byte, error) {
	list, err := uc.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal products: %w", err)
	}
	return b, nil
}

func productFromRecord(rec dto.ProductRecord) (*entity.Product, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if rec.Quantity < 0 {
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	product, err := rec.ToEntity()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return product, nil
}
