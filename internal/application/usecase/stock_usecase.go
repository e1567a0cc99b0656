package usecase

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// StockUseCase vista de stock: búsqueda por nombre, filtros de nivel y ordenamiento.
type StockUseCase struct {
	repo repository.ProductRepository
	tag  language.Tag
}

// NewStockUseCase construye el caso de uso. Los nombres se ordenan con la colación francesa.
func NewStockUseCase(repo repository.ProductRepository) *StockUseCase {
	return &StockUseCase{repo: repo, tag: language.French}
}

// Query devuelve los productos que cumplen q, ordenados según q.Sort (por defecto nombre).
func (uc *StockUseCase) Query(ctx context.Context, q dto.StockQuery) (*dto.StockView, error) {
	list, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := foldText(strings.TrimSpace(q.Search))

	filtered := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		if needle != "" && !strings.Contains(foldText(p.Name), needle) {
			continue
		}
		if !matchesStockFilter(p, q.Filter) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch q.Sort {
	case dto.StockSortQuantity:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Quantity > filtered[j].Quantity })
	case dto.StockSortDate:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].EntryDate.After(filtered[j].EntryDate) })
	default:
		col := collate.New(uc.tag, collate.IgnoreCase)
		sort.SliceStable(filtered, func(i, j int) bool {
			return col.CompareString(filtered[i].Name, filtered[j].Name) < 0
		})
	}

	out := make([]dto.ProductRecord, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, dto.NewProductRecord(p))
	}
	return &dto.StockView{Products: out, Total: len(out)}, nil
}

// matchesStockFilter: low incluye los agotados (cantidad < 5).
func matchesStockFilter(p *entity.Product, filter string) bool {
	switch filter {
	case dto.StockFilterLow:
		return p.Quantity < entity.LowStockThreshold
	case dto.StockFilterOut:
		return p.Quantity == 0
	case dto.StockFilterAvailable:
		return p.Quantity > 0
	default:
		return true
	}
}

// foldText quita acentos y normaliza mayúsculas para comparar nombres.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
