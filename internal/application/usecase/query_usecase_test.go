package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

func names(v *dto.StockView) []string {
	out := make([]string, 0, len(v.Products))
	for _, p := range v.Products {
		out = append(out, p.Name)
	}
	return out
}

func TestStockQuery_BusquedaSinAcentosYFiltros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(t, "Évaporateur", 3, "2024-01-01")
	f.addProduct(t, "Ventilateur", 0, "2024-02-01")
	f.addProduct(t, "Clapet", 12, "2024-03-01")
	uc := usecase.NewStockUseCase(f.store.Products())

	v, err := uc.Query(ctx, dto.StockQuery{Search: "evap"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Évaporateur"}, names(v))

	v, err = uc.Query(ctx, dto.StockQuery{Filter: dto.StockFilterLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"Évaporateur", "Ventilateur"}, names(v))

	v, err = uc.Query(ctx, dto.StockQuery{Filter: dto.StockFilterOut})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ventilateur"}, names(v))

	v, err = uc.Query(ctx, dto.StockQuery{Filter: dto.StockFilterAvailable})
	require.NoError(t, err)
	assert.Equal(t, 2, v.Total)
}

func TestStockQuery_Orden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(t, "Évaporateur", 3, "2024-01-01")
	f.addProduct(t, "Ventilateur", 1, "2024-02-01")
	f.addProduct(t, "Clapet", 12, "2024-03-01")
	uc := usecase.NewStockUseCase(f.store.Products())

	v, err := uc.Query(ctx, dto.StockQuery{Sort: dto.StockSortName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Clapet", "Évaporateur", "Ventilateur"}, names(v))

	v, err = uc.Query(ctx, dto.StockQuery{Sort: dto.StockSortQuantity})
	require.NoError(t, err)
	assert.Equal(t, []string{"Clapet", "Évaporateur", "Ventilateur"}, names(v))

	v, err = uc.Query(ctx, dto.StockQuery{Sort: dto.StockSortDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"Clapet", "Ventilateur", "Évaporateur"}, names(v))
}

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Ventilateur", 2, "2024-05-10")
	f.addProduct(t, "Clapet", 0, "2024-01-10")
	f.addDelivery(t, dto.DeliveryItemRecord{ProductID: p.ID, Quantity: 1})

	uc := usecase.NewDashboardUseCase(f.store.Products(), f.store.Deliveries())
	s, err := uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 2, s.TotalUnits)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, 1, s.OutOfStockCount)
	assert.Equal(t, 1, s.PendingDeliveries)
	assert.Len(t, s.Monthly, 6)
}

func TestStatus_InitYReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(t, "Clapet", 1, "2024-01-10")

	uc := usecase.NewStatusUseCase(f.store, nil, zerolog.Nop())
	before := uc.Status()
	assert.True(t, before.IsInitialized)
	assert.Nil(t, before.LastSyncTimestamp)
	assert.Equal(t, []string{repository.CollectionUsers, repository.CollectionProducts, repository.CollectionDeliveries}, before.Stores)

	require.NoError(t, uc.Init(ctx))
	assert.NotNil(t, uc.Status().LastSyncTimestamp)

	require.NoError(t, uc.Reset(ctx))
	assert.True(t, uc.Status().IsInitialized)
	all, err := f.products.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	admin, err := f.users.GetUserByID(ctx, entity.DefaultAdminID)
	require.NoError(t, err)
	assert.NotNil(t, admin)
}

type stubGenerator struct {
	lines []usecase.DeliveryNoteLine
}

func (g *stubGenerator) GenerateDeliveryNote(_ context.Context, _ *entity.Delivery, lines []usecase.DeliveryNoteLine) ([]byte, error) {
	g.lines = lines
	return []byte("%PDF-stub"), nil
}

func TestDeliveryNote_ResuelveProductos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Clapet", 5, "2024-01-10")
	d := f.addDelivery(t,
		dto.DeliveryItemRecord{ProductID: p.ID, Quantity: 1},
		dto.DeliveryItemRecord{ProductID: "fantasma", Quantity: 1},
	)
	gen := &stubGenerator{}
	uc := usecase.NewDeliveryNoteUseCase(f.store.Deliveries(), f.store.Products(), gen)

	out, name, err := uc.Download(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(out))
	assert.Equal(t, "nota-entrega-"+d.ID[:8]+".pdf", name)
	require.Len(t, gen.lines, 2)
	assert.Equal(t, "Clapet", gen.lines[0].ProductName)
	assert.Equal(t, "", gen.lines[1].ProductName)

	_, _, err = uc.Download(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
