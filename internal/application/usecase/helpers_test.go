package usecase_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/sqlite"
)

type fixture struct {
	store      *sqlite.Store
	products   *usecase.ProductUseCase
	users      *usecase.UserUseCase
	deliveries *usecase.DeliveryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "inventario.db"), zerolog.Nop())
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return &fixture{
		store:      store,
		products:   usecase.NewProductUseCase(store.Products()),
		users:      usecase.NewUserUseCase(store.Users()),
		deliveries: usecase.NewDeliveryUseCase(store.Deliveries(), store.Products(), sqlite.NewTxRunner(store), zerolog.Nop()),
	}
}

func (f *fixture) addProduct(t *testing.T, name string, qty int, date string) dto.ProductRecord {
	t.Helper()
	p, err := f.products.AddProduct(context.Background(), dto.CreateProductRequest{Name: name, Quantity: qty, EntryDate: date})
	require.NoError(t, err)
	return *p
}

func (f *fixture) addDelivery(t *testing.T, items ...dto.DeliveryItemRecord) dto.DeliveryRecord {
	t.Helper()
	d, err := f.deliveries.AddDelivery(context.Background(), dto.DeliveryRequest{
		CommercialManager: "Ana", LogisticsManager: "Luis", Date: "2024-05-02", Products: items,
	})
	require.NoError(t, err)
	return *d
}
