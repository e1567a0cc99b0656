package postgres_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/systemair-inventario/pkg/config"
)

func TestStore_SinAbrir(t *testing.T) {
	s := postgres.NewStore(config.DBConfig{}, zerolog.Nop())
	assert.False(t, s.Initialized())

	_, err := s.Products().GetByID(context.Background(), "p1")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = s.Users().Exists(context.Background(), "1")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// Integración: sólo corre con TEST_DATABASE_URL apuntando a una base desechable.
func TestStore_Integracion(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	s := postgres.NewStore(config.DBConfig{DatabaseURL: url}, zerolog.Nop())
	require.NoError(t, s.Open(ctx))
	t.Cleanup(func() {
		_ = s.Reset(ctx)
		_ = s.Close()
	})
	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.Open(ctx))

	admin, err := s.Users().GetByID(ctx, entity.DefaultAdminID)
	require.NoError(t, err)
	require.NotNil(t, admin)

	p := &entity.Product{ID: "p1", Name: "Ventilador", Quantity: 10, EntryDate: time.Now().UTC()}
	require.NoError(t, s.Products().Add(ctx, p))
	assert.ErrorIs(t, s.Products().Add(ctx, p), domain.ErrDuplicate)

	d := &entity.Delivery{
		ID: "d1", CommercialManager: "Ana", LogisticsManager: "Luis", Date: time.Now().UTC(),
		Products: []entity.DeliveryItem{{ProductID: "p1", Quantity: 4}},
		Status:   entity.DeliveryStatusPending,
	}
	require.NoError(t, s.Deliveries().Add(ctx, d))
	got, err := s.Deliveries().GetByID(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Products, got.Products)
}

// Integración: completados concurrentes de la misma entrega con el pool real.
func TestCompleteDelivery_ConcurrenteBloqueaFila(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	s := postgres.NewStore(config.DBConfig{DatabaseURL: url}, zerolog.Nop())
	require.NoError(t, s.Open(ctx))
	t.Cleanup(func() {
		_ = s.Reset(ctx)
		_ = s.Close()
	})
	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.Open(ctx))

	require.NoError(t, s.Products().Add(ctx, &entity.Product{ID: "p1", Name: "Ventilador", Quantity: 10, EntryDate: time.Now().UTC()}))
	require.NoError(t, s.Products().Add(ctx, &entity.Product{ID: "p2", Name: "Clapet", Quantity: 10, EntryDate: time.Now().UTC()}))
	for _, id := range []string{"d1", "d2"} {
		require.NoError(t, s.Deliveries().Add(ctx, &entity.Delivery{
			ID: id, CommercialManager: "Ana", LogisticsManager: "Luis", Date: time.Now().UTC(),
			Products: []entity.DeliveryItem{{ProductID: "p1", Quantity: 4}, {ProductID: "p2", Quantity: 1}},
			Status:   entity.DeliveryStatusPending,
		}))
	}
	uc := usecase.NewDeliveryUseCase(s.Deliveries(), s.Products(), postgres.NewTxRunner(s), zerolog.Nop())

	const perDelivery = 4
	var (
		wg sync.WaitGroup
		ok atomic.Int32
	)
	for _, id := range []string{"d1", "d2"} {
		for i := 0; i < perDelivery; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := uc.CompleteDelivery(ctx, id)
				if err == nil {
					ok.Add(1)
					return
				}
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			}(id)
		}
	}
	wg.Wait()

	assert.Equal(t, int32(2), ok.Load(), "cada entrega se completa una sola vez")
	p1, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p1.Quantity, "dos descuentos de 4 sin pérdidas")
	p2, err := s.Products().GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 8, p2.Quantity)
}
