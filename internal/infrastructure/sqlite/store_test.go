package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s := sqlite.NewStore(filepath.Join(t.TempDir(), "inventario.db"), zerolog.Nop())
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// ── Ciclo de vida ───────────────────────────────────────────────────────────

func TestOpen_SiembraAdminUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	assert.True(t, s.Initialized())
	assert.Equal(t, []string{repository.CollectionUsers, repository.CollectionProducts, repository.CollectionDeliveries}, s.Collections())

	admin, err := s.Users().GetByID(ctx, entity.DefaultAdminID)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, entity.DefaultAdminEmail, admin.Email)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	// Si el admin se borra, un Open posterior no lo vuelve a crear.
	require.NoError(t, s.Users().Remove(ctx, entity.DefaultAdminID))
	require.NoError(t, s.Open(ctx))
	all, err := s.Users().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpen_PersisteEntreAperturas(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventario.db")

	s := sqlite.NewStore(path, zerolog.Nop())
	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.Products().Add(ctx, &entity.Product{ID: "p1", Name: "Filtro", Quantity: 3, EntryDate: time.Now()}))
	require.NoError(t, s.Close())
	assert.False(t, s.Initialized())

	s2 := sqlite.NewStore(path, zerolog.Nop())
	require.NoError(t, s2.Open(ctx))
	defer s2.Close()
	ok, err := s2.Products().Exists(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReset_VuelveASembrar(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Products().Add(ctx, &entity.Product{ID: "p1", Name: "Filtro", EntryDate: time.Now()}))

	require.NoError(t, s.Reset(ctx))
	assert.False(t, s.Initialized())
	products, err := s.Products().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	require.NoError(t, s.Open(ctx))
	ok, err := s.Users().Exists(ctx, entity.DefaultAdminID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepos_SinAbrirDevuelvenStoreUnavailable(t *testing.T) {
	s := sqlite.NewStore(filepath.Join(t.TempDir(), "x.db"), zerolog.Nop())
	_, err := s.Products().GetAll(context.Background())
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// ── Repositorios ────────────────────────────────────────────────────────────

func TestUserRepo_Duplicados(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Users()

	require.NoError(t, repo.Add(ctx, &entity.User{ID: "2", Username: "ana", Email: "ana@x.com", Role: entity.RoleCommercial}))

	err := repo.Add(ctx, &entity.User{ID: "2", Username: "otra", Email: "otra@x.com", Role: entity.RoleCommercial})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "id repetido")

	err = repo.Add(ctx, &entity.User{ID: "3", Username: "ana2", Email: "ana@x.com", Role: entity.RoleCommercial})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "email repetido")

	err = repo.Add(ctx, &entity.User{ID: "4", Username: "ana", Email: "nueva@x.com", Role: entity.RoleCommercial})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "username repetido")
}

func TestUserRepo_PutReemplaza(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Users()

	require.NoError(t, repo.Put(ctx, &entity.User{ID: "1", Username: "admin", Email: entity.DefaultAdminEmail, Role: entity.RoleWarehouseManager}))
	u, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWarehouseManager, u.Role)
}

func TestProductRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Products()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	p := &entity.Product{ID: "p1", Name: "Ventilador", Quantity: 10, EntryDate: entry, Barcode: "7701"}
	require.NoError(t, repo.Add(ctx, p))
	assert.ErrorIs(t, repo.Add(ctx, p), domain.ErrDuplicate)

	p.Quantity = 6
	require.NoError(t, repo.Put(ctx, p))
	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 6, got.Quantity)
	assert.True(t, entry.Equal(got.EntryDate))
	assert.Equal(t, "7701", got.Barcode)

	require.NoError(t, repo.Remove(ctx, "p1"))
	require.NoError(t, repo.Remove(ctx, "p1"), "borrar inexistente no falla")
	ok, err := repo.Exists(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepo_CantidadNegativaEsErrorIO(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Products()
	err := repo.Put(ctx, &entity.Product{ID: "p1", Name: "X", Quantity: -1, EntryDate: time.Now()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIO))
}

func TestDeliveryRepo_GuardaLineas(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).Deliveries()
	d := &entity.Delivery{
		ID: "d1", CommercialManager: "Ana", LogisticsManager: "Luis",
		Date:     time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		Products: []entity.DeliveryItem{{ProductID: "p1", Quantity: 4}, {ProductID: "p9", Quantity: 1, ProductName: "Rejilla"}},
		Status:   entity.DeliveryStatusPending,
	}
	require.NoError(t, repo.Add(ctx, d))

	got, err := repo.GetByID(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Products, got.Products)
	assert.Equal(t, entity.DeliveryStatusPending, got.Status)

	got.Status = entity.DeliveryStatusCompleted
	require.NoError(t, repo.Put(ctx, got))
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, entity.DeliveryStatusCompleted, all[0].Status)
}

// ── Transacciones ───────────────────────────────────────────────────────────

func TestTxRunner_RollbackAnteError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	runner := sqlite.NewTxRunner(s)
	boom := errors.New("boom")

	err := runner.Run(ctx, func(products repository.ProductRepository, _ repository.DeliveryRepository) error {
		if err := products.Add(ctx, &entity.Product{ID: "p1", Name: "X", EntryDate: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := s.Products().Exists(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTxRunner_Commit(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	err := sqlite.NewTxRunner(s).Run(ctx, func(products repository.ProductRepository, deliveries repository.DeliveryRepository) error {
		if err := products.Add(ctx, &entity.Product{ID: "p1", Name: "X", EntryDate: time.Now()}); err != nil {
			return err
		}
		return deliveries.Add(ctx, &entity.Delivery{ID: "d1", Date: time.Now(), Status: entity.DeliveryStatusPending})
	})
	require.NoError(t, err)

	ok, err := s.Deliveries().Exists(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, ok)
}
