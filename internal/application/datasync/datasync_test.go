package datasync_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/systemair-inventario/internal/application/datasync"
	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/sqlite"
)

type env struct {
	svc        *datasync.Service
	users      *usecase.UserUseCase
	products   *usecase.ProductUseCase
	deliveries *usecase.DeliveryUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "sync.db"), zerolog.Nop())
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	e := &env{
		users:    usecase.NewUserUseCase(store.Users()),
		products: usecase.NewProductUseCase(store.Products()),
	}
	e.deliveries = usecase.NewDeliveryUseCase(store.Deliveries(), store.Products(), sqlite.NewTxRunner(store), zerolog.Nop())
	e.svc = datasync.NewService(e.users, e.products, e.deliveries, datasync.NewMetrics(), zerolog.Nop())
	return e
}

func product(id, name string, qty int) dto.ProductRecord {
	return dto.ProductRecord{ID: id, Name: name, Quantity: qty, EntryDate: "2024-03-01T00:00:00.000Z"}
}

// importSnapshot serializa snap y lo importa como lo haría un archivo recibido.
func (e *env) importSnapshot(t *testing.T, snap dto.Snapshot) *dto.ImportReport {
	t.Helper()
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	report, err := e.svc.ImportData(context.Background(), raw)
	require.NoError(t, err)
	return report
}

// ── Codec ───────────────────────────────────────────────────────────────────

func TestParseSnapshot_Errores(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"no es JSON", `{products:`, domain.ErrMalformedInput},
		{"vacío", ``, domain.ErrMalformedInput},
		{"arreglo", `[]`, domain.ErrInvalidSnapshotFormat},
		{"objeto vacío", `{}`, domain.ErrInvalidSnapshotFormat},
		{"falta users", `{"products":[],"deliveries":[],"timestamp":"2024-01-01T00:00:00.000Z"}`, domain.ErrInvalidSnapshotFormat},
		{"users null", `{"products":[],"deliveries":[],"users":null,"timestamp":"2024-01-01T00:00:00.000Z"}`, domain.ErrInvalidSnapshotFormat},
		{"products no es arreglo", `{"products":"x","deliveries":[],"users":[],"timestamp":"t"}`, domain.ErrInvalidSnapshotFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := datasync.ParseSnapshot([]byte(tt.raw))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseSnapshot_Valido(t *testing.T) {
	snap, err := datasync.ParseSnapshot([]byte(`{"products":[],"deliveries":[],"users":[{"id":"9","username":"u","email":"u@x","role":"admin"}],"timestamp":"2024-01-01T00:00:00.000Z"}`))
	require.NoError(t, err)
	assert.Empty(t, snap.Products)
	require.Len(t, snap.Users, 1)
	assert.JSONEq(t, `{"id":"9","username":"u","email":"u@x","role":"admin"}`, string(snap.Users[0]))
	assert.Equal(t, "2024-01-01T00:00:00.000Z", snap.Timestamp)
}

func TestParseSnapshot_NoValidaRegistrosInternos(t *testing.T) {
	snap, err := datasync.ParseSnapshot([]byte(`{"products":[{"id":"p1","quantity":"lots"},42],"deliveries":[],"users":[],"timestamp":"2024-01-01T00:00:00.000Z"}`))
	require.NoError(t, err)
	assert.Len(t, snap.Products, 2)
}

func TestExportAll_IdaYVuelta(t *testing.T) {
	src := newEnv(t)
	ctx := context.Background()
	require.NoError(t, src.products.InsertProduct(ctx, product("p1", "Clapet", 4)))
	require.NoError(t, src.deliveries.InsertDelivery(ctx, dto.DeliveryRecord{
		ID: "d1", CommercialManager: "Ana", LogisticsManager: "Luis", Date: "2024-05-02T00:00:00.000Z",
		Products: []dto.DeliveryItemRecord{{ProductID: "p1", Quantity: 2}},
		Status:   entity.DeliveryStatusCompleted,
	}))

	raw, err := src.svc.ExportAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"products\": [")

	dst := newEnv(t)
	report, err := dst.svc.ImportData(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, dto.CollectionReport{Inserted: 1}, report.Products)
	assert.Equal(t, dto.CollectionReport{Inserted: 1}, report.Deliveries)
	assert.Equal(t, dto.CollectionReport{Updated: 1}, report.Users, "el admin sembrado ya existe")

	p, err := dst.products.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, product("p1", "Clapet", 4), *p)

	d, err := dst.deliveries.GetDeliveryByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusCompleted, d.Status)
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, 5, 2, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "systemair-export-2024-05-02.json", datasync.ExportFilename(ts))
}

// ── Reconciliación ──────────────────────────────────────────────────────────

func TestImportSnapshot_Fusion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.products.InsertProduct(ctx, product("p1", "Clapet", 5)))
	require.NoError(t, e.products.InsertProduct(ctx, product("p3", "Local", 1)))

	report := e.importSnapshot(t, dto.Snapshot{
		Products:   []dto.ProductRecord{product("p1", "Clapet", 9), product("p2", "Ventilateur", 2)},
		Deliveries: []dto.DeliveryRecord{},
		Users:      []dto.UserRecord{},
		Timestamp:  "2024-05-02T00:00:00.000Z",
	})
	assert.Equal(t, dto.CollectionReport{Inserted: 1, Updated: 1}, report.Products)

	all, err := e.products.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "los registros locales ausentes del snapshot se conservan")

	p1, err := e.products.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 9, p1.Quantity)
}

func TestImportSnapshot_Idempotente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.products.InsertProduct(ctx, product("p1", "Clapet", 5)))

	raw, err := e.svc.ExportAll(ctx)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		report, err := e.svc.ImportData(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, dto.CollectionReport{Updated: 1}, report.Products)
		assert.Zero(t, report.Failed())
	}
	all, err := e.products.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.ProductRecord{product("p1", "Clapet", 5)}, all)
}

func TestImportSnapshot_RegistroInvalidoNoAborta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	report := e.importSnapshot(t, dto.Snapshot{
		Products: []dto.ProductRecord{product("p1", "Clapet", 5)},
		Deliveries: []dto.DeliveryRecord{
			{ID: "d1", CommercialManager: "Ana", LogisticsManager: "Luis", Date: "2024-05-02", Status: "shipped"},
			{ID: "d2", CommercialManager: "Ana", LogisticsManager: "Luis", Date: "2024-05-02", Status: entity.DeliveryStatusPending},
		},
		Users:     []dto.UserRecord{{ID: "7", Username: "admin", Email: "otro@systemair.com", Role: entity.RoleAdmin}},
		Timestamp: "2024-05-02T00:00:00.000Z",
	})
	assert.Equal(t, dto.CollectionReport{Failed: 1}, report.Users, "username duplicado")
	assert.Equal(t, dto.CollectionReport{Inserted: 1}, report.Products)
	assert.Equal(t, dto.CollectionReport{Inserted: 1, Failed: 1}, report.Deliveries)
	assert.Equal(t, 2, report.Failed())

	d2, err := e.deliveries.GetDeliveryByID(ctx, "d2")
	require.NoError(t, err)
	assert.NotNil(t, d2)
}

func TestImportData_RegistroMalFormadoNoAborta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	raw := `{
		"products": [
			{"id":"p1","name":"A","quantity":"lots","entryDate":"2024-03-01T00:00:00.000Z"},
			{"id":"p2","name":"B","quantity":1,"entryDate":"2024-03-01T00:00:00.000Z"},
			{"name":"sin id","quantity":1,"entryDate":"2024-03-01T00:00:00.000Z"},
			"texto",
			null
		],
		"deliveries": [
			{"id":"d1","commercialManager":"Ana","logisticsManager":"Luis","date":"2024-05-02","products":"x","status":"pending"},
			{"id":"d2","commercialManager":"Ana","logisticsManager":"Luis","date":"2024-05-02","products":[{"productId":"p2","quantity":1}],"status":"pending"}
		],
		"users": [
			{"id":7,"username":"u7","email":"u7@x","role":"admin"}
		],
		"timestamp": "2024-05-02T00:00:00.000Z"
	}`

	report, err := e.svc.ImportData(ctx, []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, dto.CollectionReport{Inserted: 1, Failed: 4}, report.Products)
	assert.Equal(t, dto.CollectionReport{Inserted: 1, Failed: 1}, report.Deliveries)
	assert.Equal(t, dto.CollectionReport{Failed: 1}, report.Users)

	p2, err := e.products.GetProductByID(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, p2, "el registro válido se importa aunque otro del mismo arreglo no")
	assert.Equal(t, 1, p2.Quantity)

	p1, err := e.products.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p1)

	d2, err := e.deliveries.GetDeliveryByID(ctx, "d2")
	require.NoError(t, err)
	assert.NotNil(t, d2)
}
