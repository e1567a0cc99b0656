package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/systemair-inventario/internal/application/auth"
	"github.com/jhoicas/systemair-inventario/internal/application/datasync"
	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/settings"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/systemair-inventario/internal/interfaces/http"
)

type pdfStub struct{}

func (pdfStub) GenerateDeliveryNote(context.Context, *entity.Delivery, []usecase.DeliveryNoteLine) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

// buildAPI arma la API completa sobre un almacén SQLite temporal.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	log := zerolog.Nop()
	store := sqlite.NewStore(filepath.Join(dir, "api.db"), log)

	users := usecase.NewUserUseCase(store.Users())
	products := usecase.NewProductUseCase(store.Products())
	deliveries := usecase.NewDeliveryUseCase(store.Deliveries(), store.Products(), sqlite.NewTxRunner(store), log)
	metrics := datasync.NewMetrics()
	svc := datasync.NewService(users, products, deliveries, metrics, log)
	scheduler := datasync.NewScheduler(svc, settings.NewTOMLStore(filepath.Join(dir, "sync.toml")), metrics, log)
	scheduler.Setup()
	t.Cleanup(scheduler.Close)

	status := usecase.NewStatusUseCase(store, scheduler, log)
	require.NoError(t, status.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	authUC, err := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, "password")
	require.NoError(t, err)

	app := apphttp.NewApp(fiber.Config{})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		UserUC:         users,
		ProductUC:      products,
		StockUC:        usecase.NewStockUseCase(store.Products()),
		DeliveryUC:     deliveries,
		DeliveryNoteUC: usecase.NewDeliveryNoteUseCase(store.Deliveries(), store.Products(), pdfStub{}),
		DashboardUC:    usecase.NewDashboardUseCase(store.Products(), store.Deliveries()),
		StatusUC:       status,
		SyncService:    svc,
		Scheduler:      scheduler,
		Metrics:        metrics,
		JWTSecret:      testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func TestAPI_FlujoEntrega(t *testing.T) {
	app := buildAPI(t)
	admin := login(t, app, entity.DefaultAdminEmail, "")

	resp, body := call(t, app, http.MethodPost, "/api/products", admin, dto.CreateProductRequest{Name: "Ventilador K 125", Quantity: 10, EntryDate: "2024-01-10"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p dto.ProductRecord
	require.NoError(t, json.Unmarshal(body, &p))

	resp, body = call(t, app, http.MethodPost, "/api/deliveries", admin, dto.DeliveryRequest{
		CommercialManager: "Ana", LogisticsManager: "Luis", Date: "2024-05-02",
		Products: []dto.DeliveryItemRecord{{ProductID: p.ID, Quantity: 4}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var d dto.DeliveryRecord
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, entity.DeliveryStatusPending, d.Status)

	resp, body = call(t, app, http.MethodPost, "/api/deliveries/"+d.ID+"/complete", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var res dto.CompletionResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, entity.DeliveryStatusCompleted, res.Delivery.Status)

	resp, body = call(t, app, http.MethodGet, "/api/products/"+p.ID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 6, p.Quantity)

	resp, body = call(t, app, http.MethodPost, "/api/deliveries/"+d.ID+"/complete", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_TRANSITION")

	resp, _ = call(t, app, http.MethodGet, "/api/deliveries/"+d.ID+"/note", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "nota-entrega-")

	resp, _ = call(t, app, http.MethodPost, "/api/deliveries/nope/cancel", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_PermisosPorRol(t *testing.T) {
	app := buildAPI(t)
	admin := login(t, app, entity.DefaultAdminEmail, "")

	resp, body := call(t, app, http.MethodPost, "/api/users", admin, dto.CreateUserRequest{Username: "ana", Email: "ana@systemair.com", Role: entity.RoleCommercial})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@systemair.com", Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	commercial := login(t, app, "ana@systemair.com", "password")
	resp, _ = call(t, app, http.MethodPost, "/api/products", commercial, dto.CreateProductRequest{Name: "X", Quantity: 1, EntryDate: "2024-01-10"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/stock?filter=low", commercial, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/stock?filter=raro", commercial, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/auth/me", commercial, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.SessionResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "ana", me.User.Username)
	assert.True(t, me.Permissions["stock"].View)
	assert.False(t, me.Permissions["products"].View)

	resp, body = call(t, app, http.MethodPost, "/api/users", admin, dto.CreateUserRequest{Username: "otra", Email: "ana@systemair.com", Role: entity.RoleCommercial})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "EMAIL_EXISTS")
}

func TestAPI_SyncExportImport(t *testing.T) {
	app := buildAPI(t)
	admin := login(t, app, entity.DefaultAdminEmail, "")

	resp, body := call(t, app, http.MethodGet, "/api/sync/export", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "systemair-export-")

	req := httptest.NewRequest(http.MethodPost, "/api/sync/import", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+admin)
	req.Header.Set("Content-Type", "application/json")
	r2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer r2.Body.Close()
	require.Equal(t, http.StatusOK, r2.StatusCode)
	var report dto.ImportReport
	require.NoError(t, json.NewDecoder(r2.Body).Decode(&report))
	assert.Equal(t, 1, report.Users.Updated)

	req = httptest.NewRequest(http.MethodPost, "/api/sync/import", bytes.NewReader([]byte(`{"products":[]}`)))
	req.Header.Set("Authorization", "Bearer "+admin)
	r3, err := app.Test(req, -1)
	require.NoError(t, err)
	defer r3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, r3.StatusCode)

	interval := 30
	resp, body = call(t, app, http.MethodPut, "/api/sync/config", admin, dto.UpdateSyncConfigRequest{SyncInterval: &interval})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var cfg dto.SyncConfigResponse
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, 30, cfg.SyncInterval)
	assert.False(t, cfg.AutoSync)

	resp, body = call(t, app, http.MethodPost, "/api/sync/run", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var run dto.SyncResult
	require.NoError(t, json.Unmarshal(body, &run))
	assert.True(t, run.Success)
	assert.NotNil(t, run.Config.LastSuccessfulSync)

	resp, body = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "systemair_datasync_sync_total")
}

func TestAPI_StatusYReset(t *testing.T) {
	app := buildAPI(t)
	admin := login(t, app, entity.DefaultAdminEmail, "")

	resp, body := call(t, app, http.MethodGet, "/api/status", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st dto.StatusResponse
	require.NoError(t, json.Unmarshal(body, &st))
	assert.True(t, st.IsInitialized)
	assert.Equal(t, []string{"users", "products", "deliveries"}, st.Stores)

	_, _ = call(t, app, http.MethodPost, "/api/products", admin, dto.CreateProductRequest{Name: "X", Quantity: 1, EntryDate: "2024-01-10"})
	resp, _ = call(t, app, http.MethodPost, "/api/status/reset", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/products", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}
