package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"product-store/internal/database"
	"product-store/internal/handler"
	"product-store/internal/model"
	"product-store/internal/repository"
	"product-store/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupServer wires the full stack against a PostgreSQL testcontainer.
func setupServer(t *testing.T) (*httptest.Server, *pgxpool.Pool) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(connStr, logger))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := repository.NewProductRepository(pool, logger)
	svc := service.NewProductService(repo, logger)
	srv := httptest.NewServer(New(handler.NewProductHandler(svc, logger), logger))
	t.Cleanup(srv.Close)

	return srv, pool
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRouter_ProductLifecycle(t *testing.T) {
	srv, _ := setupServer(t)

	// Create
	resp := do(t, srv, http.MethodPost, "/product/add",
		`{"name":"Bolt","category":"raw","sku":"BLT-001","unit_of_measure":"unit"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	created := decode[model.Product](t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, created.CreatedDate, created.UpdatedDate)
	assert.Nil(t, created.LeadTime)

	// Get
	resp = do(t, srv, http.MethodGet, "/product/1/info", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[model.Product](t, resp)
	assert.True(t, created.CreatedDate.Equal(fetched.CreatedDate))
	assert.Equal(t, created.SKU, fetched.SKU)

	// Update one field
	resp = do(t, srv, http.MethodPut, "/product/1/update", `{"lead_time":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[model.Product](t, resp)
	require.NotNil(t, updated.LeadTime)
	assert.Equal(t, int32(5), *updated.LeadTime)
	assert.Equal(t, "Bolt", updated.Name)
	assert.Equal(t, model.CategoryRaw, updated.Category)
	assert.True(t, updated.UpdatedDate.After(created.UpdatedDate))
	assert.True(t, updated.CreatedDate.Equal(created.CreatedDate))

	// Missing product
	resp = do(t, srv, http.MethodGet, "/product/999/info", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errResp := decode[model.ErrorResponse](t, resp)
	assert.Equal(t, model.ErrCodeProductNotFound, errResp.Error)
	assert.NotEmpty(t, errResp.CorrelationID)

	resp = do(t, srv, http.MethodPut, "/product/999/update", `{"name":"Nut"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_DuplicateSKU(t *testing.T) {
	srv, pool := setupServer(t)

	body := `{"name":"Bolt","category":"raw","sku":"BLT-001","unit_of_measure":"unit"}`

	resp := do(t, srv, http.MethodPost, "/product/add", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/product/add", body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	errResp := decode[model.ErrorResponse](t, resp)
	assert.Equal(t, model.ErrCodeStorage, errResp.Error)
	assert.Contains(t, errResp.Message, "BLT-001")

	var count int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM product").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRouter_ListPagination(t *testing.T) {
	srv, _ := setupServer(t)

	resp := do(t, srv, http.MethodGet, "/product/list", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]model.Product](t, resp))

	for _, sku := range []string{"A-1", "A-2", "A-3", "A-4", "A-5"} {
		resp := do(t, srv, http.MethodPost, "/product/add",
			`{"name":"Item","category":"finished","sku":"`+sku+`","unit_of_measure":"pack"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp = do(t, srv, http.MethodGet, "/product/list?skip=0&limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	head := decode[[]model.Product](t, resp)
	assert.Len(t, head, 2)

	resp = do(t, srv, http.MethodGet, "/product/list?skip=2&limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tail := decode[[]model.Product](t, resp)
	assert.Len(t, tail, 3)

	for _, h := range head {
		for _, p := range tail {
			assert.NotEqual(t, h.ID, p.ID)
		}
	}

	resp = do(t, srv, http.MethodGet, "/product/list?skip=-1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRouter_ValidationAndRouting(t *testing.T) {
	srv, _ := setupServer(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "Unknown category", method: http.MethodPost, path: "/product/add",
			body: `{"name":"Bolt","category":"liquid","sku":"X","unit_of_measure":"unit"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "Missing sku", method: http.MethodPost, path: "/product/add",
			body: `{"name":"Bolt","category":"raw","unit_of_measure":"unit"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "Null on required field", method: http.MethodPut, path: "/product/1/update",
			body: `{"name":null}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "Non-numeric id", method: http.MethodGet, path: "/product/abc/info", expectedStatus: http.StatusUnprocessableEntity},
		{name: "Unknown route", method: http.MethodGet, path: "/products", expectedStatus: http.StatusNotFound},
		{name: "Wrong method", method: http.MethodDelete, path: "/product/1/info", expectedStatus: http.StatusMethodNotAllowed},
		{name: "Health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
