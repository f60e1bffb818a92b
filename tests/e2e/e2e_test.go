//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/infra"
	"tiendapos/internal/repository"
	"tiendapos/internal/router"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // supervisor-capable admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tiendapos_test"),
		tcPostgres.WithUsername("tiendapos"),
		tcPostgres.WithPassword("tiendapos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		TasaIVA:            decimal.RequireFromString("0.19"),
		RefundPolicy:       config.RefundPolicyClamp,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin through the service so the hash is a real bcrypt hash.
	authSvc := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
	_, err = authSvc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "admin.e2e",
		Nombre:   "Admin E2E",
		Password: "tiendapos2026",
		Rol:      "administrador",
	})
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "tiendapos2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) crearProducto(t *testing.T, barcode, nombre string, precioVenta, stockInicial float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo_barras": barcode,
			"nombre":        nombre,
			"categoria":     "abarrotes",
			"precio_costo":  precioVenta / 2,
			"precio_venta":  precioVenta,
			"stock_inicial": stockInicial,
			"stock_minimo":  2,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func (env *testEnv) abrirCaja(t *testing.T, pdv int, montoInicial float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"punto_de_venta": pdv, "monto_inicial": montoInicial}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var caja struct {
		SesionCajaID string `json:"sesion_caja_id"`
	}
	decodeJSON(t, resp, &caja)
	return caja.SesionCajaID
}

type ventaJSON struct {
	ID           string  `json:"id"`
	NumeroBoleta int     `json:"numero_boleta"`
	Neto         float64 `json:"neto,string"`
	IVA          float64 `json:"iva,string"`
	Total        float64 `json:"total,string"`
	Vuelto       float64 `json:"vuelto,string"`
	Estado       string  `json:"estado"`
	Items        []struct {
		ID string `json:"id"`
	} `json:"items"`
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloVentaCompleto(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "7890001000001", "Bebida 500ml", 1190, 20)
	sesionID := env.abrirCaja(t, 1, 10000)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"sesion_caja_id": sesionID,
			"metodo_pago":    "efectivo",
			"monto_pagado":   3000,
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 2, "precio_unitario": 1190},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)

	var venta ventaJSON
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, 1, venta.NumeroBoleta)
	assert.Equal(t, "completada", venta.Estado)
	assert.InDelta(t, 2380, venta.Total, 0.001)
	assert.InDelta(t, 2000, venta.Neto, 0.001)
	assert.InDelta(t, 380, venta.IVA, 0.001)
	assert.InDelta(t, 620, venta.Vuelto, 0.001)

	// Lookup by boleta number
	byBoleta := do(t, env.server, "GET", "/v1/ventas/boleta/1", nil, env.token)
	require.Equal(t, http.StatusOK, byBoleta.StatusCode)
	var misma ventaJSON
	decodeJSON(t, byBoleta, &misma)
	assert.Equal(t, venta.ID, misma.ID)

	missing := do(t, env.server, "GET", "/v1/ventas/boleta/99999", nil, env.token)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()

	// List today's sales
	listResp := do(t, env.server, "GET", "/v1/ventas", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()
}

func TestE2E_NumeracionConsecutiva(t *testing.T) {
	env := setupTestEnv(t)
	prodID := env.crearProducto(t, "7890001000002", "Galletas", 990, 50)

	for esperado := 1; esperado <= 3; esperado++ {
		resp := do(t, env.server, "POST", "/v1/ventas",
			jsonBody(t, map[string]any{
				"metodo_pago": "debito",
				"items": []map[string]any{
					{"producto_id": prodID, "cantidad": 1, "precio_unitario": 990},
				},
			}), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var venta ventaJSON
		decodeJSON(t, resp, &venta)
		assert.Equal(t, esperado, venta.NumeroBoleta)
	}
}

func TestE2E_DevolucionRestauraStock(t *testing.T) {
	env := setupTestEnv(t)
	prodID := env.crearProducto(t, "7890001000003", "Leche 1L", 1200, 10)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"metodo_pago": "efectivo",
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 3, "precio_unitario": 1200},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta ventaJSON
	decodeJSON(t, ventaResp, &venta)
	require.Len(t, venta.Items, 1)

	devResp := do(t, env.server, "POST", "/v1/devoluciones",
		jsonBody(t, map[string]any{
			"venta_id": venta.ID,
			"items": []map[string]any{
				{"venta_item_id": venta.Items[0].ID, "cantidad": 1},
			},
		}), env.token)
	require.Equal(t, http.StatusOK, devResp.StatusCode)
	var dev struct {
		TotalDevuelto float64 `json:"total_devuelto,string"`
		NuevoTotal    float64 `json:"nuevo_total,string"`
		Estado        string  `json:"estado"`
	}
	decodeJSON(t, devResp, &dev)
	assert.InDelta(t, 1200, dev.TotalDevuelto, 0.001)
	assert.InDelta(t, 2400, dev.NuevoTotal, 0.001)
	assert.Equal(t, "devolucion_parcial", dev.Estado)

	// Stock: 10 - 3 + 1 = 8
	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Stock float64 `json:"stock,string"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.InDelta(t, 8, prod.Stock, 0.001)
}

func TestE2E_ConsultaPrecioPublica(t *testing.T) {
	env := setupTestEnv(t)
	env.crearProducto(t, "7890001000004", "Mantequilla 250g", 2890, 5)

	// No token: the price checker endpoint is public.
	resp := do(t, env.server, "GET", "/v1/precio/7890001000004", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var precio struct {
		Nombre      string  `json:"nombre"`
		PrecioVenta float64 `json:"precio_venta,string"`
	}
	decodeJSON(t, resp, &precio)
	assert.Equal(t, "Mantequilla 250g", precio.Nombre)
	assert.InDelta(t, 2890, precio.PrecioVenta, 0.001)

	// Second hit comes from the Redis cache and must agree.
	again := do(t, env.server, "GET", "/v1/precio/7890001000004", nil, "")
	require.Equal(t, http.StatusOK, again.StatusCode)
	var precio2 struct {
		PrecioVenta float64 `json:"precio_venta,string"`
	}
	decodeJSON(t, again, &precio2)
	assert.InDelta(t, precio.PrecioVenta, precio2.PrecioVenta, 0.001)

	notFound := do(t, env.server, "GET", "/v1/precio/0000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	notFound.Body.Close()
}

func TestE2E_ArqueoCaja(t *testing.T) {
	env := setupTestEnv(t)
	prodID := env.crearProducto(t, "7890001000005", "Pan de Molde", 1990, 15)
	sesionID := env.abrirCaja(t, 2, 5000)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"sesion_caja_id": sesionID,
			"metodo_pago":    "efectivo",
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 1, "precio_unitario": 1990},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	ventaResp.Body.Close()

	// Blind count matches exactly: 5000 initial + 1990 cash sale.
	arqueoResp := do(t, env.server, "POST", "/v1/caja/arqueo",
		jsonBody(t, map[string]any{
			"sesion_caja_id": sesionID,
			"declaracion":    map[string]any{"efectivo": 6990},
		}), env.token)
	require.Equal(t, http.StatusOK, arqueoResp.StatusCode)
	var arqueo struct {
		Desvio struct {
			Monto         float64 `json:"monto,string"`
			Clasificacion string  `json:"clasificacion"`
		} `json:"desvio"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, arqueoResp, &arqueo)
	assert.Equal(t, "cerrada", arqueo.Estado)
	assert.Equal(t, "normal", arqueo.Desvio.Clasificacion)
	assert.InDelta(t, 0, arqueo.Desvio.Monto, 0.001)

	// A second arqueo on the same session must fail.
	repetido := do(t, env.server, "POST", "/v1/caja/arqueo",
		jsonBody(t, map[string]any{
			"sesion_caja_id": sesionID,
			"declaracion":    map[string]any{"efectivo": 6990},
		}), env.token)
	assert.Equal(t, http.StatusBadRequest, repetido.StatusCode)
	repetido.Body.Close()
}

func TestE2E_CompraRecibidaEntraStock(t *testing.T) {
	env := setupTestEnv(t)
	prodID := env.crearProducto(t, "7890001000006", "Harina 1kg", 1490, 0)

	provResp := do(t, env.server, "POST", "/v1/proveedores",
		jsonBody(t, map[string]any{
			"razon_social": "Distribuidora Sur SpA",
			"rut":          "76.123.456-7",
		}), env.token)
	require.Equal(t, http.StatusCreated, provResp.StatusCode)
	var prov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, provResp, &prov)

	compraResp := do(t, env.server, "POST", "/v1/compras",
		jsonBody(t, map[string]any{
			"proveedor_id": prov.ID,
			"folio":        "F-555",
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 30, "costo_unitario": 800},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, compraResp.StatusCode)
	var compra struct {
		ID     string  `json:"id"`
		Neto   float64 `json:"neto,string"`
		IVA    float64 `json:"iva,string"`
		Total  float64 `json:"total,string"`
		Estado string  `json:"estado"`
	}
	decodeJSON(t, compraResp, &compra)
	assert.Equal(t, "borrador", compra.Estado)
	assert.InDelta(t, 24000, compra.Neto, 0.001)
	assert.InDelta(t, 4560, compra.IVA, 0.001)
	assert.InDelta(t, 28560, compra.Total, 0.001)

	recibirResp := do(t, env.server, "POST", fmt.Sprintf("/v1/compras/%s/recibir", compra.ID), nil, env.token)
	require.Equal(t, http.StatusOK, recibirResp.StatusCode)
	recibirResp.Body.Close()

	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Stock       float64 `json:"stock,string"`
		PrecioCosto float64 `json:"precio_costo,string"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.InDelta(t, 30, prod.Stock, 0.001)
	assert.InDelta(t, 800, prod.PrecioCosto, 0.001)
}
