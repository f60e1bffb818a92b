package service

import (
	"context"
	"testing"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abrirSesion(t *testing.T, svc CajaService, pdv int, montoInicial int64) uuid.UUID {
	t.Helper()
	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		PuntoDeVenta: pdv,
		MontoInicial: decimal.NewFromInt(montoInicial),
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.SesionCajaID)
	require.NoError(t, err)
	return id
}

func TestAbrirCajaDuplicada(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)

	abrirSesion(t, svc, 1, 10000)

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		PuntoDeVenta: 1,
		MontoInicial: decimal.NewFromInt(5000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya existe una caja abierta")

	// A different punto de venta is unaffected.
	abrirSesion(t, svc, 2, 5000)
}

func TestRegistrarMovimientoEgreso(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)
	sesionID := abrirSesion(t, svc, 1, 10000)

	err := svc.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "egreso_manual",
		MetodoPago:   "efectivo",
		Monto:        decimal.NewFromInt(2000),
		Descripcion:  "Pago proveedor hielo",
	})
	require.NoError(t, err)

	require.Len(t, repo.movimientos, 1)
	assert.True(t, repo.movimientos[0].Monto.Equal(decimal.NewFromInt(-2000)))
}

func TestRegistrarMovimientoMontoInvalido(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)
	sesionID := abrirSesion(t, svc, 1, 10000)

	err := svc.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesionID.String(),
		Tipo:         "ingreso_manual",
		MetodoPago:   "efectivo",
		Monto:        decimal.NewFromInt(-500),
		Descripcion:  "monto negativo",
	})
	assert.Error(t, err)
	assert.Empty(t, repo.movimientos)
}

func cerrarCon(t *testing.T, svc CajaService, sesionID uuid.UUID, efectivo int64, obs *string) (*dto.ArqueoResponse, error) {
	t.Helper()
	return svc.Arqueo(context.Background(), dto.ArqueoRequest{
		SesionCajaID:  sesionID.String(),
		Declaracion:   dto.MontosPorMetodo{Efectivo: decimal.NewFromInt(efectivo)},
		Observaciones: obs,
	})
}

func TestArqueoNormal(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)
	sesionID := abrirSesion(t, svc, 1, 10000)

	metodo := "efectivo"
	repo.movimientos = append(repo.movimientos, model.MovimientoCaja{
		SesionCajaID: sesionID,
		Tipo:         "venta",
		MetodoPago:   &metodo,
		Monto:        decimal.NewFromInt(5000),
	})

	// Counted exactly what is expected: 10000 initial + 5000 in sales.
	resp, err := cerrarCon(t, svc, sesionID, 15000, nil)
	require.NoError(t, err)

	assert.True(t, resp.MontoEsperado.Total.Equal(decimal.NewFromInt(15000)))
	assert.True(t, resp.Desvio.Monto.IsZero())
	assert.Equal(t, "normal", resp.Desvio.Clasificacion)
	assert.Equal(t, "cerrada", resp.Estado)

	sesion, _ := repo.FindSesionByID(context.Background(), sesionID)
	assert.Equal(t, "cerrada", sesion.Estado)
	require.NotNil(t, sesion.ClosedAt)
}

func TestArqueoAdvertencia(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)
	sesionID := abrirSesion(t, svc, 1, 10000)

	metodo := "efectivo"
	repo.movimientos = append(repo.movimientos, model.MovimientoCaja{
		SesionCajaID: sesionID,
		Tipo:         "venta",
		MetodoPago:   &metodo,
		Monto:        decimal.NewFromInt(5000),
	})

	// 300 over 15000 expected: 2%, inside the warning band.
	resp, err := cerrarCon(t, svc, sesionID, 15300, nil)
	require.NoError(t, err)

	assert.True(t, resp.Desvio.Monto.Equal(decimal.NewFromInt(300)))
	assert.True(t, resp.Desvio.Porcentaje.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "advertencia", resp.Desvio.Clasificacion)
}

func TestArqueoCriticoRequiereObservaciones(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)
	sesionID := abrirSesion(t, svc, 1, 10000)

	// 1000 short on 10000 expected: 10%, critical.
	_, err := cerrarCon(t, svc, sesionID, 9000, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "observaciones")

	// The session must still be open after the rejection.
	sesion, _ := repo.FindSesionByID(context.Background(), sesionID)
	assert.Equal(t, "abierta", sesion.Estado)

	obs := "Faltante reconocido por el cajero, se descuenta de liquidación"
	resp, err := cerrarCon(t, svc, sesionID, 9000, &obs)
	require.NoError(t, err)
	assert.Equal(t, "critico", resp.Desvio.Clasificacion)
	assert.True(t, resp.Desvio.Monto.Equal(decimal.NewFromInt(-1000)))
}

func TestArqueoSesionYaCerrada(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)
	sesionID := abrirSesion(t, svc, 1, 10000)

	_, err := cerrarCon(t, svc, sesionID, 10000, nil)
	require.NoError(t, err)

	_, err = cerrarCon(t, svc, sesionID, 10000, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cerrada")
}

func TestClasificarDesvio(t *testing.T) {
	cases := []struct {
		pct  string
		want string
	}{
		{"0", "normal"},
		{"1", "normal"},
		{"-1", "normal"},
		{"1.01", "advertencia"},
		{"5", "advertencia"},
		{"-3.2", "advertencia"},
		{"5.01", "critico"},
		{"-10", "critico"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, clasificarDesvio(decimal.RequireFromString(tc.pct)), "pct %s", tc.pct)
	}
}

func TestReporteCaja(t *testing.T) {
	repo := newStubCajaRepo()
	svc := NewCajaService(repo)
	sesionID := abrirSesion(t, svc, 3, 20000)

	metodo := "debito"
	repo.movimientos = append(repo.movimientos, model.MovimientoCaja{
		SesionCajaID: sesionID,
		Tipo:         "venta",
		MetodoPago:   &metodo,
		Monto:        decimal.NewFromInt(7990),
	})

	reporte, err := svc.ObtenerReporte(context.Background(), sesionID)
	require.NoError(t, err)

	assert.Equal(t, 3, reporte.PuntoDeVenta)
	assert.Equal(t, "abierta", reporte.Estado)
	assert.True(t, reporte.MontoEsperado.Efectivo.Equal(decimal.NewFromInt(20000)))
	assert.True(t, reporte.MontoEsperado.Debito.Equal(decimal.NewFromInt(7990)))
	assert.True(t, reporte.MontoEsperado.Total.Equal(decimal.NewFromInt(27990)))
	assert.Nil(t, reporte.Desvio)
}
