package service

import (
	"context"
	"testing"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAplicarDeltaRechazaCero(t *testing.T) {
	prodRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := NewStockService(prodRepo, movRepo)

	_, err := svc.AplicarDeltaTx(context.Background(), nil, uuid.New(), decimal.Zero, "ajuste_manual", "nada", nil)
	assert.Error(t, err)
	assert.Empty(t, movRepo.movimientos)
}

func TestAplicarDeltaRegistraMovimiento(t *testing.T) {
	prodRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := NewStockService(prodRepo, movRepo)

	p := prodRepo.add(&model.Producto{
		Nombre:      "Arroz Granel",
		Stock:       decimal.NewFromInt(2),
		PrecioCosto: decimal.NewFromInt(900),
	})
	ref := uuid.New()

	antes, err := svc.AplicarDeltaTx(context.Background(), nil, p.ID, decimal.NewFromInt(5), "compra", "Recepción compra folio F-77", &ref)
	require.NoError(t, err)

	// The returned product is the pre-delta snapshot used for cost capture.
	assert.True(t, antes.Stock.Equal(decimal.NewFromInt(2)))
	assert.True(t, prodRepo.productos[p.ID].Stock.Equal(decimal.NewFromInt(7)))

	require.Len(t, movRepo.movimientos, 1)
	mov := movRepo.movimientos[0]
	assert.Equal(t, p.ID, mov.ProductoID)
	assert.Equal(t, "compra", mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(decimal.NewFromInt(5)))
	assert.True(t, mov.StockAnterior.Equal(decimal.NewFromInt(2)))
	assert.True(t, mov.StockNuevo.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, "Recepción compra folio F-77", mov.Motivo)
	require.NotNil(t, mov.ReferenciaID)
	assert.Equal(t, ref, *mov.ReferenciaID)
}

func TestAplicarDeltaPermiteStockNegativo(t *testing.T) {
	prodRepo := newStubProductoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := NewStockService(prodRepo, movRepo)

	p := prodRepo.add(&model.Producto{Nombre: "Pan", Stock: decimal.NewFromInt(1)})

	_, err := svc.AplicarDeltaTx(context.Background(), nil, p.ID, decimal.NewFromInt(-4), "venta", "Venta boleta N°9", nil)
	require.NoError(t, err)

	assert.True(t, prodRepo.productos[p.ID].Stock.Equal(decimal.NewFromInt(-3)))
	require.Len(t, movRepo.movimientos, 1)
	assert.True(t, movRepo.movimientos[0].StockNuevo.IsNegative())
}

func TestAplicarDeltaProductoInexistente(t *testing.T) {
	svc := NewStockService(newStubProductoRepo(), &stubMovimientoRepo{})

	_, err := svc.AplicarDeltaTx(context.Background(), nil, uuid.New(), decimal.NewFromInt(1), "ajuste_manual", "x", nil)
	assert.Error(t, err)
}
