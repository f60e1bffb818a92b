package service

import (
	"context"
	"fmt"

	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService is the single mutation path for committed inventory: every
// flow that changes stock (venta, devolución, recepción de compra, merma,
// ajuste manual) goes through AplicarDeltaTx. The method locks the product
// row, applies the delta and appends an immutable MovimientoStock row, so
// concurrent operations on the same product serialize instead of losing
// updates, and the audit trail is complete by construction.
type StockService interface {
	// AplicarDeltaTx must run inside the caller's transaction. It returns the
	// product as read under the lock (before the delta was applied), which
	// sale callers use to snapshot the unit cost. Negative resulting stock is
	// permitted — it is surfaced by the alerts query, not rejected here.
	AplicarDeltaTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, delta decimal.Decimal, tipo, motivo string, referenciaID *uuid.UUID) (*model.Producto, error)
}

type stockService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
}

func NewStockService(productoRepo repository.ProductoRepository, movimientoRepo repository.MovimientoStockRepository) StockService {
	return &stockService{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
}

func (s *stockService) AplicarDeltaTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, delta decimal.Decimal, tipo, motivo string, referenciaID *uuid.UUID) (*model.Producto, error) {
	if delta.IsZero() {
		return nil, fmt.Errorf("delta de stock no puede ser cero")
	}

	p, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
	if err != nil {
		return nil, err
	}

	stockAnterior := p.Stock
	stockNuevo := stockAnterior.Add(delta)

	if err := s.productoRepo.UpdateStockTx(tx, productoID, stockNuevo); err != nil {
		return nil, err
	}

	mov := &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: stockAnterior,
		StockNuevo:    stockNuevo,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	}
	if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	return p, nil
}
