package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoStock registra cada cambio de stock en un producto. Every write
// goes through StockService.AplicarDeltaTx, so this table is a complete audit
// trail of the stock ledger. Rows are immutable.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Tipo: "venta" | "devolucion" | "compra" | "merma" | "ajuste_manual"
	Tipo string `gorm:"type:varchar(20);not null"`
	// Cantidad: positive = entrada, negative = salida
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo        string
	// ReferenciaID links to the originating venta, compra or merma
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
