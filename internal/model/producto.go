package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the single source of truth for quantity on hand.
// Stock is decimal(12,3) to support fractional bulk units (kg, lt) and is
// allowed to go negative: a negative balance is an alarm condition surfaced
// by the alerts query, never a hard constraint at sale time.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	Categoria    string `gorm:"not null"`
	// PrecioCosto is net (IVA-exclusive); PrecioVenta is gross (IVA-inclusive).
	PrecioCosto  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock        decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:5"`
	UnidadMedida string          `gorm:"not null;default:'unidad'"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	// Archivado replaces deletion: products referenced by historical sales
	// are never hard-deleted.
	Archivado bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }
