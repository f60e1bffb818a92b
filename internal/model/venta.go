package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is created once by VentaService; after that only Total, Estado and
// the child items are mutated, exclusively by DevolucionService. Ventas are
// never hard-deleted.
// Estado: "completada" | "devolucion_parcial" | "devolucion_total"
type Venta struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// NumeroBoleta is the human-facing receipt number: unique and strictly
	// increasing across the whole sale history, assigned inside the creation
	// transaction. Distinct from the internal ID.
	NumeroBoleta int        `gorm:"uniqueIndex;not null"`
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	// Neto is IVA-exclusive, Total is the gross amount charged.
	Neto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA        decimal.Decimal `gorm:"type:decimal(12,2);not null;column:iva"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Pagado     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Vuelto     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'completada'"`
	// CostoVenta is the COGS snapshot: sum of cantidad × costo_unitario at
	// sale time, immune to later product cost changes.
	CostoVenta decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notas      *string
	// CreatedAt is the immutable sale timestamp used for period bucketing.
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem belongs to exactly one Venta. ProductoID is a weak reference:
// the product may later be archived, which read paths tolerate with the
// "Producto Eliminado" placeholder. A refund shrinks Cantidad monotonically
// and deletes the row when the remainder drops to (near) zero.
type VentaItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	// PrecioUnitario is gross (IVA-inclusive); CostoUnitario is the net cost
	// snapshotted from the product at sale time.
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoUnitario  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }
