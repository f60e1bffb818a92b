package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a purchase invoice from a supplier.
// Estado: "borrador" | "recibida" — stock only moves when the invoice is
// received, and reception is a one-way transition.
type Compra struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Folio is the supplier's invoice number
	Folio     *string
	Neto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA       decimal.Decimal `gorm:"type:decimal(12,2);not null;column:iva"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado    string          `gorm:"type:varchar(20);not null;default:'borrador'"`
	RecibidaAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	Proveedor *Proveedor   `gorm:"foreignKey:ProveedorID"`
	Items     []CompraItem `gorm:"foreignKey:CompraID"`
}

func (Compra) TableName() string { return "compras" }

// CompraItem is one purchased line. CostoUnitario is net (IVA-exclusive);
// on reception it becomes the product's new PrecioCosto.
type CompraItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CompraItem) TableName() string { return "compra_items" }
