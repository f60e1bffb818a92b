package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Merma records a manual stock decrease: breakage, expiry or internal
// consumption. The stock mutation itself goes through the ledger; this row
// keeps the business-level reason.
// Tipo: "merma" | "consumo_interno"
type Merma struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Tipo       string          `gorm:"type:varchar(20);not null;default:'merma'"`
	Motivo     string          `gorm:"not null"`
	CreatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Merma) TableName() string { return "mermas" }
