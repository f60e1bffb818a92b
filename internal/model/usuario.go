package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is an operator account. The Rol field gates route access:
// cajeros sell and refund, supervisores additionally close cajas and
// receive compras, administradores manage everything including users.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// Non-nil pins a cajero to one punto de venta.
	PuntoDeVenta *int
	// Deactivated accounts keep their rows for audit but cannot log in
	// or refresh tokens.
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
