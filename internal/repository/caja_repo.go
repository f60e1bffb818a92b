package repository

import (
	"context"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, s *model.SesionCaja) error
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	// CreateMovimientoTx is used by the sale/refund transaction so the cash
	// movement commits or rolls back together with the venta.
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	// FindSesionAbiertaTx locks the session row and returns it only while it
	// is still open, so a concurrent arqueo cannot close it under a sale.
	FindSesionAbiertaTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error)
	ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error)
	SumMovimientosByMetodo(ctx context.Context, sesionCajaID uuid.UUID) (map[string]decimal.Decimal, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Where("punto_de_venta = ? AND estado = 'abierta'", puntoDeVenta).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Preload("Movimientos").First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) FindSesionAbiertaTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND estado = 'abierta'", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionCajaID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) SumMovimientosByMetodo(ctx context.Context, sesionCajaID uuid.UUID) (map[string]decimal.Decimal, error) {
	type fila struct {
		MetodoPago string
		Total      decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("metodo_pago, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ? AND metodo_pago IS NOT NULL", sesionCajaID).
		Group("metodo_pago").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		sums[f.MetodoPago] = f.Total
	}
	return sums, nil
}
