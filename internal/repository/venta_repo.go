package repository

import (
	"context"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// boletaLockKey is the advisory lock class that serializes concurrent boleta
// number assignment. Transaction-scoped: released automatically at commit or
// rollback.
const boletaLockKey = 874501

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByNumeroBoleta(ctx context.Context, numero int) (*model.Venta, error)
	// NextNumeroBoleta must be called inside the same transaction that inserts
	// the sale. It blocks concurrent callers until that transaction finishes,
	// so numbers are strictly ordered by commit order and never collide.
	NextNumeroBoleta(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)

	// Item operations used by the refund path — always within a transaction.
	FindItemTx(tx *gorm.DB, ventaID, itemID uuid.UUID) (*model.VentaItem, error)
	UpdateItemTx(tx *gorm.DB, item *model.VentaItem) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	CountItemsTx(tx *gorm.DB, ventaID uuid.UUID) (int64, error)
	UpdateTotalEstadoTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal, estado string) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items.Producto").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Preload("Items").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByNumeroBoleta(ctx context.Context, numero int) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items.Producto").
		Where("numero_boleta = ?", numero).First(&v).Error
	return &v, err
}

func (r *ventaRepo) NextNumeroBoleta(ctx context.Context, tx *gorm.DB) (int, error) {
	// Postgres rejects SELECT MAX(...) FOR UPDATE, so the select-max pattern is
	// serialized with a transaction-scoped advisory lock instead. The UNIQUE
	// constraint on numero_boleta backstops the invariant.
	if err := tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", boletaLockKey).Error; err != nil {
		return 0, err
	}
	var max int
	err := tx.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(numero_boleta), 0) FROM ventas").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").
		Order("numero_boleta DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) FindItemTx(tx *gorm.DB, ventaID, itemID uuid.UUID) (*model.VentaItem, error) {
	var item model.VentaItem
	err := tx.Where("id = ? AND venta_id = ?", itemID, ventaID).First(&item).Error
	return &item, err
}

func (r *ventaRepo) UpdateItemTx(tx *gorm.DB, item *model.VentaItem) error {
	return tx.Model(&model.VentaItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"cantidad": item.Cantidad,
		"subtotal": item.Subtotal,
	}).Error
}

func (r *ventaRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.VentaItem{}, itemID).Error
}

func (r *ventaRepo) CountItemsTx(tx *gorm.DB, ventaID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.VentaItem{}).Where("venta_id = ?", ventaID).Count(&n).Error
	return n, err
}

func (r *ventaRepo) UpdateTotalEstadoTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total":  total,
		"estado": estado,
	}).Error
}
