package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	Create(ctx context.Context, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.Compra, int64, error)
	MarcarRecibidaTx(tx *gorm.DB, id uuid.UUID, recibidaAt time.Time) error
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, c *model.Compra) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Preload("Items.Producto").Preload("Proveedor").First(&c, id).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, estado string, page, limit int) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&compras).Error
	return compras, total, err
}

// MarcarRecibidaTx claims the borrador→recibida transition. The estado
// predicate makes the update a no-op when another transaction already
// received the compra; callers treat zero affected rows as already-received.
func (r *compraRepo) MarcarRecibidaTx(tx *gorm.DB, id uuid.UUID, recibidaAt time.Time) error {
	res := tx.Model(&model.Compra{}).
		Where("id = ? AND estado = ?", id, "borrador").
		Updates(map[string]interface{}{
			"estado":      "recibida",
			"recibida_at": recibidaAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
