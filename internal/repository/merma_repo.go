package repository

import (
	"context"

	"tiendapos/internal/model"

	"gorm.io/gorm"
)

type MermaRepository interface {
	CreateTx(tx *gorm.DB, m *model.Merma) error
	List(ctx context.Context, page, limit int) ([]model.Merma, int64, error)
	DB() *gorm.DB
}

type mermaRepo struct{ db *gorm.DB }

func NewMermaRepository(db *gorm.DB) MermaRepository { return &mermaRepo{db: db} }

func (r *mermaRepo) DB() *gorm.DB { return r.db }

func (r *mermaRepo) CreateTx(tx *gorm.DB, m *model.Merma) error {
	return tx.Create(m).Error
}

func (r *mermaRepo) List(ctx context.Context, page, limit int) ([]model.Merma, int64, error) {
	var mermas []model.Merma
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Merma{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Producto").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&mermas).Error
	return mermas, total, err
}
