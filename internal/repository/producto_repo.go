package repository

import (
	"context"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	Archivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// FindByIDForUpdateTx acquires a row lock on the product. Every committed
	// stock mutation starts here so concurrent sale/refund/purchase flows on
	// the same product cannot interleave into a lost update.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error
	UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error

	// Alertas returns products at or below stock mínimo, negative stock first.
	Alertas(ctx context.Context) ([]model.Producto, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ? AND archivado = false", barcode).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Archivado filter: "true" = archivados, "all" = todos, default = activos
	switch filter.Archivado {
	case "true":
		q = q.Where("archivado = true")
	case "all":
		// no filter
	default:
		q = q.Where("archivado = false")
	}

	if filter.Barcode != "" {
		q = q.Where("codigo_barras = ?", filter.Barcode)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Archivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("archivado", true).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("archivado", false).Error
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock", stock).Error
}

func (r *productoRepo) UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("precio_costo", costo).Error
}

func (r *productoRepo) Alertas(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("archivado = false AND stock <= stock_minimo").
		Order("stock ASC").
		Find(&productos).Error
	return productos, err
}
