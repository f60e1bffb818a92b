package infra

import (
	"fmt"

	"tiendapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes, check constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the post-migration SQL patches.
// Also used by integration tests against a disposable container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Proveedor{},
		&model.Usuario{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Compra{},
		&model.CompraItem{},
		&model.Merma{},
		&model.MovimientoStock{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// partial index for the stock alert query (only non-archived products)
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_productos_alerta_stock') THEN
		    CREATE INDEX idx_productos_alerta_stock
		        ON productos (stock)
		        WHERE archivado = false;
		  END IF;
		END $$`,
		// movement history is queried per product, newest first
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_stock_producto') THEN
		    CREATE INDEX idx_movimientos_stock_producto
		        ON movimientos_stock (producto_id, created_at DESC);
		  END IF;
		END $$`,
		// the daily sales listing filters by day and orders by boleta number
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ventas_created_at') THEN
		    CREATE INDEX idx_ventas_created_at ON ventas (created_at);
		  END IF;
		END $$`,
		// at most one open session per punto de venta; backs the service-level
		// guard against a concurrent double open
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_sesiones_caja_abierta_pdv') THEN
		    CREATE UNIQUE INDEX uq_sesiones_caja_abierta_pdv
		        ON sesiones_caja (punto_de_venta)
		        WHERE estado = 'abierta';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
