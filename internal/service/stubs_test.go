package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory VentaRepository stub ───────────────────────────────────────────

type stubVentaRepo struct {
	ventas    map[uuid.UUID]*model.Venta
	boletaSeq int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
		v.Items[i].VentaID = v.ID
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) FindByNumeroBoleta(_ context.Context, numero int) (*model.Venta, error) {
	for _, v := range r.ventas {
		if v.NumeroBoleta == numero {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) NextNumeroBoleta(_ context.Context, _ *gorm.DB) (int, error) {
	r.boletaSeq++
	return r.boletaSeq, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) FindItemTx(_ *gorm.DB, ventaID, itemID uuid.UUID) (*model.VentaItem, error) {
	v, ok := r.ventas[ventaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range v.Items {
		if v.Items[i].ID == itemID {
			item := v.Items[i]
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) UpdateItemTx(_ *gorm.DB, item *model.VentaItem) error {
	for _, v := range r.ventas {
		for i := range v.Items {
			if v.Items[i].ID == item.ID {
				v.Items[i].Cantidad = item.Cantidad
				v.Items[i].Subtotal = item.Subtotal
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	for _, v := range r.ventas {
		for i := range v.Items {
			if v.Items[i].ID == itemID {
				v.Items = append(v.Items[:i], v.Items[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) CountItemsTx(_ *gorm.DB, ventaID uuid.UUID) (int64, error) {
	v, ok := r.ventas[ventaID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return int64(len(v.Items)), nil
}

func (r *stubVentaRepo) UpdateTotalEstadoTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Total = total
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) add(p *model.Producto) *model.Producto {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.add(p)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras == barcode && !p.Archivado {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if !p.Archivado {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Archivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Archivado = true
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Archivado = false
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Snapshot, like a row read under lock: later stock updates must not
	// mutate what the caller already holds.
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductoRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PrecioCosto = costo
	return nil
}

func (r *stubProductoRepo) Alertas(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if !p.Archivado && p.Stock.LessThanOrEqual(p.StockMinimo) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── In-memory MovimientoStockRepository stub ─────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ dto.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── In-memory CajaRepository stub ────────────────────────────────────────────

type stubCajaRepo struct {
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *stubCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *stubCajaRepo) FindSesionAbiertaPorPDV(_ context.Context, pdv int) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.PuntoDeVenta == pdv && s.Estado == "abierta" {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCajaRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *stubCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubCajaRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubCajaRepo) FindSesionAbiertaTx(_ *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok || s.Estado != "abierta" {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubCajaRepo) SumMovimientosByMetodo(_ context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID && m.MetodoPago != nil {
			sums[*m.MetodoPago] = sums[*m.MetodoPago].Add(m.Monto)
		}
	}
	return sums, nil
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// ── In-memory MermaRepository stub ───────────────────────────────────────────

type stubMermaRepo struct {
	mermas []model.Merma
}

func (r *stubMermaRepo) CreateTx(_ *gorm.DB, m *model.Merma) error {
	r.mermas = append(r.mermas, *m)
	return nil
}

func (r *stubMermaRepo) List(_ context.Context, _, _ int) ([]model.Merma, int64, error) {
	return r.mermas, int64(len(r.mermas)), nil
}

func (r *stubMermaRepo) DB() *gorm.DB { return nil }

var _ repository.MermaRepository = (*stubMermaRepo)(nil)

// ── In-memory CompraRepository stub ──────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) Create(_ context.Context, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompraRepo) List(_ context.Context, _ string, _, _ int) ([]model.Compra, int64, error) {
	out := make([]model.Compra, 0, len(r.compras))
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCompraRepo) MarcarRecibidaTx(_ *gorm.DB, id uuid.UUID, recibidaAt time.Time) error {
	c, ok := r.compras[id]
	if !ok || c.Estado != "borrador" {
		// Mirrors the conditional UPDATE: zero rows when already received.
		return gorm.ErrRecordNotFound
	}
	c.Estado = "recibida"
	c.RecibidaAt = &recibidaAt
	return nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── In-memory ProveedorRepository stub ───────────────────────────────────────

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) List(_ context.Context) ([]model.Proveedor, error) {
	out := make([]model.Proveedor, 0, len(r.proveedores))
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok {
		return errors.New("not found")
	}
	p.Activo = false
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)
