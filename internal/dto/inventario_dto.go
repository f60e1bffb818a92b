package dto

import "github.com/shopspring/decimal"

// ─── Alertas ────────────────────────────────────────────────────────────────

// AlertaStockResponse surfaces products at or below their reorder threshold.
// Nivel: "bajo" (stock <= minimo) | "negativo" (stock < 0 — alarm condition
// left behind by concurrent sales racing the same product).
type AlertaStockResponse struct {
	ProductoID  string          `json:"producto_id"`
	Nombre      string          `json:"nombre"`
	Stock       decimal.Decimal `json:"stock"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	Nivel       string          `json:"nivel"`
}

// ─── Mermas ─────────────────────────────────────────────────────────────────

type RegistrarMermaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
	Tipo       string          `json:"tipo"        validate:"required,oneof=merma consumo_interno"`
	Motivo     string          `json:"motivo"      validate:"required,min=3"`
}

type MermaResponse struct {
	ID         string          `json:"id"`
	ProductoID string          `json:"producto_id"`
	Producto   string          `json:"producto"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Tipo       string          `json:"tipo"`
	Motivo     string          `json:"motivo"`
	CreatedAt  string          `json:"created_at"`
}

// ─── Movimientos ────────────────────────────────────────────────────────────

type MovimientoStockFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoStockResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	CreatedAt     string          `json:"created_at"`
}
