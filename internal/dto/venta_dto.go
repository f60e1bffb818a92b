package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	// Cantidad is decimal to support fractional bulk units (kg, lt).
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo debito credito transferencia"`
	// MontoPagado: optional — defaults to the sale total (exact payment).
	MontoPagado *decimal.Decimal `json:"monto_pagado" validate:"omitempty"`
	// SesionCajaID: optional — when present and open, the sale appends a
	// movimiento to that cash session inside the same transaction.
	SesionCajaID *string `json:"sesion_caja_id" validate:"omitempty,uuid"`
	Notas        *string `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ID             string          `json:"id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID           string              `json:"id"`
	NumeroBoleta int                 `json:"numero_boleta"`
	Items        []ItemVentaResponse `json:"items"`
	Neto         decimal.Decimal     `json:"neto"`
	IVA          decimal.Decimal     `json:"iva"`
	Total        decimal.Decimal     `json:"total"`
	Pagado       decimal.Decimal     `json:"pagado"`
	Vuelto       decimal.Decimal     `json:"vuelto"`
	MetodoPago   string              `json:"metodo_pago"`
	Estado       string              `json:"estado"`
	// DevueltaCompleta is derived at read time: true when no items remain.
	DevueltaCompleta bool   `json:"devuelta_completa"`
	CreatedAt        string `json:"created_at"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`              // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=all"` // completada | devolucion_parcial | devolucion_total | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Devoluciones ───────────────────────────────────────────────────────────

type ItemDevolucionRequest struct {
	VentaItemID string          `json:"venta_item_id" validate:"required,uuid"`
	Cantidad    decimal.Decimal `json:"cantidad"      validate:"required"`
}

type DevolucionRequest struct {
	VentaID string                  `json:"venta_id" validate:"required,uuid"`
	Items   []ItemDevolucionRequest `json:"items"    validate:"required,min=1,dive"`
}

type DevolucionResponse struct {
	VentaID       string          `json:"venta_id"`
	TotalDevuelto decimal.Decimal `json:"total_devuelto"`
	NuevoTotal    decimal.Decimal `json:"nuevo_total"`
	Estado        string          `json:"estado"`
}
