package dto

import "github.com/shopspring/decimal"

type ItemCompraRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"required"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
}

type CrearCompraRequest struct {
	ProveedorID string              `json:"proveedor_id" validate:"required,uuid"`
	Folio       *string             `json:"folio"`
	Items       []ItemCompraRequest `json:"items" validate:"required,min=1,dive"`
}

type ItemCompraResponse struct {
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID          string               `json:"id"`
	ProveedorID string               `json:"proveedor_id"`
	Folio       *string              `json:"folio,omitempty"`
	Neto        decimal.Decimal      `json:"neto"`
	IVA         decimal.Decimal      `json:"iva"`
	Total       decimal.Decimal      `json:"total"`
	Estado      string               `json:"estado"`
	RecibidaAt  *string              `json:"recibida_at,omitempty"`
	Items       []ItemCompraResponse `json:"items"`
	CreatedAt   string               `json:"created_at"`
}
