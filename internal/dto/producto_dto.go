package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	CodigoBarras string          `json:"codigo_barras" validate:"required"`
	Nombre       string          `json:"nombre"        validate:"required"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `json:"categoria"     validate:"required"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"  validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"min=0"`
	StockInicial decimal.Decimal `json:"stock_inicial" validate:"min=0"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"  validate:"min=0"`
	UnidadMedida string          `json:"unidad_medida"`
	ProveedorID  *string         `json:"proveedor_id"  validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required"`
	Descripcion *string         `json:"descripcion"`
	Categoria   string          `json:"categoria"    validate:"required"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"min=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
	StockMinimo decimal.Decimal `json:"stock_minimo" validate:"min=0"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
}

type AjustarStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3"`
}

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Barcode   string `form:"barcode"`
	Categoria string `form:"categoria"`
	// Archivado filter: "true" = archivados, "all" = todos, default = activos
	Archivado string `form:"archivado"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion,omitempty"`
	Categoria    string          `json:"categoria"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	UnidadMedida string          `json:"unidad_medida"`
	ProveedorID  *string         `json:"proveedor_id,omitempty"`
	Archivado    bool            `json:"archivado"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PrecioResponse is the payload of the public barcode price lookup.
type PrecioResponse struct {
	Nombre       string          `json:"nombre"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	UnidadMedida string          `json:"unidad_medida"`
}
