package dto

import "github.com/shopspring/decimal"

type AbrirCajaRequest struct {
	PuntoDeVenta int             `json:"punto_de_venta" validate:"required,min=1"`
	MontoInicial decimal.Decimal `json:"monto_inicial"  validate:"min=0"`
}

type MovimientoManualRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=ingreso_manual egreso_manual"`
	MetodoPago   string          `json:"metodo_pago"    validate:"required,oneof=efectivo debito credito transferencia"`
	Monto        decimal.Decimal `json:"monto"          validate:"required"`
	Descripcion  string          `json:"descripcion"    validate:"required,min=3"`
}

// MontosPorMetodo breaks an amount down by payment method.
type MontosPorMetodo struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Debito        decimal.Decimal `json:"debito"`
	Credito       decimal.Decimal `json:"credito"`
	Transferencia decimal.Decimal `json:"transferencia"`
	Total         decimal.Decimal `json:"total"`
}

// ArqueoRequest is the blind count declaration at close time.
type ArqueoRequest struct {
	SesionCajaID  string          `json:"sesion_caja_id" validate:"required,uuid"`
	Declaracion   MontosPorMetodo `json:"declaracion"`
	Observaciones *string         `json:"observaciones"`
}

type DesvioResponse struct {
	Monto         decimal.Decimal `json:"monto"`
	Porcentaje    decimal.Decimal `json:"porcentaje"`
	Clasificacion string          `json:"clasificacion"`
}

type ArqueoResponse struct {
	SesionCajaID   string          `json:"sesion_caja_id"`
	MontoEsperado  MontosPorMetodo `json:"monto_esperado"`
	MontoDeclarado MontosPorMetodo `json:"monto_declarado"`
	Desvio         DesvioResponse  `json:"desvio"`
	Estado         string          `json:"estado"`
}

type ReporteCajaResponse struct {
	SesionCajaID   string           `json:"sesion_caja_id"`
	PuntoDeVenta   int              `json:"punto_de_venta"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	MontoEsperado  MontosPorMetodo  `json:"monto_esperado"`
	MontoDeclarado *MontosPorMetodo `json:"monto_declarado,omitempty"`
	Desvio         *DesvioResponse  `json:"desvio,omitempty"`
	Estado         string           `json:"estado"`
	Observaciones  *string          `json:"observaciones,omitempty"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       *string          `json:"closed_at,omitempty"`
}
