package service

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// desglosarIVA splits a gross (IVA-inclusive) amount into its net and tax
// parts. Net is rounded to whole pesos; the tax absorbs the rounding so that
// neto + iva == bruto always holds. Every caller that needs the split goes
// through here — the rate is never hardcoded at a call site.
func desglosarIVA(bruto, tasa decimal.Decimal) (neto, iva decimal.Decimal) {
	neto = bruto.Div(decimal.NewFromInt(1).Add(tasa)).Round(0)
	iva = bruto.Sub(neto)
	return neto, iva
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
