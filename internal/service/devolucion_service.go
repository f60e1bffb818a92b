package service

import (
	"context"
	"errors"
	"fmt"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// restoRedondeo absorbs floating-point noise on fractional quantities: a
// remainder at or below this threshold deletes the line instead of leaving a
// phantom sliver.
var restoRedondeo = decimal.NewFromFloat(0.001)

type DevolucionService interface {
	Procesar(ctx context.Context, req dto.DevolucionRequest) (*dto.DevolucionResponse, error)
}

type devolucionService struct {
	ventaRepo repository.VentaRepository
	stock     StockService
	cajaRepo  repository.CajaRepository
	policy    string
}

func NewDevolucionService(
	ventaRepo repository.VentaRepository,
	stock StockService,
	cajaRepo repository.CajaRepository,
	cfg *config.Config,
) DevolucionService {
	return &devolucionService{
		ventaRepo: ventaRepo,
		stock:     stock,
		cajaRepo:  cajaRepo,
		policy:    cfg.RefundPolicy,
	}
}

// ── Procesar ──────────────────────────────────────────────────────────────────
// One ACID transaction. Per requested line:
//   1. Locate the item scoped to the venta; unknown ids are skipped (partial
//      success across lines is allowed)
//   2. Clamp the quantity to what remains ("strict" policy rejects instead)
//   3. Restore stock through the ledger; a product deleted since the sale is
//      tolerated — the stock restore is skipped, the refund still applies
//   4. Shrink the item, or delete it when the remainder is (near) zero
// Then recompute the sale total and reclassify its estado. Either every
// validated line applies together with the total/estado update, or none do.

func (s *devolucionService) Procesar(ctx context.Context, req dto.DevolucionRequest) (*dto.DevolucionResponse, error) {
	ventaID, err := uuid.Parse(req.VentaID)
	if err != nil {
		return nil, fmt.Errorf("venta_id inválido: %w", err)
	}

	var resp dto.DevolucionResponse

	txErr := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		venta, err := s.ventaRepo.FindByIDTx(tx, ventaID)
		if err != nil {
			return errors.New("venta no encontrada")
		}

		totalDevuelto := decimal.Zero
		motivo := fmt.Sprintf("Devolución boleta N°%d", venta.NumeroBoleta)

		for _, linea := range req.Items {
			itemID, err := uuid.Parse(linea.VentaItemID)
			if err != nil {
				continue
			}
			item, err := s.ventaRepo.FindItemTx(tx, ventaID, itemID)
			if err != nil {
				// Item no longer belongs to this sale (or never did) — non-fatal.
				continue
			}

			if s.policy == config.RefundPolicyStrict && linea.Cantidad.GreaterThan(item.Cantidad) {
				return fmt.Errorf("cantidad a devolver (%s) excede lo restante (%s)", linea.Cantidad, item.Cantidad)
			}

			devuelta := decimal.Min(linea.Cantidad, item.Cantidad)
			if !devuelta.IsPositive() {
				continue
			}

			totalDevuelto = totalDevuelto.Add(devuelta.Mul(item.PrecioUnitario))

			// Restore stock. The product may have been removed from the catalog
			// since the sale; the refund still proceeds without the restock.
			if _, err := s.stock.AplicarDeltaTx(ctx, tx, item.ProductoID, devuelta, "devolucion", motivo, &ventaID); err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}

			resto := item.Cantidad.Sub(devuelta)
			if resto.LessThanOrEqual(restoRedondeo) {
				if err := s.ventaRepo.DeleteItemTx(tx, item.ID); err != nil {
					return err
				}
			} else {
				item.Cantidad = resto
				item.Subtotal = resto.Mul(item.PrecioUnitario)
				if err := s.ventaRepo.UpdateItemTx(tx, item); err != nil {
					return err
				}
			}
		}

		if totalDevuelto.IsZero() {
			// Nothing validated — the sale is left untouched.
			resp = dto.DevolucionResponse{
				VentaID:       venta.ID.String(),
				TotalDevuelto: decimal.Zero,
				NuevoTotal:    venta.Total,
				Estado:        venta.Estado,
			}
			return nil
		}

		nuevoTotal := decimal.Max(decimal.Zero, venta.Total.Sub(totalDevuelto))

		restantes, err := s.ventaRepo.CountItemsTx(tx, ventaID)
		if err != nil {
			return err
		}
		estado := "devolucion_parcial"
		if restantes == 0 {
			estado = "devolucion_total"
		}

		if err := s.ventaRepo.UpdateTotalEstadoTx(tx, ventaID, nuevoTotal, estado); err != nil {
			return err
		}

		// Inverse cash movement when the sale was tied to a caja session.
		if venta.SesionCajaID != nil {
			metodo := venta.MetodoPago
			mov := model.MovimientoCaja{
				SesionCajaID: *venta.SesionCajaID,
				Tipo:         "devolucion",
				MetodoPago:   &metodo,
				Monto:        totalDevuelto.Neg(),
				Descripcion:  motivo,
				ReferenciaID: &venta.ID,
			}
			if err := s.cajaRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
		}

		resp = dto.DevolucionResponse{
			VentaID:       venta.ID.String(),
			TotalDevuelto: totalDevuelto,
			NuevoTotal:    nuevoTotal,
			Estado:        estado,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &resp, nil
}
