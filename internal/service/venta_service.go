package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoEliminado is the placeholder shown when a sale line references a
// product that was later removed from the catalog.
const ProductoEliminado = "Producto Eliminado"

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorBoleta(ctx context.Context, numeroBoleta int) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo       repository.VentaRepository
	stock      StockService
	producto   repository.ProductoRepository
	cajaRepo   repository.CajaRepository
	dispatcher *worker.Dispatcher
	tasaIVA    decimal.Decimal
}

func NewVentaService(
	repo repository.VentaRepository,
	stock StockService,
	producto repository.ProductoRepository,
	cajaRepo repository.CajaRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) VentaService {
	return &ventaService{
		repo:       repo,
		stock:      stock,
		producto:   producto,
		cajaRepo:   cajaRepo,
		dispatcher: dispatcher,
		tasaIVA:    cfg.TasaIVA,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Pre-flight: resolve products, validate quantities and prices
//   2. BEGIN TX: assign numero de boleta (serialized on a lock)
//   3. Persist Venta + items, snapshotting unit cost under the stock row lock
//   4. Decrement stock per item through the ledger (negative stock allowed)
//   5. Optionally append a movimiento de caja
//   6. COMMIT — any failure rolls the whole sale back
//   7. (async) dispatch boleta PDF job, best-effort

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("la venta debe tener al menos un item")
	}

	type resolvedItem struct {
		productoID uuid.UUID
		nombre     string
		cantidad   decimal.Decimal
		precio     decimal.Decimal
		subtotal   decimal.Decimal
	}

	var resolved []resolvedItem
	bruto := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if !item.Cantidad.IsPositive() {
			return nil, fmt.Errorf("cantidad debe ser mayor a cero")
		}
		if item.PrecioUnitario.IsNegative() {
			return nil, fmt.Errorf("precio_unitario no puede ser negativo")
		}
		p, err := s.producto.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if p.Archivado {
			return nil, fmt.Errorf("producto %s está archivado y no puede venderse", p.Nombre)
		}
		subtotal := item.Cantidad.Mul(item.PrecioUnitario)
		bruto = bruto.Add(subtotal)
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			cantidad:   item.Cantidad,
			precio:     item.PrecioUnitario,
			subtotal:   subtotal,
		})
	}

	neto, iva := desglosarIVA(bruto, s.tasaIVA)
	total := bruto

	pagado := total
	if req.MontoPagado != nil {
		pagado = *req.MontoPagado
	}
	vuelto := decimal.Max(decimal.Zero, pagado.Sub(total))

	// Optional caja session — validated before the transaction opens.
	var sesionID *uuid.UUID
	if req.SesionCajaID != nil {
		sid, err := uuid.Parse(*req.SesionCajaID)
		if err != nil {
			return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
		}
		sesion, err := s.cajaRepo.FindSesionByID(ctx, sid)
		if err != nil {
			return nil, errors.New("sesión de caja no encontrada")
		}
		if sesion.Estado != "abierta" {
			return nil, errors.New("la sesión de caja no está abierta")
		}
		sesionID = &sid
	}

	venta := model.Venta{
		ID:           uuid.New(),
		SesionCajaID: sesionID,
		UsuarioID:    usuarioID,
		Neto:         neto,
		IVA:          iva,
		Total:        total,
		Pagado:       pagado,
		Vuelto:       vuelto,
		MetodoPago:   req.MetodoPago,
		Estado:       "completada",
		Notas:        req.Notas,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroBoleta(ctx, tx)
		if err != nil {
			return err
		}
		venta.NumeroBoleta = numero

		// Decrement stock first: AplicarDeltaTx takes the row lock and hands
		// back the product as read under it, which is the cost snapshot the
		// sale items and the COGS need.
		costoVenta := decimal.Zero
		motivo := fmt.Sprintf("Venta boleta N°%d", numero)
		for _, r := range resolved {
			p, err := s.stock.AplicarDeltaTx(ctx, tx, r.productoID, r.cantidad.Neg(), "venta", motivo, &venta.ID)
			if err != nil {
				return fmt.Errorf("error descontando stock de %s: %w", r.nombre, err)
			}
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				CostoUnitario:  p.PrecioCosto,
				Subtotal:       r.subtotal,
			})
			costoVenta = costoVenta.Add(r.cantidad.Mul(p.PrecioCosto))
		}
		venta.CostoVenta = costoVenta

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		if sesionID != nil {
			// Re-check under lock: the pre-flight read is stale by now and
			// an arqueo may have closed the session in between.
			if _, err := s.cajaRepo.FindSesionAbiertaTx(tx, *sesionID); err != nil {
				return errors.New("la sesión de caja no está abierta")
			}
			metodo := req.MetodoPago
			mov := model.MovimientoCaja{
				SesionCajaID: *sesionID,
				Tipo:         "venta",
				MetodoPago:   &metodo,
				Monto:        total,
				Descripcion:  motivo,
				ReferenciaID: &venta.ID,
			}
			if err := s.cajaRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async boleta PDF job — fire & forget
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueBoleta(ctx, worker.BoletaJobPayload{VentaID: venta.ID.String()})
	}

	resp := ventaToResponse(&venta)
	// Enrich items with product names from the resolved slice
	for i, r := range resolved {
		resp.Items[i].Producto = r.nombre
	}
	return resp, nil
}

// ── ObtenerPorBoleta ──────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorBoleta(ctx context.Context, numeroBoleta int) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByNumeroBoleta(ctx, numeroBoleta)
	if err != nil {
		return nil, errors.New("boleta no encontrada")
	}
	return ventaToResponse(venta), nil
}

// ListVentas returns a paginated list of sales, filtered by date and estado.
// Default filter: today's sales, all estados.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for _, v := range ventas {
		items = append(items, *ventaToResponse(&v))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ProductoEliminado
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			ID:             item.ID.String(),
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:               v.ID.String(),
		NumeroBoleta:     v.NumeroBoleta,
		Items:            items,
		Neto:             v.Neto,
		IVA:              v.IVA,
		Total:            v.Total,
		Pagado:           v.Pagado,
		Vuelto:           v.Vuelto,
		MetodoPago:       v.MetodoPago,
		Estado:           v.Estado,
		DevueltaCompleta: len(v.Items) == 0 || v.Estado == "devolucion_total",
		CreatedAt:        v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
