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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompraService manages purchase invoices. A compra is drafted first and only
// moves stock when received; reception is a one-way transition that also
// refreshes each product's replacement cost.
type CompraService interface {
	Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, estado string, page, limit int) ([]dto.CompraResponse, int64, error)
	Recibir(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
}

type compraService struct {
	repo     repository.CompraRepository
	provRepo repository.ProveedorRepository
	prodRepo repository.ProductoRepository
	stock    StockService
	tasaIVA  decimal.Decimal
}

func NewCompraService(
	repo repository.CompraRepository,
	provRepo repository.ProveedorRepository,
	prodRepo repository.ProductoRepository,
	stock StockService,
	cfg *config.Config,
) CompraService {
	return &compraService{
		repo:     repo,
		provRepo: provRepo,
		prodRepo: prodRepo,
		stock:    stock,
		tasaIVA:  cfg.TasaIVA,
	}
}

// Crear drafts the invoice. Supplier costs come in net of IVA, so here the
// tax is added on top: iva = neto × tasa, rounded to the peso.
func (s *compraService) Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, errors.New("proveedor_id inválido")
	}
	if _, err := s.provRepo.FindByID(ctx, proveedorID); err != nil {
		return nil, errors.New("proveedor no encontrado")
	}

	compra := &model.Compra{
		ID:          uuid.New(),
		ProveedorID: proveedorID,
		Folio:       req.Folio,
		Estado:      "borrador",
	}

	neto := decimal.Zero
	for _, item := range req.Items {
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, errors.New("producto_id inválido")
		}
		if !item.Cantidad.IsPositive() {
			return nil, errors.New("cantidad debe ser mayor a cero")
		}
		if _, err := s.prodRepo.FindByID(ctx, productoID); err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}

		subtotal := item.Cantidad.Mul(item.CostoUnitario)
		neto = neto.Add(subtotal)
		compra.Items = append(compra.Items, model.CompraItem{
			CompraID:      compra.ID,
			ProductoID:    productoID,
			Cantidad:      item.Cantidad,
			CostoUnitario: item.CostoUnitario,
			Subtotal:      subtotal,
		})
	}

	compra.Neto = neto
	compra.IVA = neto.Mul(s.tasaIVA).Round(0)
	compra.Total = compra.Neto.Add(compra.IVA)

	if err := s.repo.Create(ctx, compra); err != nil {
		return nil, err
	}

	return s.ObtenerPorID(ctx, compra.ID)
}

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	return compraToResponse(compra), nil
}

func (s *compraService) Listar(ctx context.Context, estado string, page, limit int) ([]dto.CompraResponse, int64, error) {
	compras, total, err := s.repo.List(ctx, estado, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		out = append(out, *compraToResponse(&compras[i]))
	}
	return out, total, nil
}

// Recibir confirms physical reception: in one transaction every line enters
// stock through the ledger and the product's replacement cost is updated to
// the invoiced cost.
func (s *compraService) Recibir(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	if compra.Estado == "recibida" {
		return nil, errors.New("la compra ya fue recibida")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Claim the transition first: the conditional update serializes
		// concurrent receptions, so only one transaction moves stock.
		if err := s.repo.MarcarRecibidaTx(tx, compra.ID, time.Now()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("la compra ya fue recibida")
			}
			return err
		}

		motivo := "Recepción compra"
		if compra.Folio != nil {
			motivo = fmt.Sprintf("Recepción compra folio %s", *compra.Folio)
		}
		for _, item := range compra.Items {
			if _, err := s.stock.AplicarDeltaTx(ctx, tx, item.ProductoID, item.Cantidad, "compra", motivo, &compra.ID); err != nil {
				return err
			}
			if err := s.prodRepo.UpdateCostoTx(tx, item.ProductoID, item.CostoUnitario); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ObtenerPorID(ctx, id)
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	items := make([]dto.ItemCompraResponse, 0, len(c.Items))
	for _, item := range c.Items {
		nombre := ProductoEliminado
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemCompraResponse{
			ProductoID:    item.ProductoID.String(),
			Producto:      nombre,
			Cantidad:      item.Cantidad,
			CostoUnitario: item.CostoUnitario,
			Subtotal:      item.Subtotal,
		})
	}

	var recibidaAt *string
	if c.RecibidaAt != nil {
		s := c.RecibidaAt.Format(time.RFC3339)
		recibidaAt = &s
	}

	return &dto.CompraResponse{
		ID:          c.ID.String(),
		ProveedorID: c.ProveedorID.String(),
		Folio:       c.Folio,
		Neto:        c.Neto,
		IVA:         c.IVA,
		Total:       c.Total,
		Estado:      c.Estado,
		RecibidaAt:  recibidaAt,
		Items:       items,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
