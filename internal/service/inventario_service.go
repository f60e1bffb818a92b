package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioService covers the stock operations that are not sales:
// mermas, manual adjustments, the movement history and the reorder alerts.
type InventarioService interface {
	RegistrarMerma(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMermaRequest) (*dto.MermaResponse, error)
	ListarMermas(ctx context.Context, page, limit int) ([]dto.MermaResponse, int64, error)
	AjustarStock(ctx context.Context, productoID uuid.UUID, req dto.AjustarStockRequest) error
	Movimientos(ctx context.Context, filter dto.MovimientoStockFilter) ([]dto.MovimientoStockResponse, int64, error)
	Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	stock     StockService
	mermaRepo repository.MermaRepository
	movRepo   repository.MovimientoStockRepository
	prodRepo  repository.ProductoRepository
}

func NewInventarioService(
	stock StockService,
	mermaRepo repository.MermaRepository,
	movRepo repository.MovimientoStockRepository,
	prodRepo repository.ProductoRepository,
) InventarioService {
	return &inventarioService{
		stock:     stock,
		mermaRepo: mermaRepo,
		movRepo:   movRepo,
		prodRepo:  prodRepo,
	}
}

// RegistrarMerma writes the merma row and the ledger movement in one
// transaction, so the audit trail and the business record cannot diverge.
func (s *inventarioService) RegistrarMerma(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMermaRequest) (*dto.MermaResponse, error) {
	if !req.Cantidad.IsPositive() {
		return nil, errors.New("cantidad debe ser mayor a cero")
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, errors.New("producto_id inválido")
	}

	merma := &model.Merma{
		ID:         uuid.New(),
		ProductoID: productoID,
		UsuarioID:  usuarioID,
		Cantidad:   req.Cantidad,
		Tipo:       req.Tipo,
		Motivo:     req.Motivo,
	}

	var nombre string
	err = runTx(ctx, s.mermaRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.stock.AplicarDeltaTx(ctx, tx, productoID, req.Cantidad.Neg(), "merma", req.Motivo, &merma.ID)
		if err != nil {
			return err
		}
		nombre = p.Nombre
		return s.mermaRepo.CreateTx(tx, merma)
	})
	if err != nil {
		return nil, err
	}

	return &dto.MermaResponse{
		ID:         merma.ID.String(),
		ProductoID: productoID.String(),
		Producto:   nombre,
		Cantidad:   merma.Cantidad,
		Tipo:       merma.Tipo,
		Motivo:     merma.Motivo,
		CreatedAt:  merma.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *inventarioService) ListarMermas(ctx context.Context, page, limit int) ([]dto.MermaResponse, int64, error) {
	mermas, total, err := s.mermaRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.MermaResponse, 0, len(mermas))
	for _, m := range mermas {
		nombre := ProductoEliminado
		if m.Producto != nil {
			nombre = m.Producto.Nombre
		}
		out = append(out, dto.MermaResponse{
			ID:         m.ID.String(),
			ProductoID: m.ProductoID.String(),
			Producto:   nombre,
			Cantidad:   m.Cantidad,
			Tipo:       m.Tipo,
			Motivo:     m.Motivo,
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, total, nil
}

// AjustarStock applies a signed correction after a physical count. The delta
// may be negative; the resulting stock may be negative too, which will show
// up in the alerts until corrected.
func (s *inventarioService) AjustarStock(ctx context.Context, productoID uuid.UUID, req dto.AjustarStockRequest) error {
	if req.Delta.IsZero() {
		return errors.New("delta no puede ser cero")
	}
	return runTx(ctx, s.prodRepo.DB(), func(tx *gorm.DB) error {
		_, err := s.stock.AplicarDeltaTx(ctx, tx, productoID, req.Delta, "ajuste_manual", req.Motivo, nil)
		return err
	})
}

func (s *inventarioService) Movimientos(ctx context.Context, filter dto.MovimientoStockFilter) ([]dto.MovimientoStockResponse, int64, error) {
	movs, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		nombre := ProductoEliminado
		if m.Producto != nil {
			nombre = m.Producto.Nombre
		}
		out = append(out, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Producto:      nombre,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, total, nil
}

// Alertas flags products at or below their reorder threshold. Negative stock
// is reported as its own level: it means sales outran the physical count.
func (s *inventarioService) Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.prodRepo.Alertas(ctx)
	if err != nil {
		return nil, fmt.Errorf("alertas de stock: %w", err)
	}

	out := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		nivel := "bajo"
		if p.Stock.IsNegative() {
			nivel = "negativo"
		}
		out = append(out, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
			Nivel:       nivel,
		})
	}
	return out, nil
}
