package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// precioCacheTTL bounds staleness of the public barcode price lookup.
const precioCacheTTL = 60 * time.Second

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	ConsultarPrecio(ctx context.Context, barcode string) (*dto.PrecioResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Archivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo  repository.ProductoRepository
	stock StockService
	rdb   *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, stock StockService, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, stock: stock, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByBarcode(ctx, req.CodigoBarras); err == nil {
		return nil, fmt.Errorf("ya existe un producto activo con código de barras %s", req.CodigoBarras)
	}

	var proveedorID *uuid.UUID
	if req.ProveedorID != nil {
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, errors.New("proveedor_id inválido")
		}
		proveedorID = &pid
	}

	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}

	p := &model.Producto{
		ID:           uuid.New(),
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Categoria:    req.Categoria,
		PrecioCosto:  req.PrecioCosto,
		PrecioVenta:  req.PrecioVenta,
		StockMinimo:  req.StockMinimo,
		UnidadMedida: unidad,
		ProveedorID:  proveedorID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// Initial stock enters through the ledger so the first movement is audited
	// like any other.
	if req.StockInicial.IsPositive() {
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			_, err := s.stock.AplicarDeltaTx(ctx, tx, p.ID, req.StockInicial, "ajuste_manual", "Stock inicial", nil)
			return err
		})
		if err != nil {
			return nil, err
		}
		p.Stock = req.StockInicial
	}

	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

// ConsultarPrecio serves the price-checker kiosk. Responses are cached in
// Redis for a short TTL; a cache outage degrades to a direct DB read.
func (s *productoService) ConsultarPrecio(ctx context.Context, barcode string) (*dto.PrecioResponse, error) {
	cacheKey := "precio:" + barcode

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.PrecioResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	resp := &dto.PrecioResponse{
		Nombre:       p.Nombre,
		PrecioVenta:  p.PrecioVenta,
		UnidadMedida: p.UnidadMedida,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("precio cache set failed")
			}
		}
	}

	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}

	return &dto.ProductoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	var proveedorID *uuid.UUID
	if req.ProveedorID != nil {
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, errors.New("proveedor_id inválido")
		}
		proveedorID = &pid
	}

	p.Nombre = req.Nombre
	p.Descripcion = req.Descripcion
	p.Categoria = req.Categoria
	p.PrecioCosto = req.PrecioCosto
	p.PrecioVenta = req.PrecioVenta
	p.StockMinimo = req.StockMinimo
	p.ProveedorID = proveedorID

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidarPrecio(ctx, p.CodigoBarras)
	return productoToResponse(p), nil
}

// Archivar hides the product from the catalog without deleting it, so old
// sale lines keep resolving. Sales of archived products are rejected.
func (s *productoService) Archivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	if p.Archivado {
		return errors.New("el producto ya está archivado")
	}
	if err := s.repo.Archivar(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, p.CodigoBarras)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	if !p.Archivado {
		return errors.New("el producto no está archivado")
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) invalidarPrecio(ctx context.Context, barcode string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "precio:"+barcode).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", barcode).Msg("precio cache invalidation failed")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	var proveedorID *string
	if p.ProveedorID != nil {
		s := p.ProveedorID.String()
		proveedorID = &s
	}
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Categoria:    p.Categoria,
		PrecioCosto:  p.PrecioCosto,
		PrecioVenta:  p.PrecioVenta,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		UnidadMedida: p.UnidadMedida,
		ProveedorID:  proveedorID,
		Archivado:    p.Archivado,
	}
}
