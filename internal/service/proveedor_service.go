package service

import (
	"context"
	"errors"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		ID:          uuid.New(),
		RazonSocial: req.RazonSocial,
		RUT:         req.RUT,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Direccion:   req.Direccion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		out = append(out, *proveedorToResponse(&proveedores[i]))
	}
	return out, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	p.RazonSocial = req.RazonSocial
	p.RUT = req.RUT
	p.Telefono = req.Telefono
	p.Email = req.Email
	p.Direccion = req.Direccion
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("proveedor no encontrado")
	}
	return s.repo.Desactivar(ctx, id)
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:          p.ID.String(),
		RazonSocial: p.RazonSocial,
		RUT:         p.RUT,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Direccion:   p.Direccion,
		Activo:      p.Activo,
	}
}
