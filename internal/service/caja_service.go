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
	"github.com/shopspring/decimal"
)

// CajaService manages cash register sessions: opening, manual movements,
// the blind-count close (arqueo) and the session report.
type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error
	Arqueo(ctx context.Context, req dto.ArqueoRequest) (*dto.ArqueoResponse, error)
	ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error) {
	// One open session per punto de venta
	if existing, err := s.repo.FindSesionAbiertaPorPDV(ctx, req.PuntoDeVenta); err == nil && existing != nil {
		return nil, errors.New("ya existe una caja abierta en este punto de venta")
	}

	sesion := &model.SesionCaja{
		ID:           uuid.New(),
		PuntoDeVenta: req.PuntoDeVenta,
		UsuarioID:    usuarioID,
		MontoInicial: req.MontoInicial,
		Estado:       "abierta",
		OpenedAt:     time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	return s.buildReporte(ctx, sesion)
}

// RegistrarMovimiento appends a manual ingreso/egreso. Movements are
// immutable, there is no update or delete path.
func (s *cajaService) RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != "abierta" {
		return errors.New("la sesión de caja está cerrada")
	}
	if !req.Monto.IsPositive() {
		return errors.New("monto debe ser mayor a cero")
	}

	monto := req.Monto
	if req.Tipo == "egreso_manual" {
		monto = req.Monto.Neg()
	}
	metodo := req.MetodoPago
	mov := &model.MovimientoCaja{
		SesionCajaID: sesionID,
		Tipo:         req.Tipo,
		MetodoPago:   &metodo,
		Monto:        monto,
		Descripcion:  req.Descripcion,
	}
	return s.repo.CreateMovimiento(ctx, mov)
}

// Arqueo closes the session with a blind count: the cashier declares what
// was counted before seeing the expected totals, then the desvío is
// computed, classified and persisted.
func (s *cajaService) Arqueo(ctx context.Context, req dto.ArqueoRequest) (*dto.ArqueoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}

	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != "abierta" {
		return nil, errors.New("la sesión ya está cerrada")
	}

	sums, err := s.repo.SumMovimientosByMetodo(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	esperado := montosEsperados(sesion.MontoInicial, sums)

	declarado := req.Declaracion
	declarado.Total = declarado.Efectivo.Add(declarado.Debito).Add(declarado.Credito).Add(declarado.Transferencia)

	desvioMonto := declarado.Total.Sub(esperado.Total)
	var desvioPct decimal.Decimal
	if !esperado.Total.IsZero() {
		desvioPct = desvioMonto.Div(esperado.Total).Mul(decimal.NewFromInt(100)).Round(2)
	}

	clasificacion := clasificarDesvio(desvioPct)

	// A critical desvío cannot close silently
	if clasificacion == "critico" && (req.Observaciones == nil || *req.Observaciones == "") {
		return nil, errors.New("desvío crítico: se requieren observaciones del supervisor")
	}

	now := time.Now()
	montoEsperado := esperado.Total
	montoDeclarado := declarado.Total
	sesion.MontoEsperado = &montoEsperado
	sesion.MontoDeclarado = &montoDeclarado
	sesion.Desvio = &desvioMonto
	sesion.DesvioPct = &desvioPct
	sesion.Estado = "cerrada"
	sesion.ClasificacionDesvio = &clasificacion
	sesion.Observaciones = req.Observaciones
	sesion.ClosedAt = &now

	if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	return &dto.ArqueoResponse{
		SesionCajaID:   sesionID.String(),
		MontoEsperado:  esperado,
		MontoDeclarado: declarado,
		Desvio: dto.DesvioResponse{
			Monto:         desvioMonto,
			Porcentaje:    desvioPct,
			Clasificacion: clasificacion,
		},
		Estado: "cerrada",
	}, nil
}

func (s *cajaService) ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	return s.buildReporte(ctx, sesion)
}

// clasificarDesvio: normal |desvío| <= 1%, advertencia <= 5%, critico > 5%
func clasificarDesvio(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}

func montosEsperados(montoInicial decimal.Decimal, sums map[string]decimal.Decimal) dto.MontosPorMetodo {
	esperado := dto.MontosPorMetodo{
		Efectivo:      montoInicial.Add(sums["efectivo"]),
		Debito:        sums["debito"],
		Credito:       sums["credito"],
		Transferencia: sums["transferencia"],
	}
	esperado.Total = esperado.Efectivo.Add(esperado.Debito).Add(esperado.Credito).Add(esperado.Transferencia)
	return esperado
}

func (s *cajaService) buildReporte(ctx context.Context, sesion *model.SesionCaja) (*dto.ReporteCajaResponse, error) {
	sums, err := s.repo.SumMovimientosByMetodo(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}

	reporte := &dto.ReporteCajaResponse{
		SesionCajaID:  sesion.ID.String(),
		PuntoDeVenta:  sesion.PuntoDeVenta,
		MontoInicial:  sesion.MontoInicial,
		MontoEsperado: montosEsperados(sesion.MontoInicial, sums),
		Estado:        sesion.Estado,
		Observaciones: sesion.Observaciones,
		OpenedAt:      sesion.OpenedAt.Format(time.RFC3339),
	}

	if sesion.MontoDeclarado != nil {
		reporte.MontoDeclarado = &dto.MontosPorMetodo{Total: *sesion.MontoDeclarado}
	}

	if sesion.Desvio != nil && sesion.DesvioPct != nil && sesion.ClasificacionDesvio != nil {
		reporte.Desvio = &dto.DesvioResponse{
			Monto:         *sesion.Desvio,
			Porcentaje:    *sesion.DesvioPct,
			Clasificacion: *sesion.ClasificacionDesvio,
		}
	}

	if sesion.ClosedAt != nil {
		t := sesion.ClosedAt.Format(time.RFC3339)
		reporte.ClosedAt = &t
	}

	return reporte, nil
}
