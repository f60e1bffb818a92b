package handler

import (
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary      Abrir sesión de caja
// @Description  Abre una sesión con monto inicial declarado. Solo una sesión abierta por punto de venta.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirCajaRequest true "Punto de venta y monto inicial"
// @Success      201  {object} dto.ReporteCajaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarMovimiento godoc
// @Summary      Registrar ingreso/egreso manual
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MovimientoManualRequest true "Movimiento manual"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/caja/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RegistrarMovimiento(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Arqueo godoc
// @Summary      Cierre de caja con arqueo ciego
// @Description  El cajero declara el conteo sin ver los montos esperados; el desvío se calcula, clasifica y persiste al cerrar.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ArqueoRequest true "Declaración del conteo"
// @Success      200  {object} dto.ArqueoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/caja/arqueo [post]
func (h *CajaHandler) Arqueo(c *gin.Context) {
	var req dto.ArqueoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Arqueo(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reporte godoc
// @Summary      Reporte de sesión de caja
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sesión"
// @Success      200 {object} dto.ReporteCajaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/{id}/reporte [get]
func (h *CajaHandler) Reporte(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
