package handler

import (
	"net/http"
	"strconv"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/middleware"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta ACID: asigna número de boleta correlativo, descuenta stock y registra el movimiento de caja.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarVenta(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerPorBoleta godoc
// @Summary      Obtener venta por número de boleta
// @Description  Retorna la venta completa con sus items, identificada por su número de boleta correlativo.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        numero path int true "Número de boleta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/boleta/{numero} [get]
func (h *VentasHandler) ObtenerPorBoleta(c *gin.Context) {
	numero, err := strconv.Atoi(c.Param("numero"))
	if err != nil || numero < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Número de boleta inválido"))
		return
	}
	resp, err := h.svc.ObtenerPorBoleta(c.Request.Context(), numero)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Boleta no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista paginada de ventas filtrada por fecha y estado.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha  query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        estado query string false "completada | devolucion_parcial | devolucion_total | all"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.VentaListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
