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

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarMerma godoc
// @Summary      Registrar merma o consumo interno
// @Description  Descuenta stock por quiebre, vencimiento o consumo interno, dejando rastro en el ledger de movimientos.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarMermaRequest true "Detalle de la merma"
// @Success      201  {object} dto.MermaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventario/mermas [post]
func (h *InventarioHandler) RegistrarMerma(c *gin.Context) {
	var req dto.RegistrarMermaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarMerma(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarMermas godoc
// @Summary      Listar mermas
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200 {array} dto.MermaResponse
// @Router       /v1/inventario/mermas [get]
func (h *InventarioHandler) ListarMermas(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	mermas, total, err := h.svc.ListarMermas(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar mermas"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mermas, "total": total, "page": page, "limit": limit})
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica una corrección con signo tras un conteo físico. El stock resultante puede quedar negativo y aparecerá en alertas.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del producto"
// @Param        body body dto.AjustarStockRequest true "Delta y motivo"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventario/productos/{id}/ajuste [post]
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AjustarStock(c.Request.Context(), id, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Movimientos godoc
// @Summary      Historial de movimientos de stock
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string false "Filtro por producto"
// @Param        tipo        query string false "venta | devolucion | compra | merma | ajuste_manual"
// @Success      200 {array} dto.MovimientoStockResponse
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) Movimientos(c *gin.Context) {
	var filter dto.MovimientoStockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	movs, total, err := h.svc.Movimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movs, "total": total, "page": filter.Page, "limit": filter.Limit})
}

// Alertas godoc
// @Summary      Alertas de stock bajo
// @Description  Productos en o bajo su stock mínimo. El stock negativo se reporta como nivel propio.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlertaStockResponse
// @Router       /v1/inventario/alertas [get]
func (h *InventarioHandler) Alertas(c *gin.Context) {
	alertas, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener alertas"))
		return
	}
	c.JSON(http.StatusOK, alertas)
}
