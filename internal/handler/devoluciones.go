package handler

import (
	"net/http"
	"strings"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type DevolucionesHandler struct{ svc service.DevolucionService }

func NewDevolucionesHandler(svc service.DevolucionService) *DevolucionesHandler {
	return &DevolucionesHandler{svc: svc}
}

// Procesar godoc
// @Summary      Procesar devolución
// @Description  Devuelve items de una venta: restaura stock, descuenta los items devueltos, recalcula total y estado, y registra el movimiento de caja inverso.
// @Tags         devoluciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.DevolucionRequest true "Items a devolver"
// @Success      200  {object} dto.DevolucionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/devoluciones [post]
func (h *DevolucionesHandler) Procesar(c *gin.Context) {
	var req dto.DevolucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Procesar(c.Request.Context(), req)
	if err != nil {
		if strings.Contains(err.Error(), "no encontrada") {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
