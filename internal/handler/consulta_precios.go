package handler

import (
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler serves the public price-checker endpoint.
// No authentication required and no side effects.
type ConsultaPreciosHandler struct {
	svc service.ProductoService
}

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// GetPrecioPorBarcode godoc
// @Summary Consulta de precio por código de barras (sin autenticación)
// @Tags precio
// @Produce json
// @Param barcode path string true "Código de barras"
// @Success 200 {object} dto.PrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{barcode} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorBarcode(c *gin.Context) {
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
