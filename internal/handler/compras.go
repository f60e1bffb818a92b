package handler

import (
	"net/http"
	"strconv"
	"strings"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear compra en borrador
// @Description  Registra una factura de proveedor. El stock no se mueve hasta recibirla.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCompraRequest true "Detalle de la compra"
// @Success      201  {object} dto.CompraResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/compras [post]
func (h *ComprasHandler) Crear(c *gin.Context) {
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar compras
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "borrador | recibida | all"
// @Success      200 {array} dto.CompraResponse
// @Router       /v1/compras [get]
func (h *ComprasHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	compras, total, err := h.svc.Listar(c.Request.Context(), c.Query("estado"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar compras"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": compras, "total": total, "page": page, "limit": limit})
}

// ObtenerPorID godoc
// @Summary      Obtener compra por ID
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la compra"
// @Success      200 {object} dto.CompraResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/compras/{id} [get]
func (h *ComprasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recibir godoc
// @Summary      Recibir compra
// @Description  Confirma la recepción física: ingresa stock por el ledger y actualiza el costo de reposición de cada producto. Transición irreversible.
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la compra"
// @Success      200 {object} dto.CompraResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/compras/{id}/recibir [post]
func (h *ComprasHandler) Recibir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Recibir(c.Request.Context(), id)
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
