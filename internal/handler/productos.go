package handler

import (
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Datos del producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
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
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        nombre    query string false "Filtro por nombre (ILIKE)"
// @Param        barcode   query string false "Filtro por código de barras"
// @Param        categoria query string false "Filtro por categoría"
// @Param        archivado query string false "true | all (default: solo activos)"
// @Success      200 {object} dto.ProductoListResponse
// @Router       /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.ProductoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [get]
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
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

// Actualizar godoc
// @Summary      Actualizar producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "UUID del producto"
// @Param        body body dto.ActualizarProductoRequest true "Datos a actualizar"
// @Success      200  {object} dto.ProductoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productos/{id} [put]
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Archivar godoc
// @Summary      Archivar producto
// @Description  Oculta el producto del catálogo sin borrarlo; las ventas históricas siguen resolviendo su nombre.
// @Tags         productos
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [delete]
func (h *ProductosHandler) Archivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Archivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivar godoc
// @Summary      Reactivar producto archivado
// @Tags         productos
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id}/reactivar [post]
func (h *ProductosHandler) Reactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
