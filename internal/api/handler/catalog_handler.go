package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// CatalogHandler serves products and categories. Mutations pass the
// caller's token to the service, which enforces the admin role.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func productID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: product id must be a positive integer", domain.ErrInvalidInput)
	}
	return id, nil
}

// ListProducts handles GET /catalog/products.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.Product
// @Router       /catalog/products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /catalog/products/:id.
//
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /catalog/products/{id} [get]
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	p, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProduct handles POST /catalog/products.
//
// @Summary      Create a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /catalog/products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	p, err := h.service.CreateProduct(c.Request().Context(), sessionToken(c), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct handles PUT /catalog/products/:id.
//
// @Summary      Update a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Product id"
// @Param        body  body      productPatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /catalog/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	var req productPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	p, err := h.service.UpdateProduct(c.Request().Context(), sessionToken(c), id, toProductPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProduct handles DELETE /catalog/products/:id.
//
// @Summary      Delete a product
// @Tags         catalog
// @Security     BearerAuth
// @Param        id   path  int  true  "Product id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /catalog/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.Request().Context(), sessionToken(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCategories handles GET /catalog/categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	names, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: names})
}

// AddCategory handles POST /catalog/categories.
//
// @Summary      Add a category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /catalog/categories [post]
func (h *CatalogHandler) AddCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.service.AddCategory(c.Request().Context(), sessionToken(c), req.Category); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, categoryResponse{Category: req.Category})
}

// RemoveCategory handles DELETE /catalog/categories/:name and
// DELETE /catalog/categories?category=<name>.
//
// @Summary      Remove a category
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Category name"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /catalog/categories/{name} [delete]
func (h *CatalogHandler) RemoveCategory(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		name = c.QueryParam("category")
	}
	if err := h.service.RemoveCategory(c.Request().Context(), sessionToken(c), name); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Category deleted"})
}
