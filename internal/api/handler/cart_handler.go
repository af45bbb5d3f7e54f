package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// CartHandler serves the cart and checkout routes. Carts are anonymous and
// keyed by the X-Cart-ID header or cart_id cookie.
type CartHandler struct {
	service ports.CartService
	cookies CookieConfig
}

func NewCartHandler(service ports.CartService, cookies CookieConfig) *CartHandler {
	return &CartHandler{service: service, cookies: cookies}
}

func lineProductID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: product id must be a positive integer", domain.ErrInvalidInput)
	}
	return id, nil
}

// Get handles GET /cart.
//
// @Summary      Get the cart priced against the current catalog
// @Tags         cart
// @Produce      json
// @Param        X-Cart-ID  header    string  false  "Cart id"
// @Success      200        {object}  ports.CartView
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	view, err := h.service.Get(c.Request().Context(), cartID(c, h.cookies))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// AddItem handles POST /cart/items. Quantity defaults to 1 and merges into
// an existing line for the same product.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Cart-ID  header    string          false  "Cart id"
// @Param        body       body      addItemRequest  true   "Item"
// @Success      200        {object}  ports.CartView
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	view, err := h.service.AddItem(c.Request().Context(), cartID(c, h.cookies), req.ProductID, qty)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// SetQuantity handles PUT /cart/items/:productId. A quantity of zero or less
// removes the line.
//
// @Summary      Set the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Cart-ID  header    string              false  "Cart id"
// @Param        productId  path      int                 true   "Product id"
// @Param        body       body      setQuantityRequest  true   "Quantity"
// @Success      200        {object}  cartResponse
// @Failure      400        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) SetQuantity(c echo.Context) error {
	id, err := lineProductID(c)
	if err != nil {
		return err
	}
	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, changed, err := h.service.SetQuantity(c.Request().Context(), cartID(c, h.cookies), id, *req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{CartView: view, Changed: &changed})
}

// RemoveItem handles DELETE /cart/items/:productId.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        X-Cart-ID  header    string  false  "Cart id"
// @Param        productId  path      int     true   "Product id"
// @Success      200        {object}  ports.CartView
// @Failure      409        {object}  errorResponse
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := lineProductID(c)
	if err != nil {
		return err
	}
	view, err := h.service.RemoveItem(c.Request().Context(), cartID(c, h.cookies), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Clear handles DELETE /cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Param        X-Cart-ID  header  string  false  "Cart id"
// @Success      204
// @Failure      409  {object}  errorResponse
// @Router       /cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.service.Clear(c.Request().Context(), cartID(c, h.cookies)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout handles POST /checkout and POST /cart/checkout.
//
// @Summary      Check out the cart with a simulated payment
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Cart-ID  header    string           false  "Cart id"
// @Param        body       body      checkoutRequest  true   "Shipping details and expected total"
// @Success      200        {object}  checkoutResponse
// @Failure      400        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.service.Checkout(c.Request().Context(), cartID(c, h.cookies), toShippingInfo(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkoutResponse{Success: true, Message: res.Message, Order: res.Order})
}
