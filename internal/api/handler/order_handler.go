package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/ports"
)

// OrderHandler serves the admin views over the order ledger: orders,
// customers and analytics. Reads are gated by the router.
type OrderHandler struct {
	orders    ports.OrderService
	customers ports.CustomerService
	analytics ports.AnalyticsService
}

func NewOrderHandler(orders ports.OrderService, customers ports.CustomerService, analytics ports.AnalyticsService) *OrderHandler {
	return &OrderHandler{orders: orders, customers: customers, analytics: analytics}
}

// List handles GET /orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id (e.g. ORD-001)"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	o, err := h.orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

// Create handles POST /orders.
//
// @Summary      Append an order to the ledger
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      orderRequest  true  "Order"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	o, err := h.orders.Create(c.Request().Context(), sessionToken(c), toOrderInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, o)
}

// Customers handles GET /customers.
//
// @Summary      List customers with order totals
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Customer
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /customers [get]
func (h *OrderHandler) Customers(c echo.Context) error {
	customers, err := h.customers.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Analytics handles GET /analytics.
//
// @Summary      Sales summary
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AnalyticsSummary
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /analytics [get]
func (h *OrderHandler) Analytics(c echo.Context) error {
	summary, err := h.analytics.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
