package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/ports"
)

type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /settings.
//
// @Summary      Store settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  ports.SettingsView
// @Router       /settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	view, err := h.service.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Update handles PUT /settings.
//
// @Summary      Update store settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      settingsRequest  true  "Fields to change"
// @Success      200   {object}  ports.SettingsView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /settings [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.service.Update(c.Request().Context(), sessionToken(c), toSettingsPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
