package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// AuthHandler serves the auth routes. Unlike the rest of the API it answers
// failures with a {success, message} envelope.
type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log}
}

func authFailure(c echo.Context, status int, msg string) error {
	return c.JSON(status, authMessage{Success: false, Message: msg})
}

// Register creates a new user account with the user role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  authMessage
// @Failure      409   {object}  authMessage
// @Failure      500   {object}  authMessage
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return authFailure(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return authFailure(c, http.StatusBadRequest, "Missing required fields: "+validationDetail(err))
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			return authFailure(c, http.StatusConflict, "User already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return authFailure(c, http.StatusBadRequest, "Missing required fields")
		}
		h.log.Error().Err(err).Msg("register failed")
		return authFailure(c, http.StatusInternalServerError, "Server error during registration")
	}

	return c.JSON(http.StatusCreated, registerResponse{ID: user.ID, Username: user.Username})
}

// Login authenticates a user, opens a session and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  authMessage
// @Failure      401   {object}  authMessage
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  authMessage
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return authFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	res, err := h.authService.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return authFailure(c, http.StatusBadRequest, "Missing username or password")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return authFailure(c, http.StatusUnauthorized, "Invalid username or password")
		}
		h.log.Error().Err(err).Msg("login failed")
		return authFailure(c, http.StatusInternalServerError, "Server error during login")
	}

	setSessionCookie(c, h.cookies, res.Token, res.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{
		Success:     true,
		Message:     "Login successful",
		Token:       res.Token,
		Role:        string(res.Role),
		RedirectURL: res.RedirectURL,
	})
}

// Logout destroys the caller's session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Failure      500   {object}  authMessage
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := sessionToken(c); token != "" {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			h.log.Error().Err(err).Msg("logout failed")
			return authFailure(c, http.StatusInternalServerError, "Server error during logout")
		}
	}
	clearSessionCookie(c, h.cookies)
	return c.NoContent(http.StatusNoContent)
}

func validationDetail(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return strings.Join(ve.Messages, "; ")
	}
	return err.Error()
}
