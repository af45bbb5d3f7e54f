package handler

import (
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// authMessage is the envelope the auth routes use on failure.
type authMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Token       string `json:"token"`
	Role        string `json:"role"`
	RedirectURL string `json:"redirectUrl"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// --- Catalog ---

// productRequest leaves price as a pointer so a missing price can be told
// apart from a free product.
type productRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
}

type productPatchRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

type categoryResponse struct {
	Category string `json:"category"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// --- Cart ---

type addItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"  validate:"omitempty,gt=0,lte=10000"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=10000"`
}

type cartResponse struct {
	*ports.CartView
	Changed *bool `json:"changed,omitempty"`
}

type checkoutRequest struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	PaymentMethod string  `json:"paymentMethod"`
	Total         float64 `json:"total"`
}

type checkoutResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// --- Orders ---

type orderLineRequest struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type orderRequest struct {
	CustomerName string             `json:"customerName"`
	Date         string             `json:"date"`
	Amount       float64            `json:"amount"`
	Status       string             `json:"status"`
	Lines        []orderLineRequest `json:"lines"`
}

// --- Settings ---

type settingsRequest struct {
	StoreName      *string `json:"storeName"`
	CurrencySymbol *string `json:"currencySymbol"`
}
