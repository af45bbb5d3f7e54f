package domain

import "time"

// Order statuses. Checkout creates Processing orders; there is no lifecycle
// beyond creation.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusDelivered  = "Delivered"
)

// OrderLine is a priced snapshot of a cart line taken at checkout.
type OrderLine struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is an immutable ledger entry.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	Date          string      `json:"date"`
	Amount        float64     `json:"amount"`
	Status        string      `json:"status"`
	Address       string      `json:"address,omitempty"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Lines         []OrderLine `json:"lines"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Customer aggregates the orders placed under one customer name.
type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	TotalOrders int     `json:"totalOrders"`
	TotalSpent  float64 `json:"totalSpent"`
}

// Settings holds the store-wide display configuration.
type Settings struct {
	StoreName      string `json:"storeName"`
	CurrencySymbol string `json:"currencySymbol"`
}
