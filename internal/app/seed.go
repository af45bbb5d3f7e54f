package app

import (
	"github.com/storefront/storefront-api/internal/core/domain"
)

// Demo data loaded when SEED_DATA is on.
var (
	seedProducts = []domain.Product{
		{
			ID:          1,
			Name:        "T-Shirt",
			Price:       19.99,
			Category:    "Clothing",
			Description: "Comfortable cotton t-shirt",
			Image:       "https://example.com/tshirt.jpg",
		},
	}

	seedCategories = []string{"Clothing", "Footwear", "Accessories"}

	seedOrders = []domain.Order{
		{ID: "ORD-001", CustomerName: "John Brown", Date: "2025-05-10", Amount: 149.99, Status: domain.OrderStatusDelivered},
	}

	seedCustomers = []domain.Customer{
		{ID: 1, Name: "Lazaro, Sherlita", Email: "sherlita@example.com", TotalOrders: 5, TotalSpent: 789.45},
		{ID: 2, Name: "Owen, Genon", Email: "OwenGenon@example.com", TotalOrders: 3, TotalSpent: 456.20},
	}
)

type seedData struct {
	products   []domain.Product
	categories []string
	orders     []domain.Order
	customers  []domain.Customer
}

func seeds(enabled bool) seedData {
	if !enabled {
		return seedData{}
	}
	return seedData{
		products:   seedProducts,
		categories: seedCategories,
		orders:     seedOrders,
		customers:  seedCustomers,
	}
}
