package handler

import (
	"math"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// --- Request → Service input ---

// toProductInput maps a missing price to NaN, which the catalog rejects
// after the role check.
func toProductInput(req productRequest) ports.ProductInput {
	price := math.NaN()
	if req.Price != nil {
		price = *req.Price
	}
	return ports.ProductInput{
		Name:        req.Name,
		Price:       price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	}
}

func toProductPatch(req productPatchRequest) domain.ProductPatch {
	return domain.ProductPatch{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	}
}

func toShippingInfo(req checkoutRequest) ports.ShippingInfo {
	return ports.ShippingInfo{
		Name:          req.Name,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Total:         req.Total,
	}
}

func toOrderInput(req orderRequest) ports.OrderInput {
	lines := make([]domain.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return ports.OrderInput{
		CustomerName: req.CustomerName,
		Date:         req.Date,
		Amount:       req.Amount,
		Status:       req.Status,
		Lines:        lines,
	}
}

func toSettingsPatch(req settingsRequest) ports.SettingsPatch {
	return ports.SettingsPatch{
		StoreName:      req.StoreName,
		CurrencySymbol: req.CurrencySymbol,
	}
}
